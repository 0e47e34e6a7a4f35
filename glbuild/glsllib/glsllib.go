package glsllib

import (
	_ "embed"

	"github.com/soypat/gluniform/glbuild"
)

//go:embed palette.glsl
var paletteSrc []byte

// Palette is a cosine color palette useful to map an animated float uniform to a color:
//
//	vec3 gluPalette(float t, vec3 a, vec3 b, vec3 c, vec3 d)
func Palette() glbuild.ShaderFunction {
	obj, _ := glbuild.MakeShaderFunction(paletteSrc)
	return obj
}

//go:embed rotate2D.glsl
var rotate2DSrc []byte

// Rotate2D rotates a point counter-clockwise by an angle in radians:
//
//	vec2 gluRotate2D(vec2 p, float angle)
func Rotate2D() glbuild.ShaderFunction {
	obj, _ := glbuild.MakeShaderFunction(rotate2DSrc)
	return obj
}

//go:embed hash.glsl
var hashSrc []byte

// Hash maps a uint, usually a $Time driven seed, to a pseudo random float in [0,1]:
//
//	float gluHash(uint x)
func Hash() glbuild.ShaderFunction {
	obj, _ := glbuild.MakeShaderFunction(hashSrc)
	return obj
}

// All returns every function of the library.
func All() []glbuild.ShaderFunction {
	return []glbuild.ShaderFunction{Palette(), Rotate2D(), Hash()}
}
