package gluniformaux

import (
	"image/color"

	math "github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms1"
	"github.com/soypat/gluniform"
)

// Gradient logic adapted from Esme Lamb's (@dedelala) color manipulation
// work presented at Gophercon AU 2024.
// https://github.com/dedelala/disco/tree/main/color

var (
	red   = color.RGBA{R: 255, A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// CellColor returns the color a cell is marked with given its error:
// red for invalid cells and white otherwise.
func CellColor(err error) color.Color {
	if err != nil {
		return red
	}
	return white
}

// ValueGradient returns a conversion from scalar values to colors that
// interpolates in HSV space from c0 at lo to c1 at hi. Values outside the
// range are clamped and NaN is red.
func ValueGradient(lo, hi float32, c0, c1 color.Color) func(float32) color.Color {
	h0, s0, v0 := colorToHSV(c0)
	h1, s1, v1 := colorToHSV(c1)
	inv := 1 / (hi - lo)
	return func(x float32) color.Color {
		if math.IsNaN(x) {
			return red
		}
		t := (x - lo) * inv
		if t <= 0 || math.IsNaN(t) {
			return c0
		} else if t >= 1 {
			return c1
		}
		c := rgbToC(hsvToRGB(interpHSV(h0, s0, v0, h1, s1, v1, t)))
		return color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 255}
	}
}

// ValueColor previews the first element of v. Float vec3 and vec4 values are
// shown as the RGB color they encode, other values are converted by grad
// using their first component. Variables that can not be read are red.
func ValueColor(v *gluniform.Variable, grad func(float32) color.Color) color.Color {
	vals, err := v.Floats(nil, 0)
	if err != nil || len(vals) == 0 {
		return red
	}
	shape := v.Shape()
	if v.Elem() == gluniform.ElemFloat && (shape == gluniform.ShapeVec3 || shape == gluniform.ShapeVec4) {
		c := rgbToC(float32(vals[0]), float32(vals[1]), float32(vals[2]))
		return color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 255}
	}
	return grad(float32(vals[0]))
}

func interpHSV(h0, s0, v0, h1, s1, v1, t float32) (h, s, v float32) {
	switch {
	case h1-h0 > 0.5:
		h0 += 1.0
	case h1-h0 < -0.5:
		h1 += 1.0
	}
	h = ms1.Interp(h0, h1, t)
	if h > 1 {
		h -= 1
	}
	s = ms1.Interp(s0, s1, t)
	v = ms1.Interp(v0, v1, t)
	return h, s, v
}

func colorToHSV(c color.Color) (h, s, v float32) {
	r0, g0, b0, _ := c.RGBA()
	return rgbToHSV(float32(r0>>8)/math.MaxUint8, float32(g0>>8)/math.MaxUint8, float32(b0>>8)/math.MaxUint8)
}

// rgbToC packs r, g and b on the range 0.0 to 1.0 into the least
// significant 24 bits of c. Inputs are clamped.
func rgbToC(r, g, b float32) (c uint32) {
	return uint32(ms1.Clamp(r, 0, 1)*math.MaxUint8)<<16 |
		uint32(ms1.Clamp(g, 0, 1)*math.MaxUint8)<<8 |
		uint32(ms1.Clamp(b, 0, 1)*math.MaxUint8)
}

// hsvToRGB converts hue, saturation and brightness values on the range of 0.0
// to 1.0 to RGB values on the same range.
func hsvToRGB(h, s, v float32) (r, g, b float32) {
	var (
		c = s * v
		x = c * (1 - math.Abs(math.Mod(h*6, 2)-1))
		m = v - c
	)
	switch {
	case h >= 0 && h <= 1.0/6:
		r, g, b = c, x, 0
	case h > 1.0/6 && h <= 2.0/6:
		r, g, b = x, c, 0
	case h > 2.0/6 && h <= 3.0/6:
		r, g, b = 0, c, x
	case h > 3.0/6 && h <= 4.0/6:
		r, g, b = 0, x, c
	case h > 4.0/6 && h <= 5.0/6:
		r, g, b = x, 0, c
	case h > 5.0/6 && h <= 1.0:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}

func rgbToHSV(r, g, b float32) (h, s, v float32) {
	var (
		xmax = max(r, g, b)
		xmin = min(r, g, b)
		c    = xmax - xmin
	)
	v = xmax
	switch {
	case c == 0:
		h = 0
	case v == r:
		h = (g - b) / (c * 6)
	case v == g:
		h = 1.0/3 + (b-r)/(c*6)
	case v == b:
		h = 2.0/3 + (r-g)/(c*6)
	}
	if h < 0 {
		h += 1
	}
	if xmax > 0 {
		s = c / xmax
	}
	return h, s, v
}
