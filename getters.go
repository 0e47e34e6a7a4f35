package gluniform

import (
	"fmt"

	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
)

// Typed getters read the first array element of float, int and uint
// variables. Reading a value of the wrong shape returns an error wrapping
// [ErrWrongShape]. Like [Read], composition getters that fail return the
// identity value together with the error.

func readShape[T Number](v *Variable, want Shape) (Mat[T], error) {
	if v.shape != want {
		return Identity[T](want.Rows(), want.Cols()), fmt.Errorf("%w: %s is %s, not %s", ErrWrongShape, v.name, v.shape, want)
	}
	return Read[T](v, 0)
}

// Float reads a float scalar.
func (v *Variable) Float() (float32, error) {
	m, err := readShape[float32](v, ShapeScalar)
	return m.Data[0], err
}

// Int reads an int scalar.
func (v *Variable) Int() (int32, error) {
	m, err := readShape[int32](v, ShapeScalar)
	return m.Data[0], err
}

// Uint reads a uint scalar.
func (v *Variable) Uint() (uint32, error) {
	m, err := readShape[uint32](v, ShapeScalar)
	return m.Data[0], err
}

// Vec2 reads a vec2.
func (v *Variable) Vec2() (ms2.Vec, error) {
	m, err := readShape[float32](v, ShapeVec2)
	return ms2.Vec{X: m.Data[0], Y: m.Data[1]}, err
}

// Vec3 reads a vec3.
func (v *Variable) Vec3() (ms3.Vec, error) {
	m, err := readShape[float32](v, ShapeVec3)
	return ms3.Vec{X: m.Data[0], Y: m.Data[1], Z: m.Data[2]}, err
}

// Vec4 reads a vec4.
func (v *Variable) Vec4() ([4]float32, error) {
	m, err := readShape[float32](v, ShapeVec4)
	return [4]float32(m.Data[:4]), err
}

// Mat2 reads a mat2.
func (v *Variable) Mat2() (ms2.Mat2, error) {
	m, err := readShape[float32](v, ShapeMat2)
	return ms2.NewMat2(m.Values()), err
}

// Mat3 reads a mat3.
func (v *Variable) Mat3() (ms3.Mat3, error) {
	m, err := readShape[float32](v, ShapeMat3)
	return ms3.NewMat3(m.Values()), err
}

// Mat4 reads a mat4.
func (v *Variable) Mat4() (ms3.Mat4, error) {
	m, err := readShape[float32](v, ShapeMat4)
	return ms3.NewMat4(m.Values()), err
}
