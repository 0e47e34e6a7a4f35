package gluniform

import (
	"fmt"
	"strconv"
)

// Elem is the scalar element type every cell of a variable is evaluated in.
type Elem uint8

const (
	ElemFloat Elem = iota // float32
	ElemInt               // int32
	ElemUint              // uint32
)

func (e Elem) String() string {
	switch e {
	case ElemFloat:
		return "float"
	case ElemInt:
		return "int"
	case ElemUint:
		return "uint"
	}
	return "Elem(" + strconv.Itoa(int(e)) + ")"
}

// elemOf returns the element type T is evaluated in.
func elemOf[T Number]() Elem {
	var z T
	half := 0.5
	switch {
	case T(half) != 0:
		return ElemFloat
	case z-1 > 0:
		return ElemUint
	}
	return ElemInt
}

// vecPrefix is the GLSL vector type prefix of the element type.
func (e Elem) vecPrefix() string {
	switch e {
	case ElemInt:
		return "i"
	case ElemUint:
		return "u"
	}
	return ""
}

// Shape is the arity of a variable, a scalar, column vector or matrix.
// Matrix shapes follow GLSL naming: ShapeMat2x3 has 2 columns and 3 rows.
type Shape uint8

const (
	ShapeScalar Shape = iota
	ShapeVec2
	ShapeVec3
	ShapeVec4
	ShapeMat2
	ShapeMat3
	ShapeMat4
	ShapeMat2x3
	ShapeMat2x4
	ShapeMat3x2
	ShapeMat3x4
	ShapeMat4x2
	ShapeMat4x3
	numShapes
)

var shapeDims = [numShapes]struct {
	rows, cols uint8
	name       string
}{
	ShapeScalar: {1, 1, ""},
	ShapeVec2:   {2, 1, "vec2"},
	ShapeVec3:   {3, 1, "vec3"},
	ShapeVec4:   {4, 1, "vec4"},
	ShapeMat2:   {2, 2, "mat2"},
	ShapeMat3:   {3, 3, "mat3"},
	ShapeMat4:   {4, 4, "mat4"},
	ShapeMat2x3: {3, 2, "mat2x3"},
	ShapeMat2x4: {4, 2, "mat2x4"},
	ShapeMat3x2: {2, 3, "mat3x2"},
	ShapeMat3x4: {4, 3, "mat3x4"},
	ShapeMat4x2: {2, 4, "mat4x2"},
	ShapeMat4x3: {3, 4, "mat4x3"},
}

// Valid reports whether s is a known shape.
func (s Shape) Valid() bool { return s < numShapes }

// Rows returns the amount of rows of the shape. Vectors are column vectors.
func (s Shape) Rows() int { return int(shapeDims[s].rows) }

// Cols returns the amount of columns of the shape.
func (s Shape) Cols() int { return int(shapeDims[s].cols) }

// Size returns the amount of cells in one value of the shape.
func (s Shape) Size() int { return s.Rows() * s.Cols() }

// IsMatrix reports whether the shape has more than one column.
func (s Shape) IsMatrix() bool { return s.Cols() > 1 }

func (s Shape) String() string {
	if !s.Valid() {
		return "Shape(" + strconv.Itoa(int(s)) + ")"
	}
	if s == ShapeScalar {
		return "scalar"
	}
	return shapeDims[s].name
}

// ShapeOf returns the shape with the given dimensions.
func ShapeOf(rows, cols int) (Shape, bool) {
	for s := Shape(0); s < numShapes; s++ {
		if s.Rows() == rows && s.Cols() == cols {
			return s, true
		}
	}
	return 0, false
}

// GLSLType returns the GLSL type name of a value with element type e and shape s,
// such as "float", "ivec3" or "mat4x3". GLSL has no integer matrices.
func GLSLType(e Elem, s Shape) (string, error) {
	if !s.Valid() || e > ElemUint {
		return "", fmt.Errorf("invalid element type or shape %s %s", e, s)
	}
	if s == ShapeScalar {
		return e.String(), nil
	}
	if s.IsMatrix() {
		if e != ElemFloat {
			return "", fmt.Errorf("no GLSL %s matrix type", e)
		}
		return shapeDims[s].name, nil
	}
	return e.vecPrefix() + shapeDims[s].name, nil
}

// ParseGLSLType is the inverse of [GLSLType]. Square matrices are also
// accepted in their explicit form, i.e. "mat3x3".
func ParseGLSLType(typename string) (Elem, Shape, error) {
	switch typename {
	case "float":
		return ElemFloat, ShapeScalar, nil
	case "int":
		return ElemInt, ShapeScalar, nil
	case "uint":
		return ElemUint, ShapeScalar, nil
	case "mat2x2":
		return ElemFloat, ShapeMat2, nil
	case "mat3x3":
		return ElemFloat, ShapeMat3, nil
	case "mat4x4":
		return ElemFloat, ShapeMat4, nil
	}
	elem := ElemFloat
	name := typename
	if len(name) > 0 && (name[0] == 'i' || name[0] == 'u') {
		elem = ElemInt
		if name[0] == 'u' {
			elem = ElemUint
		}
		name = name[1:]
	}
	for s := ShapeVec2; s < numShapes; s++ {
		if shapeDims[s].name != name {
			continue
		}
		if s.IsMatrix() && elem != ElemFloat {
			break
		}
		return elem, s, nil
	}
	return 0, 0, fmt.Errorf("unsupported GLSL type %q", typename)
}
