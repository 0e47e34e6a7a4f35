package gluniform

import (
	"fmt"

	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/gluniform/glexpr"
)

// Number is the set of element types of a variable.
type Number = glexpr.Number

// maxCells is the amount of cells in the largest shape, a mat4.
const maxCells = 16

// Mat is a value read from a variable. Scalars and vectors are matrices with
// one column. Elements are stored in row-major order, i.e. the element at
// row i and column j is Data[i*Cols+j].
type Mat[T Number] struct {
	Rows, Cols int
	Data       [maxCells]T
}

// At returns the element at row i and column j.
func (m Mat[T]) At(i, j int) T {
	if i < 0 || j < 0 || i >= m.Rows || j >= m.Cols {
		panic("gluniform: matrix index out of range")
	}
	return m.Data[i*m.Cols+j]
}

// Values returns the elements in row-major order.
func (m Mat[T]) Values() []T {
	return m.Data[:m.Rows*m.Cols]
}

// Shape returns the shape with the matrix's dimensions.
func (m Mat[T]) Shape() (Shape, bool) { return ShapeOf(m.Rows, m.Cols) }

// Identity returns the rows×cols matrix with ones on the main diagonal.
// For column vectors this is the first unit vector and for scalars it is 1.
func Identity[T Number](rows, cols int) Mat[T] {
	m := Mat[T]{Rows: rows, Cols: cols}
	for i := 0; i < min(rows, cols); i++ {
		m.Data[i*cols+i] = 1
	}
	return m
}

// Mul returns the product a×b. If either operand is 1×1 it scales the other.
// The result must fit in a mat4.
func Mul[T Number](a, b Mat[T]) (Mat[T], error) {
	switch {
	case a.Rows == 1 && a.Cols == 1:
		return scale(b, a.Data[0]), nil
	case b.Rows == 1 && b.Cols == 1:
		return scale(a, b.Data[0]), nil
	case a.Cols != b.Rows:
		return Mat[T]{}, fmt.Errorf("%w: can not multiply %dx%d by %dx%d", ErrWrongShape, a.Rows, a.Cols, b.Rows, b.Cols)
	case a.Rows*b.Cols > maxCells:
		return Mat[T]{}, fmt.Errorf("%w: %dx%d product too large", ErrWrongShape, a.Rows, b.Cols)
	}
	if fa, ok := any(a).(Mat[float32]); ok {
		if c, ok := mulSquare(fa, any(b).(Mat[float32])); ok {
			return any(c).(Mat[T]), nil
		}
	}
	c := Mat[T]{Rows: a.Rows, Cols: b.Cols}
	for i := 0; i < a.Rows; i++ {
		for j := 0; j < b.Cols; j++ {
			var sum T
			for k := 0; k < a.Cols; k++ {
				sum += a.Data[i*a.Cols+k] * b.Data[k*b.Cols+j]
			}
			c.Data[i*c.Cols+j] = sum
		}
	}
	return c, nil
}

func scale[T Number](m Mat[T], f T) Mat[T] {
	for i := range m.Values() {
		m.Data[i] *= f
	}
	return m
}

// mulSquare multiplies float mat2, mat3 and mat4 operands of equal size.
func mulSquare(a, b Mat[float32]) (c Mat[float32], ok bool) {
	if a.Rows != a.Cols || b.Rows != b.Cols || a.Rows != b.Rows {
		return c, false
	}
	c = Mat[float32]{Rows: a.Rows, Cols: a.Cols}
	switch a.Rows {
	case 2:
		arr := ms2.MulMat2(ms2.NewMat2(a.Values()), ms2.NewMat2(b.Values())).Array()
		copy(c.Data[:], arr[:])
	case 3:
		arr := ms3.MulMat3(ms3.NewMat3(a.Values()), ms3.NewMat3(b.Values())).Array()
		copy(c.Data[:], arr[:])
	case 4:
		arr := ms3.MulMat4(ms3.NewMat4(a.Values()), ms3.NewMat4(b.Values())).Array()
		copy(c.Data[:], arr[:])
	default:
		return c, false
	}
	return c, true
}
