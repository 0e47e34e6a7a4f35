package gluniform

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/soypat/gluniform/glexpr"
	"github.com/soypat/gluniform/glreact"
)

// Resolver looks up variables by name. Composition variables resolve their
// operands through it at read time.
type Resolver interface {
	Lookup(name string) (*Variable, bool)
}

// LoadConfig describes the contents of a variable.
type LoadConfig struct {
	Name string
	// Values holds one formula per cell in row-major order, followed by the
	// cells of the next array element. In composition mode Values holds the
	// names of the variables to multiply instead.
	Values []string
	Elem   Elem
	Shape  Shape
	// ExactType optionally names the GLSL type of the variable, i.e. "mat3".
	// It must agree with Elem and Shape when set.
	ExactType string
	// Composition selects composition mode.
	Composition bool
}

// Variable is a named uniform value assembled from formula cells. A variable
// holds Shape.Size() cells per array element or, in composition mode, the
// names of the variables it is the product of.
//
// Variables are not safe for concurrent use. Each frame callers must first
// apply ticks and toggles and only then read values.
type Variable struct {
	// Resolver is used to find the operands of a composition variable.
	Resolver Resolver

	name  string
	elem  Elem
	shape Shape
	exact string
	n     int // array length.

	compose bool
	refs    []string
	st      store
}

// Load replaces the contents of the variable. Cells with malformed formulas
// do not make Load fail; see [Variable.Valid]. An error is returned only if
// the configuration is inconsistent, in which case the variable is left unchanged.
func (v *Variable) Load(cfg LoadConfig) error {
	err := cfg.validate()
	if err != nil {
		return err
	}
	var st store
	var refs []string
	n := 1
	if cfg.Composition {
		refs = slices.Clone(cfg.Values)
	} else {
		n = len(cfg.Values) / cfg.Shape.Size()
		switch cfg.Elem {
		case ElemFloat:
			st = newCells[float32](cfg.Values)
		case ElemInt:
			st = newCells[int32](cfg.Values)
		case ElemUint:
			st = newCells[uint32](cfg.Values)
		}
	}
	*v = Variable{
		Resolver: v.Resolver,
		name:     cfg.Name,
		elem:     cfg.Elem,
		shape:    cfg.Shape,
		exact:    cfg.ExactType,
		n:        n,
		compose:  cfg.Composition,
		refs:     refs,
		st:       st,
	}
	return nil
}

func (cfg LoadConfig) validate() error {
	switch {
	case cfg.Name == "":
		return fmt.Errorf("%w: empty name", ErrBadConfig)
	case cfg.Elem > ElemUint:
		return fmt.Errorf("%w: invalid element type %s", ErrBadConfig, cfg.Elem)
	case !cfg.Shape.Valid():
		return fmt.Errorf("%w: invalid shape %s", ErrBadConfig, cfg.Shape)
	case cfg.Shape.IsMatrix() && cfg.Elem != ElemFloat:
		return fmt.Errorf("%w: %s matrices are not supported", ErrBadConfig, cfg.Elem)
	case len(cfg.Values) == 0:
		return fmt.Errorf("%w: %q has no values", ErrBadConfig, cfg.Name)
	case !cfg.Composition && len(cfg.Values)%cfg.Shape.Size() != 0:
		return fmt.Errorf("%w: %d values do not fill %s elements", ErrBadConfig, len(cfg.Values), cfg.Shape)
	}
	if cfg.ExactType != "" {
		elem, shape, err := ParseGLSLType(cfg.ExactType)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBadConfig, err)
		}
		if elem != cfg.Elem || shape != cfg.Shape {
			return fmt.Errorf("%w: exact type %s does not match %s %s", ErrBadConfig, cfg.ExactType, cfg.Elem, cfg.Shape)
		}
	}
	return nil
}

// Name returns the name of the variable.
func (v *Variable) Name() string { return v.name }

// Elem returns the element type of the variable's cells.
func (v *Variable) Elem() Elem { return v.elem }

// Shape returns the shape of one element of the variable.
func (v *Variable) Shape() Shape { return v.shape }

// GLSLType returns the exact type given on load or the type derived from
// the element type and shape.
func (v *Variable) GLSLType() string {
	if v.exact != "" {
		return v.exact
	}
	typename, _ := GLSLType(v.elem, v.shape)
	return typename
}

// IsComposition reports whether the variable is the product of other variables.
func (v *Variable) IsComposition() bool { return v.compose }

// References returns the names a composition variable multiplies, in order.
func (v *Variable) References() []string { return v.refs }

// Len returns the array length of the variable. It is 1 for non-array
// variables and composition variables and 0 for variables never loaded.
func (v *Variable) Len() int { return v.n }

// IsArray reports whether the variable holds more than one shape worth of cells.
func (v *Variable) IsArray() bool { return v.n > 1 }

// NumCells returns the amount of formula cells. Composition variables have none.
func (v *Variable) NumCells() int {
	if v.st == nil {
		return 0
	}
	return v.st.len()
}

// Cell returns the formula of cell i and the reason it is invalid, if any.
// Composition variables have no cells.
func (v *Variable) Cell(i int) (src string, err error) {
	if i < 0 || i >= v.NumCells() {
		return "", fmt.Errorf("%s: cell index %d out of range [0,%d)", v.name, i, v.NumCells())
	}
	return v.st.cell(i)
}

// Valid reports whether every cell compiled. A loaded composition
// variable is always valid; its operands are checked when read.
func (v *Variable) Valid() bool {
	return v.n > 0 && len(v.InvalidCells()) == 0
}

// InvalidCells returns the indices of cells whose formula did not compile.
func (v *Variable) InvalidCells() (idx []int) {
	for i := 0; i < v.NumCells(); i++ {
		if _, err := v.st.cell(i); err != nil {
			idx = append(idx, i)
		}
	}
	return idx
}

// Err returns the reasons the variable is invalid joined in a single error,
// or nil if it is valid.
func (v *Variable) Err() error {
	if v.n == 0 {
		return errors.New("variable not loaded")
	}
	var errs []error
	for _, i := range v.InvalidCells() {
		src, err := v.st.cell(i)
		errs = append(errs, fmt.Errorf("%s cell %d %q: %w", v.name, i, src, err))
	}
	return errors.Join(errs...)
}

// TickTime advances the Time terms refreshed every interval.
func (v *Variable) TickTime(interval time.Duration) {
	if v.st != nil {
		v.st.tickTime(interval)
	}
}

// TickActionPressed advances the ActionPressed terms refreshed every interval
// according to the press state of their button in buttons.
func (v *Variable) TickActionPressed(interval time.Duration, buttons glreact.Buttons) {
	if v.st != nil {
		v.st.tickPressed(interval, buttons)
	}
}

// ToggleAction toggles the Action terms bound to button b.
func (v *Variable) ToggleAction(b glreact.Button) {
	if v.st != nil {
		v.st.toggle(b)
	}
}

// ResetAll resets every reactive term of the variable to its default value.
func (v *Variable) ResetAll() {
	if v.st != nil {
		v.st.resetAll()
	}
}

// TimeIntervals returns the distinct refresh intervals of the variable's Time terms.
func (v *Variable) TimeIntervals() []time.Duration {
	if v.st == nil {
		return nil
	}
	return v.st.buckets().TimeIntervals()
}

// PressedIntervals returns the distinct refresh intervals of the variable's ActionPressed terms.
func (v *Variable) PressedIntervals() []time.Duration {
	if v.st == nil {
		return nil
	}
	return v.st.buckets().PressedIntervals()
}

// ActionButtons returns the distinct buttons bound to the variable's Action terms.
func (v *Variable) ActionButtons() []glreact.Button {
	if v.st == nil {
		return nil
	}
	return v.st.buckets().ActionButtons()
}

// NumTerms returns the amount of reactive terms owned by the variable.
func (v *Variable) NumTerms() int {
	if v.st == nil {
		return 0
	}
	return v.st.buckets().Len()
}

// Read returns array element idx of v. The type parameter must match the
// variable's element type. Reading an invalid variable returns an error
// wrapping [glexpr.ErrInvalidCell]. Composition reads that fail return the
// identity value along with a *[ResolutionError].
func Read[T Number](v *Variable, idx int) (Mat[T], error) {
	if idx < 0 || idx >= v.n {
		return Mat[T]{}, fmt.Errorf("%s: array index %d out of range [0,%d)", v.name, idx, v.n)
	}
	if v.compose {
		if elemOf[T]() != v.elem {
			return Mat[T]{}, fmt.Errorf("%w: %s is %s", ErrWrongElem, v.name, v.elem)
		}
		return compose[T](v)
	}
	cs, ok := v.st.(*cells[T])
	if !ok {
		return Mat[T]{}, fmt.Errorf("%w: %s is %s", ErrWrongElem, v.name, v.elem)
	}
	if !v.Valid() {
		return Mat[T]{}, fmt.Errorf("%s: %w", v.name, glexpr.ErrInvalidCell)
	}
	m := Mat[T]{Rows: v.shape.Rows(), Cols: v.shape.Cols()}
	cs.read(&m, idx*v.shape.Size())
	return m, nil
}

// Floats appends the values of array element idx converted to float64 to dst.
// It works for every element type and is meant for display.
func (v *Variable) Floats(dst []float64, idx int) ([]float64, error) {
	if !v.compose {
		if idx < 0 || idx >= v.n {
			return dst, fmt.Errorf("%s: array index %d out of range [0,%d)", v.name, idx, v.n)
		}
		if !v.Valid() {
			return dst, fmt.Errorf("%s: %w", v.name, glexpr.ErrInvalidCell)
		}
		size := v.shape.Size()
		return v.st.appendFloats(dst, idx*size, size), nil
	}
	switch v.elem {
	case ElemInt:
		m, err := Read[int32](v, idx)
		return appendMat(dst, m, err)
	case ElemUint:
		m, err := Read[uint32](v, idx)
		return appendMat(dst, m, err)
	}
	m, err := Read[float32](v, idx)
	return appendMat(dst, m, err)
}

func appendMat[T Number](dst []float64, m Mat[T], err error) ([]float64, error) {
	for _, x := range m.Values() {
		dst = append(dst, float64(x))
	}
	return dst, err
}
