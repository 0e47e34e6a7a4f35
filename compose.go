package gluniform

import (
	"errors"
	"fmt"
)

// compose reads a composition variable as the product of its references in
// listed order. Array references contribute their first element. On failure
// the identity value of the variable's shape is returned with a *ResolutionError.
func compose[T Number](v *Variable) (Mat[T], error) {
	ident := Identity[T](v.shape.Rows(), v.shape.Cols())
	fail := func(i int, err error) (Mat[T], error) {
		rerr := &ResolutionError{Variable: v.name, Index: i, Err: err}
		if i >= 0 {
			rerr.Ref = v.refs[i]
		}
		return ident, rerr
	}
	if v.Resolver == nil {
		return fail(0, ErrNotFound)
	}
	var prod Mat[T]
	for i, name := range v.refs {
		ref, ok := v.Resolver.Lookup(name)
		if !ok || ref == nil {
			return fail(i, ErrNotFound)
		}
		if ref.compose {
			return fail(i, ErrNestedComposition)
		}
		if ref.elem != v.elem {
			return fail(i, fmt.Errorf("%w: %s operand in %s composition", ErrWrongElem, ref.elem, v.elem))
		}
		m, err := Read[T](ref, 0)
		if err != nil {
			return fail(i, err)
		}
		if i == 0 {
			prod = m
			continue
		}
		prod, err = Mul(prod, m)
		if err != nil {
			return fail(i, err)
		}
	}
	if prod.Rows != v.shape.Rows() || prod.Cols != v.shape.Cols() {
		return fail(-1, fmt.Errorf("%w: product is %dx%d, want %s", ErrWrongShape, prod.Rows, prod.Cols, v.shape))
	}
	return prod, nil
}

// IsResolutionError reports whether err is a composition resolution failure.
func IsResolutionError(err error) bool {
	var rerr *ResolutionError
	return errors.As(err, &rerr)
}
