package gluniform

import (
	"errors"
	"strconv"
)

var (
	// ErrNotFound is returned when a composition references a variable that does not exist.
	ErrNotFound = errors.New("variable not found")

	// ErrNestedComposition is returned when a composition references another composition.
	ErrNestedComposition = errors.New("referenced variable is itself a composition")

	// ErrWrongElem is returned when a read or reference does not match the variable's element type.
	ErrWrongElem = errors.New("wrong element type")

	// ErrWrongShape is returned when the operands of a composition can not be
	// multiplied or their product does not have the shape of the composition.
	ErrWrongShape = errors.New("wrong shape")

	// ErrBadConfig is returned by Load when the configuration is inconsistent.
	ErrBadConfig = errors.New("bad variable configuration")
)

// ResolutionError is returned by reads of a composition variable that could
// not be computed. Reads returning a ResolutionError still return a usable
// identity value.
type ResolutionError struct {
	// Variable is the name of the composition variable being read.
	Variable string
	// Ref is the referenced name that failed to resolve. Empty if the failure
	// concerns the final product.
	Ref string
	// Index is the position of Ref in the composition list, or -1.
	Index int
	Err   error
}

func (e *ResolutionError) Error() string {
	if e.Ref == "" {
		return "compose " + strconv.Quote(e.Variable) + ": " + e.Err.Error()
	}
	return "compose " + strconv.Quote(e.Variable) + " operand " + strconv.Itoa(e.Index) +
		" " + strconv.Quote(e.Ref) + ": " + e.Err.Error()
}

func (e *ResolutionError) Unwrap() error { return e.Err }
