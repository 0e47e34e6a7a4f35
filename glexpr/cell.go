package glexpr

import "github.com/soypat/gluniform/glreact"

// Cell is a compiled formula for one scalar element of type T. A cell is
// valid when its formula lexed and parsed without error. Cells are never
// modified after creation apart from the state of their reactive terms;
// editing a formula means creating a new cell.
type Cell[T Number] struct {
	src   string
	toks  []Token[T]
	recs  []Reduction[T]
	terms glreact.Registry[T]
	ev    evaluator[T]
	err   error
}

// NewCell compiles src for element type T. Compilation errors do not cause
// a nil return: the cell is returned in an invalid state with [Cell.Err] set.
func NewCell[T Number](src string) *Cell[T] {
	c := &Cell[T]{src: src}
	c.toks, c.err = Lex(src, &c.terms)
	if c.err == nil {
		c.recs, c.err = Parse(c.toks)
	}
	if c.err != nil {
		// Terms of an invalid cell must never be scheduled.
		c.terms.Clear()
		c.recs = nil
		return c
	}
	c.ev = newEvaluator[T](len(c.recs))
	return c
}

// Source returns the formula text the cell was compiled from.
func (c *Cell[T]) Source() string { return c.src }

// Valid reports whether the formula compiled.
func (c *Cell[T]) Valid() bool { return c.err == nil }

// Err returns the reason the cell is invalid or nil if it is valid.
// The error wraps [ErrLex] or [ErrSyntax].
func (c *Cell[T]) Err() error { return c.err }

// Value evaluates the formula using the current reactive term values.
// Invalid cells evaluate to the zero value.
func (c *Cell[T]) Value() T {
	if c.err != nil {
		return 0
	}
	return c.ev.eval(c.recs, &c.terms)
}

// Terms returns the registry of reactive terms in discovery order. It is empty for invalid cells.
func (c *Cell[T]) Terms() *glreact.Registry[T] { return &c.terms }

// Tokens returns the lexer output. Callers must not modify the result.
func (c *Cell[T]) Tokens() []Token[T] { return c.toks }

// Reductions returns the parser output in creation order. Callers must not modify the result.
func (c *Cell[T]) Reductions() []Reduction[T] { return c.recs }
