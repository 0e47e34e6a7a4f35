package glexpr

import (
	"strconv"

	"github.com/soypat/gluniform/glreact"
)

// Number is the set of element types a formula can be evaluated in.
type Number interface {
	glreact.Number
}

// Kind is the kind of a lexical token.
type Kind uint8

// Token kinds.
const (
	KindPlus   Kind = iota + 1 // +
	KindMinus                  // -
	KindTimes                  // *
	KindDivide                 // /
	KindPower                  // ^
	KindFunc                   // sin cos tan asin acos atan
	KindLParen                 // (
	KindRParen                 // )
	KindIdent                  // numeric literal, pi or reactive term reference
	KindEnd                    // end of formula
)

func (k Kind) String() string {
	switch k {
	case KindPlus:
		return "+"
	case KindMinus:
		return "-"
	case KindTimes:
		return "*"
	case KindDivide:
		return "/"
	case KindPower:
		return "^"
	case KindFunc:
		return "function"
	case KindLParen:
		return "("
	case KindRParen:
		return ")"
	case KindIdent:
		return "identifier"
	case KindEnd:
		return "end"
	case kindExpr:
		return "expression"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Func is a trigonometric function applicable in formulas.
type Func uint8

const (
	FuncSin Func = iota + 1
	FuncCos
	FuncTan
	FuncAsin
	FuncAcos
	FuncAtan
)

func (f Func) String() string {
	switch f {
	case FuncSin:
		return "sin"
	case FuncCos:
		return "cos"
	case FuncTan:
		return "tan"
	case FuncAsin:
		return "asin"
	case FuncAcos:
		return "acos"
	case FuncAtan:
		return "atan"
	}
	return "Func(" + strconv.Itoa(int(f)) + ")"
}

// Token is a single lexical element of a formula.
type Token[T Number] struct {
	Kind Kind
	// Func is set for KindFunc tokens.
	Func Func
	// Value is the literal value of a KindIdent token when Term is negative.
	Value T
	// Term is the index of the reactive term referenced by a KindIdent token
	// in the cell's registry, or -1 for literals and non-identifier tokens.
	Term int
	// Pos is the byte offset of the token in the formula.
	Pos int
}

// IsTerm reports whether the token references a reactive term.
func (t Token[T]) IsTerm() bool { return t.Kind == KindIdent && t.Term >= 0 }

func (t Token[T]) String() string {
	switch {
	case t.Kind == KindFunc:
		return t.Func.String()
	case t.IsTerm():
		return "$" + strconv.Itoa(t.Term)
	case t.Kind == KindIdent:
		return strconv.FormatFloat(float64(t.Value), 'g', -1, 32)
	}
	return t.Kind.String()
}
