package glexpr

import "slices"

// Production is one of the fixed grammar rules a handle may be reduced by.
type Production uint8

const (
	ProdAdd   Production = iota + 1 // E → E + E
	ProdSub                         // E → E - E
	ProdMul                         // E → E * E
	ProdDiv                         // E → E / E
	ProdPow                         // E → E ^ E
	ProdParen                       // E → ( E )
	ProdPos                         // E → + E
	ProdNeg                         // E → - E
	ProdFunc                        // E → fnc E
	ProdIdent                       // E → identifier
)

func (p Production) String() string {
	if p == 0 || int(p) > len(productions) {
		return "Production(?)"
	}
	return productions[p-1].name
}

// kindExpr is the grammar's only nonterminal, E. It never appears in lexer output.
const kindExpr Kind = 0xff

// productions lists the right hand side of each production in [Production] order.
// Handles are matched by exact symbol sequence against this list.
var productions = [...]struct {
	prod Production
	name string
	rhs  []Kind
}{
	{ProdAdd, "E→E+E", []Kind{kindExpr, KindPlus, kindExpr}},
	{ProdSub, "E→E-E", []Kind{kindExpr, KindMinus, kindExpr}},
	{ProdMul, "E→E*E", []Kind{kindExpr, KindTimes, kindExpr}},
	{ProdDiv, "E→E/E", []Kind{kindExpr, KindDivide, kindExpr}},
	{ProdPow, "E→E^E", []Kind{kindExpr, KindPower, kindExpr}},
	{ProdParen, "E→(E)", []Kind{KindLParen, kindExpr, KindRParen}},
	{ProdPos, "E→+E", []Kind{KindPlus, kindExpr}},
	{ProdNeg, "E→-E", []Kind{KindMinus, kindExpr}},
	{ProdFunc, "E→fnc E", []Kind{KindFunc, kindExpr}},
	{ProdIdent, "E→id", []Kind{KindIdent}},
}

// symbol is the terminal class used to index the relation table. Plus and
// minus tokens map to symAdd or symUnary depending on what precedes them.
type symbol uint8

const (
	symAdd    symbol = iota // binary + -
	symMul                  // * /
	symPow                  // ^
	symUnary                // unary + -
	symFunc                 // sin cos tan asin acos atan
	symLParen               // (
	symRParen               // )
	symIdent                // literal or reactive term
	symEnd                  // sentinel
	numSymbols
)

// relation is the precedence relation between the terminal on top of the
// stack and the incoming terminal.
type relation uint8

const (
	relErr relation = iota // No valid continuation.
	relLT                  // Shift, marking the start of a new handle.
	relEQ                  // Shift without marker. Only ( against ).
	relGT                  // Reduce the handle on top of the stack.
	relAcc                 // Accept if the stack holds exactly one expression.
)

// Short aliases so the table below stays readable.
const (
	no = relErr
	lt = relLT
	eq = relEQ
	gt = relGT
	ac = relAcc
)

// relations is indexed [stack top terminal][input terminal].
// Binary operators are left associative, ^ included. Unary signs and
// functions bind tighter than every binary operator.
var relations = [numSymbols][numSymbols]relation{
	//          add mul pow una fnc (   )   id  end
	symAdd:    {gt, lt, lt, lt, lt, lt, gt, lt, gt},
	symMul:    {gt, gt, lt, lt, lt, lt, gt, lt, gt},
	symPow:    {gt, gt, gt, lt, lt, lt, gt, lt, gt},
	symUnary:  {gt, gt, gt, lt, lt, lt, gt, lt, gt},
	symFunc:   {gt, gt, gt, lt, lt, lt, gt, lt, gt},
	symLParen: {lt, lt, lt, lt, lt, lt, eq, lt, no},
	symRParen: {gt, gt, gt, no, no, no, gt, no, gt},
	symIdent:  {gt, gt, gt, no, no, no, gt, no, gt},
	symEnd:    {lt, lt, lt, lt, lt, lt, no, lt, ac},
}

// classify maps tokens to their terminal class. A sign is unary when it
// starts the formula or follows an operator, a function or an opening
// parenthesis; it is binary after an identifier or closing parenthesis.
func classify[T Number](toks []Token[T], dst []symbol) []symbol {
	afterOperand := false
	for _, tok := range toks {
		var s symbol
		switch tok.Kind {
		case KindPlus, KindMinus:
			s = symUnary
			if afterOperand {
				s = symAdd
			}
		case KindTimes, KindDivide:
			s = symMul
		case KindPower:
			s = symPow
		case KindFunc:
			s = symFunc
		case KindLParen:
			s = symLParen
		case KindRParen:
			s = symRParen
		case KindIdent:
			s = symIdent
		default:
			s = symEnd
		}
		afterOperand = s == symIdent || s == symRParen
		dst = append(dst, s)
	}
	return dst
}

// matchProduction returns the first production whose right hand side equals handle.
func matchProduction(handle []Kind) (Production, bool) {
	for _, p := range productions {
		if slices.Equal(p.rhs, handle) {
			return p.prod, true
		}
	}
	return 0, false
}
