package glexpr

import "slices"

// Reduction is a record produced by reducing a handle. Records are stored in
// a flat arena in creation order and reference their children by index,
// so a child is always created before its parent and the last record is the
// root of the expression.
type Reduction[T Number] struct {
	Prod Production
	// Left and Right index the child records. Unary productions, parentheses
	// and functions only use Left. Both are -1 for ProdIdent.
	Left, Right int32
	// Func is the function applied by ProdFunc.
	Func Func
	// Value is the literal value of ProdIdent records when Term is negative.
	Value T
	// Term indexes the reactive term read by ProdIdent records, or is -1.
	Term int
}

// stackEntry is one element of the parse stack.
type stackEntry struct {
	kind Kind   // Token kind, kindExpr or kindMarker.
	sym  symbol // Terminal class. Only valid for terminals.
	idx  int32  // Token index for terminals, record index for kindExpr.
}

// kindMarker marks the start of a handle on the parse stack.
const kindMarker Kind = 0xfe

func (e stackEntry) isTerminal() bool { return e.kind != kindExpr && e.kind != kindMarker }

// Parse reduces a token sequence, as returned by [Lex], to reduction records
// using operator precedence parsing. On error no records are returned.
func Parse[T Number](toks []Token[T]) ([]Reduction[T], error) {
	if len(toks) == 0 || toks[len(toks)-1].Kind != KindEnd {
		return nil, syntaxErrorf(-1, "token sequence not terminated")
	}
	p := parser[T]{
		toks:  toks,
		syms:  classify(toks, make([]symbol, 0, len(toks))),
		stack: make([]stackEntry, 1, 2*len(toks)),
	}
	p.stack[0] = stackEntry{kind: KindEnd, sym: symEnd, idx: -1}
	err := p.run()
	if err != nil {
		return nil, err
	}
	return p.recs, nil
}

type parser[T Number] struct {
	toks   []Token[T]
	syms   []symbol
	stack  []stackEntry
	recs   []Reduction[T]
	handle []Kind // scratch for production matching.
}

func (p *parser[T]) run() error {
	next := 0
	for {
		top := p.topTerminal()
		if top < 0 {
			return syntaxErrorf(-1, "stack underflow")
		}
		a := p.stack[top].sym
		b := p.syms[next]
		tok := p.toks[next]
		switch relations[a][b] {
		case relAcc:
			if len(p.stack) == 2 && p.stack[1].kind == kindExpr {
				return nil
			}
			return syntaxErrorf(tok.Pos, "incomplete expression")
		case relLT:
			p.stack = slices.Insert(p.stack, top+1, stackEntry{kind: kindMarker})
			p.shift(next)
			next++
		case relEQ:
			p.shift(next)
			next++
		case relGT:
			err := p.reduce(tok.Pos)
			if err != nil {
				return err
			}
		default:
			return syntaxErrorf(tok.Pos, "unexpected %s after %s", tok, p.terminalString(top))
		}
	}
}

func (p *parser[T]) shift(tokIdx int) {
	p.stack = append(p.stack, stackEntry{
		kind: p.toks[tokIdx].Kind,
		sym:  p.syms[tokIdx],
		idx:  int32(tokIdx),
	})
}

// topTerminal returns the stack index of the terminal closest to the top.
func (p *parser[T]) topTerminal() int {
	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i].isTerminal() {
			return i
		}
	}
	return -1
}

// reduce pops the stack back to the most recent handle marker and replaces
// the popped handle with a single expression.
func (p *parser[T]) reduce(pos int) error {
	mark := -1
	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i].kind == kindMarker {
			mark = i
			break
		}
	}
	if mark < 0 {
		return syntaxErrorf(pos, "stack underflow")
	}
	handle := p.stack[mark+1:]
	p.handle = p.handle[:0]
	for _, e := range handle {
		p.handle = append(p.handle, e.kind)
	}
	prod, ok := matchProduction(p.handle)
	if !ok {
		return syntaxErrorf(pos, "no production matches %s", p.handleString(handle))
	}
	rec := Reduction[T]{Prod: prod, Left: -1, Right: -1, Term: -1}
	switch prod {
	case ProdIdent:
		tok := p.toks[handle[0].idx]
		rec.Value = tok.Value
		rec.Term = tok.Term
	case ProdParen:
		rec.Left = handle[1].idx
	case ProdPos, ProdNeg:
		rec.Left = handle[1].idx
	case ProdFunc:
		rec.Func = p.toks[handle[0].idx].Func
		rec.Left = handle[1].idx
	default:
		rec.Left = handle[0].idx
		rec.Right = handle[2].idx
	}
	p.recs = append(p.recs, rec)
	p.stack = append(p.stack[:mark], stackEntry{kind: kindExpr, idx: int32(len(p.recs) - 1)})
	return nil
}

func (p *parser[T]) terminalString(stackIdx int) string {
	e := p.stack[stackIdx]
	if e.idx < 0 {
		return "start"
	}
	return p.toks[e.idx].String()
}

func (p *parser[T]) handleString(handle []stackEntry) string {
	if len(handle) == 0 {
		return "empty handle"
	}
	var b []byte
	for i, e := range handle {
		if i > 0 {
			b = append(b, ' ')
		}
		if e.kind == kindExpr {
			b = append(b, 'E')
		} else {
			b = append(b, p.toks[e.idx].String()...)
		}
	}
	return string(b)
}
