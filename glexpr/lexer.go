package glexpr

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/soypat/gluniform/glreact"
)

// Reactive term literal names and their accepted field counts.
const (
	termTime          = "Time"
	termAction        = "Action"
	termActionPressed = "ActionPressed"
)

var operatorKinds = [256]Kind{
	'+': KindPlus,
	'-': KindMinus,
	'*': KindTimes,
	'/': KindDivide,
	'^': KindPower,
	'(': KindLParen,
	')': KindRParen,
}

// keyword is a letter sequence recognized by the lexer.
type keyword struct {
	word string
	fn   Func // zero for pi.
}

var keywords = []keyword{
	{"sin", FuncSin},
	{"cos", FuncCos},
	{"tan", FuncTan},
	{"asin", FuncAsin},
	{"acos", FuncAcos},
	{"atan", FuncAtan},
	{"pi", 0},
}

// Lex splits a formula into tokens for element type T. Reactive term
// literals found in src are constructed and added to reg; the token that
// replaces each literal references the term by its registry index.
// The returned token slice always ends with a KindEnd token.
func Lex[T Number](src string, reg *glreact.Registry[T]) ([]Token[T], error) {
	l := lexer[T]{src: src, reg: reg, integral: isIntegral[T]()}
	err := l.run()
	if err != nil {
		return nil, err
	}
	return l.toks, nil
}

// lexer holds the state of tokenizing a single formula.
type lexer[T Number] struct {
	src      string
	pos      int
	toks     []Token[T]
	reg      *glreact.Registry[T]
	integral bool
	field    []byte // scratch for reactive term fields.
}

func (l *lexer[T]) run() error {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		var err error
		switch {
		case isSpace(c):
			l.pos++
		case isDigit(c):
			err = l.lexNumber()
		case isLetter(c):
			err = l.lexWord()
		case c == '$':
			err = l.lexTerm()
		case operatorKinds[c] != 0:
			l.emit(Token[T]{Kind: operatorKinds[c], Pos: l.pos})
			l.pos++
		default:
			err = lexErrorf(l.pos, "unexpected character %q", c)
		}
		if err != nil {
			return err
		}
	}
	l.emit(Token[T]{Kind: KindEnd, Pos: l.pos})
	return nil
}

func (l *lexer[T]) emit(tok Token[T]) {
	if tok.Kind != KindIdent {
		tok.Term = -1
	}
	l.toks = append(l.toks, tok)
}

// lexNumber reads a literal of the form [0-9]+(\.[0-9]+)?.
func (l *lexer[T]) lexNumber() error {
	start := l.pos
	l.skipDigits()
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		if l.integral {
			return lexErrorf(l.pos, "fractional literal in integer formula")
		}
		l.pos++
		if l.pos == len(l.src) || !isDigit(l.src[l.pos]) {
			return lexErrorf(l.pos, "expected digit after decimal point")
		}
		l.skipDigits()
		if l.pos < len(l.src) && l.src[l.pos] == '.' {
			return lexErrorf(l.pos, "second decimal point in number")
		}
	}
	lit := l.src[start:l.pos]
	v, err := parseNumber[T](lit)
	if err != nil {
		return lexErrorf(start, "malformed number %q", lit)
	}
	l.emit(Token[T]{Kind: KindIdent, Value: v, Pos: start, Term: -1})
	return nil
}

func (l *lexer[T]) skipDigits() {
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
}

// lexWord matches letters one by one against the keyword list. The letters
// read since the last emitted keyword are remembered so that adjacent
// keywords such as "sinpi" split correctly. No keyword is a prefix of
// another so a keyword is emitted as soon as it is complete.
func (l *lexer[T]) lexWord() error {
	start := l.pos
	for l.pos < len(l.src) && isLetter(l.src[l.pos]) {
		l.pos++
		word := l.src[start:l.pos]
		kw, complete, prefix := matchKeyword(word)
		switch {
		case complete && kw.fn == 0:
			l.emit(Token[T]{Kind: KindIdent, Value: fromFloat64[T](math.Pi), Pos: start, Term: -1})
			start = l.pos
		case complete:
			l.emit(Token[T]{Kind: KindFunc, Func: kw.fn, Pos: start})
			start = l.pos
		case !prefix:
			return lexErrorf(start, "unknown identifier %q", word)
		}
	}
	if start != l.pos {
		return lexErrorf(start, "incomplete identifier %q", l.src[start:l.pos])
	}
	return nil
}

func matchKeyword(word string) (kw keyword, complete, prefix bool) {
	for _, kw := range keywords {
		if kw.word == word {
			return kw, true, true
		}
		if strings.HasPrefix(kw.word, word) {
			prefix = true
		}
	}
	return keyword{}, false, prefix
}

// lexTerm reads a reactive term literal such as $Time{1,1000}.
func (l *lexer[T]) lexTerm() error {
	start := l.pos
	l.pos++ // consume '$'
	nameStart := l.pos
	for l.pos < len(l.src) && isLetter(l.src[l.pos]) {
		l.pos++
	}
	name := l.src[nameStart:l.pos]
	if l.pos == len(l.src) || l.src[l.pos] != '{' {
		return lexErrorf(l.pos, "expected '{' after $%s", name)
	}
	l.pos++ // consume '{'
	fields, err := l.lexFields()
	if err != nil {
		return err
	}
	var term glreact.Term[T]
	switch name {
	case termTime:
		term, err = newTimeTerm[T](fields)
	case termAction:
		term, err = newActionTerm[T](fields)
	case termActionPressed:
		term, err = newActionPressedTerm[T](fields)
	default:
		return lexErrorf(start, "unknown reactive term $%s", name)
	}
	if err != nil {
		return lexErrorf(start, "$%s: %v", name, err)
	}
	idx := l.reg.Add(term)
	l.emit(Token[T]{Kind: KindIdent, Term: idx, Pos: start})
	return nil
}

// lexFields reads comma separated fields up to and including the closing brace.
// A field may start with a sign; spaces inside the body are ignored.
func (l *lexer[T]) lexFields() ([]string, error) {
	var fields []string
	l.field = l.field[:0]
	for {
		if l.pos >= len(l.src) {
			return nil, lexErrorf(l.pos, "unterminated reactive term")
		}
		c := l.src[l.pos]
		switch {
		case isSpace(c):
		case c == ',' || c == '}':
			if len(l.field) == 0 {
				return nil, lexErrorf(l.pos, "empty reactive term field")
			}
			fields = append(fields, string(l.field))
			l.field = l.field[:0]
			if c == '}' {
				l.pos++
				return fields, nil
			}
		case c == '+' || c == '-':
			if len(l.field) != 0 {
				return nil, lexErrorf(l.pos, "sign must lead the field")
			}
			l.field = append(l.field, c)
		case isDigit(c) || c == '.':
			l.field = append(l.field, c)
		default:
			return nil, lexErrorf(l.pos, "unexpected character %q in reactive term", c)
		}
		l.pos++
	}
}

type fieldCountError struct {
	got, min, max int
}

func (e fieldCountError) Error() string {
	if e.min == e.max {
		return "want " + strconv.Itoa(e.min) + " fields, got " + strconv.Itoa(e.got)
	}
	return "want " + strconv.Itoa(e.min) + " to " + strconv.Itoa(e.max) + " fields, got " + strconv.Itoa(e.got)
}

func checkFields(fields []string, min, max int) error {
	if len(fields) < min || len(fields) > max {
		return fieldCountError{got: len(fields), min: min, max: max}
	}
	return nil
}

// newTimeTerm builds $Time{increment,refreshMs[,default[,maxMagnitude]]}.
func newTimeTerm[T Number](fields []string) (glreact.Term[T], error) {
	err := checkFields(fields, 2, 4)
	if err != nil {
		return nil, err
	}
	inc, err := parseSigned[T](fields[0])
	if err != nil {
		return nil, err
	}
	interval, err := parseInterval(fields[1])
	if err != nil {
		return nil, err
	}
	var def, max T
	if len(fields) > 2 {
		if def, err = parseSigned[T](fields[2]); err != nil {
			return nil, err
		}
	}
	if len(fields) > 3 {
		if max, err = parseSigned[T](fields[3]); err != nil {
			return nil, err
		}
	}
	return glreact.NewTime(inc, interval, def, max)
}

// newActionTerm builds $Action{buttonId,firstValue,secondValue}.
func newActionTerm[T Number](fields []string) (glreact.Term[T], error) {
	err := checkFields(fields, 3, 3)
	if err != nil {
		return nil, err
	}
	btn, err := glreact.ParseButton(fields[0])
	if err != nil {
		return nil, err
	}
	first, err := parseSigned[T](fields[1])
	if err != nil {
		return nil, err
	}
	second, err := parseSigned[T](fields[2])
	if err != nil {
		return nil, err
	}
	return glreact.NewAction(btn, first, second)
}

// newActionPressedTerm builds $ActionPressed{buttonId,refreshMs,pressedInc,releasedInc[,default]}.
func newActionPressedTerm[T Number](fields []string) (glreact.Term[T], error) {
	err := checkFields(fields, 4, 5)
	if err != nil {
		return nil, err
	}
	btn, err := glreact.ParseButton(fields[0])
	if err != nil {
		return nil, err
	}
	interval, err := parseInterval(fields[1])
	if err != nil {
		return nil, err
	}
	pressed, err := parseSigned[T](fields[2])
	if err != nil {
		return nil, err
	}
	released, err := parseSigned[T](fields[3])
	if err != nil {
		return nil, err
	}
	var def T
	if len(fields) > 4 {
		if def, err = parseSigned[T](fields[4]); err != nil {
			return nil, err
		}
	}
	return glreact.NewActionPressed(btn, interval, pressed, released, def)
}

// parseInterval parses a positive amount of milliseconds.
func parseInterval(s string) (time.Duration, error) {
	ms, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0, err
	}
	if ms == 0 {
		return 0, strconv.ErrRange
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// parseSigned parses a numeric field with an optional leading sign. Negative
// fields of unsigned element types wrap around.
func parseSigned[T Number](s string) (T, error) {
	neg := false
	if len(s) > 0 && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	v, err := parseNumber[T](s)
	if neg {
		v = -v
	}
	return v, err
}

// parseNumber parses an unsigned decimal literal as type T.
func parseNumber[T Number](s string) (T, error) {
	if len(s) == 0 || !isDigit(s[0]) || !isDigit(s[len(s)-1]) {
		// Rejects ".5", "5." and empty strings which strconv would accept in part.
		return 0, strconv.ErrSyntax
	}
	if isIntegral[T]() {
		if isSigned[T]() {
			v, err := strconv.ParseInt(s, 10, 32)
			return T(v), err
		}
		v, err := strconv.ParseUint(s, 10, 32)
		return T(v), err
	}
	v, err := strconv.ParseFloat(s, 32)
	return T(v), err
}

func isSpace(c byte) bool  { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
