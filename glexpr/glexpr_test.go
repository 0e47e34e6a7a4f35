package glexpr_test

import (
	"errors"
	"math"
	"testing"

	"github.com/soypat/gluniform/glexpr"
	"github.com/soypat/gluniform/glreact"
)

func TestEvalFloat(t *testing.T) {
	const tol = 1e-6
	for _, tc := range []struct {
		src  string
		want float32
	}{
		{"2+3*4", 14},
		{"(2+3)*4", 20},
		{"2^3^2", 64}, // Left to right: (2^3)^2.
		{"2^(3^2)", 512},
		{"-2^2", 4}, // Unary minus binds tighter than ^.
		{"2^-1", 0.5},
		{"2*-3", -6},
		{"2--3", 5},
		{"+4", 4},
		{"-(1+2)*3", -9},
		{"10-4-3", 3},
		{"16/4/2", 2},
		{" 1.5 * 2 ", 3},
		{"sin 0", 0},
		{"cos0", 1},
		{"sin(0)+cos 0*2", 2},
		{"atan 1*4", math.Pi},
		{"asin 1", math.Pi / 2},
		{"acos 1", 0},
		{"tan 0", 0},
		{"2*pi", 2 * math.Pi},
		{"sin(-pi/2)", -1},
		{"sin-pi/2", 0}, // Functions bind tighter than division: sin(-pi)/2.
		{"sinpi", float32(math.Sin(math.Pi))},
		{"3.25", 3.25},
		{"((((7))))", 7},
	} {
		c := glexpr.NewCell[float32](tc.src)
		if !c.Valid() {
			t.Errorf("%q: unexpected invalid cell: %v", tc.src, c.Err())
			continue
		}
		got := c.Value()
		if math.Abs(float64(got-tc.want)) > tol {
			t.Errorf("%q: want %v, got %v", tc.src, tc.want, got)
		}
	}
}

func TestEvalInt(t *testing.T) {
	for _, tc := range []struct {
		src  string
		want int32
	}{
		{"2+3*4", 14},
		{"10/3", 3},
		{"-10/3", -3},
		{"7/0", 0},
		{"2^10", 1024},
		{"2^-1", 0},
		{"pi", 3},
		{"pi*pi", 9},
		{"sin 0", 0},
		{"cos 0 * 5", 5},
		{"-(3-5)", 2},
		{"2147483647", math.MaxInt32},
		{"asin 2", 0},
		{"acos 2", 0},
		{"0^-1", 0},
	} {
		c := glexpr.NewCell[int32](tc.src)
		if !c.Valid() {
			t.Errorf("%q: unexpected invalid cell: %v", tc.src, c.Err())
			continue
		}
		if got := c.Value(); got != tc.want {
			t.Errorf("%q: want %d, got %d", tc.src, tc.want, got)
		}
	}
}

func TestEvalUint(t *testing.T) {
	for _, tc := range []struct {
		src  string
		want uint32
	}{
		{"0-1", math.MaxUint32},
		{"-1", math.MaxUint32},
		{"4294967295", math.MaxUint32},
		{"3000000000/2", 1500000000},
		{"2^31", 1 << 31},
		{"9/0", 0},
		{"asin 2", 0},
		{"acos 2", 0},
	} {
		c := glexpr.NewCell[uint32](tc.src)
		if !c.Valid() {
			t.Errorf("%q: unexpected invalid cell: %v", tc.src, c.Err())
			continue
		}
		if got := c.Value(); got != tc.want {
			t.Errorf("%q: want %d, got %d", tc.src, tc.want, got)
		}
	}
}

func TestInvalidFormulas(t *testing.T) {
	for _, tc := range []struct {
		src     string
		integer bool
		wantErr error
	}{
		{"", false, glexpr.ErrSyntax},
		{"   ", false, glexpr.ErrSyntax},
		{"2+", false, glexpr.ErrSyntax},
		{"*2", false, glexpr.ErrSyntax},
		{"2 3", false, glexpr.ErrSyntax},
		{"2(3)", false, glexpr.ErrSyntax},
		{"(2)(3)", false, glexpr.ErrSyntax},
		{"sin", false, glexpr.ErrSyntax},
		{"sin)", false, glexpr.ErrSyntax},
		{"sin*2", false, glexpr.ErrSyntax},
		{"(2", false, glexpr.ErrSyntax},
		{"2)", false, glexpr.ErrSyntax},
		{"()", false, glexpr.ErrSyntax},
		{"2 sin 3", false, glexpr.ErrSyntax},
		{"1.5", true, glexpr.ErrLex},
		{"1..2", false, glexpr.ErrLex},
		{"1.2.3", false, glexpr.ErrLex},
		{"1.", false, glexpr.ErrLex},
		{".5", false, glexpr.ErrLex},
		{"1e5", false, glexpr.ErrLex},
		{"foo", false, glexpr.ErrLex},
		{"Sin 1", false, glexpr.ErrLex},
		{"si", false, glexpr.ErrLex},
		{"sine 1", false, glexpr.ErrLex},
		{"2 % 3", false, glexpr.ErrLex},
		{"99999999999", true, glexpr.ErrLex},
		{"$Time{}", false, glexpr.ErrLex},
		{"$Time{1}", false, glexpr.ErrLex},
		{"$Time{1,2,3,4,5}", false, glexpr.ErrLex},
		{"$Time{1,2,3,4,5,6}", false, glexpr.ErrLex},
		{"$Time{1,0}", false, glexpr.ErrLex},
		{"$Time{1,-5}", false, glexpr.ErrLex},
		{"$Time{1,100", false, glexpr.ErrLex},
		{"$Time{1,,100}", false, glexpr.ErrLex},
		{"$Time{1-,100}", false, glexpr.ErrLex},
		{"$Time{0.5,100}", true, glexpr.ErrLex},
		{"$Time 1,100}", false, glexpr.ErrLex},
		{"$Foo{1,100}", false, glexpr.ErrLex},
		{"$Action{15,0,1}", false, glexpr.ErrLex},
		{"$Action{-1,0,1}", false, glexpr.ErrLex},
		{"$Action{1.0,0,1}", false, glexpr.ErrLex},
		{"$Action{1,0}", false, glexpr.ErrLex},
		{"$Action{1,0,1,2}", false, glexpr.ErrLex},
		{"$ActionPressed{1,100,1}", false, glexpr.ErrLex},
		{"$ActionPressed{1,100,1,1,1,1}", false, glexpr.ErrLex},
		{"$ActionPressed{20,100,1,1}", false, glexpr.ErrLex},
		{"$Time{1,100}$Time{1,100}", false, glexpr.ErrSyntax},
	} {
		var valid bool
		var err error
		if tc.integer {
			c := glexpr.NewCell[int32](tc.src)
			valid, err = c.Valid(), c.Err()
			if c.Terms().Len() != 0 {
				t.Errorf("%q: invalid cell kept reactive terms", tc.src)
			}
		} else {
			c := glexpr.NewCell[float32](tc.src)
			valid, err = c.Valid(), c.Err()
			if c.Value() != 0 {
				t.Errorf("%q: invalid cell should evaluate to zero", tc.src)
			}
		}
		if valid {
			t.Errorf("%q: expected invalid cell", tc.src)
			continue
		}
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("%q: want %v, got %v", tc.src, tc.wantErr, err)
		}
		var serr *glexpr.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("%q: expected *SyntaxError, got %T", tc.src, err)
		}
	}
}

func TestTimeFieldCounts(t *testing.T) {
	for _, src := range []string{"$Time{1,100}", "$Time{1,100,2}", "$Time{1,100,2,30}", "$Time{ +1 , 100 , -2 }"} {
		if c := glexpr.NewCell[float32](src); !c.Valid() {
			t.Errorf("%q: %v", src, c.Err())
		}
	}
}

func TestTimeTermWraps(t *testing.T) {
	c := glexpr.NewCell[int32]("$Time{1,1000,0,10}")
	if !c.Valid() {
		t.Fatal(c.Err())
	}
	tm := c.Terms().At(0).(*glreact.Time[int32])
	for range 9 {
		tm.Tick()
	}
	if c.Value() != 9 {
		t.Fatalf("want 9, got %d", c.Value())
	}
	tm.Tick()
	if c.Value() != 0 {
		t.Fatalf("want wrap to 0, got %d", c.Value())
	}
}

func TestActionTerm(t *testing.T) {
	c := glexpr.NewCell[float32]("$Action{5,1,0}")
	if !c.Valid() {
		t.Fatal(c.Err())
	}
	a := c.Terms().At(0).(*glreact.Action[float32])
	if a.Button() != 5 {
		t.Fatalf("want button 5, got %d", a.Button())
	}
	for i, want := range []float32{1, 0, 1} {
		if got := c.Value(); got != want {
			t.Fatalf("toggle %d: want %v, got %v", i, want, got)
		}
		a.Toggle()
	}
}

func TestActionPressedTerm(t *testing.T) {
	c := glexpr.NewCell[int32]("10*$ActionPressed{3,500,2,-1,0}")
	if !c.Valid() {
		t.Fatal(c.Err())
	}
	ap := c.Terms().At(0).(*glreact.ActionPressed[int32])
	ap.Tick(true)
	if c.Value() != 20 {
		t.Fatalf("want 20, got %d", c.Value())
	}
	ap.Tick(false)
	ap.Tick(false)
	if c.Value() != 0 {
		t.Fatalf("want 0, got %d", c.Value())
	}
}

func TestUintNegativeField(t *testing.T) {
	c := glexpr.NewCell[uint32]("$Time{-1,100,5}")
	if !c.Valid() {
		t.Fatal(c.Err())
	}
	c.Terms().At(0).(*glreact.Time[uint32]).Tick()
	if c.Value() != 4 {
		t.Fatalf("want 4, got %d", c.Value())
	}
}

func TestTermsDiscoveryOrder(t *testing.T) {
	c := glexpr.NewCell[float32]("$Action{1,0,1} + $Time{1,250} * $ActionPressed{2,100,1,0}")
	if !c.Valid() {
		t.Fatal(c.Err())
	}
	reg := c.Terms()
	if reg.Len() != 3 {
		t.Fatalf("want 3 terms, got %d", reg.Len())
	}
	want := []glreact.Kind{glreact.KindAction, glreact.KindTime, glreact.KindActionPressed}
	reg.Each(func(i int, term glreact.Term[float32]) {
		if term.Kind() != want[i] {
			t.Errorf("term %d: want %v, got %v", i, want[i], term.Kind())
		}
	})
	var termToks int
	for _, tok := range c.Tokens() {
		if tok.IsTerm() {
			if tok.Term != termToks {
				t.Errorf("token references term %d, want %d", tok.Term, termToks)
			}
			termToks++
		}
	}
	if termToks != 3 {
		t.Fatalf("want 3 term tokens, got %d", termToks)
	}
}

func TestIdempotentEval(t *testing.T) {
	for _, src := range []string{
		"2+3*4",
		"sin($Time{0.1,16}) * 3 + $Action{0,1,-1}",
		"$ActionPressed{4,10,1.5,-0.5,2}^2",
	} {
		c := glexpr.NewCell[float32](src)
		if !c.Valid() {
			t.Fatalf("%q: %v", src, c.Err())
		}
		a, b := c.Value(), c.Value()
		if a != b {
			t.Errorf("%q: repeated evaluation differs %v != %v", src, a, b)
		}
	}
}

func TestReductionOrder(t *testing.T) {
	c := glexpr.NewCell[int32]("2+3*4")
	recs := c.Reductions()
	want := []glexpr.Production{glexpr.ProdIdent, glexpr.ProdIdent, glexpr.ProdIdent, glexpr.ProdMul, glexpr.ProdAdd}
	if len(recs) != len(want) {
		t.Fatalf("want %d records, got %d", len(want), len(recs))
	}
	for i, r := range recs {
		if r.Prod != want[i] {
			t.Errorf("record %d: want %v, got %v", i, want[i], r.Prod)
		}
		if r.Left >= int32(i) || r.Right >= int32(i) {
			t.Errorf("record %d references a record created after it", i)
		}
	}
	root := recs[len(recs)-1]
	if root.Left != 0 || root.Right != 3 {
		t.Errorf("unexpected root children %d %d", root.Left, root.Right)
	}
}

func TestEvalFunction(t *testing.T) {
	var reg glreact.Registry[float32]
	toks, err := glexpr.Lex("asin0.5*2", &reg)
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Kind != glexpr.KindFunc || toks[0].Func != glexpr.FuncAsin {
		t.Fatalf("expected asin function token, got %v", toks[0])
	}
	if toks[len(toks)-1].Kind != glexpr.KindEnd {
		t.Fatal("missing end token")
	}
	recs, err := glexpr.Parse(toks)
	if err != nil {
		t.Fatal(err)
	}
	got := glexpr.Eval(recs, &reg)
	want := float32(math.Asin(0.5) * 2)
	if math.Abs(float64(got-want)) > 1e-6 {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func BenchmarkLex(b *testing.B) {
	const src = "sin($Time{0.01,16,0,6.2832}) * 0.5 + 0.5 * $Action{3,1,0} - (2^3^2)/64"
	var reg glreact.Registry[float32]
	for i := 0; i < b.N; i++ {
		reg.Clear()
		if _, err := glexpr.Lex(src, &reg); err != nil {
			b.Fatalf("lex: %v", err)
		}
	}
}

func BenchmarkCellEval(b *testing.B) {
	c := glexpr.NewCell[float32]("sin($Time{0.01,16,0,6.2832}) * 0.5 + 0.5 * $Action{3,1,0} - (2^3^2)/64")
	if !c.Valid() {
		b.Fatal(c.Err())
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Value()
	}
}
