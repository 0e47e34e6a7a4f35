package gluniform_test

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/soypat/gluniform"
	"github.com/soypat/gluniform/glexpr"
	"github.com/soypat/gluniform/glreact"
)

func mustLoad(t *testing.T, set *gluniform.Set, cfg gluniform.LoadConfig) *gluniform.Variable {
	t.Helper()
	v, err := set.Load(cfg)
	if err != nil {
		t.Fatalf("loading %q: %v", cfg.Name, err)
	}
	return v
}

func readFloats(t *testing.T, v *gluniform.Variable, idx int) []float32 {
	t.Helper()
	m, err := gluniform.Read[float32](v, idx)
	if err != nil {
		t.Fatalf("reading %q[%d]: %v", v.Name(), idx, err)
	}
	return m.Values()
}

func TestShapes(t *testing.T) {
	for _, tc := range []struct {
		elem       gluniform.Elem
		shape      gluniform.Shape
		rows, cols int
		glsl       string
	}{
		{gluniform.ElemFloat, gluniform.ShapeScalar, 1, 1, "float"},
		{gluniform.ElemInt, gluniform.ShapeScalar, 1, 1, "int"},
		{gluniform.ElemUint, gluniform.ShapeVec3, 3, 1, "uvec3"},
		{gluniform.ElemInt, gluniform.ShapeVec4, 4, 1, "ivec4"},
		{gluniform.ElemFloat, gluniform.ShapeVec2, 2, 1, "vec2"},
		{gluniform.ElemFloat, gluniform.ShapeMat3, 3, 3, "mat3"},
		{gluniform.ElemFloat, gluniform.ShapeMat2x3, 3, 2, "mat2x3"},
		{gluniform.ElemFloat, gluniform.ShapeMat4x2, 2, 4, "mat4x2"},
	} {
		if tc.shape.Rows() != tc.rows || tc.shape.Cols() != tc.cols {
			t.Errorf("%s: want %dx%d, got %dx%d", tc.shape, tc.rows, tc.cols, tc.shape.Rows(), tc.shape.Cols())
		}
		got, err := gluniform.GLSLType(tc.elem, tc.shape)
		if err != nil || got != tc.glsl {
			t.Errorf("%s %s: want %q, got %q (%v)", tc.elem, tc.shape, tc.glsl, got, err)
		}
		elem, shape, err := gluniform.ParseGLSLType(tc.glsl)
		if err != nil || elem != tc.elem || shape != tc.shape {
			t.Errorf("parse %q: got %s %s (%v)", tc.glsl, elem, shape, err)
		}
	}
	if _, err := gluniform.GLSLType(gluniform.ElemInt, gluniform.ShapeMat2); err == nil {
		t.Error("expected error for integer matrix")
	}
	for _, bad := range []string{"imat3", "vec5", "double", ""} {
		if _, _, err := gluniform.ParseGLSLType(bad); err == nil {
			t.Errorf("expected error parsing %q", bad)
		}
	}
}

func TestLoadConfigErrors(t *testing.T) {
	var set gluniform.Set
	for _, cfg := range []gluniform.LoadConfig{
		{Name: "", Values: []string{"1"}},
		{Name: "empty"},
		{Name: "short", Shape: gluniform.ShapeVec3, Values: []string{"1", "2"}},
		{Name: "imat", Elem: gluniform.ElemInt, Shape: gluniform.ShapeMat2, Values: []string{"1", "0", "0", "1"}},
		{Name: "exact", Shape: gluniform.ShapeVec2, ExactType: "vec3", Values: []string{"1", "2"}},
		{Name: "badexact", ExactType: "vector", Values: []string{"1"}},
	} {
		_, err := set.Load(cfg)
		if !errors.Is(err, gluniform.ErrBadConfig) {
			t.Errorf("%q: want ErrBadConfig, got %v", cfg.Name, err)
		}
	}
	if set.Len() != 0 {
		t.Fatalf("failed loads added %d variables", set.Len())
	}
}

func TestScalarAndArray(t *testing.T) {
	var set gluniform.Set
	v := mustLoad(t, &set, gluniform.LoadConfig{
		Name:   "offsets",
		Shape:  gluniform.ShapeVec3,
		Values: []string{"1", "2", "3", "4*2", "5+0*pi", "-6"},
	})
	if !v.Valid() || v.Len() != 2 || !v.IsArray() || v.NumCells() != 6 {
		t.Fatalf("unexpected variable state valid=%v len=%d cells=%d", v.Valid(), v.Len(), v.NumCells())
	}
	got := readFloats(t, v, 1)
	if !slices.Equal(got, []float32{8, 5, -6}) {
		t.Fatalf("second element: got %v", got)
	}
	vec, err := v.Vec3()
	if err != nil || vec.X != 1 || vec.Y != 2 || vec.Z != 3 {
		t.Fatalf("Vec3: got %v, %v", vec, err)
	}
	if _, err := gluniform.Read[float32](v, 2); err == nil {
		t.Fatal("expected out of range error")
	}
	if _, err := gluniform.Read[int32](v, 0); !errors.Is(err, gluniform.ErrWrongElem) {
		t.Fatalf("want ErrWrongElem, got %v", err)
	}
	if _, err := v.Float(); !errors.Is(err, gluniform.ErrWrongShape) {
		t.Fatalf("want ErrWrongShape, got %v", err)
	}
	if v.GLSLType() != "vec3" {
		t.Fatalf("want vec3 type, got %q", v.GLSLType())
	}
}

func TestInvalidCells(t *testing.T) {
	var set gluniform.Set
	v := mustLoad(t, &set, gluniform.LoadConfig{
		Name:   "count",
		Elem:   gluniform.ElemInt,
		Shape:  gluniform.ShapeVec2,
		Values: []string{"1+1", "0.5"},
	})
	if v.Valid() {
		t.Fatal("expected invalid variable")
	}
	if got := v.InvalidCells(); !slices.Equal(got, []int{1}) {
		t.Fatalf("want invalid cell 1, got %v", got)
	}
	src, err := v.Cell(1)
	if src != "0.5" || !errors.Is(err, glexpr.ErrLex) {
		t.Fatalf("unexpected cell %q: %v", src, err)
	}
	if _, err := gluniform.Read[int32](v, 0); !errors.Is(err, glexpr.ErrInvalidCell) {
		t.Fatalf("want ErrInvalidCell, got %v", err)
	}
	if err := v.Err(); !errors.Is(err, glexpr.ErrLex) {
		t.Fatalf("want joined lex error, got %v", err)
	}
	if err := set.Err(); err == nil {
		t.Fatal("expected set error")
	}
}

func TestTickTimeWraparound(t *testing.T) {
	var set gluniform.Set
	v := mustLoad(t, &set, gluniform.LoadConfig{
		Name:   "frame",
		Elem:   gluniform.ElemInt,
		Values: []string{"$Time{1,1000,0,10}"},
	})
	if got := v.TimeIntervals(); !slices.Equal(got, []time.Duration{time.Second}) {
		t.Fatalf("unexpected intervals %v", got)
	}
	for range 9 {
		v.TickTime(time.Second)
		v.TickTime(500 * time.Millisecond) // No terms use this interval.
	}
	if got, _ := v.Int(); got != 9 {
		t.Fatalf("want 9, got %d", got)
	}
	v.TickTime(time.Second)
	if got, _ := v.Int(); got != 0 {
		t.Fatalf("want wraparound to 0, got %d", got)
	}
}

func TestToggleAction(t *testing.T) {
	var set gluniform.Set
	v := mustLoad(t, &set, gluniform.LoadConfig{Name: "on", Values: []string{"$Action{5,1,0}"}})
	if got := v.ActionButtons(); !slices.Equal(got, []glreact.Button{5}) {
		t.Fatalf("unexpected buttons %v", got)
	}
	for i, want := range []float32{1, 0, 1} {
		if got, _ := v.Float(); got != want {
			t.Fatalf("toggle %d: want %v, got %v", i, want, got)
		}
		v.ToggleAction(5)
		v.ToggleAction(4)
	}
}

func TestTickActionPressed(t *testing.T) {
	var set gluniform.Set
	v := mustLoad(t, &set, gluniform.LoadConfig{
		Name:   "charge",
		Elem:   gluniform.ElemInt,
		Values: []string{"$ActionPressed{3,500,2,-1,0}"},
	})
	const iv = 500 * time.Millisecond
	pressed := glreact.ButtonSet(0).With(3)
	v.TickActionPressed(iv, pressed)
	v.TickActionPressed(iv, pressed)
	if got, _ := v.Int(); got != 4 {
		t.Fatalf("want 4, got %d", got)
	}
	v.TickActionPressed(iv, glreact.ButtonSet(0))
	if got, _ := v.Int(); got != 3 {
		t.Fatalf("want 3, got %d", got)
	}
	v.ResetAll()
	if got, _ := v.Int(); got != 0 {
		t.Fatalf("want reset to 0, got %d", got)
	}
}

func TestUintWrap(t *testing.T) {
	var set gluniform.Set
	v := mustLoad(t, &set, gluniform.LoadConfig{
		Name:   "seed",
		Elem:   gluniform.ElemUint,
		Values: []string{"$Time{-1,16}"},
	})
	v.TickTime(16 * time.Millisecond)
	if got, _ := v.Uint(); got != ^uint32(0) {
		t.Fatalf("want max uint32, got %d", got)
	}
}

func TestReloadDiscardsTerms(t *testing.T) {
	var set gluniform.Set
	v := mustLoad(t, &set, gluniform.LoadConfig{Name: "x", Values: []string{"$Time{1,100}", "$Action{1,0,1}"}, Shape: gluniform.ShapeVec2})
	v.TickTime(100 * time.Millisecond)
	if v.NumTerms() != 2 {
		t.Fatalf("want 2 terms, got %d", v.NumTerms())
	}
	v2 := mustLoad(t, &set, gluniform.LoadConfig{Name: "x", Values: []string{"$ActionPressed{2,50,1,0}"}})
	if v2 != v {
		t.Fatal("reload must keep the variable pointer")
	}
	if len(v.TimeIntervals()) != 0 || len(v.ActionButtons()) != 0 {
		t.Fatalf("stale buckets after reload: %v %v", v.TimeIntervals(), v.ActionButtons())
	}
	if got := v.PressedIntervals(); !slices.Equal(got, []time.Duration{50 * time.Millisecond}) {
		t.Fatalf("unexpected pressed intervals %v", got)
	}
	v.TickTime(100 * time.Millisecond)
	v.ToggleAction(1)
	if v.NumTerms() != 1 || v.Shape() != gluniform.ShapeScalar {
		t.Fatalf("unexpected state after reload: %d terms, shape %s", v.NumTerms(), v.Shape())
	}
	if got, _ := v.Float(); got != 0 {
		t.Fatalf("want 0, got %v", got)
	}
}

func TestComposition(t *testing.T) {
	var set gluniform.Set
	mustLoad(t, &set, gluniform.LoadConfig{Name: "A", Shape: gluniform.ShapeMat2, Values: []string{"1", "2", "3", "4"}})
	mustLoad(t, &set, gluniform.LoadConfig{Name: "B", Shape: gluniform.ShapeMat2, Values: []string{"0", "1", "1", "0"}})
	mustLoad(t, &set, gluniform.LoadConfig{Name: "k", Values: []string{"2"}})
	mustLoad(t, &set, gluniform.LoadConfig{Name: "p", Shape: gluniform.ShapeVec2, Values: []string{"1", "-1"}})
	ab := mustLoad(t, &set, gluniform.LoadConfig{Name: "AB", Shape: gluniform.ShapeMat2, Composition: true, Values: []string{"A", "B"}})
	ba := mustLoad(t, &set, gluniform.LoadConfig{Name: "BA", Shape: gluniform.ShapeMat2, Composition: true, Values: []string{"B", "A"}})
	kabp := mustLoad(t, &set, gluniform.LoadConfig{Name: "kABp", Shape: gluniform.ShapeVec2, Composition: true, Values: []string{"k", "A", "B", "p"}})

	if !ab.Valid() || !ab.IsComposition() || ab.NumTerms() != 0 {
		t.Fatal("composition should be valid and own no terms")
	}
	if got := readFloats(t, ab, 0); !slices.Equal(got, []float32{2, 1, 4, 3}) {
		t.Errorf("A×B: got %v", got)
	}
	if got := readFloats(t, ba, 0); !slices.Equal(got, []float32{3, 4, 1, 2}) {
		t.Errorf("B×A: got %v", got)
	}
	// k×A×B×p = 2*[[2,1],[4,3]]*[1,-1] = [2,2]
	if got := readFloats(t, kabp, 0); !slices.Equal(got, []float32{2, 2}) {
		t.Errorf("k×A×B×p: got %v", got)
	}
	m2, err := ab.Mat2()
	if err != nil {
		t.Fatal(err)
	}
	if arr := m2.Array(); arr != [4]float32{2, 1, 4, 3} {
		t.Errorf("Mat2: got %v", arr)
	}
	if err := set.Err(); err != nil {
		t.Fatalf("unexpected set error: %v", err)
	}
}

func TestCompositionResolutionErrors(t *testing.T) {
	var set gluniform.Set
	mustLoad(t, &set, gluniform.LoadConfig{Name: "A", Shape: gluniform.ShapeMat2, Values: []string{"1", "2", "3", "4"}})
	mustLoad(t, &set, gluniform.LoadConfig{Name: "v3", Shape: gluniform.ShapeVec3, Values: []string{"1", "2", "3"}})
	mustLoad(t, &set, gluniform.LoadConfig{Name: "n", Elem: gluniform.ElemInt, Values: []string{"2"}})
	mustLoad(t, &set, gluniform.LoadConfig{Name: "bad", Shape: gluniform.ShapeMat2, Values: []string{"1", "2", "3", "4+"}})
	mustLoad(t, &set, gluniform.LoadConfig{Name: "AA", Shape: gluniform.ShapeMat2, Composition: true, Values: []string{"A", "A"}})
	for _, tc := range []struct {
		refs    []string
		shape   gluniform.Shape
		wantErr error
	}{
		{[]string{"A", "missing"}, gluniform.ShapeMat2, gluniform.ErrNotFound},
		{[]string{"AA", "A"}, gluniform.ShapeMat2, gluniform.ErrNestedComposition},
		{[]string{"n", "A"}, gluniform.ShapeMat2, gluniform.ErrWrongElem},
		{[]string{"A", "v3"}, gluniform.ShapeMat2, gluniform.ErrWrongShape},
		{[]string{"A"}, gluniform.ShapeMat3, gluniform.ErrWrongShape},
		{[]string{"A", "bad"}, gluniform.ShapeMat2, glexpr.ErrInvalidCell},
	} {
		v := mustLoad(t, &set, gluniform.LoadConfig{Name: "C", Shape: tc.shape, Composition: true, Values: tc.refs})
		m, err := gluniform.Read[float32](v, 0)
		if !errors.Is(err, tc.wantErr) || !gluniform.IsResolutionError(err) {
			t.Errorf("%v: want resolution error wrapping %v, got %v", tc.refs, tc.wantErr, err)
		}
		want := gluniform.Identity[float32](tc.shape.Rows(), tc.shape.Cols())
		if m != want {
			t.Errorf("%v: want identity %v, got %v", tc.refs, want.Values(), m.Values())
		}
	}
}

func TestDeleteReferenced(t *testing.T) {
	var set gluniform.Set
	mustLoad(t, &set, gluniform.LoadConfig{Name: "s", Values: []string{"3"}})
	c := mustLoad(t, &set, gluniform.LoadConfig{Name: "c", Composition: true, Values: []string{"s", "s"}})
	if got, err := c.Float(); err != nil || got != 9 {
		t.Fatalf("want 9, got %v (%v)", got, err)
	}
	set.Delete("s")
	got, err := c.Float()
	if !errors.Is(err, gluniform.ErrNotFound) || got != 1 {
		t.Fatalf("want identity and ErrNotFound, got %v (%v)", got, err)
	}
	if !slices.Equal(set.Names(), []string{"c"}) {
		t.Fatalf("unexpected names %v", set.Names())
	}
}

func TestSetUnion(t *testing.T) {
	var set gluniform.Set
	mustLoad(t, &set, gluniform.LoadConfig{Name: "a", Values: []string{"$Time{1,100}+$Time{1,16}"}})
	mustLoad(t, &set, gluniform.LoadConfig{Name: "b", Values: []string{"$Time{1,100}*$Action{7,0,1}+$ActionPressed{7,33,1,0}"}})
	mustLoad(t, &set, gluniform.LoadConfig{Name: "c", Values: []string{"$Action{2,0,1}"}})
	if got := set.TimeIntervals(); !slices.Equal(got, []time.Duration{16 * time.Millisecond, 100 * time.Millisecond}) {
		t.Errorf("time intervals: %v", got)
	}
	if got := set.PressedIntervals(); !slices.Equal(got, []time.Duration{33 * time.Millisecond}) {
		t.Errorf("pressed intervals: %v", got)
	}
	if got := set.ActionButtons(); !slices.Equal(got, []glreact.Button{2, 7}) {
		t.Errorf("buttons: %v", got)
	}
	set.ToggleAction(7)
	set.TickTime(100 * time.Millisecond)
	b, _ := set.Lookup("b")
	if got, _ := b.Float(); got != 1 {
		t.Fatalf("want 1, got %v", got)
	}
	set.TickActionPressed(33*time.Millisecond, glreact.ButtonsFunc(func(glreact.Button) bool { return true }))
	if got, _ := b.Float(); got != 2 {
		t.Fatalf("want 2, got %v", got)
	}
	set.ResetAll()
	if got, _ := b.Float(); got != 0 {
		t.Fatalf("want 0 after reset, got %v", got)
	}
}

func TestMul(t *testing.T) {
	a := gluniform.Mat[int32]{Rows: 2, Cols: 3, Data: [16]int32{1, 2, 3, 4, 5, 6}}
	b := gluniform.Mat[int32]{Rows: 3, Cols: 1, Data: [16]int32{1, 0, -1}}
	c, err := gluniform.Mul(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if c.Rows != 2 || c.Cols != 1 || !slices.Equal(c.Values(), []int32{-2, -2}) {
		t.Fatalf("unexpected product %dx%d %v", c.Rows, c.Cols, c.Values())
	}
	if _, err := gluniform.Mul(b, a); !errors.Is(err, gluniform.ErrWrongShape) {
		t.Fatalf("want ErrWrongShape, got %v", err)
	}
	id := gluniform.Identity[int32](3, 3)
	if got, _ := gluniform.Mul(a, id); got != a {
		t.Fatalf("identity product changed matrix: %v", got.Values())
	}
	if got := gluniform.Identity[float32](4, 1); !slices.Equal(got.Values(), []float32{1, 0, 0, 0}) {
		t.Fatalf("vector identity: %v", got.Values())
	}
}

func TestMulSquareFloat(t *testing.T) {
	for _, tc := range []struct {
		n    int
		a, b []float32
		want []float32
	}{
		{2, []float32{1, 2, 3, 4}, []float32{0, -1, 1, 0}, []float32{2, -1, 4, -3}},
		{3,
			[]float32{1, 2, 3, 4, 5, 6, 7, 8, 9},
			[]float32{0, 1, 0, 1, 0, 0, 0, 0, 1},
			[]float32{2, 1, 3, 5, 4, 6, 8, 7, 9}},
		{4,
			[]float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
			[]float32{2, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
			[]float32{2, 2, 3, 4, 10, 6, 7, 8, 18, 10, 11, 12, 26, 14, 15, 16}},
	} {
		a := gluniform.Mat[float32]{Rows: tc.n, Cols: tc.n}
		b := gluniform.Mat[float32]{Rows: tc.n, Cols: tc.n}
		copy(a.Data[:], tc.a)
		copy(b.Data[:], tc.b)
		c, err := gluniform.Mul(a, b)
		if err != nil {
			t.Fatal(err)
		}
		if c.Rows != tc.n || c.Cols != tc.n || !slices.Equal(c.Values(), tc.want) {
			t.Errorf("mat%d: got %dx%d %v, want %v", tc.n, c.Rows, c.Cols, c.Values(), tc.want)
		}
		id := gluniform.Identity[float32](tc.n, tc.n)
		if got, _ := gluniform.Mul(id, a); got != a {
			t.Errorf("mat%d: identity product changed matrix: %v", tc.n, got.Values())
		}
	}
}

func TestCompositionAccessors(t *testing.T) {
	var set gluniform.Set
	mustLoad(t, &set, gluniform.LoadConfig{Name: "a", Values: []string{"2"}})
	c := mustLoad(t, &set, gluniform.LoadConfig{Name: "c", Composition: true, Values: []string{"a"}})
	if _, err := c.Cell(0); err == nil {
		t.Fatal("expected error reading cell of composition")
	}
	if _, err := c.Cell(-1); err == nil {
		t.Fatal("expected error for negative cell index")
	}
	_, err := gluniform.Read[int32](c, 0)
	if !errors.Is(err, gluniform.ErrWrongElem) || gluniform.IsResolutionError(err) {
		t.Fatalf("want plain ErrWrongElem, got %v", err)
	}
	_, err = gluniform.Read[uint32](c, 0)
	if !errors.Is(err, gluniform.ErrWrongElem) {
		t.Fatalf("want ErrWrongElem, got %v", err)
	}
	if got, err := c.Float(); err != nil || got != 2 {
		t.Fatalf("want 2, got %v (%v)", got, err)
	}
}

func BenchmarkVariableRead(b *testing.B) {
	var set gluniform.Set
	v, err := set.Load(gluniform.LoadConfig{
		Name:  "rot",
		Shape: gluniform.ShapeMat3,
		Values: []string{
			"cos $Time{0.01,16}", "-sin $Time{0.01,16}", "0",
			"sin $Time{0.01,16}", "cos $Time{0.01,16}", "0",
			"0", "0", "1",
		},
	})
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.TickTime(16 * time.Millisecond)
		_, _ = v.Mat3()
	}
}
