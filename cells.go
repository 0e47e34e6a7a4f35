package gluniform

import (
	"time"

	"github.com/soypat/gluniform/glexpr"
	"github.com/soypat/gluniform/glreact"
)

// store is the element type independent view of a variable's cells.
// It is implemented by *cells[T] for each element type.
type store interface {
	len() int
	cell(i int) (src string, err error)
	buckets() *glreact.Buckets
	tickTime(interval time.Duration)
	tickPressed(interval time.Duration, buttons glreact.Buttons)
	toggle(b glreact.Button)
	resetAll()
	// appendFloats appends the values of n cells starting at cell start.
	appendFloats(dst []float64, start, n int) []float64
}

// cells holds the compiled formulas of a non composition variable and the
// index of their reactive terms.
type cells[T Number] struct {
	c   []*glexpr.Cell[T]
	bkt glreact.Buckets
}

func newCells[T Number](formulas []string) *cells[T] {
	cs := &cells[T]{c: make([]*glexpr.Cell[T], len(formulas))}
	for i, src := range formulas {
		cs.c[i] = glexpr.NewCell[T](src)
		glreact.AddRegistry(&cs.bkt, i, cs.c[i].Terms())
	}
	return cs
}

func (cs *cells[T]) len() int { return len(cs.c) }

func (cs *cells[T]) cell(i int) (string, error) { return cs.c[i].Source(), cs.c[i].Err() }

func (cs *cells[T]) buckets() *glreact.Buckets { return &cs.bkt }

func (cs *cells[T]) term(ref glreact.Ref) glreact.Term[T] {
	return cs.c[ref.Cell].Terms().At(ref.Term)
}

func (cs *cells[T]) tickTime(interval time.Duration) {
	for _, ref := range cs.bkt.Time(interval) {
		cs.term(ref).(*glreact.Time[T]).Tick()
	}
}

func (cs *cells[T]) tickPressed(interval time.Duration, buttons glreact.Buttons) {
	for _, ref := range cs.bkt.Pressed(interval) {
		ap := cs.term(ref).(*glreact.ActionPressed[T])
		ap.Tick(buttons.IsPressed(ap.Button()))
	}
}

func (cs *cells[T]) toggle(b glreact.Button) {
	for _, ref := range cs.bkt.Action(b) {
		cs.term(ref).(*glreact.Action[T]).Toggle()
	}
}

func (cs *cells[T]) resetAll() {
	for _, c := range cs.c {
		c.Terms().ResetAll()
	}
}

func (cs *cells[T]) read(dst *Mat[T], start int) {
	for i := range dst.Values() {
		dst.Data[i] = cs.c[start+i].Value()
	}
}

func (cs *cells[T]) appendFloats(dst []float64, start, n int) []float64 {
	for _, c := range cs.c[start : start+n] {
		dst = append(dst, float64(c.Value()))
	}
	return dst
}
