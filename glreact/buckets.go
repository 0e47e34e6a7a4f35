package glreact

import (
	"maps"
	"slices"
	"time"
)

// Ref locates one reactive term among the cells of a variable.
type Ref struct {
	Cell int // Index of the owning cell.
	Term int // Index of the term within the cell's [Registry].
}

// Buckets groups references to reactive terms by their trigger key so that
// all terms sharing a refresh interval or a button can be updated without
// scanning every cell. Buckets only stores references; callers resolve them.
type Buckets struct {
	time    map[time.Duration][]Ref
	pressed map[time.Duration][]Ref
	action  map[Button][]Ref
}

type (
	kinder      interface{ Kind() Kind }
	intervaler  interface{ Interval() time.Duration }
	buttonBound interface{ Button() Button }
)

// Add buckets term t found at ref according to its kind and trigger key.
// Terms of unknown kind are ignored.
func (b *Buckets) Add(ref Ref, t kinder) {
	switch t.Kind() {
	case KindTime:
		iv := t.(intervaler).Interval()
		if b.time == nil {
			b.time = make(map[time.Duration][]Ref)
		}
		b.time[iv] = append(b.time[iv], ref)
	case KindActionPressed:
		iv := t.(intervaler).Interval()
		if b.pressed == nil {
			b.pressed = make(map[time.Duration][]Ref)
		}
		b.pressed[iv] = append(b.pressed[iv], ref)
	case KindAction:
		btn := t.(buttonBound).Button()
		if b.action == nil {
			b.action = make(map[Button][]Ref)
		}
		b.action[btn] = append(b.action[btn], ref)
	}
}

// AddRegistry buckets every term of reg as belonging to cell.
func AddRegistry[T Number](b *Buckets, cell int, reg *Registry[T]) {
	reg.Each(func(i int, t Term[T]) {
		b.Add(Ref{Cell: cell, Term: i}, t)
	})
}

// Reset empties all buckets.
func (b *Buckets) Reset() {
	clear(b.time)
	clear(b.pressed)
	clear(b.action)
}

// Time returns the references to Time terms refreshed every interval.
func (b *Buckets) Time(interval time.Duration) []Ref { return b.time[interval] }

// Pressed returns the references to ActionPressed terms refreshed every interval.
func (b *Buckets) Pressed(interval time.Duration) []Ref { return b.pressed[interval] }

// Action returns the references to Action terms toggled by button btn.
func (b *Buckets) Action(btn Button) []Ref { return b.action[btn] }

// TimeIntervals returns the distinct Time refresh intervals in ascending order.
func (b *Buckets) TimeIntervals() []time.Duration {
	return slices.Sorted(maps.Keys(b.time))
}

// PressedIntervals returns the distinct ActionPressed refresh intervals in ascending order.
func (b *Buckets) PressedIntervals() []time.Duration {
	return slices.Sorted(maps.Keys(b.pressed))
}

// ActionButtons returns the distinct buttons bound to Action terms in ascending order.
func (b *Buckets) ActionButtons() []Button {
	return slices.Sorted(maps.Keys(b.action))
}

// Len returns the total amount of bucketed references.
func (b *Buckets) Len() (n int) {
	for _, refs := range b.time {
		n += len(refs)
	}
	for _, refs := range b.pressed {
		n += len(refs)
	}
	for _, refs := range b.action {
		n += len(refs)
	}
	return n
}
