package glreact

import (
	"errors"
	"time"
)

// Number is the set of element types a reactive term may hold.
type Number interface {
	~int32 | ~uint32 | ~float32
}

// Kind is the kind of a reactive term.
type Kind uint8

const (
	KindTime Kind = iota + 1
	KindAction
	KindActionPressed
)

func (k Kind) String() string {
	switch k {
	case KindTime:
		return "Time"
	case KindAction:
		return "Action"
	case KindActionPressed:
		return "ActionPressed"
	}
	return "Kind(?)"
}

// Term is a stateful scalar source usable inside a formula. Its value only
// changes through the kind specific Tick/Toggle methods or Reset.
type Term[T Number] interface {
	Kind() Kind
	// Value returns the current value of the term.
	Value() T
	// Reset sets the term back to its initial value.
	Reset()
}

var errInterval = errors.New("refresh interval must be positive")

// Time is a counter that advances by a fixed increment every time its
// refresh interval elapses. If Max is non-zero the counter resets to
// Default once its magnitude reaches Max.
type Time[T Number] struct {
	Increment T
	Default   T
	Max       T
	interval  time.Duration
	value     T
}

// NewTime returns a Time term starting at def.
func NewTime[T Number](increment T, interval time.Duration, def, max T) (*Time[T], error) {
	if interval <= 0 {
		return nil, errInterval
	}
	return &Time[T]{Increment: increment, Default: def, Max: max, interval: interval, value: def}, nil
}

func (*Time[T]) Kind() Kind { return KindTime }

func (t *Time[T]) Value() T { return t.value }

func (t *Time[T]) Reset() { t.value = t.Default }

// Interval returns the refresh interval that should trigger [Time.Tick].
func (t *Time[T]) Interval() time.Duration { return t.interval }

// Tick advances the counter by one increment.
func (t *Time[T]) Tick() {
	t.value += t.Increment
	if t.Max != 0 && abs(t.value) >= abs(t.Max) {
		t.value = t.Default
	}
}

// Action flips between two values every time its button is toggled.
type Action[T Number] struct {
	First  T
	Second T
	button Button
	second bool
}

// NewAction returns an Action term bound to button b, starting at first.
func NewAction[T Number](b Button, first, second T) (*Action[T], error) {
	if !b.Valid() {
		return nil, errButtonRange
	}
	return &Action[T]{First: first, Second: second, button: b}, nil
}

func (*Action[T]) Kind() Kind { return KindAction }

func (a *Action[T]) Value() T {
	if a.second {
		return a.Second
	}
	return a.First
}

func (a *Action[T]) Reset() { a.second = false }

// Button returns the button that toggles the term.
func (a *Action[T]) Button() Button { return a.button }

// Toggle switches the current value between First and Second.
func (a *Action[T]) Toggle() { a.second = !a.second }

// ActionPressed accumulates one of two increments every refresh interval
// depending on whether its button is held down at tick time.
type ActionPressed[T Number] struct {
	Pressed  T
	Released T
	Default  T
	button   Button
	interval time.Duration
	value    T
}

// NewActionPressed returns an ActionPressed term bound to button b, starting at def.
func NewActionPressed[T Number](b Button, interval time.Duration, pressed, released, def T) (*ActionPressed[T], error) {
	if !b.Valid() {
		return nil, errButtonRange
	}
	if interval <= 0 {
		return nil, errInterval
	}
	return &ActionPressed[T]{Pressed: pressed, Released: released, Default: def, button: b, interval: interval, value: def}, nil
}

func (*ActionPressed[T]) Kind() Kind { return KindActionPressed }

func (a *ActionPressed[T]) Value() T { return a.value }

func (a *ActionPressed[T]) Reset() { a.value = a.Default }

// Button returns the button whose press state is sampled on Tick.
func (a *ActionPressed[T]) Button() Button { return a.button }

// Interval returns the refresh interval that should trigger [ActionPressed.Tick].
func (a *ActionPressed[T]) Interval() time.Duration { return a.interval }

// Tick adds Pressed to the value if pressed is true, else Released.
func (a *ActionPressed[T]) Tick(pressed bool) {
	if pressed {
		a.value += a.Pressed
	} else {
		a.value += a.Released
	}
}

func abs[T Number](v T) T {
	if v < 0 {
		return -v
	}
	return v
}
