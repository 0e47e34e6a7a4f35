package glreact

import (
	"errors"
	"strconv"
)

// MaxButton is the largest button id a reactive term may bind to.
const MaxButton Button = 14

// Button identifies one of the user input buttons available to
// $Action and $ActionPressed terms. Valid ids are 0..MaxButton.
type Button uint8

var errButtonRange = errors.New("button id out of range [0,14]")

// ParseButton parses a decimal button id. Signs and fractions are rejected.
func ParseButton(s string) (Button, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, err
	}
	b := Button(v)
	if !b.Valid() {
		return 0, errButtonRange
	}
	return b, nil
}

// Valid reports whether b is in the button id space.
func (b Button) Valid() bool { return b <= MaxButton }

// Buttons reports the current press state of buttons. Implementations are
// supplied by whatever owns the input devices; terms never look up press
// state on their own.
type Buttons interface {
	IsPressed(b Button) bool
}

// ButtonsFunc adapts an ordinary function to the [Buttons] interface.
type ButtonsFunc func(b Button) bool

// IsPressed calls f(b).
func (f ButtonsFunc) IsPressed(b Button) bool { return f(b) }

// ButtonSet is a bitset of pressed buttons. The zero value has no buttons pressed.
type ButtonSet uint16

// IsPressed implements [Buttons].
func (bs ButtonSet) IsPressed(b Button) bool {
	return b.Valid() && bs&(1<<b) != 0
}

// With returns the set with b pressed.
func (bs ButtonSet) With(b Button) ButtonSet {
	if !b.Valid() {
		return bs
	}
	return bs | 1<<b
}

// Without returns the set with b released.
func (bs ButtonSet) Without(b Button) ButtonSet {
	return bs &^ (1 << b)
}
