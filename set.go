package gluniform

import (
	"errors"
	"maps"
	"slices"
	"time"

	"github.com/soypat/gluniform/glreact"
)

// Set is a collection of uniquely named variables. Composition variables in
// a set resolve their operands among the set's variables. The zero value is
// an empty set ready to use.
type Set struct {
	vars map[string]*Variable
}

// Load creates the variable named cfg.Name or replaces its contents if it
// already exists. Pointers to an existing variable remain valid across loads.
func (s *Set) Load(cfg LoadConfig) (*Variable, error) {
	v := s.vars[cfg.Name]
	if v == nil {
		v = &Variable{Resolver: s}
	}
	err := v.Load(cfg)
	if err != nil {
		return nil, err
	}
	if s.vars == nil {
		s.vars = make(map[string]*Variable)
	}
	s.vars[cfg.Name] = v
	return v, nil
}

// Delete removes the named variable. Compositions referencing it fail to
// resolve on their next read.
func (s *Set) Delete(name string) {
	v := s.vars[name]
	if v == nil {
		return
	}
	if v.Resolver == Resolver(s) {
		v.Resolver = nil
	}
	delete(s.vars, name)
}

// Lookup implements [Resolver].
func (s *Set) Lookup(name string) (*Variable, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Len returns the amount of variables in the set.
func (s *Set) Len() int { return len(s.vars) }

// Names returns the variable names in ascending order.
func (s *Set) Names() []string {
	return slices.Sorted(maps.Keys(s.vars))
}

// Err returns the joined errors of every invalid variable and every
// composition that fails to resolve, or nil if all variables can be read.
func (s *Set) Err() error {
	var errs []error
	for _, name := range s.Names() {
		v := s.vars[name]
		if v.IsComposition() {
			if _, err := v.Floats(nil, 0); err != nil {
				errs = append(errs, err)
			}
		} else if err := v.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// TickTime calls [Variable.TickTime] on every variable.
func (s *Set) TickTime(interval time.Duration) {
	for _, v := range s.vars {
		v.TickTime(interval)
	}
}

// TickActionPressed calls [Variable.TickActionPressed] on every variable.
func (s *Set) TickActionPressed(interval time.Duration, buttons glreact.Buttons) {
	for _, v := range s.vars {
		v.TickActionPressed(interval, buttons)
	}
}

// ToggleAction calls [Variable.ToggleAction] on every variable.
func (s *Set) ToggleAction(b glreact.Button) {
	for _, v := range s.vars {
		v.ToggleAction(b)
	}
}

// ResetAll resets the reactive terms of every variable.
func (s *Set) ResetAll() {
	for _, v := range s.vars {
		v.ResetAll()
	}
}

// TimeIntervals returns the distinct Time refresh intervals in use by any variable, ascending.
func (s *Set) TimeIntervals() []time.Duration {
	return s.union(func(v *Variable) []time.Duration { return v.TimeIntervals() })
}

// PressedIntervals returns the distinct ActionPressed refresh intervals in use by any variable, ascending.
func (s *Set) PressedIntervals() []time.Duration {
	return s.union(func(v *Variable) []time.Duration { return v.PressedIntervals() })
}

// ActionButtons returns the distinct buttons bound to Action terms of any variable, ascending.
func (s *Set) ActionButtons() []glreact.Button {
	var all []glreact.Button
	for _, v := range s.vars {
		all = append(all, v.ActionButtons()...)
	}
	slices.Sort(all)
	return slices.Compact(all)
}

func (s *Set) union(keys func(*Variable) []time.Duration) []time.Duration {
	var all []time.Duration
	for _, v := range s.vars {
		all = append(all, keys(v)...)
	}
	slices.Sort(all)
	return slices.Compact(all)
}
