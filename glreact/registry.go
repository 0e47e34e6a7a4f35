package glreact

// Registry owns the reactive terms discovered while lexing one formula.
// Terms are indexed in discovery order, which is the order their literals
// appear in the formula text.
type Registry[T Number] struct {
	terms []Term[T]
}

// Add appends a term and returns its index.
func (r *Registry[T]) Add(t Term[T]) int {
	r.terms = append(r.terms, t)
	return len(r.terms) - 1
}

// Len returns the number of registered terms.
func (r *Registry[T]) Len() int {
	if r == nil {
		return 0
	}
	return len(r.terms)
}

// At returns the i'th registered term.
func (r *Registry[T]) At(i int) Term[T] { return r.terms[i] }

// Value returns the current value of the i'th term.
func (r *Registry[T]) Value(i int) T { return r.terms[i].Value() }

// ResetAll resets every registered term to its initial value.
func (r *Registry[T]) ResetAll() {
	if r == nil {
		return
	}
	for _, t := range r.terms {
		t.Reset()
	}
}

// Each calls fn for every term in discovery order.
func (r *Registry[T]) Each(fn func(i int, t Term[T])) {
	if r == nil {
		return
	}
	for i, t := range r.terms {
		fn(i, t)
	}
}

// Clear drops all registered terms.
func (r *Registry[T]) Clear() {
	r.terms = r.terms[:0]
}
