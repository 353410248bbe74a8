package containers

// Slice is a dynamic array. It is a named slice type, so the usual
// append/range/index syntax works on a dereferenced *Slice.
type Slice[E any] []E

// NewSlice returns an empty slice with room for capacity elements.
func NewSlice[E any](capacity int) *Slice[E] {
	s := make(Slice[E], 0, capacity)
	return &s
}

// Append adds elements to the end.
func (s *Slice[E]) Append(items ...E) {
	*s = append(*s, items...)
}

// At returns the element at index i.
func (s *Slice[E]) At(i int) E {
	return (*s)[i]
}

// Set replaces the element at index i.
func (s *Slice[E]) Set(i int, v E) {
	(*s)[i] = v
}

// Len returns the number of elements.
func (s *Slice[E]) Len() int {
	return len(*s)
}

// Cap returns the capacity of the backing array.
func (s *Slice[E]) Cap() int {
	return cap(*s)
}

// Grow makes room for at least n more elements without another allocation.
func (s *Slice[E]) Grow(n int) {
	if n <= 0 || cap(*s)-len(*s) >= n {
		return
	}
	grown := make(Slice[E], len(*s), len(*s)+n)
	copy(grown, *s)
	*s = grown
}

// Items returns the elements as a plain slice sharing the backing array.
func (s *Slice[E]) Items() []E {
	return *s
}

// Clear zeroes the elements so they can be collected and truncates to
// length 0. The backing array is kept.
func (s *Slice[E]) Clear() {
	clear(*s)
	*s = (*s)[:0]
}
