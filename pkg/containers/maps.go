package containers

// Map is a hash map. Writes through the methods allocate the underlying
// map on first use, so the zero value is usable.
type Map[K comparable, V any] map[K]V

// NewMap returns an empty map sized for hint entries.
func NewMap[K comparable, V any](hint int) *Map[K, V] {
	m := make(Map[K, V], hint)
	return &m
}

// Put stores v under k.
func (m *Map[K, V]) Put(k K, v V) {
	if *m == nil {
		*m = make(Map[K, V])
	}
	(*m)[k] = v
}

// Get returns the value stored under k.
func (m *Map[K, V]) Get(k K) (V, bool) {
	v, ok := (*m)[k]
	return v, ok
}

// Has reports whether k is present.
func (m *Map[K, V]) Has(k K) bool {
	_, ok := (*m)[k]
	return ok
}

// Delete removes k.
func (m *Map[K, V]) Delete(k K) {
	delete(*m, k)
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return len(*m)
}

// Range calls fn for each entry until fn returns false.
func (m *Map[K, V]) Range(fn func(k K, v V) bool) {
	for k, v := range *m {
		if !fn(k, v) {
			return
		}
	}
}

// Clear removes every entry. The runtime keeps the allocated buckets.
func (m *Map[K, V]) Clear() {
	clear(*m)
}

// Set is a hash set.
type Set[E comparable] map[E]struct{}

// NewSet returns an empty set sized for hint elements.
func NewSet[E comparable](hint int) *Set[E] {
	s := make(Set[E], hint)
	return &s
}

// Add inserts v and reports whether it was not already present.
func (s *Set[E]) Add(v E) bool {
	if *s == nil {
		*s = make(Set[E])
	}
	if _, ok := (*s)[v]; ok {
		return false
	}
	(*s)[v] = struct{}{}
	return true
}

// Remove deletes v.
func (s *Set[E]) Remove(v E) {
	delete(*s, v)
}

// Contains reports whether v is present.
func (s *Set[E]) Contains(v E) bool {
	_, ok := (*s)[v]
	return ok
}

// Len returns the number of elements.
func (s *Set[E]) Len() int {
	return len(*s)
}

// Range calls fn for each element until fn returns false.
func (s *Set[E]) Range(fn func(v E) bool) {
	for v := range *s {
		if !fn(v) {
			return
		}
	}
}

// Clear removes every element. The runtime keeps the allocated buckets.
func (s *Set[E]) Clear() {
	clear(*s)
}
