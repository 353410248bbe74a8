package containers

const minDequeCap = 8

// Deque is a double-ended queue backed by a ring buffer that doubles when
// full and never shrinks.
type Deque[E any] struct {
	buf   []E
	head  int
	count int
}

// NewDeque returns an empty deque with room for capacity elements.
func NewDeque[E any](capacity int) *Deque[E] {
	return &Deque[E]{buf: make([]E, capacity)}
}

// Len returns the number of elements.
func (d *Deque[E]) Len() int {
	return d.count
}

// Cap returns the number of elements the deque holds before growing.
func (d *Deque[E]) Cap() int {
	return len(d.buf)
}

// PushBack appends v at the back.
func (d *Deque[E]) PushBack(v E) {
	d.grow()
	d.buf[d.index(d.count)] = v
	d.count++
}

// PushFront prepends v at the front.
func (d *Deque[E]) PushFront(v E) {
	d.grow()
	d.head = d.prev(d.head)
	d.buf[d.head] = v
	d.count++
}

// PopFront removes and returns the front element.
func (d *Deque[E]) PopFront() (E, bool) {
	var zero E
	if d.count == 0 {
		return zero, false
	}
	v := d.buf[d.head]
	d.buf[d.head] = zero
	d.head = d.index(1)
	d.count--
	return v, true
}

// PopBack removes and returns the back element.
func (d *Deque[E]) PopBack() (E, bool) {
	var zero E
	if d.count == 0 {
		return zero, false
	}
	i := d.index(d.count - 1)
	v := d.buf[i]
	d.buf[i] = zero
	d.count--
	return v, true
}

// Front returns the front element without removing it.
func (d *Deque[E]) Front() (E, bool) {
	if d.count == 0 {
		var zero E
		return zero, false
	}
	return d.buf[d.head], true
}

// Back returns the back element without removing it.
func (d *Deque[E]) Back() (E, bool) {
	if d.count == 0 {
		var zero E
		return zero, false
	}
	return d.buf[d.index(d.count-1)], true
}

// At returns the i-th element counted from the front. It panics if i is
// out of range.
func (d *Deque[E]) At(i int) E {
	if i < 0 || i >= d.count {
		panic("containers: deque index out of range")
	}
	return d.buf[d.index(i)]
}

// Clear zeroes the occupied slots and empties the deque. The ring buffer
// is kept.
func (d *Deque[E]) Clear() {
	for i := 0; i < d.count; i++ {
		var zero E
		d.buf[d.index(i)] = zero
	}
	d.head = 0
	d.count = 0
}

func (d *Deque[E]) index(offset int) int {
	return (d.head + offset) % len(d.buf)
}

func (d *Deque[E]) prev(i int) int {
	if i == 0 {
		return len(d.buf) - 1
	}
	return i - 1
}

func (d *Deque[E]) grow() {
	if d.count < len(d.buf) {
		return
	}
	size := len(d.buf) * 2
	if size < minDequeCap {
		size = minDequeCap
	}
	buf := make([]E, size)
	for i := 0; i < d.count; i++ {
		buf[i] = d.buf[d.index(i)]
	}
	d.buf = buf
	d.head = 0
}
