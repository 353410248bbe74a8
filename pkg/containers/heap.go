package containers

import (
	"cmp"
	"container/heap"
)

// heapData adapts a slice and an ordering to heap.Interface.
type heapData[E any] struct {
	items []E
	less  func(a, b E) bool
}

func (d *heapData[E]) Len() int           { return len(d.items) }
func (d *heapData[E]) Less(i, j int) bool { return d.less(d.items[i], d.items[j]) }
func (d *heapData[E]) Swap(i, j int)      { d.items[i], d.items[j] = d.items[j], d.items[i] }

func (d *heapData[E]) Push(x any) {
	d.items = append(d.items, x.(E))
}

func (d *heapData[E]) Pop() any {
	n := len(d.items) - 1
	v := d.items[n]
	var zero E
	d.items[n] = zero
	d.items = d.items[:n]
	return v
}

func (d *heapData[E]) push(v E) {
	heap.Push(d, v)
}

func (d *heapData[E]) pop() (E, bool) {
	if len(d.items) == 0 {
		var zero E
		return zero, false
	}
	return heap.Pop(d).(E), true
}

func (d *heapData[E]) peek() (E, bool) {
	if len(d.items) == 0 {
		var zero E
		return zero, false
	}
	return d.items[0], true
}

func (d *heapData[E]) clear() {
	clear(d.items)
	d.items = d.items[:0]
}

// Heap is a min-priority queue over an ordered element type: Pop returns
// the smallest element. The zero value is an empty heap.
type Heap[E cmp.Ordered] struct {
	data heapData[E]
}

// NewHeap returns an empty heap with room for capacity elements.
func NewHeap[E cmp.Ordered](capacity int) *Heap[E] {
	return &Heap[E]{data: heapData[E]{items: make([]E, 0, capacity), less: cmp.Less[E]}}
}

func (h *Heap[E]) ordered() *heapData[E] {
	if h.data.less == nil {
		h.data.less = cmp.Less[E]
	}
	return &h.data
}

// Push adds v.
func (h *Heap[E]) Push(v E) { h.ordered().push(v) }

// Pop removes and returns the smallest element.
func (h *Heap[E]) Pop() (E, bool) { return h.ordered().pop() }

// Peek returns the smallest element without removing it.
func (h *Heap[E]) Peek() (E, bool) { return h.data.peek() }

// Len returns the number of elements.
func (h *Heap[E]) Len() int { return len(h.data.items) }

// Cap returns the capacity of the backing slice.
func (h *Heap[E]) Cap() int { return cap(h.data.items) }

// Clear empties the heap and keeps the backing slice.
func (h *Heap[E]) Clear() { h.data.clear() }

// HeapFunc is a priority queue ordered by a caller-supplied less function:
// Pop returns the element that sorts first. Use NewHeapFunc; the zero value
// has no ordering and panics on Push.
type HeapFunc[E any] struct {
	data heapData[E]
}

// NewHeapFunc returns an empty heap ordered by less.
func NewHeapFunc[E any](capacity int, less func(a, b E) bool) *HeapFunc[E] {
	return &HeapFunc[E]{data: heapData[E]{items: make([]E, 0, capacity), less: less}}
}

// Push adds v.
func (h *HeapFunc[E]) Push(v E) {
	if h.data.less == nil {
		panic("containers: HeapFunc used without NewHeapFunc")
	}
	h.data.push(v)
}

// Pop removes and returns the first element.
func (h *HeapFunc[E]) Pop() (E, bool) { return h.data.pop() }

// Peek returns the first element without removing it.
func (h *HeapFunc[E]) Peek() (E, bool) { return h.data.peek() }

// Len returns the number of elements.
func (h *HeapFunc[E]) Len() int { return len(h.data.items) }

// Cap returns the capacity of the backing slice.
func (h *HeapFunc[E]) Cap() int { return cap(h.data.items) }

// Clear empties the heap and keeps the backing slice and ordering.
func (h *HeapFunc[E]) Clear() { h.data.clear() }
