package pool

import (
	"cmp"

	"github.com/ajitpratap0/clearpool/pkg/containers"
	"github.com/ajitpratap0/clearpool/pkg/strings"
)

// Pools of the standard containers.
type (
	SlicePool[E any]             = Pool[containers.Slice[E], *containers.Slice[E]]
	MapPool[K comparable, V any] = Pool[containers.Map[K, V], *containers.Map[K, V]]
	SetPool[E comparable]        = Pool[containers.Set[E], *containers.Set[E]]
	DequePool[E any]             = Pool[containers.Deque[E], *containers.Deque[E]]
	HeapPool[E cmp.Ordered]      = Pool[containers.Heap[E], *containers.Heap[E]]
	HeapFuncPool[E any]          = Pool[containers.HeapFunc[E], *containers.HeapFunc[E]]
	BitSetPool                   = Pool[containers.BitSet, *containers.BitSet]
	StringPool                   = Pool[strings.Builder, *strings.Builder]
)

// NewSlicePool returns a shared pool of slices.
func NewSlicePool[E any](opts ...Option) *SlicePool[E] {
	return New[containers.Slice[E]](opts...)
}

// NewLocalSlicePool returns a single-goroutine pool of slices.
func NewLocalSlicePool[E any](opts ...Option) *SlicePool[E] {
	return NewLocal[containers.Slice[E]](nil, opts...)
}

// NewMapPool returns a shared pool of hash maps.
func NewMapPool[K comparable, V any](opts ...Option) *MapPool[K, V] {
	return NewFunc(newMap[K, V], opts...)
}

// NewLocalMapPool returns a single-goroutine pool of hash maps.
func NewLocalMapPool[K comparable, V any](opts ...Option) *MapPool[K, V] {
	return NewLocal(newMap[K, V], opts...)
}

// NewSetPool returns a shared pool of hash sets.
func NewSetPool[E comparable](opts ...Option) *SetPool[E] {
	return NewFunc(newSet[E], opts...)
}

// NewLocalSetPool returns a single-goroutine pool of hash sets.
func NewLocalSetPool[E comparable](opts ...Option) *SetPool[E] {
	return NewLocal(newSet[E], opts...)
}

// NewDequePool returns a shared pool of double-ended queues.
func NewDequePool[E any](opts ...Option) *DequePool[E] {
	return New[containers.Deque[E]](opts...)
}

// NewLocalDequePool returns a single-goroutine pool of double-ended queues.
func NewLocalDequePool[E any](opts ...Option) *DequePool[E] {
	return NewLocal[containers.Deque[E]](nil, opts...)
}

// NewHeapPool returns a shared pool of min-heaps.
func NewHeapPool[E cmp.Ordered](opts ...Option) *HeapPool[E] {
	return New[containers.Heap[E]](opts...)
}

// NewLocalHeapPool returns a single-goroutine pool of min-heaps.
func NewLocalHeapPool[E cmp.Ordered](opts ...Option) *HeapPool[E] {
	return NewLocal[containers.Heap[E]](nil, opts...)
}

// NewHeapFuncPool returns a shared pool of heaps ordered by less. Every
// instance in the pool shares the ordering.
func NewHeapFuncPool[E any](less func(a, b E) bool, opts ...Option) *HeapFuncPool[E] {
	return NewFunc(func() *containers.HeapFunc[E] {
		return containers.NewHeapFunc(0, less)
	}, opts...)
}

// NewBitSetPool returns a shared pool of bit sets.
func NewBitSetPool(opts ...Option) *BitSetPool {
	return New[containers.BitSet](opts...)
}

// NewLocalBitSetPool returns a single-goroutine pool of bit sets.
func NewLocalBitSetPool(opts ...Option) *BitSetPool {
	return NewLocal[containers.BitSet](nil, opts...)
}

// NewStringPool returns a shared pool of string builders.
func NewStringPool(opts ...Option) *StringPool {
	return New[strings.Builder](opts...)
}

// NewLocalStringPool returns a single-goroutine pool of string builders.
func NewLocalStringPool(opts ...Option) *StringPool {
	return NewLocal[strings.Builder](nil, opts...)
}

func newMap[K comparable, V any]() *containers.Map[K, V] {
	return containers.NewMap[K, V](0)
}

func newSet[E comparable]() *containers.Set[E] {
	return containers.NewSet[E](0)
}
