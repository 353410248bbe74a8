// Package containers provides the capacity-preserving containers that
// clearpool knows how to pool: dynamic arrays, hash maps, hash sets,
// double-ended queues, priority queues and bit sets.
//
// Every container has a Clear method that empties it without returning its
// backing storage to the allocator, so that an instance handed back to a
// pool keeps the capacity it grew to. Calling Clear on an empty container
// is a no-op.
//
// The zero value of every container except HeapFunc is ready to use:
//
//	var s containers.Slice[int]
//	s.Append(1, 2, 3)
//	s.Clear() // len 0, cap unchanged
//
// Containers are not safe for concurrent use; the pool hands each instance
// to exactly one borrower at a time.
package containers
