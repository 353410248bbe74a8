// Package pool implements a generic object pool for clearable containers.
// Callers borrow an empty instance whose backing storage is already grown,
// use it, and release it; the pool clears it and keeps it for the next
// borrower instead of letting it become garbage.
//
// # Architecture
//
// Three pieces make up the package:
//
//   - Clearable: the capability a type needs to be pooled. Clear must
//     empty the value without releasing its capacity, and must be safe
//     to call on an already empty value.
//   - Storage: how the list of idle instances is synchronized. Local is
//     for a single owner and detects reentrant access; Locked guards the
//     list with a mutex and can be shared between goroutines.
//   - Pool and Pooled: Get hands out a Pooled handle; Release clears the
//     instance and pushes it back to the idle list.
//
// # Usage Patterns
//
// Borrowing with an explicit release:
//
//	p := pool.NewSlicePool[int]()
//
//	h := p.Get()
//	defer h.Release()
//
//	s := h.Value()
//	s.Append(1, 2, 3)
//
// Borrowing for the extent of a function:
//
//	p.With(func(s *containers.Slice[int]) {
//		s.Append(4, 5)
//	})
//
// Pooling a custom type:
//
//	type Frame struct{ payload []byte }
//
//	func (f *Frame) Clear() { f.payload = f.payload[:0] }
//
//	frames := pool.NewFunc(func() *Frame {
//		return &Frame{payload: make([]byte, 0, 4096)}
//	}, pool.WithName("frames"))
//
// # Failure Handling
//
// Get and Release never fail. When the idle list cannot be accessed (a
// reentrant borrow of Local storage, or Locked storage poisoned by a panic
// in another goroutine) Get builds a fresh instance and Release drops the
// instance for the garbage collector. Only Prewarm reports the access
// error, since it is an explicit setup step. Dropped instances are counted
// in Stats and logged at debug level.
//
// # Best Practices
//
// DO:
//   - defer Release right after Get, or use With
//   - Prewarm pools whose first burst of traffic is predictable
//   - Watch Stats().Discarded; a growing count means the idle list is
//     unavailable more often than expected
//
// DON'T:
//   - Keep using a value after releasing its handle
//   - Share one handle between goroutines
//   - Use Local storage from more than one goroutine
package pool
