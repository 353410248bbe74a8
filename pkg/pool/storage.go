package pool

import (
	"sync"

	"github.com/ajitpratap0/clearpool/pkg/errors"
)

var (
	// ErrReentrant is the cause of an access error on Local storage when
	// the idle list is already borrowed.
	ErrReentrant = errors.Sentinel("pool: idle list already borrowed")

	// ErrPoisoned is the cause of an access error on Locked storage after a
	// goroutine panicked while holding its lock.
	ErrPoisoned = errors.Sentinel("pool: idle list poisoned")
)

// accessError reports a failed access to the idle list. Each failure gets its
// own Error so callers may add details to it.
func accessError(cause error) *errors.Error {
	return errors.Unavailable(cause, "idle list unavailable")
}

// Storage synchronizes access to a pool's idle list. Both methods fail with
// an error of type errors.ErrorTypeUnavailable, wrapping ErrReentrant or
// ErrPoisoned, when access cannot be granted right now. Callers treat the
// failure as transient.
type Storage[T any] interface {
	// Mutate runs fn with exclusive read-write access to the idle list.
	Mutate(fn func(idle *Stack[T])) error
	// Inspect runs fn with read-only access to the idle list.
	Inspect(fn func(idle View)) error
}

// View is a read-only look at an idle list.
type View interface {
	Len() int
}

// Stack is an idle list. Pop returns the most recently pushed value, so the
// instance with the warmest cache lines is reused first.
type Stack[T any] struct {
	items []T
}

// Push adds v on top.
func (s *Stack[T]) Push(v T) {
	s.items = append(s.items, v)
}

// Pop removes and returns the top value.
func (s *Stack[T]) Pop() (T, bool) {
	var zero T
	n := len(s.items) - 1
	if n < 0 {
		return zero, false
	}
	v := s.items[n]
	s.items[n] = zero
	s.items = s.items[:n]
	return v, true
}

// Len returns the number of idle values.
func (s *Stack[T]) Len() int {
	return len(s.items)
}

// drop forgets every idle value and returns how many there were.
func (s *Stack[T]) drop() int {
	n := len(s.items)
	clear(s.items)
	s.items = s.items[:0]
	return n
}

// Local is idle-list storage for a single owner. It does no locking and
// must not be used from more than one goroutine at a time. It tracks
// borrows the way a reader/writer flag would: Mutate fails while any access
// is in progress and Inspect fails while a Mutate is in progress, which
// turns reentrant use into an ErrReentrant error instead of corruption.
//
// The zero value is an empty idle list ready to use.
type Local[T any] struct {
	idle Stack[T]
	// borrow is 0 when free, -1 while mutating and the number of active
	// readers otherwise.
	borrow int
}

// NewLocalStorage returns empty single-owner storage.
func NewLocalStorage[T any]() *Local[T] {
	return &Local[T]{}
}

// Mutate implements Storage.
func (l *Local[T]) Mutate(fn func(idle *Stack[T])) error {
	if l.borrow != 0 {
		return accessError(ErrReentrant)
	}
	l.borrow = -1
	defer func() { l.borrow = 0 }()

	fn(&l.idle)
	return nil
}

// Inspect implements Storage.
func (l *Local[T]) Inspect(fn func(idle View)) error {
	if l.borrow < 0 {
		return accessError(ErrReentrant)
	}
	l.borrow++
	defer func() { l.borrow-- }()

	fn(&l.idle)
	return nil
}

// Locked is idle-list storage guarded by a mutex, safe for concurrent use.
// Access blocks until the lock is free. If fn panics while the lock is
// held, the storage is marked poisoned: the lock is released, the panic
// continues in that goroutine, and every later access fails with
// ErrPoisoned until Recover is called.
//
// The zero value is an empty idle list ready to use.
type Locked[T any] struct {
	mu       sync.Mutex
	idle     Stack[T]
	poisoned bool
}

// NewLockedStorage returns empty mutex-guarded storage.
func NewLockedStorage[T any]() *Locked[T] {
	return &Locked[T]{}
}

// Mutate implements Storage.
func (l *Locked[T]) Mutate(fn func(idle *Stack[T])) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.poisoned {
		return accessError(ErrPoisoned)
	}

	done := false
	defer l.poisonUnless(&done)
	fn(&l.idle)
	done = true
	return nil
}

// Inspect implements Storage.
func (l *Locked[T]) Inspect(fn func(idle View)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.poisoned {
		return accessError(ErrPoisoned)
	}

	done := false
	defer l.poisonUnless(&done)
	fn(&l.idle)
	done = true
	return nil
}

// poisonUnless runs deferred while the lock is held; done is still false
// when fn did not return normally.
func (l *Locked[T]) poisonUnless(done *bool) {
	if !*done {
		l.poisoned = true
	}
}

// Poisoned reports whether a panic left the storage unusable.
func (l *Locked[T]) Poisoned() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.poisoned
}

// Recover makes poisoned storage usable again. The idle values may have
// been caught mid-update, so all of them are dropped. It returns the number
// of values dropped; on healthy storage it does nothing and returns 0.
func (l *Locked[T]) Recover() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.poisoned {
		return 0
	}
	l.poisoned = false
	return l.idle.drop()
}

var (
	_ Storage[int] = (*Local[int])(nil)
	_ Storage[int] = (*Locked[int])(nil)
)
