package pool

import (
	"reflect"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ajitpratap0/clearpool/pkg/errors"
	"github.com/ajitpratap0/clearpool/pkg/logger"
)

// Pool caches idle instances of T. Instances in the idle list are always
// cleared, appear in it at most once, and are never held by a live handle
// at the same time.
//
// A Pool built on Locked storage is safe for concurrent use; one built on
// Local storage belongs to a single goroutine.
type Pool[T any, PT Resettable[T]] struct {
	idle   Storage[PT]
	newFn  func() PT
	name   string
	logger *zap.Logger
	stats  counters

	poisonReported atomic.Bool
}

// Option configures a Pool.
type Option func(*options)

type options struct {
	name   string
	logger *zap.Logger
}

// WithName sets the name used in logs and metrics. It defaults to the
// pooled type's name.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger. It defaults to the global logger named "pool".
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New creates a pool that is safe for concurrent use and constructs
// instances with new(T).
func New[T any, PT Resettable[T]](opts ...Option) *Pool[T, PT] {
	return NewWithStorage[T, PT](NewLockedStorage[PT](), nil, opts...)
}

// NewFunc creates a pool that is safe for concurrent use and constructs
// instances with newFn. Use it for types whose zero value is not ready to
// use. newFn must not return nil.
func NewFunc[T any, PT Resettable[T]](newFn func() PT, opts ...Option) *Pool[T, PT] {
	return NewWithStorage[T, PT](NewLockedStorage[PT](), newFn, opts...)
}

// NewLocal creates a pool for a single goroutine. It constructs instances
// with newFn, or new(T) when newFn is nil.
func NewLocal[T any, PT Resettable[T]](newFn func() PT, opts ...Option) *Pool[T, PT] {
	return NewWithStorage[T, PT](NewLocalStorage[PT](), newFn, opts...)
}

// NewWithStorage creates a pool over the given idle-list storage. It
// constructs instances with newFn, or new(T) when newFn is nil.
func NewWithStorage[T any, PT Resettable[T]](idle Storage[PT], newFn func() PT, opts ...Option) *Pool[T, PT] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.name == "" {
		o.name = reflect.TypeFor[T]().String()
	}
	if o.logger == nil {
		o.logger = logger.Get().Named("pool")
	}

	return &Pool[T, PT]{
		idle:   idle,
		newFn:  newFn,
		name:   o.name,
		logger: o.logger.With(zap.String("pool", o.name)),
	}
}

// Get borrows an instance. It pops the most recently returned idle
// instance, or constructs a new one when the idle list is empty or cannot
// be accessed. The instance is always empty. Get never fails; on Locked
// storage it may block while another goroutine holds the lock.
func (p *Pool[T, PT]) Get() *Pooled[T, PT] {
	var (
		item PT
		hit  bool
	)
	if err := p.idle.Mutate(func(idle *Stack[PT]) {
		item, hit = idle.Pop()
	}); err != nil {
		p.unavailable("get", err)
	}

	if hit {
		p.stats.hits.Add(1)
	} else {
		item = p.construct()
		p.stats.allocated.Add(1)
		p.stats.misses.Add(1)
	}

	// Idle instances are cleared on return already; clearing again keeps
	// Get correct for a Clear that is not perfectly idempotent.
	item.Clear()
	p.stats.inUse.Add(1)

	return &Pooled[T, PT]{item: item, pool: p}
}

// With borrows an instance for the duration of fn and releases it when fn
// returns or panics.
func (p *Pool[T, PT]) With(fn func(v PT)) {
	h := p.Get()
	defer h.Release()
	fn(h.Value())
}

// Prewarm constructs count new instances and adds them to the idle list
// under a single access. Instances are constructed before the idle list is
// taken, so the constructor may itself borrow from this pool. Unlike Get and
// Release it reports an access error; the instances it built are then
// discarded.
func (p *Pool[T, PT]) Prewarm(count int) error {
	if count <= 0 {
		return nil
	}

	fresh := make([]PT, count)
	for i := range fresh {
		fresh[i] = p.construct()
	}
	p.stats.allocated.Add(int64(count))

	if err := p.idle.Mutate(func(idle *Stack[PT]) {
		for _, item := range fresh {
			idle.Push(item)
		}
	}); err != nil {
		p.stats.discarded.Add(int64(count))
		p.unavailable("prewarm", err)
		return errors.Wrap(err, errors.ErrorTypeUnavailable, "prewarm failed").
			WithDetail("pool", p.name).
			WithDetail("count", count)
	}

	p.stats.prewarmed.Add(int64(count))
	p.logger.Debug("pool prewarmed", zap.Int("count", count))
	return nil
}

// Size returns the number of idle instances. The second result is false
// when the idle list cannot be read right now. Under concurrent use the
// count may be stale by the time it is returned.
func (p *Pool[T, PT]) Size() (int, bool) {
	n := 0
	if err := p.idle.Inspect(func(idle View) {
		n = idle.Len()
	}); err != nil {
		return 0, false
	}
	return n, true
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool[T, PT]) Stats() Stats {
	return p.stats.snapshot()
}

// Name returns the pool's name.
func (p *Pool[T, PT]) Name() string {
	return p.name
}

func (p *Pool[T, PT]) construct() PT {
	if p.newFn != nil {
		return p.newFn()
	}
	return PT(new(T))
}

// put pushes a cleared instance back to the idle list, dropping it when the
// list is unavailable.
func (p *Pool[T, PT]) put(item PT) {
	p.stats.inUse.Add(-1)
	item.Clear()

	if err := p.idle.Mutate(func(idle *Stack[PT]) {
		idle.Push(item)
	}); err != nil {
		p.stats.discarded.Add(1)
		p.unavailable("release", err)
		return
	}
	p.stats.returned.Add(1)
}

func (p *Pool[T, PT]) drop() {
	p.stats.inUse.Add(-1)
	p.stats.discarded.Add(1)
}

func (p *Pool[T, PT]) unavailable(op string, err error) {
	if errors.Is(err, ErrPoisoned) && p.poisonReported.CompareAndSwap(false, true) {
		p.logger.Warn("pool idle list poisoned, instances will not be reused",
			zap.String("operation", op))
		return
	}
	p.logger.Debug("pool idle list unavailable",
		zap.String("operation", op),
		zap.Error(err))
}
