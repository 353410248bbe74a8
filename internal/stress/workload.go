package stress

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ajitpratap0/clearpool/pkg/config"
	"github.com/ajitpratap0/clearpool/pkg/containers"
	"github.com/ajitpratap0/clearpool/pkg/errors"
	"github.com/ajitpratap0/clearpool/pkg/pool"
	"github.com/ajitpratap0/clearpool/pkg/strings"
)

// workload drives checkout/mutate/return cycles against the pools of one
// container kind.
type workload interface {
	Kind() string
	// Source is the pool, or the aggregate of per-worker pools.
	Source() pool.Source
	Prewarm(count int) error
	// Run performs cycles on behalf of worker. Concurrent calls must use
	// distinct worker indexes.
	Run(ctx context.Context, worker, cycles, elements int) error
	// Idle counts idle instances once no Run is in progress.
	Idle() (int, bool)
}

func newWorkload(kind string, cfg config.WorkloadConfig, log *zap.Logger) (workload, error) {
	switch kind {
	case "slice":
		return newDriver(kind, cfg, log, pool.NewSlicePool[int], pool.NewLocalSlicePool[int],
			func(v *containers.Slice[int], seed, n int) {
				for j := 0; j < n; j++ {
					v.Append(seed + j)
				}
			},
			func(v *containers.Slice[int]) bool { return v.Len() == 0 },
		), nil
	case "map":
		return newDriver(kind, cfg, log, pool.NewMapPool[int, int], pool.NewLocalMapPool[int, int],
			func(v *containers.Map[int, int], seed, n int) {
				for j := 0; j < n; j++ {
					v.Put(j, seed)
				}
			},
			func(v *containers.Map[int, int]) bool { return v.Len() == 0 },
		), nil
	case "set":
		return newDriver(kind, cfg, log, pool.NewSetPool[int], pool.NewLocalSetPool[int],
			func(v *containers.Set[int], seed, n int) {
				for j := 0; j < n; j++ {
					v.Add(seed + j)
				}
			},
			func(v *containers.Set[int]) bool { return v.Len() == 0 },
		), nil
	case "string":
		return newDriver(kind, cfg, log, pool.NewStringPool, pool.NewLocalStringPool,
			func(v *strings.Builder, seed, n int) {
				for j := 0; j < n; j++ {
					_ = v.WriteByte(byte('a' + (seed+j)%26))
				}
			},
			func(v *strings.Builder) bool { return v.Len() == 0 },
		), nil
	case "deque":
		return newDriver(kind, cfg, log, pool.NewDequePool[int], pool.NewLocalDequePool[int],
			func(v *containers.Deque[int], seed, n int) {
				for j := 0; j < n; j++ {
					if j%2 == 0 {
						v.PushBack(seed + j)
					} else {
						v.PushFront(seed + j)
					}
				}
				for j := 0; j < n/4; j++ {
					v.PopFront()
				}
			},
			func(v *containers.Deque[int]) bool { return v.Len() == 0 },
		), nil
	case "heap":
		return newDriver(kind, cfg, log, pool.NewHeapPool[int], pool.NewLocalHeapPool[int],
			func(v *containers.Heap[int], seed, n int) {
				for j := 0; j < n; j++ {
					v.Push((seed * 31) ^ j)
				}
				for j := 0; j < n/4; j++ {
					v.Pop()
				}
			},
			func(v *containers.Heap[int]) bool { return v.Len() == 0 },
		), nil
	case "bitset":
		return newDriver(kind, cfg, log, pool.NewBitSetPool, pool.NewLocalBitSetPool,
			func(v *containers.BitSet, seed, n int) {
				for j := 0; j < n; j++ {
					v.Set(uint((seed + j*7) % 4096))
				}
			},
			func(v *containers.BitSet) bool { return v.Count() == 0 },
		), nil
	default:
		return nil, errors.New(errors.ErrorTypeValidation, "unknown pool kind").WithDetail("kind", kind)
	}
}

// driver runs a workload over one shared pool, or one local pool per worker.
type driver[T any, PT pool.Resettable[T]] struct {
	kind   string
	shared bool
	pools  []*pool.Pool[T, PT]
	fill   func(v PT, seed, n int)
	empty  func(v PT) bool

	// live maps each borrowed instance to the worker holding it.
	live sync.Map
}

func newDriver[T any, PT pool.Resettable[T]](
	kind string,
	cfg config.WorkloadConfig,
	log *zap.Logger,
	shared, local func(opts ...pool.Option) *pool.Pool[T, PT],
	fill func(v PT, seed, n int),
	empty func(v PT) bool,
) *driver[T, PT] {
	d := &driver[T, PT]{
		kind:   kind,
		shared: cfg.IsShared(),
		fill:   fill,
		empty:  empty,
	}
	if d.shared {
		d.pools = []*pool.Pool[T, PT]{shared(pool.WithName(kind), pool.WithLogger(log))}
		return d
	}
	d.pools = make([]*pool.Pool[T, PT], cfg.Workers)
	for w := range d.pools {
		d.pools[w] = local(pool.WithName(fmt.Sprintf("%s-w%d", kind, w)), pool.WithLogger(log))
	}
	return d
}

func (d *driver[T, PT]) Kind() string {
	return d.kind
}

func (d *driver[T, PT]) Source() pool.Source {
	if d.shared {
		return d.pools[0]
	}
	return &aggregate[T, PT]{name: d.kind, pools: d.pools}
}

// Idle sums the idle lists of the driver's pools. It must not run
// concurrently with Run when the pools are local.
func (d *driver[T, PT]) Idle() (int, bool) {
	total := 0
	for _, p := range d.pools {
		n, ok := p.Size()
		if !ok {
			return 0, false
		}
		total += n
	}
	return total, true
}

func (d *driver[T, PT]) Prewarm(count int) error {
	for _, p := range d.pools {
		if err := p.Prewarm(count); err != nil {
			return err
		}
	}
	return nil
}

func (d *driver[T, PT]) Run(ctx context.Context, worker, cycles, elements int) error {
	p := d.pools[0]
	if !d.shared {
		p = d.pools[worker]
	}

	for i := 0; i < cycles; i++ {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.ErrorTypeTimeout, "workload cancelled").
				WithDetail("pool", d.kind).
				WithDetail("completed_cycles", i)
		}

		h := p.Get()
		v := h.Value()

		if !d.empty(v) {
			h.Discard()
			return violation(d.kind, worker, "borrowed instance is not empty")
		}
		if holder, loaded := d.live.LoadOrStore(v, worker); loaded {
			h.Discard()
			return violation(d.kind, worker, "instance borrowed twice").
				WithDetail("holder", holder)
		}

		d.fill(v, worker*cycles+i, elements)

		d.live.Delete(v)
		h.Release()
	}
	return nil
}

// ErrViolation is the cause of a workload error reporting a broken pool
// guarantee.
var ErrViolation = errors.Sentinel("pool guarantee violated")

func violation(kind string, worker int, msg string) *errors.Error {
	return errors.Wrap(ErrViolation, errors.ErrorTypeInternal, msg).
		WithDetail("pool", kind).
		WithDetail("worker", worker)
}

// aggregate presents per-worker local pools as one source for exporters.
// Local idle lists belong to their workers, so Size never reads them.
type aggregate[T any, PT pool.Resettable[T]] struct {
	name  string
	pools []*pool.Pool[T, PT]
}

func (a *aggregate[T, PT]) Name() string {
	return a.name
}

func (a *aggregate[T, PT]) Size() (int, bool) {
	return 0, false
}

func (a *aggregate[T, PT]) Stats() pool.Stats {
	var total pool.Stats
	for _, p := range a.pools {
		s := p.Stats()
		total.Allocated += s.Allocated
		total.Hits += s.Hits
		total.Misses += s.Misses
		total.InUse += s.InUse
		total.Returned += s.Returned
		total.Discarded += s.Discarded
		total.Prewarmed += s.Prewarmed
	}
	return total
}
