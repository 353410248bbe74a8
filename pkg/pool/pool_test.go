package pool

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ajitpratap0/clearpool/pkg/containers"
	"github.com/ajitpratap0/clearpool/pkg/errors"
	"github.com/ajitpratap0/clearpool/pkg/testutil"
)

// frame is a test value that records how often it was cleared.
type frame struct {
	data   []int
	clears int
}

func (f *frame) Clear() {
	f.data = f.data[:0]
	f.clears++
}

func newFramePool(t *testing.T, idle Storage[*frame]) *Pool[frame, *frame] {
	return NewWithStorage[frame, *frame](idle, nil, WithLogger(testutil.TestLogger(t)))
}

func size(t *testing.T, p Source) int {
	t.Helper()
	n, ok := p.Size()
	require.True(t, ok, "idle list unavailable")
	return n
}

func TestGetFromEmptyPoolConstructs(t *testing.T) {
	p := NewSlicePool[int](WithLogger(zap.NewNop()))

	h := p.Get()
	require.NotNil(t, h.Value())
	assert.Equal(t, 0, h.Value().Len())
	assert.Equal(t, 0, size(t, p))

	h.Release()
	assert.Equal(t, 1, size(t, p))

	stats := p.Stats()
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Allocated)
	assert.Equal(t, int64(1), stats.Returned)
	assert.Equal(t, int64(0), stats.InUse)
}

func TestReleasedValueIsClearedAndReused(t *testing.T) {
	p := newFramePool(t, NewLockedStorage[*frame]())

	h := p.Get()
	first := h.Value()
	first.data = append(first.data, 1, 2, 3)
	h.Release()

	h = p.Get()
	defer h.Release()
	assert.Same(t, first, h.Value())
	assert.Empty(t, h.Value().data)
	assert.Equal(t, int64(1), p.Stats().Hits)
}

func TestReuseKeepsCapacity(t *testing.T) {
	p := NewSlicePool[int](WithLogger(zap.NewNop()))

	h := p.Get()
	h.Value().Grow(1000)
	for i := 0; i < 1000; i++ {
		h.Value().Append(i)
	}
	capacity := h.Value().Cap()
	h.Release()

	h = p.Get()
	defer h.Release()
	assert.Equal(t, 0, h.Value().Len())
	assert.GreaterOrEqual(t, h.Value().Cap(), 1000)
	assert.Equal(t, capacity, h.Value().Cap())
}

func TestIdleListIsLIFO(t *testing.T) {
	p := newFramePool(t, NewLocalStorage[*frame]())

	a, b := p.Get(), p.Get()
	last := b.Value()
	a.Release()
	b.Release()

	h := p.Get()
	assert.Same(t, last, h.Value())
	h.Release()
}

func TestMultipleLiveHandles(t *testing.T) {
	p := NewStringPool(WithLogger(zap.NewNop()))

	h1, h2, h3 := p.Get(), p.Get(), p.Get()
	h1.Value().WriteString("one")
	h2.Value().WriteString("two")
	h3.Value().WriteString("three")

	assert.NotSame(t, h1.Value(), h2.Value())
	assert.NotSame(t, h2.Value(), h3.Value())
	assert.Equal(t, 0, size(t, p))
	assert.Equal(t, int64(3), p.Stats().InUse)

	h1.Release()
	h2.Release()
	h3.Release()
	assert.Equal(t, 3, size(t, p))
	assert.Equal(t, int64(0), p.Stats().InUse)
}

func TestReleaseIsIdempotent(t *testing.T) {
	p := newFramePool(t, NewLockedStorage[*frame]())

	h := p.Get()
	h.Release()
	h.Release()
	assert.True(t, h.Released())
	assert.Nil(t, h.Value())
	assert.Equal(t, 1, size(t, p))
	assert.Equal(t, int64(1), p.Stats().Returned)
}

func TestDiscardDropsValue(t *testing.T) {
	p := newFramePool(t, NewLockedStorage[*frame]())

	h := p.Get()
	h.Discard()
	h.Release()
	assert.Equal(t, 0, size(t, p))

	stats := p.Stats()
	assert.Equal(t, int64(1), stats.Discarded)
	assert.Equal(t, int64(0), stats.Returned)
	assert.Equal(t, int64(0), stats.InUse)
}

func TestWithReleasesOnPanic(t *testing.T) {
	p := newFramePool(t, NewLockedStorage[*frame]())

	assert.Panics(t, func() {
		p.With(func(f *frame) {
			f.data = append(f.data, 1)
			panic("boom")
		})
	})
	assert.Equal(t, 1, size(t, p))

	p.With(func(f *frame) {
		assert.Empty(t, f.data)
	})
}

func TestPrewarm(t *testing.T) {
	p := NewSlicePool[int](WithLogger(zap.NewNop()))

	require.NoError(t, p.Prewarm(5))
	assert.Equal(t, 5, size(t, p))

	h1, h2 := p.Get(), p.Get()
	assert.Equal(t, 3, size(t, p))

	h1.Release()
	h2.Release()
	assert.Equal(t, 5, size(t, p))

	stats := p.Stats()
	assert.Equal(t, int64(5), stats.Prewarmed)
	assert.Equal(t, int64(5), stats.Allocated)
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(0), stats.Misses)
	assert.InDelta(t, 1.0, stats.HitRate(), 1e-9)
}

func TestPrewarmNonPositiveIsNoop(t *testing.T) {
	p := newFramePool(t, NewLockedStorage[*frame]())

	require.NoError(t, p.Prewarm(0))
	require.NoError(t, p.Prewarm(-3))
	assert.Equal(t, 0, size(t, p))
	assert.Equal(t, int64(0), p.Stats().Allocated)
}

func TestNewFuncUsesConstructor(t *testing.T) {
	calls := 0
	p := NewFunc(func() *frame {
		calls++
		return &frame{data: make([]int, 0, 64)}
	}, WithLogger(zap.NewNop()))

	h := p.Get()
	assert.Equal(t, 64, cap(h.Value().data))
	h.Release()
	require.NoError(t, p.Prewarm(2))
	assert.Equal(t, 3, calls)
}

func TestPrewarmConstructorMayBorrow(t *testing.T) {
	var p *Pool[frame, *frame]
	building := false
	p = NewFunc(func() *frame {
		if !building {
			building = true
			h := p.Get()
			h.Release()
			building = false
		}
		return &frame{}
	}, WithLogger(zap.NewNop()))

	done := make(chan error, 1)
	go func() { done <- p.Prewarm(1) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Prewarm blocked on its own idle list")
	}

	// the borrowed instance came back, followed by the prewarmed one
	assert.Equal(t, 2, size(t, p))
	assert.Equal(t, int64(1), p.Stats().Prewarmed)
}

func TestPrewarmPanickingConstructorDoesNotPoison(t *testing.T) {
	idle := NewLockedStorage[*frame]()
	calls := 0
	p := NewWithStorage[frame, *frame](idle, func() *frame {
		calls++
		if calls == 2 {
			panic("constructor failed")
		}
		return &frame{}
	}, WithLogger(zap.NewNop()))

	assert.Panics(t, func() { _ = p.Prewarm(3) })
	assert.False(t, idle.Poisoned())
	assert.Equal(t, 0, size(t, p))

	require.NoError(t, p.Prewarm(2))
	assert.Equal(t, 2, size(t, p))
}

func TestGetClearsValue(t *testing.T) {
	p := newFramePool(t, NewLocalStorage[*frame]())

	h := p.Get()
	assert.Equal(t, 1, h.Value().clears)
	h.Release()

	h = p.Get()
	// once on release, once on get
	assert.Equal(t, 3, h.Value().clears)
	h.Release()
}

func TestDefaultName(t *testing.T) {
	p := newFramePool(t, NewLocalStorage[*frame]())
	assert.Equal(t, "pool.frame", p.Name())

	named := NewSlicePool[int](WithName("scratch"), WithLogger(zap.NewNop()))
	assert.Equal(t, "scratch", named.Name())
}

func TestLocalReentrantAccess(t *testing.T) {
	idle := NewLocalStorage[*frame]()
	p := newFramePool(t, idle)
	require.NoError(t, p.Prewarm(1))

	err := idle.Mutate(func(*Stack[*frame]) {
		_, ok := p.Size()
		assert.False(t, ok)

		// Get still succeeds by constructing a fresh value.
		h := p.Get()
		require.NotNil(t, h.Value())

		// Release cannot push back, so the value is dropped.
		h.Release()

		err := p.Prewarm(2)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrReentrant))
		assert.True(t, errors.IsType(err, errors.ErrorTypeUnavailable))
	})
	require.NoError(t, err)

	assert.Equal(t, 1, size(t, p))
	stats := p.Stats()
	assert.Equal(t, int64(1), stats.Misses)
	// one released handle plus the two instances the failed Prewarm built
	assert.Equal(t, int64(3), stats.Discarded)
	assert.Equal(t, int64(1), stats.Prewarmed)
}

func TestLocalInspectAllowsNestedReads(t *testing.T) {
	idle := NewLocalStorage[*frame]()
	p := newFramePool(t, idle)
	require.NoError(t, p.Prewarm(2))

	err := idle.Inspect(func(v View) {
		assert.Equal(t, 2, v.Len())
		assert.Equal(t, 2, size(t, p))

		h := p.Get()
		assert.Equal(t, int64(1), p.Stats().Misses)
		h.Release()
	})
	require.NoError(t, err)
	assert.Equal(t, 2, size(t, p))
}

func TestLockedPoisoning(t *testing.T) {
	log, logs := testutil.ObservedLogger(zapcore.WarnLevel)
	idle := NewLockedStorage[*frame]()
	p := NewWithStorage[frame, *frame](idle, nil, WithLogger(log))
	require.NoError(t, p.Prewarm(2))

	held := p.Get()

	assert.Panics(t, func() {
		_ = idle.Mutate(func(*Stack[*frame]) {
			panic("corrupt")
		})
	})
	require.True(t, idle.Poisoned())

	_, ok := p.Size()
	assert.False(t, ok)

	// Get keeps working on fresh values.
	h := p.Get()
	require.NotNil(t, h.Value())
	h.Release()
	held.Release()

	err := p.Prewarm(1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPoisoned))

	stats := p.Stats()
	assert.Equal(t, int64(3), stats.Discarded)
	assert.Equal(t, int64(0), stats.InUse)
	assert.Equal(t, 1, logs.FilterMessage("pool idle list poisoned, instances will not be reused").Len())

	assert.Equal(t, 1, idle.Recover())
	assert.False(t, idle.Poisoned())
	assert.Equal(t, 0, size(t, p))

	h = p.Get()
	h.Release()
	assert.Equal(t, 1, size(t, p))
}

func TestRecoverOnHealthyStorage(t *testing.T) {
	idle := NewLockedStorage[*frame]()
	p := newFramePool(t, idle)
	require.NoError(t, p.Prewarm(3))

	assert.Equal(t, 0, idle.Recover())
	assert.Equal(t, 3, size(t, p))
}

func TestConcurrentGetRelease(t *testing.T) {
	const (
		workers = 10
		cycles  = 100
	)
	p := newFramePool(t, NewLockedStorage[*frame]())

	var (
		mu   sync.Mutex
		live = make(map[*frame]bool)
	)
	testutil.RunConcurrently(t, workers, func(worker int) error {
		for i := 0; i < cycles; i++ {
			h := p.Get()
			v := h.Value()

			mu.Lock()
			if live[v] {
				mu.Unlock()
				return fmt.Errorf("worker %d: value handed out twice", worker)
			}
			live[v] = true
			mu.Unlock()

			if len(v.data) != 0 {
				return fmt.Errorf("worker %d: value not cleared", worker)
			}
			v.data = append(v.data, worker, i)

			mu.Lock()
			delete(live, v)
			mu.Unlock()
			h.Release()
		}
		return nil
	})

	stats := p.Stats()
	assert.Equal(t, int64(workers*cycles), stats.Gets())
	assert.Equal(t, int64(workers*cycles), stats.Returned)
	assert.Equal(t, int64(0), stats.InUse)
	n := size(t, p)
	assert.LessOrEqual(t, n, workers)
	assert.Equal(t, stats.Allocated, int64(n))
}

func TestSharedPoolAcrossGoroutines(t *testing.T) {
	p := NewMapPool[string, int](WithLogger(zap.NewNop()))
	require.NoError(t, p.Prewarm(4))

	testutil.RunConcurrently(t, 4, func(worker int) error {
		h := p.Get()
		defer h.Release()
		h.Value().Put(fmt.Sprintf("w%d", worker), worker)
		if h.Value().Len() != 1 {
			return fmt.Errorf("worker %d: map not cleared", worker)
		}
		return nil
	})
	assert.Equal(t, 4, size(t, p))
}

func TestIndependentPoolsConcurrently(t *testing.T) {
	slices := NewSlicePool[int](WithLogger(zap.NewNop()))
	sets := NewSetPool[string](WithLogger(zap.NewNop()))

	testutil.RunConcurrently(t, 8, func(worker int) error {
		for i := 0; i < 50; i++ {
			if worker%2 == 0 {
				slices.With(func(s *containers.Slice[int]) { s.Append(i) })
			} else {
				sets.With(func(s *containers.Set[string]) { s.Add("x") })
			}
		}
		return nil
	})
	assert.Equal(t, int64(0), slices.Stats().InUse)
	assert.Equal(t, int64(0), sets.Stats().InUse)
}

func TestReleaseOnAnotherGoroutine(t *testing.T) {
	p := newFramePool(t, NewLockedStorage[*frame]())
	h := p.Get()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Release()
	}()
	<-done

	assert.Equal(t, 1, size(t, p))
}
