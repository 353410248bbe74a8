package stress

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/clearpool/pkg/config"
	"github.com/ajitpratap0/clearpool/pkg/containers"
	"github.com/ajitpratap0/clearpool/pkg/errors"
	"github.com/ajitpratap0/clearpool/pkg/pool"
	"github.com/ajitpratap0/clearpool/pkg/testutil"
)

func smallConfig(storage string) *config.BenchConfig {
	cfg := config.NewBenchConfig()
	cfg.Workload.Pools = config.PoolKinds
	cfg.Workload.Workers = 4
	cfg.Workload.Cycles = 50
	cfg.Workload.Elements = 16
	cfg.Workload.Prewarm = 2
	cfg.Workload.Storage = storage
	return cfg
}

func TestRunSharedPools(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	r, err := NewRunner(smallConfig(config.StorageLocked), testutil.TestLogger(t))
	require.NoError(t, err)

	result, err := r.Run(ctx)
	require.NoError(t, err)
	require.Len(t, result.Pools, len(config.PoolKinds))
	assert.Equal(t, int64(len(config.PoolKinds)*4*50), result.Operations())

	for _, pr := range result.Pools {
		assert.Equal(t, int64(200), pr.Stats.Gets(), pr.Kind)
		assert.Equal(t, int64(200), pr.Stats.Returned, pr.Kind)
		assert.Equal(t, int64(0), pr.Stats.InUse, pr.Kind)
		assert.Equal(t, int64(0), pr.Stats.Discarded, pr.Kind)
		require.True(t, pr.IdleKnown, pr.Kind)
		// every instance ever allocated is back in the idle list
		assert.Equal(t, pr.Stats.Allocated, int64(pr.Idle), pr.Kind)
		assert.LessOrEqual(t, pr.Idle, 4+2, pr.Kind)
	}
}

func TestRunLocalPools(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	r, err := NewRunner(smallConfig(config.StorageLocal), testutil.TestLogger(t))
	require.NoError(t, err)

	result, err := r.Run(ctx)
	require.NoError(t, err)

	for _, pr := range result.Pools {
		// each worker prewarmed its own pool and never missed
		assert.Equal(t, int64(0), pr.Stats.Misses, pr.Kind)
		assert.Equal(t, int64(4*2), pr.Stats.Allocated, pr.Kind)
		require.True(t, pr.IdleKnown, pr.Kind)
		assert.Equal(t, 8, pr.Idle, pr.Kind)
	}

	for _, src := range r.Sources() {
		_, ok := src.Size()
		assert.False(t, ok, "local idle lists are not read by exporters")
	}
}

func TestRunnerKeepsPoolsWarm(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	cfg := smallConfig(config.StorageLocked)
	cfg.Workload.Pools = []string{"slice"}
	r, err := NewRunner(cfg, testutil.TestLogger(t))
	require.NoError(t, err)

	_, err = r.Run(ctx)
	require.NoError(t, err)
	allocated := r.Sources()[0].Stats().Allocated

	_, err = r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, allocated, r.Sources()[0].Stats().Allocated)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := NewRunner(smallConfig(config.StorageLocked), testutil.TestLogger(t))
	require.NoError(t, err)

	_, err = r.Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTimeout))
}

func TestNewRunnerValidates(t *testing.T) {
	cfg := config.NewBenchConfig()
	cfg.Workload.Workers = 0
	_, err := NewRunner(cfg, testutil.TestLogger(t))
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

// dirty is cleared by nothing, so a reused instance shows up non-empty.
type dirty struct{ n int }

func (d *dirty) Clear() {}

func TestDriverDetectsDirtyInstance(t *testing.T) {
	cfg := smallConfig(config.StorageLocked).Workload
	newPool := func(opts ...pool.Option) *pool.Pool[dirty, *dirty] { return pool.New[dirty](opts...) }
	d := newDriver("dirty", cfg, testutil.TestLogger(t), newPool, newPool,
		func(v *dirty, _, _ int) { v.n++ },
		func(v *dirty) bool { return v.n == 0 },
	)

	err := d.Run(context.Background(), 0, 2, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrViolation))
}

func TestDriverDetectsAliasing(t *testing.T) {
	cfg := smallConfig(config.StorageLocked).Workload
	d := newDriver("slice", cfg, testutil.TestLogger(t), pool.NewSlicePool[int], pool.NewLocalSlicePool[int],
		func(v *containers.Slice[int], _, _ int) {},
		func(v *containers.Slice[int]) bool { return true },
	)

	h := d.pools[0].Get()
	d.live.Store(h.Value(), 99)
	h.Release()

	err := d.Run(context.Background(), 0, 1, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrViolation))
}
