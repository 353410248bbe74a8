package pool

import "sync/atomic"

// Stats is a snapshot of a pool's counters.
type Stats struct {
	// Allocated is the number of instances the pool has constructed
	Allocated int64 `json:"allocated" yaml:"allocated"`
	// Hits is the number of Get calls served from the idle list
	Hits int64 `json:"hits" yaml:"hits"`
	// Misses is the number of Get calls that had to construct an instance
	Misses int64 `json:"misses" yaml:"misses"`
	// InUse is the number of handles not yet released or discarded
	InUse int64 `json:"in_use" yaml:"in_use"`
	// Returned is the number of instances pushed back to the idle list
	Returned int64 `json:"returned" yaml:"returned"`
	// Discarded is the number of instances dropped instead of returned,
	// either by Discard or because the idle list was unavailable
	Discarded int64 `json:"discarded" yaml:"discarded"`
	// Prewarmed is the number of instances added by Prewarm
	Prewarmed int64 `json:"prewarmed" yaml:"prewarmed"`
}

// Gets returns the total number of Get calls.
func (s Stats) Gets() int64 {
	return s.Hits + s.Misses
}

// HitRate returns the fraction of Get calls served from the idle list.
func (s Stats) HitRate() float64 {
	gets := s.Gets()
	if gets == 0 {
		return 0
	}
	return float64(s.Hits) / float64(gets)
}

type counters struct {
	allocated atomic.Int64
	hits      atomic.Int64
	misses    atomic.Int64
	inUse     atomic.Int64
	returned  atomic.Int64
	discarded atomic.Int64
	prewarmed atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Allocated: c.allocated.Load(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		InUse:     c.inUse.Load(),
		Returned:  c.returned.Load(),
		Discarded: c.discarded.Load(),
		Prewarmed: c.prewarmed.Load(),
	}
}

// Source is the type-erased view of a pool used by exporters.
type Source interface {
	Name() string
	Size() (int, bool)
	Stats() Stats
}
