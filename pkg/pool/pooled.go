package pool

// Pooled is exclusive access to a borrowed instance. Release it exactly
// once, normally with defer, to return the instance to its pool:
//
//	h := p.Get()
//	defer h.Release()
//
// A Pooled must not be copied or used after Release or Discard. It is not
// safe for concurrent use, though it may be released on a different
// goroutine than the one that called Get when the pool uses Locked storage.
type Pooled[T any, PT Resettable[T]] struct {
	item PT
	pool *Pool[T, PT]
}

// Value returns the borrowed instance, or nil once the handle is released.
func (h *Pooled[T, PT]) Value() PT {
	return h.item
}

// Release clears the instance and returns it to the pool's idle list. If
// the idle list cannot be accessed the instance is dropped instead and
// counted in Stats.Discarded. Release is a no-op on a released handle.
func (h *Pooled[T, PT]) Release() {
	item := h.item
	if item == nil {
		return
	}
	h.item = nil
	h.pool.put(item)
}

// Discard drops the instance without returning it, for example after it
// grew beyond the size worth keeping. It is a no-op on a released handle.
func (h *Pooled[T, PT]) Discard() {
	if h.item == nil {
		return
	}
	h.item = nil
	h.pool.drop()
}

// Released reports whether Release or Discard has been called.
func (h *Pooled[T, PT]) Released() bool {
	return h.item == nil
}
