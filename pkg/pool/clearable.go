package pool

// Clearable is implemented by values that can be reset to their empty state
// while keeping any storage they have already allocated. Clear must be
// idempotent and must not fail.
type Clearable interface {
	Clear()
}

// Resettable constrains a pool's pointer type: PT is *T and *T implements
// Clearable. It lets a pool construct new values with new(T) and clear them
// in place.
type Resettable[T any] interface {
	*T
	Clearable
}
