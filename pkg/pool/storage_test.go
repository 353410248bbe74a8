package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/ajitpratap0/clearpool/pkg/errors"
)

func TestStack(t *testing.T) {
	var s Stack[*int]
	_, ok := s.Pop()
	assert.False(t, ok)

	a, b := new(int), new(int)
	s.Push(a)
	s.Push(b)
	assert.Equal(t, 2, s.Len())

	v, ok := s.Pop()
	require.True(t, ok)
	assert.Same(t, b, v)
	assert.Nil(t, s.items[:2][1], "popped slot must not retain the value")

	assert.Equal(t, 1, s.drop())
	assert.Equal(t, 0, s.Len())
}

// storageSuite runs the behavior both storages share.
type storageSuite struct {
	suite.Suite
	newStorage func() Storage[int]
}

func (s *storageSuite) TestMutateThenInspect() {
	st := s.newStorage()
	s.Require().NoError(st.Mutate(func(idle *Stack[int]) {
		idle.Push(1)
		idle.Push(2)
	}))

	n := 0
	s.Require().NoError(st.Inspect(func(idle View) { n = idle.Len() }))
	s.Equal(2, n)
}

func (s *storageSuite) TestPanicReleasesAccess() {
	st := s.newStorage()
	s.Panics(func() {
		_ = st.Mutate(func(*Stack[int]) { panic("boom") })
	})
	// The storage must not stay borrowed or locked; whether it is usable
	// depends on the implementation.
	done := make(chan error, 1)
	go func() { done <- st.Inspect(func(View) {}) }()
	<-done
}

func TestLocalStorage(t *testing.T) {
	suite.Run(t, &storageSuite{newStorage: func() Storage[int] { return NewLocalStorage[int]() }})
}

func TestLockedStorage(t *testing.T) {
	suite.Run(t, &storageSuite{newStorage: func() Storage[int] { return NewLockedStorage[int]() }})
}

func TestLocalRejectsNestedMutate(t *testing.T) {
	var st Local[int]
	var inner error
	require.NoError(t, st.Mutate(func(*Stack[int]) {
		inner = st.Mutate(func(*Stack[int]) {})
	}))
	require.Error(t, inner)
	assert.True(t, errors.Is(inner, ErrReentrant))
	assert.True(t, errors.IsRetryable(inner))

	require.NoError(t, st.Mutate(func(*Stack[int]) {}))
}

func TestLocalUsableAfterPanic(t *testing.T) {
	var st Local[int]
	assert.Panics(t, func() {
		_ = st.Mutate(func(*Stack[int]) { panic("boom") })
	})
	assert.NoError(t, st.Mutate(func(*Stack[int]) {}))
}

func TestLockedPoisonsOnPanic(t *testing.T) {
	var st Locked[int]
	require.NoError(t, st.Mutate(func(idle *Stack[int]) { idle.Push(1) }))

	assert.Panics(t, func() {
		_ = st.Inspect(func(View) { panic("boom") })
	})
	assert.True(t, st.Poisoned())

	err := st.Mutate(func(*Stack[int]) {})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPoisoned))
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnavailable))

	assert.Equal(t, 1, st.Recover())
	assert.NoError(t, st.Mutate(func(*Stack[int]) {}))
}

func TestAccessErrorsAreNotShared(t *testing.T) {
	var st Locked[int]
	assert.Panics(t, func() {
		_ = st.Mutate(func(*Stack[int]) { panic("boom") })
	})

	first := st.Mutate(func(*Stack[int]) {})
	second := st.Inspect(func(View) {})
	require.Error(t, first)
	require.Error(t, second)

	var a, b *errors.Error
	require.True(t, errors.As(first, &a))
	require.True(t, errors.As(second, &b))
	assert.NotSame(t, a, b)

	a.WithDetail("pool", "frames")
	assert.Nil(t, b.Details)
	assert.Nil(t, a.Stack, "access errors are built without a stack")
}
