package strings

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesToString(t *testing.T) {
	b := []byte("hello world")
	assert.Equal(t, "hello world", BytesToString(b))
	assert.Equal(t, "", BytesToString([]byte{}))
}

func TestStringToBytes(t *testing.T) {
	assert.Equal(t, []byte("hello world"), StringToBytes("hello world"))
	assert.Nil(t, StringToBytes(""))
}

func TestBuilder(t *testing.T) {
	builder := NewBuilder(32)

	_, _ = builder.WriteString("hello")
	_ = builder.WriteByte(' ')
	_, _ = builder.WriteRune('w')
	_, _ = fmt.Fprintf(builder, "orld %d", 42)

	assert.Equal(t, "hello world 42", builder.String())
	assert.Equal(t, 14, builder.Len())
}

func TestBuilderZeroValue(t *testing.T) {
	var builder Builder
	assert.Equal(t, 0, builder.Len())
	assert.Equal(t, "", builder.String())

	_, _ = builder.WriteString("ok")
	assert.Equal(t, "ok", builder.String())
}

func TestBuilderGrow(t *testing.T) {
	builder := NewBuilder(2)
	initialCap := builder.Cap()

	builder.Grow(10)
	assert.Greater(t, builder.Cap(), initialCap)
}

func TestBuilderClearKeepsCapacity(t *testing.T) {
	builder := NewBuilder(0)
	builder.Grow(1024)
	_, _ = builder.WriteString("some text")
	capBefore := builder.Cap()

	builder.Clear()
	assert.Equal(t, 0, builder.Len())
	assert.Equal(t, capBefore, builder.Cap())

	// Clearing an empty builder changes nothing.
	builder.Clear()
	assert.Equal(t, 0, builder.Len())
	assert.Equal(t, capBefore, builder.Cap())
}

func TestBuilderStringSurvivesClear(t *testing.T) {
	builder := NewBuilder(16)
	_, _ = builder.WriteString("first")
	s := builder.String()

	builder.Clear()
	_, _ = builder.WriteString("other")

	require.Equal(t, "first", s)
	assert.Equal(t, "other", builder.UnsafeString())
}

func TestConcat(t *testing.T) {
	assert.Equal(t, "", Concat())
	assert.Equal(t, "a", Concat("a"))
	assert.Equal(t, "a-b-c", Concat("a", "-", "b", "-", "c"))
}

func TestClone(t *testing.T) {
	b := []byte("mutable")
	s := Clone(BytesToString(b))
	b[0] = 'M'
	assert.Equal(t, "mutable", s)
	assert.Equal(t, "", Clone(""))
}
