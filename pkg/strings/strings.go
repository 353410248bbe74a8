// Package strings provides a growable, capacity-preserving string buffer and
// zero-copy conversion helpers used by the pooled string containers.
package strings

import (
	"unicode/utf8"
	"unsafe"
)

// BytesToString converts byte slice to string without allocation
// WARNING: The returned string shares memory with the byte slice.
// Do not modify the byte slice after calling this function.
func BytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// StringToBytes converts string to byte slice without allocation
// WARNING: The returned byte slice shares memory with the string.
// Do not modify the returned slice.
func StringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// Builder is a growable string whose backing buffer survives Clear.
// The zero value is an empty builder ready to use.
//
// Unlike strings.Builder from the standard library, a Builder can be
// emptied without giving its buffer back to the allocator, which is what
// makes it worth pooling.
type Builder struct {
	buf []byte
}

// NewBuilder creates a new string builder
func NewBuilder(capacity int) *Builder {
	return &Builder{
		buf: make([]byte, 0, capacity),
	}
}

// WriteString appends a string to the builder
func (b *Builder) WriteString(s string) (int, error) {
	b.buf = append(b.buf, s...)
	return len(s), nil
}

// WriteByte appends a single byte
func (b *Builder) WriteByte(c byte) error {
	b.buf = append(b.buf, c)
	return nil
}

// WriteRune appends the UTF-8 encoding of r
func (b *Builder) WriteRune(r rune) (int, error) {
	n := len(b.buf)
	b.buf = utf8.AppendRune(b.buf, r)
	return len(b.buf) - n, nil
}

// Write implements io.Writer interface
func (b *Builder) Write(p []byte) (n int, err error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// String returns a copy of the accumulated string. The copy stays valid
// after the builder is cleared and reused.
func (b *Builder) String() string {
	return string(b.buf)
}

// UnsafeString returns the accumulated string without copying. It is only
// valid until the next write or Clear.
func (b *Builder) UnsafeString() string {
	return BytesToString(b.buf)
}

// Bytes returns the underlying byte slice
func (b *Builder) Bytes() []byte {
	return b.buf
}

// Len returns the length of the built string
func (b *Builder) Len() int {
	return len(b.buf)
}

// Cap returns the capacity of the underlying buffer
func (b *Builder) Cap() int {
	return cap(b.buf)
}

// Clear empties the builder and keeps its buffer.
func (b *Builder) Clear() {
	b.buf = b.buf[:0]
}

// Reset is an alias of Clear.
func (b *Builder) Reset() {
	b.Clear()
}

// Grow grows the buffer capacity
func (b *Builder) Grow(n int) {
	if cap(b.buf)-len(b.buf) < n {
		newSize := len(b.buf) + 2*cap(b.buf) + n
		newBuf := make([]byte, len(b.buf), newSize)
		copy(newBuf, b.buf)
		b.buf = newBuf
	}
}

// Clone creates a copy of a string (useful when you need to own the memory)
func Clone(s string) string {
	if len(s) == 0 {
		return ""
	}
	b := make([]byte, len(s))
	copy(b, s)
	return BytesToString(b)
}

// Concat concatenates strings with a single allocation
func Concat(parts ...string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}

	total := 0
	for _, s := range parts {
		total += len(s)
	}

	b := NewBuilder(total)
	for _, s := range parts {
		_, _ = b.WriteString(s)
	}
	return b.UnsafeString()
}
