package containers

import "github.com/bits-and-blooms/bitset"

// BitSet is a dense set of non-negative integers. Clear resets every bit
// but keeps the words allocated for the highest bit ever set.
type BitSet struct {
	bits bitset.BitSet
}

// NewBitSet returns an empty bit set with room for length bits.
func NewBitSet(length uint) *BitSet {
	return &BitSet{bits: *bitset.New(length)}
}

// Set turns bit i on.
func (b *BitSet) Set(i uint) {
	b.bits.Set(i)
}

// Unset turns bit i off.
func (b *BitSet) Unset(i uint) {
	b.bits.Clear(i)
}

// Test reports whether bit i is on.
func (b *BitSet) Test(i uint) bool {
	return b.bits.Test(i)
}

// Count returns the number of bits that are on.
func (b *BitSet) Count() uint {
	return b.bits.Count()
}

// Len returns the number of addressable bits without growing.
func (b *BitSet) Len() uint {
	return b.bits.Len()
}

// Range calls fn for each bit that is on, in ascending order, until fn
// returns false.
func (b *BitSet) Range(fn func(i uint) bool) {
	for i, ok := b.bits.NextSet(0); ok; i, ok = b.bits.NextSet(i + 1) {
		if !fn(i) {
			return
		}
	}
}

// Clear turns every bit off.
func (b *BitSet) Clear() {
	b.bits.ClearAll()
}
