// Package kinds is a set of helpers for dealing with lists of kind numbers
// including comparisons and conversions.
package kinds

import (
	"github.com/joinnextblock/attn-protocol-sub001/kind"
)

// T is an array of kind.T, used in filter.T for searches.
type T struct {
	K []*kind.T
}

// New creates a new kinds.T, if no parameter is given it just creates an
// empty zero kinds.T.
func New(k ...*kind.T) *T { return &T{k} }

// NewWithCap creates a new empty kinds.T with a given slice capacity.
func NewWithCap(c int) *T { return &T{make([]*kind.T, 0, c)} }

// FromIntSlice converts a []int into a kinds.T.
func FromIntSlice(is []int) (k *T) {
	k = &T{}
	for i := range is {
		k.K = append(k.K, kind.New(uint16(is[i])))
	}
	return
}

// Len returns the number of elements in a kinds.T.
func (k *T) Len() (l int) {
	if k == nil {
		return
	}
	return len(k.K)
}

// Less returns which of two elements of a kinds.T is lower.
func (k *T) Less(i, j int) bool { return k.K[i].K < k.K[j].K }

// Swap switches the position of two kinds.T elements.
func (k *T) Swap(i, j int) { k.K[i], k.K[j] = k.K[j], k.K[i] }

// Append adds more kinds to the list.
func (k *T) Append(kk ...*kind.T) {
	k.K = append(k.K, kk...)
}

// ToUint16 returns a []uint16 version of the kinds.T.
func (k *T) ToUint16() (o []uint16) {
	for i := range k.K {
		o = append(o, k.K[i].ToU16())
	}
	return
}

// ToIntSlice returns a []int version of the kinds.T.
func (k *T) ToIntSlice() (o []int) {
	for i := range k.K {
		o = append(o, k.K[i].ToInt())
	}
	return
}

// Clone makes a new kinds.T with the same members.
func (k *T) Clone() (c *T) {
	c = &T{K: make([]*kind.T, len(k.K))}
	copy(c.K, k.K)
	return
}

// Contains returns true if the provided element is found in the kinds.T.
func (k *T) Contains(s *kind.T) bool {
	if k == nil {
		return false
	}
	for i := range k.K {
		if k.K[i].Equal(s) {
			return true
		}
	}
	return false
}

// Equals checks that the provided kinds.T matches exactly.
func (k *T) Equals(t1 *T) bool {
	if len(k.K) != len(t1.K) {
		return false
	}
	for i := range k.K {
		if !k.K[i].Equal(t1.K[i]) {
			return false
		}
	}
	return true
}
