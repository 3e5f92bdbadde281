// Package tag provides an implementation of an event tag, an array of strings
// with a usually single letter first "key" field, including methods to
// compare and access elements with their proper semantics.
package tag

import (
	"bytes"

	"golang.org/x/exp/constraints"
)

// The tag position meanings, so they are clear when reading.
const (
	Key = iota
	Value
	Relay
)

// T is a list of byte fields with a literal ordering.
//
// Not a set, there can be repeating elements.
type T struct {
	field [][]byte
}

// New creates a new tag.T from a variadic parameter that can be either string
// or byte slice.
func New[V string | []byte](fields ...V) (t *T) {
	t = &T{field: make([][]byte, len(fields))}
	for i, field := range fields {
		t.field[i] = []byte(field)
	}
	return
}

// NewWithCap creates a new empty tag.T with a pre-allocated capacity for some
// number of fields.
func NewWithCap[V constraints.Integer](c V) *T { return &T{make([][]byte, 0, c)} }

// FromBytesSlice creates a tag.T from a slice of slice of bytes.
func FromBytesSlice(fields ...[]byte) (t *T) {
	return &T{field: fields}
}

// S returns a field of a tag.T as a string.
func (t *T) S(i int) (s string) {
	if t == nil || t.Len() <= i {
		return
	}
	return string(t.field[i])
}

// B returns a field of a tag.T as a byte slice.
func (t *T) B(i int) (b []byte) {
	if t == nil || t.Len() <= i {
		return
	}
	return t.field[i]
}

// Len returns the number of elements in a tag.T.
func (t *T) Len() int {
	if t == nil {
		return 0
	}
	return len(t.field)
}

// Less returns whether one field of a tag.T is lexicographically less than
// another.
func (t *T) Less(i, j int) bool {
	if t == nil || i < 0 || j < 0 || i >= t.Len() || j >= t.Len() {
		return false
	}
	return bytes.Compare(t.field[i], t.field[j]) < 0
}

// Swap flips the position of two fields of a tag.T with each other.
func (t *T) Swap(i, j int) { t.field[i], t.field[j] = t.field[j], t.field[i] }

// Append a slice of slice of bytes to a tag.T.
func (t *T) Append(b ...[]byte) (tt *T) {
	tt = t
	if t == nil {
		tt = &T{}
	}
	for _, bb := range b {
		tt.field = append(tt.field, bb)
	}
	return
}

// Clone makes a new tag.T with the same members.
func (t *T) Clone() (c *T) {
	if t == nil {
		return nil
	}
	c = &T{field: make([][]byte, 0, len(t.field))}
	for _, f := range t.field {
		b := make([]byte, len(f))
		copy(b, f)
		c.field = append(c.field, b)
	}
	return
}

// Equal checks two tag.T have identical members in the same order.
func (t *T) Equal(t2 *T) bool {
	if t.Len() != t2.Len() {
		return false
	}
	for i := range t.field {
		if !bytes.Equal(t.field[i], t2.field[i]) {
			return false
		}
	}
	return true
}

// Key returns the first element of the tag.
func (t *T) Key() []byte {
	if t == nil || len(t.field) <= Key {
		return nil
	}
	return t.field[Key]
}

// Value returns the second element of the tag.
func (t *T) Value() []byte {
	if t == nil || len(t.field) <= Value {
		return nil
	}
	return t.field[Value]
}

// ToSliceOfBytes renders a tag.T as a slice of slice of bytes.
func (t *T) ToSliceOfBytes() (b [][]byte) {
	if t == nil {
		return [][]byte{}
	}
	b = make([][]byte, t.Len())
	for i := range t.field {
		b[i] = t.B(i)
	}
	return
}

// ToStringSlice converts a tag.T to a slice of strings.
func (t *T) ToStringSlice() (b []string) {
	b = make([]string, 0, len(t.field))
	for i := range t.field {
		b = append(b, string(t.field[i]))
	}
	return
}
