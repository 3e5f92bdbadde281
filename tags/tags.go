// Package tags implements the list of tags of an event - a list of tag.T,
// with ordering and no uniqueness constraint (not a set).
package tags

import (
	"bytes"

	"github.com/joinnextblock/attn-protocol-sub001/tag"
)

// T is a list of tag.T.
type T struct {
	t []*tag.T
}

func New(fields ...*tag.T) (t *T) {
	t = &T{}
	for _, field := range fields {
		t.t = append(t.t, field)
	}
	return
}

func NewWithCap(c int) (t *T) {
	return &T{t: make([]*tag.T, 0, c)}
}

// Len returns the number of tags in the list.
func (t *T) Len() int {
	if t == nil {
		return 0
	}
	return len(t.t)
}

// N returns the tag at a given index, or an empty tag if out of bounds.
func (t *T) N(i int) (tt *tag.T) {
	if t == nil || len(t.t) <= i {
		return tag.NewWithCap(0)
	}
	return t.t[i]
}

// Value returns the underlying list of tag.T.
func (t *T) Value() []*tag.T {
	if t == nil {
		return nil
	}
	return t.t
}

// Append adds tags to the end of the list.
func (t *T) Append(tt ...*tag.T) *T {
	if t == nil {
		return New(tt...)
	}
	t.t = append(t.t, tt...)
	return t
}

// AppendSlice appends one tag built from a slice of byte slice fields.
func (t *T) AppendSlice(b ...[]byte) *T {
	t.t = append(t.t, tag.FromBytesSlice(b...))
	return t
}

// Clone makes a deep copy of the tags list.
func (t *T) Clone() (c *T) {
	if t == nil {
		return nil
	}
	c = &T{t: make([]*tag.T, 0, len(t.t))}
	for _, tt := range t.t {
		c.t = append(c.t, tt.Clone())
	}
	return
}

// GetFirst returns the first tag whose key equals the given key, or nil.
func (t *T) GetFirst(key []byte) (tt *tag.T) {
	if t == nil {
		return
	}
	for _, v := range t.t {
		if bytes.Equal(v.Key(), key) {
			return v
		}
	}
	return
}

// GetAll returns every tag whose key equals the given key.
func (t *T) GetAll(key []byte) (tt []*tag.T) {
	if t == nil {
		return
	}
	for _, v := range t.t {
		if bytes.Equal(v.Key(), key) {
			tt = append(tt, v)
		}
	}
	return
}

// ContainsAny returns whether any tag with the given key has a value found in
// the provided list of values.
func (t *T) ContainsAny(key []byte, values [][]byte) bool {
	if t == nil {
		return false
	}
	for _, v := range t.t {
		if !bytes.Equal(v.Key(), key) {
			continue
		}
		for _, candidate := range values {
			if bytes.Equal(v.Value(), candidate) {
				return true
			}
		}
	}
	return false
}

// ToStringSlice renders the tags as a slice of slices of strings, the wire
// JSON shape.
func (t *T) ToStringSlice() (b [][]string) {
	if t == nil {
		return [][]string{}
	}
	b = make([][]string, 0, len(t.t))
	for i := range t.t {
		b = append(b, t.t[i].ToStringSlice())
	}
	return
}

// FromStringSlice builds a tags.T from a slice of slices of strings.
func FromStringSlice(s [][]string) (t *T) {
	t = NewWithCap(len(s))
	for _, f := range s {
		t.t = append(t.t, tag.New(f...))
	}
	return
}
