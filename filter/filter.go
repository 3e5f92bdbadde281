// Package filter implements the query form used against the event store:
// fields combine with AND, the multiple values within one field combine with
// OR.
package filter

import (
	"bytes"

	"github.com/joinnextblock/attn-protocol-sub001/event"
	"github.com/joinnextblock/attn-protocol-sub001/kinds"
	"github.com/joinnextblock/attn-protocol-sub001/tag"
	"github.com/joinnextblock/attn-protocol-sub001/tags"
	"github.com/joinnextblock/attn-protocol-sub001/timestamp"
)

// T is a query filter. Nil or empty fields do not constrain.
type T struct {
	// Ids matches events by their content hash id.
	Ids *tag.T
	// Kinds matches events by kind number.
	Kinds *kinds.T
	// Authors matches events by author pubkey.
	Authors *tag.T
	// Tags matches by tag key and values; each element is a tag whose first
	// field is the key prefixed with '#' (eg "#e") and whose remaining
	// fields are the accepted values. Multiple elements AND together.
	Tags *tags.T
	// Since constrains to events at or after this timestamp.
	Since *timestamp.T
	// Until constrains to events at or before this timestamp.
	Until *timestamp.T
	// Limit caps the number of returned events; nil means the store default.
	Limit *uint
}

// New creates a new, reasonably pre-allocated filter.T.
func New() (f *T) {
	return &T{
		Ids:     tag.NewWithCap(10),
		Kinds:   kinds.NewWithCap(10),
		Authors: tag.NewWithCap(10),
		Tags:    tags.New(),
	}
}

// Matches returns whether an event satisfies every constraint of the filter.
func (f *T) Matches(ev *event.T) bo {
	if ev == nil {
		return false
	}
	if f == nil {
		return true
	}
	if f.Ids.Len() > 0 && !containsField(f.Ids, ev.ID) {
		return false
	}
	if f.Kinds.Len() > 0 && !f.Kinds.Contains(ev.Kind) {
		return false
	}
	if f.Authors.Len() > 0 && !containsField(f.Authors, ev.PubKey) {
		return false
	}
	if f.Tags != nil {
		for _, tt := range f.Tags.Value() {
			key := tt.Key()
			if len(key) < 2 || key[0] != '#' {
				continue
			}
			if !ev.Tags.ContainsAny(key[1:], tt.ToSliceOfBytes()[1:]) {
				return false
			}
		}
	}
	if f.Since != nil && f.Since.U64() > 0 && ev.CreatedAtI64() < f.Since.I64() {
		return false
	}
	if f.Until != nil && f.Until.U64() > 0 && ev.CreatedAtI64() > f.Until.I64() {
		return false
	}
	return true
}

func containsField(t *tag.T, b by) bo {
	for i := 0; i < t.Len(); i++ {
		if bytes.Equal(t.B(i), b) {
			return true
		}
	}
	return false
}

// Clone copies a filter, the fields shared because they are treated as
// immutable once built.
func (f *T) Clone() (clone *T) {
	if f == nil {
		return
	}
	clone = &T{
		Ids:     f.Ids,
		Kinds:   f.Kinds,
		Authors: f.Authors,
		Tags:    f.Tags,
		Since:   f.Since,
		Until:   f.Until,
	}
	if f.Limit != nil {
		lim := *f.Limit
		clone.Limit = &lim
	}
	return
}
