// Package event implements the primary datatype of the relay, the form of
// the structure that defines its JSON string based wire format.
package event

import (
	"github.com/joinnextblock/attn-protocol-sub001/hex"
	"github.com/joinnextblock/attn-protocol-sub001/kind"
	"github.com/joinnextblock/attn-protocol-sub001/tag/atag"
	"github.com/joinnextblock/attn-protocol-sub001/tags"
	"github.com/joinnextblock/attn-protocol-sub001/timestamp"
)

// T is the event structure. Signature validity is checked by an external
// collaborator before an event reaches this codebase, so nothing here touches
// the Sig field except to carry it.
type T struct {
	// ID is the SHA256 hash of the canonical encoding of the event in binary
	// format.
	ID []byte
	// PubKey is the public key of the event creator in binary format.
	PubKey []byte
	// CreatedAt is the UNIX timestamp of the event according to the event
	// creator (never trust a timestamp!)
	CreatedAt *timestamp.T
	// Kind is the protocol code for the type of event. See kind.T.
	Kind *kind.T
	// Tags are a list of tags, usually structured as a key field, a value and
	// optional extra fields indicating specific features of an event.
	Tags *tags.T
	// Content is an arbitrary byte string, usually JSON conforming to the
	// schema of the Kind.
	Content []byte
	// Sig is the signature on the ID hash that validates as coming from the
	// PubKey, carried opaquely.
	Sig []byte
}

func New() (ev *T) { return &T{} }

// Ts is an array of T that sorts in reverse chronological order.
type Ts []*T

func (ev Ts) Len() int           { return len(ev) }
func (ev Ts) Less(i, j int) bool { return ev[i].CreatedAt.I64() > ev[j].CreatedAt.I64() }
func (ev Ts) Swap(i, j int)      { ev[i], ev[j] = ev[j], ev[i] }

// C is a channel of events.
type C chan *T

func (ev *T) IDString() (s st)     { return hex.Enc(ev.ID) }
func (ev *T) PubKeyString() (s st) { return hex.Enc(ev.PubKey) }

func (ev *T) CreatedAtI64() (i int64) {
	if ev.CreatedAt == nil {
		return 0
	}
	return ev.CreatedAt.I64()
}

var dTag = by("d")

// DTag returns the value of the first "d" tag, the discriminator of a
// parameterized replaceable event's identity. Nil means no d tag.
func (ev *T) DTag() (v by) {
	t := ev.Tags.GetFirst(dTag)
	if t == nil {
		return nil
	}
	// a "d" tag with no value field still names the empty identity
	if t.Len() < 2 {
		return by{}
	}
	return t.Value()
}

// Address returns the coordinate identifying this event's logical identity.
// Only meaningful for parameterized replaceable kinds.
func (ev *T) Address() (a atag.T) {
	return atag.T{Kind: ev.Kind, PubKey: ev.PubKey, DTag: ev.DTag()}
}

// ETagValues returns the values of all "e" tags, the event id references.
func (ev *T) ETagValues() (ids []by) {
	for _, t := range ev.Tags.GetAll(by("e")) {
		if t.Len() >= 2 {
			ids = append(ids, t.Value())
		}
	}
	return
}

// ATagValues returns the values of all "a" tags, the coordinate references.
func (ev *T) ATagValues() (coords []by) {
	for _, t := range ev.Tags.GetAll(by("a")) {
		if t.Len() >= 2 {
			coords = append(coords, t.Value())
		}
	}
	return
}

// TagValue returns the value of the first tag with the given key, or nil.
func (ev *T) TagValue(key st) (v by) {
	t := ev.Tags.GetFirst(by(key))
	if t == nil {
		return nil
	}
	return t.Value()
}

// Clone makes a deep copy of an event.
func (ev *T) Clone() (c *T) {
	c = &T{
		ID:      append(by{}, ev.ID...),
		PubKey:  append(by{}, ev.PubKey...),
		Tags:    ev.Tags.Clone(),
		Content: append(by{}, ev.Content...),
		Sig:     append(by{}, ev.Sig...),
	}
	if ev.CreatedAt != nil {
		c.CreatedAt = timestamp.FromUnix(ev.CreatedAt.I64())
	}
	if ev.Kind != nil {
		c.Kind = kind.New(ev.Kind.K)
	}
	return
}
