package event

import (
	"encoding/json"

	"github.com/joinnextblock/attn-protocol-sub001/hex"
	"github.com/joinnextblock/attn-protocol-sub001/kind"
	"github.com/joinnextblock/attn-protocol-sub001/tags"
	"github.com/joinnextblock/attn-protocol-sub001/timestamp"
)

// J is the JSON wire mirror of event.T, hex strings in place of binary
// fields.
type J struct {
	Id        st         `json:"id"`
	Pubkey    st         `json:"pubkey"`
	CreatedAt int64      `json:"created_at"`
	Kind      int32      `json:"kind"`
	Tags      [][]string `json:"tags"`
	Content   st         `json:"content"`
	Sig       st         `json:"sig"`
}

// ToJ converts an event to its JSON mirror form.
func (ev *T) ToJ() (j *J) {
	return &J{
		Id:        ev.IDString(),
		Pubkey:    ev.PubKeyString(),
		CreatedAt: ev.CreatedAtI64(),
		Kind:      ev.Kind.ToI32(),
		Tags:      ev.Tags.ToStringSlice(),
		Content:   st(ev.Content),
		Sig:       hex.Enc(ev.Sig),
	}
}

// FromJ fills in an event from its JSON mirror form.
func (ev *T) FromJ(j *J) (err er) {
	if ev.ID, err = hex.Dec(j.Id); chk.E(err) {
		return
	}
	if ev.PubKey, err = hex.Dec(j.Pubkey); chk.E(err) {
		return
	}
	ev.CreatedAt = timestamp.FromUnix(j.CreatedAt)
	ev.Kind = kind.New(j.Kind)
	ev.Tags = tags.FromStringSlice(j.Tags)
	ev.Content = by(j.Content)
	if j.Sig != "" {
		if ev.Sig, err = hex.Dec(j.Sig); chk.E(err) {
			return
		}
	}
	return
}

// Serialize renders the event as wire format JSON.
func (ev *T) Serialize() (b by) {
	b, _ = json.Marshal(ev.ToJ())
	return
}

// Marshal appends the wire format JSON of the event to dst.
func (ev *T) Marshal(dst by) (b by) { return append(dst, ev.Serialize()...) }

// Unmarshal decodes an event from wire format JSON.
func (ev *T) Unmarshal(b by) (err er) {
	j := &J{}
	if err = json.Unmarshal(b, j); chk.E(err) {
		return
	}
	return ev.FromJ(j)
}

// FromJSON is a convenience constructor decoding one wire format event.
func FromJSON(b by) (ev *T, err er) {
	ev = New()
	if err = ev.Unmarshal(b); err != nil {
		return nil, err
	}
	return
}
