// Package atag implements the coordinate reference form "kind:pubkey:dtag"
// that identifies a parameterized replaceable event by its logical identity
// rather than its content hash.
package atag

import (
	"bytes"
	"strconv"

	"github.com/joinnextblock/attn-protocol-sub001/hex"
	"github.com/joinnextblock/attn-protocol-sub001/kind"
)

// T is a parsed coordinate: the kind, author pubkey and d-tag value of a
// parameterized replaceable event.
type T struct {
	Kind   *kind.T
	PubKey []byte
	DTag   []byte
}

// Marshal appends the coordinate in "kind:pubkey:dtag" form to dst.
func (t T) Marshal(dst []byte) (b []byte) {
	b = strconv.AppendUint(dst, uint64(t.Kind.ToU16()), 10)
	b = append(b, ':')
	b = hex.EncAppend(b, t.PubKey)
	b = append(b, ':')
	b = append(b, t.DTag...)
	return
}

// String renders the coordinate in "kind:pubkey:dtag" form.
func (t T) String() string { return string(t.Marshal(nil)) }

// Unmarshal parses a "kind:pubkey:dtag" coordinate. The d-tag segment may
// itself contain colons, so only the first two separators split.
func (t *T) Unmarshal(b []byte) (err error) {
	split := bytes.SplitN(b, []byte{':'}, 3)
	if len(split) != 3 {
		return errorf.E("malformed coordinate '%s'", b)
	}
	var k uint64
	if k, err = strconv.ParseUint(string(split[0]), 10, 16); chk.E(err) {
		return
	}
	t.Kind = kind.New(uint16(k))
	if t.PubKey, err = hex.DecAppend(nil, split[1]); chk.E(err) {
		return
	}
	t.DTag = split[2]
	return
}
