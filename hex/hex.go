// Package hex wraps the standard library hex encoder with append-style
// variants using the faster xhex implementation.
package hex

import (
	"encoding/hex"

	"github.com/templexxx/xhex"
)

var (
	Enc      = hex.EncodeToString
	EncBytes = hex.Encode
	Dec      = hex.DecodeString
	DecBytes = hex.Decode
	DecLen   = hex.DecodedLen
)

type InvalidByteError = hex.InvalidByteError

// EncAppend appends the hex encoding of src to dst.
func EncAppend(dst, src []byte) (b []byte) {
	l := len(dst)
	dst = append(dst, make([]byte, len(src)*2)...)
	xhex.Encode(dst[l:], src)
	return dst
}

// DecAppend appends the decoded bytes of hex encoded src to dst.
func DecAppend(dst, src []byte) (b []byte, err error) {
	l := len(dst)
	b = append(dst, make([]byte, len(src)/2)...)
	if err = xhex.Decode(b[l:], src); err != nil {
		return
	}
	return
}
