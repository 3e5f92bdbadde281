// Package timestamp is a convenience type for UNIX 64 bit timestamps of 1
// second precision.
package timestamp

import (
	"encoding/binary"
	"time"
)

// T is a UNIX timestamp with 1 second precision.
type T int64

func New() (t *T) {
	tt := T(0)
	return &tt
}

// Now returns the current UNIX timestamp of the current second.
func Now() *T {
	tt := T(time.Now().Unix())
	return &tt
}

// U64 returns the timestamp as a uint64.
func (t *T) U64() uint64 { return uint64(*t) }

// I64 returns the timestamp as an int64.
func (t *T) I64() int64 { return int64(*t) }

// Int returns the timestamp as an int.
func (t *T) Int() int { return int(*t) }

// Time converts the timestamp into a standard time.Time.
func (t *T) Time() time.Time { return time.Unix(int64(*t), 0) }

// Bytes returns the timestamp as an 8 byte big endian value.
func (t *T) Bytes() (b []byte) {
	b = make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(*t))
	return
}

// FromTime returns a T from a time.Time.
func FromTime(t time.Time) *T {
	tt := T(t.Unix())
	return &tt
}

// FromUnix converts from a standard int64 unix timestamp.
func FromUnix(t int64) *T {
	tt := T(t)
	return &tt
}

// FromBytes converts from an 8 byte big endian value.
func FromBytes(b []byte) *T {
	tt := T(binary.BigEndian.Uint64(b))
	return &tt
}
