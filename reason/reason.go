// Package reason provides the machine-readable prefixes that go before the
// colon in a rejection message returned to a publishing or querying client,
// so clients can react to the class of failure without parsing prose.
package reason

import (
	"bytes"
	"fmt"
)

// R is the machine-readable prefix before the colon in a rejection message.
type R []byte

var (
	AuthRequired = R("auth-required")
	Duplicate    = R("duplicate")
	Blocked      = R("blocked")
	RateLimited  = R("rate-limited")
	Invalid      = R("invalid")
	Error        = R("error")
	Timeout      = R("timeout")
	Unsupported  = R("unsupported")
	Restricted   = R("restricted")
)

// S returns the R as a string.
func (r R) S() string { return string(r) }

// B returns the R as a byte slice.
func (r R) B() []byte { return r }

// IsPrefix returns whether a text carries this R prefix.
func (r R) IsPrefix(text []byte) bool { return bytes.HasPrefix(text, r.B()) }

// F allows creation of a full R text with a printf style format.
func (r R) F(format string, params ...any) []byte {
	return Msg(r, format, params...)
}

// Msg constructs a properly formatted message with a machine-readable prefix.
func Msg(prefix R, format string, params ...any) []byte {
	if len(prefix) < 1 {
		prefix = Error
	}
	return []byte(fmt.Sprintf(prefix.S()+": "+format, params...))
}
