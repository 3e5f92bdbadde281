package relay

import (
	"github.com/joinnextblock/attn-protocol-sub001/event"
	"github.com/joinnextblock/attn-protocol-sub001/filter"
)

// Auth is the pluggable connection and event level authorization gate. It is
// consulted before rate limiting and validation; a rejection here
// short-circuits the whole pipeline with no quota consumed and no validation
// performed. The cryptographic challenge/response behind OnAuth lives in the
// transport collaborator, not here.
type Auth interface {
	// OnConnection is the pre-auth gate for a new connection. A rejection
	// closes it before any message is read.
	OnConnection(c cx, remote st) (reject bo, msg st)
	// OnConnect is informational, called once a connection is accepted.
	OnConnect(c cx, remote st)
	// OnAuth is called when the transport has verified an auth proof for a
	// pubkey on the connection.
	OnAuth(c cx, pubkey by) (err er)
	// RejectReq gates a query before it reaches storage.
	RejectReq(c cx, f *filter.T) (reject bo, msg st)
	// RejectEvent gates an event before any pipeline work happens.
	RejectEvent(c cx, ev *event.T) (reject bo, msg st)
	// IsAuthorized reports whether a pubkey is on the allow-list that
	// bypasses rate limiting.
	IsAuthorized(pubkey by) bo
}

// OpenGate is the Auth used when no gate is configured: everything passes,
// nothing is allow-listed.
type OpenGate struct{}

var _ Auth = OpenGate{}

func (OpenGate) OnConnection(c cx, remote st) (reject bo, msg st)   { return }
func (OpenGate) OnConnect(c cx, remote st)                          {}
func (OpenGate) OnAuth(c cx, pubkey by) (err er)                    { return }
func (OpenGate) RejectReq(c cx, f *filter.T) (reject bo, msg st)    { return }
func (OpenGate) RejectEvent(c cx, ev *event.T) (reject bo, msg st)  { return }
func (OpenGate) IsAuthorized(pubkey by) bo                          { return false }
