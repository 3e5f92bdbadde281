package relay

import (
	"fmt"

	"github.com/joinnextblock/attn-protocol-sub001/kind"
)

// The pipeline's taxonomy of per-event failures. Everything here is returned
// synchronously to the publishing client with a human-readable reason; none
// of it crashes the connection or the process. After-hook failures
// (hook.Warning) and storage failures (hook.StorageFailure) are defined with
// the dispatcher that produces them.

// ConnectionRejected is a pre-auth refusal of a new connection.
type ConnectionRejected struct {
	Remote st
	Reason st
}

func (e *ConnectionRejected) Error() st {
	return fmt.Sprintf("connection from %s rejected: %s", e.Remote, e.Reason)
}

// AuthRejected is the auth gate refusing an event before any pipeline work.
type AuthRejected struct {
	Reason st
}

func (e *AuthRejected) Error() st { return "auth rejected: " + e.Reason }

// QueryRejected is the auth gate refusing a query before it reaches storage.
type QueryRejected struct {
	Reason st
}

func (e *QueryRejected) Error() st { return "query rejected: " + e.Reason }

// RateLimited is a publisher exceeding its (pubkey, kind) windowed quota.
type RateLimited struct {
	Pubkey by
	Kind   *kind.T
	Limit  no
}

func (e *RateLimited) Error() st {
	return fmt.Sprintf("rate limited: kind %d allows %d events per window",
		e.Kind.ToInt(), e.Limit)
}

// ValidationFailed is a schema rejection from the validator.
type ValidationFailed struct {
	Reason st
}

func (e *ValidationFailed) Error() st { return "invalid event: " + e.Reason }
