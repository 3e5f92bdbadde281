// Package relay wires the event admission pipeline: auth gate, rate limiter,
// validator and hook dispatcher around the storage contract. This is the only
// place protocol invariants are enforced under concurrent, adversarial input;
// everything upstream (transport, signature verification) and downstream
// (matching heuristics, bridges) is a collaborator behind an interface.
package relay

import (
	"errors"

	"github.com/joinnextblock/attn-protocol-sub001/event"
	"github.com/joinnextblock/attn-protocol-sub001/filter"
	"github.com/joinnextblock/attn-protocol-sub001/hook"
	"github.com/joinnextblock/attn-protocol-sub001/ratelimit"
	"github.com/joinnextblock/attn-protocol-sub001/reason"
	"github.com/joinnextblock/attn-protocol-sub001/store"
	"github.com/joinnextblock/attn-protocol-sub001/validate"
)

// P is the admission pipeline. Construct with New; the zero value is not
// usable.
type P struct {
	auth       Auth
	limiter    *ratelimit.L
	dispatcher *hook.D
	store      store.I
}

// Params configures a pipeline. Store and Dispatcher are required; a nil
// Auth means an OpenGate and a nil Limiter disables rate limiting.
type Params struct {
	Auth       Auth
	Limiter    *ratelimit.L
	Dispatcher *hook.D
	Store      store.I
}

func New(p Params) (pl *P) {
	if p.Auth == nil {
		p.Auth = OpenGate{}
	}
	return &P{
		auth:       p.Auth,
		limiter:    p.Limiter,
		dispatcher: p.Dispatcher,
		store:      p.Store,
	}
}

// Dispatcher exposes the hook registration surface of the pipeline.
func (p *P) Dispatcher() *hook.D { return p.dispatcher }

// Storage exposes the storage contract behind the pipeline.
func (p *P) Storage() store.I { return p.store }

// Admit runs one event through the full pipeline, returning the typed error
// of the failing stage, or nil with the After-hook warnings once storage has
// committed.
func (p *P) Admit(c cx, ev *event.T) (warnings []er, err er) {
	if ev == nil {
		return nil, &ValidationFailed{Reason: "empty event"}
	}
	if reject, msg := p.auth.RejectEvent(c, ev); reject {
		// no quota consumed, no validation performed
		return nil, &AuthRejected{Reason: msg}
	}
	if p.limiter != nil && !p.auth.IsAuthorized(ev.PubKey) {
		if !p.limiter.Allow(ev.PubKey, ev.Kind) {
			return nil, &RateLimited{
				Pubkey: ev.PubKey,
				Kind:   ev.Kind,
				Limit:  p.limiter.GetLimit(ev.Kind),
			}
		}
	}
	if ok, msg := validate.Validate(ev); !ok {
		return nil, &ValidationFailed{Reason: msg}
	}
	return p.dispatcher.Dispatch(c, ev)
}

// AddEvent is the wire-facing form of Admit: an accepted flag plus the
// machine-prefixed message the transport hands back to the publishing
// client.
func (p *P) AddEvent(c cx, ev *event.T) (accepted bo, message by) {
	warnings, err := p.Admit(c, ev)
	for range warnings {
		// already logged by the dispatcher; the client got its commit
	}
	if err == nil {
		return true, nil
	}
	var (
		authRej  *AuthRejected
		limited  *RateLimited
		invalid  *ValidationFailed
		aborted  *hook.Aborted
		stFailed *hook.StorageFailure
	)
	switch {
	case errors.As(err, &authRej):
		return false, reason.Restricted.F("%s", authRej.Reason)
	case errors.As(err, &limited):
		return false, reason.RateLimited.F("%s", limited.Error())
	case errors.As(err, &invalid):
		return false, reason.Invalid.F("%s", invalid.Reason)
	case errors.As(err, &aborted):
		if aborted.Timeout {
			return false, reason.Timeout.F("%s", aborted.Error())
		}
		return false, reason.Blocked.F("%s", aborted.Error())
	case errors.As(err, &stFailed):
		if errors.Is(stFailed.Err, store.ErrDupEvent) {
			// a duplicate is already committed; the client's publish stands
			return true, reason.Duplicate.F("%s", stFailed.Err.Error())
		}
		return false, reason.Error.F("failed to save (%s)", stFailed.Err.Error())
	}
	return false, reason.Blocked.F("%s", err.Error())
}

// Query consults the auth gate then reads from storage, returning the typed
// error of the failing stage.
func (p *P) Query(c cx, f *filter.T) (evs event.Ts, err er) {
	if reject, msg := p.auth.RejectReq(c, f); reject {
		return nil, &QueryRejected{Reason: msg}
	}
	evs, err = p.store.QueryEvents(c, f)
	chk.E(err)
	return
}

// QueryEvents is the wire-facing form of Query. A storage failure yields
// whatever partial result exists plus a notice, never a dropped connection.
func (p *P) QueryEvents(c cx, f *filter.T) (evs event.Ts, notice by) {
	evs, err := p.Query(c, f)
	if err == nil {
		return evs, nil
	}
	var rejected *QueryRejected
	if errors.As(err, &rejected) {
		return nil, reason.Restricted.F("%s", rejected.Reason)
	}
	return evs, reason.Error.F("query failed: %s", err.Error())
}

// AcceptConnection is the transport's pre-auth connection gate.
func (p *P) AcceptConnection(c cx, remote st) (err er) {
	if reject, msg := p.auth.OnConnection(c, remote); reject {
		return &ConnectionRejected{Remote: remote, Reason: msg}
	}
	p.auth.OnConnect(c, remote)
	return
}

// Authenticate records a transport-verified pubkey with the gate and puts it
// on the limiter's bypass list when the gate authorizes it.
func (p *P) Authenticate(c cx, pubkey by) (err er) {
	if err = p.auth.OnAuth(c, pubkey); chk.E(err) {
		return
	}
	if p.limiter != nil && p.auth.IsAuthorized(pubkey) {
		p.limiter.Authorize(pubkey)
	}
	return
}
