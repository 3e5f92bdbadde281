package relay

import (
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/joinnextblock/attn-protocol-sub001/event"
	"github.com/joinnextblock/attn-protocol-sub001/filter"
	"github.com/joinnextblock/attn-protocol-sub001/hex"
	"github.com/joinnextblock/attn-protocol-sub001/reason"
)

// Gate is an Auth that requires a completed auth exchange before events are
// accepted. The transport calls OnAuth once it has verified a pubkey's proof;
// until then that pubkey's events are rejected with an auth-required message.
// Queries are not gated.
type Gate struct {
	authed *xsync.MapOf[st, struct{}]
}

var _ Auth = (*Gate)(nil)

// NewGate creates an auth-requiring gate with nobody yet authenticated.
func NewGate() (g *Gate) {
	return &Gate{authed: xsync.NewMapOf[st, struct{}]()}
}

func (g *Gate) OnConnection(c cx, remote st) (reject bo, msg st) { return }

func (g *Gate) OnConnect(c cx, remote st) {
	log.D.F("connection accepted from %s", remote)
}

// OnAuth records a verified pubkey so its events pass the gate.
func (g *Gate) OnAuth(c cx, pubkey by) (err er) {
	g.authed.Store(hex.Enc(pubkey), struct{}{})
	return
}

func (g *Gate) RejectReq(c cx, f *filter.T) (reject bo, msg st) { return }

func (g *Gate) RejectEvent(c cx, ev *event.T) (reject bo, msg st) {
	if _, ok := g.authed.Load(ev.PubKeyString()); ok {
		return
	}
	return true, st(reason.Msg(reason.AuthRequired,
		"event not accepted before auth"))
}

// IsAuthorized reports whether the pubkey has completed auth; authed pubkeys
// are trusted enough to skip rate limiting.
func (g *Gate) IsAuthorized(pubkey by) (is bo) {
	_, is = g.authed.Load(hex.Enc(pubkey))
	return
}
