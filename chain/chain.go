// Package chain reconstructs the confirmation trail of a match from the
// stored event log. The log is append-only, multi-writer and carries no
// global write ordering, so the trail is never a write-time state machine:
// it is recomputed from whatever references resolve at read time, and
// whatever does not resolve is reported rather than rejected.
package chain

import (
	"github.com/joinnextblock/attn-protocol-sub001/event"
	"github.com/joinnextblock/attn-protocol-sub001/filter"
	"github.com/joinnextblock/attn-protocol-sub001/hex"
	"github.com/joinnextblock/attn-protocol-sub001/kind"
	"github.com/joinnextblock/attn-protocol-sub001/kinds"
	"github.com/joinnextblock/attn-protocol-sub001/store"
	"github.com/joinnextblock/attn-protocol-sub001/tag"
	"github.com/joinnextblock/attn-protocol-sub001/tag/atag"
	"github.com/joinnextblock/attn-protocol-sub001/tags"
)

// State is the furthest coherent point a match's trail has reached.
type State no

const (
	// Matched means the match exists but neither display confirmation does.
	Matched State = iota
	// BillboardConfirmed means the billboard attested, the viewer has not.
	BillboardConfirmed
	// ViewerConfirmed means the viewer attested, the billboard has not.
	ViewerConfirmed
	// DisplayConfirmed means both display confirmations are in, settlement
	// pending.
	DisplayConfirmed
	// MarketplaceConfirmed means the marketplace settled the match.
	MarketplaceConfirmed
	// PaymentConfirmed means the attention owner independently attested
	// receipt of the settlement.
	PaymentConfirmed
)

var stateNames = []st{
	"matched",
	"billboard-confirmed",
	"viewer-confirmed",
	"display-confirmed",
	"marketplace-confirmed",
	"payment-confirmed",
}

func (s State) String() string {
	if s < 0 || no(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Trail is the reconstructed audit trail of one match identity.
type Trail struct {
	// MatchID is the id the trail was keyed on.
	MatchID by
	// Match is the match event, nil when every confirmation found is an
	// orphan.
	Match *event.T
	// Marketplace, Promotion and Attention are the match's coordinate
	// references resolved to their current stored versions.
	Marketplace *event.T
	Promotion   *event.T
	Attention   *event.T
	// BillboardConfirmation and ViewerConfirmation are the two display
	// attestations, arriving in either order.
	BillboardConfirmation *event.T
	ViewerConfirmation    *event.T
	// MarketplaceConfirmation is the settlement.
	MarketplaceConfirmation *event.T
	// PaymentConfirmation is the attention owner's independent receipt
	// attestation. It exists so the attention owner, not just the
	// marketplace, vouches for final settlement.
	PaymentConfirmation *event.T
	// Orphans are confirmation events referencing this match id while the
	// match itself is not in storage.
	Orphans event.Ts
	// Missing names the reference slots that did not resolve.
	Missing []st
}

// State reports the furthest point of the
// matched -> display confirmations -> settlement -> payment progression.
func (t *Trail) State() (s State) {
	switch {
	case t.PaymentConfirmation != nil && t.MarketplaceConfirmation != nil:
		return PaymentConfirmed
	case t.MarketplaceConfirmation != nil:
		return MarketplaceConfirmed
	case t.BillboardConfirmation != nil && t.ViewerConfirmation != nil:
		return DisplayConfirmed
	case t.BillboardConfirmation != nil:
		return BillboardConfirmed
	case t.ViewerConfirmation != nil:
		return ViewerConfirmed
	}
	return Matched
}

// Complete reports whether every required reference slot resolved: the
// marketplace, promotion and attention identities, both display
// confirmations, and the settlement. The payment attestation is optional.
func (t *Trail) Complete() bo {
	return t.Match != nil &&
		t.Marketplace != nil &&
		t.Promotion != nil &&
		t.Attention != nil &&
		t.BillboardConfirmation != nil &&
		t.ViewerConfirmation != nil &&
		t.MarketplaceConfirmation != nil
}

// Orphaned reports whether confirmations reference a match that is not in
// storage.
func (t *Trail) Orphaned() bo { return t.Match == nil && len(t.Orphans) > 0 }

// Reconstruct builds the trail of one match id from the store.
func Reconstruct(c cx, s store.Querent, matchID by) (t *Trail, err er) {
	t = &Trail{MatchID: matchID}
	// the match itself
	f := filter.New()
	f.Ids = tag.FromBytesSlice(matchID)
	f.Kinds = kinds.New(kind.Match)
	var evs event.Ts
	if evs, err = s.QueryEvents(c, f); chk.E(err) {
		return
	}
	if len(evs) > 0 {
		t.Match = evs[0]
	}
	// confirmations referencing the match by e tag
	f = filter.New()
	f.Kinds = kinds.New(kind.Confirmations...)
	f.Tags = tags.New(tag.New(by("#e"), by(hex.Enc(matchID))))
	if evs, err = s.QueryEvents(c, f); chk.E(err) {
		return
	}
	for _, ev := range evs {
		t.place(ev)
	}
	if t.Match == nil {
		// everything found is orphaned; the match may simply not have
		// propagated here yet
		t.Orphans = evs
		t.missing("match")
		return
	}
	// the payment attestation may reference the settlement rather than the
	// match directly
	if t.PaymentConfirmation == nil && t.MarketplaceConfirmation != nil {
		f = filter.New()
		f.Kinds = kinds.New(kind.AttentionPaymentConfirmation)
		f.Tags = tags.New(tag.New(by("#e"), by(t.MarketplaceConfirmation.IDString())))
		if evs, err = s.QueryEvents(c, f); chk.E(err) {
			return
		}
		if len(evs) > 0 {
			t.PaymentConfirmation = evs[0]
		}
	}
	if err = t.resolveCoordinates(c, s); err != nil {
		return
	}
	t.noteMissing()
	return
}

// place slots a confirmation event into the trail; for duplicate slots the
// earliest created_at wins, the rest being later re-attestations.
func (t *Trail) place(ev *event.T) {
	slot := func(cur **event.T) {
		if *cur == nil || ev.CreatedAtI64() < (*cur).CreatedAtI64() {
			*cur = ev
		}
	}
	switch {
	case ev.Kind.Equal(kind.BillboardConfirmation):
		slot(&t.BillboardConfirmation)
	case ev.Kind.Equal(kind.AttentionConfirmation):
		slot(&t.ViewerConfirmation)
	case ev.Kind.Equal(kind.MarketplaceConfirmation):
		slot(&t.MarketplaceConfirmation)
	case ev.Kind.Equal(kind.AttentionPaymentConfirmation):
		slot(&t.PaymentConfirmation)
	}
}

// resolveCoordinates resolves the match's a tag references to the current
// version of each identity.
func (t *Trail) resolveCoordinates(c cx, s store.Querent) (err er) {
	for _, coord := range t.Match.ATagValues() {
		a := &atag.T{}
		if aerr := a.Unmarshal(coord); aerr != nil {
			log.D.F("unparseable coordinate %s in match %s", st(coord),
				t.Match.IDString())
			continue
		}
		var ev *event.T
		if ev, err = latest(c, s, a); chk.E(err) {
			return
		}
		if ev == nil {
			continue
		}
		switch {
		case a.Kind.Equal(kind.Marketplace):
			t.Marketplace = ev
		case a.Kind.Equal(kind.Promotion):
			t.Promotion = ev
		case a.Kind.Equal(kind.Attention):
			t.Attention = ev
		}
	}
	return
}

func latest(c cx, s store.Querent, a *atag.T) (ev *event.T, err er) {
	f := filter.New()
	f.Kinds = kinds.New(a.Kind)
	f.Authors = tag.FromBytesSlice(a.PubKey)
	f.Tags = tags.New(tag.New(by("#d"), a.DTag))
	lim := uint(1)
	f.Limit = &lim
	var evs event.Ts
	if evs, err = s.QueryEvents(c, f); chk.E(err) {
		return
	}
	if len(evs) > 0 {
		ev = evs[0]
	}
	return
}

func (t *Trail) missing(name st) { t.Missing = append(t.Missing, name) }

func (t *Trail) noteMissing() {
	if t.Marketplace == nil {
		t.missing("marketplace")
	}
	if t.Promotion == nil {
		t.missing("promotion")
	}
	if t.Attention == nil {
		t.missing("attention")
	}
	if t.BillboardConfirmation == nil {
		t.missing("billboard-confirmation")
	}
	if t.ViewerConfirmation == nil {
		t.missing("viewer-confirmation")
	}
	if t.MarketplaceConfirmation == nil {
		t.missing("marketplace-confirmation")
	}
}
