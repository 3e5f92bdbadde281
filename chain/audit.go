package chain

import (
	"github.com/joinnextblock/attn-protocol-sub001/event"
	"github.com/joinnextblock/attn-protocol-sub001/filter"
	"github.com/joinnextblock/attn-protocol-sub001/kind"
	"github.com/joinnextblock/attn-protocol-sub001/kinds"
	"github.com/joinnextblock/attn-protocol-sub001/store"
)

// Audit reconstructs the trail of every match in storage, and separately
// returns the confirmation events that reference no stored match at all.
func Audit(c cx, s store.Querent) (trails []*Trail, orphans event.Ts, err er) {
	f := filter.New()
	f.Kinds = kinds.New(kind.Match)
	var matches event.Ts
	if matches, err = s.QueryEvents(c, f); chk.E(err) {
		return
	}
	known := make(map[st]bo, len(matches))
	for _, m := range matches {
		known[m.IDString()] = true
		var t *Trail
		if t, err = Reconstruct(c, s, m.ID); chk.E(err) {
			return
		}
		trails = append(trails, t)
	}
	f = filter.New()
	f.Kinds = kinds.New(kind.Confirmations...)
	var confs event.Ts
	if confs, err = s.QueryEvents(c, f); chk.E(err) {
		return
	}
	// a payment attestation referencing only the settlement is not an
	// orphan when that settlement itself resolves, so settlements register
	// as referenceable before the orphan pass
	for _, ev := range confs {
		if ev.Kind.Equal(kind.MarketplaceConfirmation) && referencesKnown(ev, known) {
			known[ev.IDString()] = true
		}
	}
	for _, ev := range confs {
		if !referencesKnown(ev, known) {
			orphans = append(orphans, ev)
		}
	}
	return
}

// referencesKnown reports whether any e reference of a confirmation resolves
// to a stored match, directly or through a stored settlement.
func referencesKnown(ev *event.T, known map[st]bo) bo {
	for _, id := range ev.ETagValues() {
		if known[st(id)] {
			return true
		}
	}
	return false
}
