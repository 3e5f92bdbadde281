package relay

import (
	"github.com/joinnextblock/attn-protocol-sub001/event"
	"github.com/joinnextblock/attn-protocol-sub001/filter"
	"github.com/joinnextblock/attn-protocol-sub001/kind"
	"github.com/joinnextblock/attn-protocol-sub001/kinds"
	"github.com/joinnextblock/attn-protocol-sub001/store"
	"github.com/joinnextblock/attn-protocol-sub001/tag"
	"github.com/joinnextblock/attn-protocol-sub001/tags"
)

// FindMatches feeds the current promotions and attention offers of one
// marketplace coordinate through a pluggable matcher. The pairing heuristic
// is the matcher's business; this is only the plumbing that keeps the
// pipeline storage-agnostic.
func (p *P) FindMatches(c cx, m store.Matcher, marketplace by) (pairs []store.Pair, err er) {
	var promotions, attentions event.Ts
	if promotions, err = p.byMarketplace(c, kind.Promotion, marketplace); chk.E(err) {
		return
	}
	if attentions, err = p.byMarketplace(c, kind.Attention, marketplace); chk.E(err) {
		return
	}
	return m.FindMatches(c, promotions, attentions)
}

func (p *P) byMarketplace(c cx, k *kind.T, marketplace by) (evs event.Ts, err er) {
	f := filter.New()
	f.Kinds = kinds.New(k)
	f.Tags = tags.New(tag.New(by("#a"), marketplace))
	return p.store.QueryEvents(c, f)
}
