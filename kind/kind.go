// Package kind implements the ATTN protocol event kind taxonomy. The integer
// values are a fixed external contract; everything else in this codebase
// refers to kinds only through the named variables in this file, so the
// numbering lives in exactly one place.
package kind

import (
	"sync"
)

// T - which will be externally referenced as kind.T is the event type in the
// protocol, the use of the capital T signifying type, consistent with Go
// idiom, the Go standard library, and much, conformant, existing code.
type T struct {
	K uint16
}

func New[V uint16 | uint32 | int32 | int | int64](k V) (ki *T) { return &T{uint16(k)} }

func (k *T) ToInt() no {
	if k == nil {
		return 0
	}
	return no(k.K)
}

func (k *T) ToU16() uint16 {
	if k == nil {
		return 0
	}
	return k.K
}

func (k *T) ToI32() int32 {
	if k == nil {
		return 0
	}
	return int32(k.K)
}

func (k *T) Name() st { return GetString(k) }

func (k *T) Equal(k2 *T) bo {
	if k == nil || k2 == nil {
		return false
	}
	return k.K == k2.K
}

var (
	// Deletion is the generic deletion kind, honored outside the kind hook
	// table and never deletable itself.
	Deletion = &T{5}

	// Match pairs one Promotion with one Attention offer. High frequency, as
	// a marketplace emits one per pairing attempt.
	Match = &T{8000}
	// BillboardConfirmation is the billboard operator attesting a matched
	// promotion was actually displayed.
	BillboardConfirmation = &T{8001}
	// AttentionConfirmation is the viewer attesting the matched promotion
	// was actually seen.
	AttentionConfirmation = &T{8002}
	// MarketplaceConfirmation is the marketplace settling a fully confirmed
	// match, carrying the settled sats amount.
	MarketplaceConfirmation = &T{8003}
	// AttentionPaymentConfirmation is the attention owner independently
	// attesting receipt of the settlement, so final payment does not rest on
	// the marketplace's word alone.
	AttentionPaymentConfirmation = &T{8004}

	// Block is a republished bitcoin block header, giving the marketplace a
	// shared clock.
	Block = &T{38000}
	// Marketplace declares a marketplace and its fee/policy terms.
	Marketplace = &T{38001}
	// Billboard declares a display surface available to a marketplace.
	Billboard = &T{38002}
	// Promotion offers content to be displayed, with a budget.
	Promotion = &T{38003}
	// Attention offers a viewer's attention for a price.
	Attention = &T{38004}
)

// Kind number ranges with replaceable/ephemeral semantics, per the underlying
// relay protocol.
var (
	ReplaceableStart              = &T{10000}
	ReplaceableEnd                = &T{20000}
	EphemeralStart                = &T{20000}
	EphemeralEnd                  = &T{30000}
	ParameterizedReplaceableStart = &T{30000}
	ParameterizedReplaceableEnd   = &T{40000}
)

// Protocol is the set of kinds defined by the ATTN protocol itself.
var Protocol = []*T{
	Block,
	Marketplace,
	Billboard,
	Promotion,
	Attention,
	Match,
	BillboardConfirmation,
	AttentionConfirmation,
	MarketplaceConfirmation,
	AttentionPaymentConfirmation,
}

// Confirmations are the kinds forming the downstream audit trail of a match.
var Confirmations = []*T{
	BillboardConfirmation,
	AttentionConfirmation,
	MarketplaceConfirmation,
	AttentionPaymentConfirmation,
}

// InProtocol returns whether a kind is one the ATTN protocol assigns schema
// to. Anything else gets only generic envelope handling.
func (k *T) InProtocol() (is bo) {
	for i := range Protocol {
		if k.Equal(Protocol[i]) {
			return true
		}
	}
	return
}

// IsEphemeral returns true if the event kind is an ephemeral event (not to be
// stored).
func (k *T) IsEphemeral() bo {
	return k.K >= EphemeralStart.K && k.K < EphemeralEnd.K
}

// IsReplaceable returns true if the event kind is a replaceable kind - that
// is, if the newest version is the one that is in force.
func (k *T) IsReplaceable() bo {
	return k.K >= ReplaceableStart.K && k.K < ReplaceableEnd.K
}

// IsParameterizedReplaceable is a kind of event that is one of a group of
// events that replaces based on the matching (kind, pubkey, d-tag) identity.
func (k *T) IsParameterizedReplaceable() bo {
	return k.K >= ParameterizedReplaceableStart.K &&
		k.K < ParameterizedReplaceableEnd.K
}

var MapMx sync.Mutex
var Map = map[uint16]st{
	Deletion.K:                     "Deletion",
	Block.K:                        "Block",
	Marketplace.K:                  "Marketplace",
	Billboard.K:                    "Billboard",
	Promotion.K:                    "Promotion",
	Attention.K:                    "Attention",
	Match.K:                        "Match",
	BillboardConfirmation.K:        "BillboardConfirmation",
	AttentionConfirmation.K:        "AttentionConfirmation",
	MarketplaceConfirmation.K:      "MarketplaceConfirmation",
	AttentionPaymentConfirmation.K: "AttentionPaymentConfirmation",
}

// GetString returns a human readable identifier for a kind.T.
func GetString(t *T) st {
	if t == nil {
		return ""
	}
	MapMx.Lock()
	defer MapMx.Unlock()
	return Map[t.K]
}
