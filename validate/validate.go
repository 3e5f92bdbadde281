// Package validate implements the per-kind schema checks applied to an event
// after rate limiting and before the hook dispatch. Validation is pure: it
// never touches storage and never mutates the event, so each kind's rules can
// be tested exhaustively with a table.
package validate

import (
	"strings"

	"github.com/joinnextblock/attn-protocol-sub001/event"
	"github.com/joinnextblock/attn-protocol-sub001/kind"
	"github.com/joinnextblock/attn-protocol-sub001/sha256"
	"github.com/joinnextblock/attn-protocol-sub001/tag/atag"
)

// Checker verifies the schema of one kind. An empty message means the event
// passed.
type Checker func(ev *event.T) (msg st)

// checkers is the static kind-indexed table, built once at init. Kinds
// outside it (including Deletion and anything outside the protocol's own
// numbering) get only the generic envelope check.
var checkers map[uint16]Checker

func init() {
	checkers = map[uint16]Checker{
		kind.Block.K:                        checkBlock,
		kind.Marketplace.K:                  checkMarketplace,
		kind.Billboard.K:                    checkBillboard,
		kind.Promotion.K:                    checkPromotion,
		kind.Attention.K:                    checkAttention,
		kind.Match.K:                        checkMatch,
		kind.BillboardConfirmation.K:        checkBillboardConfirmation,
		kind.AttentionConfirmation.K:        checkAttentionConfirmation,
		kind.MarketplaceConfirmation.K:      checkMarketplaceConfirmation,
		kind.AttentionPaymentConfirmation.K: checkAttentionPaymentConfirmation,
	}
}

// Validate dispatches an event by kind to its schema checker. The reason is
// empty when the event is valid.
func Validate(ev *event.T) (ok bo, msg st) {
	if msg = checkEnvelope(ev); msg != "" {
		return
	}
	c, found := checkers[ev.Kind.ToU16()]
	if !found {
		// deletion and out-of-protocol kinds pass through on the envelope
		// check alone
		return true, ""
	}
	if msg = c(ev); msg != "" {
		return
	}
	return true, ""
}

// checkEnvelope verifies the generic event envelope every kind must satisfy.
func checkEnvelope(ev *event.T) (msg st) {
	if ev == nil {
		return "nil event"
	}
	if len(ev.ID) != sha256.Size {
		return "event id must be 32 bytes"
	}
	if len(ev.PubKey) != sha256.Size {
		return "event pubkey must be 32 bytes"
	}
	if ev.Kind == nil {
		return "event kind missing"
	}
	if ev.CreatedAt == nil || ev.CreatedAt.I64() <= 0 {
		return "event created_at missing"
	}
	if ev.Kind.IsParameterizedReplaceable() && ev.Kind.InProtocol() && ev.DTag() == nil {
		return "parameterized replaceable event requires a d tag"
	}
	return
}

// requireARefs verifies the event carries a well-formed coordinate `a` ref of
// each required kind.
func requireARefs(ev *event.T, required ...*kind.T) (msg st) {
	found := make(map[uint16]bo)
	for _, v := range ev.ATagValues() {
		a := &atag.T{}
		if err := a.Unmarshal(v); err != nil {
			return "malformed a tag coordinate '" + st(v) + "'"
		}
		if len(a.PubKey) != sha256.Size {
			return "a tag coordinate pubkey must be 32 bytes"
		}
		found[a.Kind.ToU16()] = true
	}
	for _, k := range required {
		if !found[k.K] {
			name := strings.ToLower(k.Name())
			article := "a "
			if strings.ContainsAny(name[:1], "aeiou") {
				article = "an "
			}
			return "missing a tag reference to " + article + name + " event"
		}
	}
	return
}

// requireERef verifies at least n well-formed 32 byte `e` refs are present.
func requireERef(ev *event.T, n no) (msg st) {
	ids := ev.ETagValues()
	if len(ids) < n {
		return "missing required e tag event reference"
	}
	for _, id := range ids {
		if len(id) != 2*sha256.Size {
			return "e tag value must be 64 hex characters"
		}
	}
	return
}

func checkBlock(ev *event.T) (msg st) {
	var c struct {
		Height *int64 `json:"height"`
		Hash   *st    `json:"hash"`
	}
	if msg = decodeContent(ev, &c); msg != "" {
		return
	}
	if msg = requireNonNegative("height", c.Height); msg != "" {
		return
	}
	if c.Hash == nil || len(*c.Hash) != 2*sha256.Size {
		return "block content requires a 64 hex character hash field"
	}
	return
}

func checkMarketplace(ev *event.T) (msg st) {
	var c struct {
		Name      *st    `json:"name"`
		FeeRatePM *int64 `json:"fee_rate_ppm"`
	}
	if msg = decodeContent(ev, &c); msg != "" {
		return
	}
	if c.Name == nil || *c.Name == "" {
		return "marketplace content requires a name field"
	}
	return requireNonNegative("fee_rate_ppm", c.FeeRatePM)
}

func checkBillboard(ev *event.T) (msg st) {
	var c struct {
		Name *st `json:"name"`
	}
	if msg = decodeContent(ev, &c); msg != "" {
		return
	}
	if c.Name == nil || *c.Name == "" {
		return "billboard content requires a name field"
	}
	return requireARefs(ev, kind.Marketplace)
}

func checkPromotion(ev *event.T) (msg st) {
	var c struct {
		PayloadURL      *st    `json:"payload_url"`
		BudgetSats      *int64 `json:"budget_sats"`
		DurationSeconds *int64 `json:"duration_seconds"`
	}
	if msg = decodeContent(ev, &c); msg != "" {
		return
	}
	if c.PayloadURL == nil || *c.PayloadURL == "" {
		return "promotion content requires a payload_url field"
	}
	if msg = requireNonNegative("budget_sats", c.BudgetSats); msg != "" {
		return
	}
	if c.BudgetSats == nil {
		return "promotion content requires a budget_sats field"
	}
	if msg = requireNonNegative("duration_seconds", c.DurationSeconds); msg != "" {
		return
	}
	return requireARefs(ev, kind.Marketplace)
}

func checkAttention(ev *event.T) (msg st) {
	var c struct {
		PriceSats       *int64 `json:"price_sats"`
		DurationSeconds *int64 `json:"duration_seconds"`
	}
	if msg = decodeContent(ev, &c); msg != "" {
		return
	}
	if c.PriceSats == nil {
		return "attention content requires a price_sats field"
	}
	if msg = requireNonNegative("price_sats", c.PriceSats); msg != "" {
		return
	}
	if msg = requireNonNegative("duration_seconds", c.DurationSeconds); msg != "" {
		return
	}
	return requireARefs(ev, kind.Marketplace)
}

func checkMatch(ev *event.T) (msg st) {
	return requireARefs(ev, kind.Promotion, kind.Attention)
}

func checkBillboardConfirmation(ev *event.T) (msg st) {
	if msg = requireERef(ev, 1); msg != "" {
		return
	}
	var c struct {
		DisplayedAt *int64 `json:"displayed_at"`
	}
	if msg = decodeContent(ev, &c); msg != "" {
		return
	}
	return requireNonNegative("displayed_at", c.DisplayedAt)
}

func checkAttentionConfirmation(ev *event.T) (msg st) {
	if msg = requireERef(ev, 1); msg != "" {
		return
	}
	var c struct {
		ViewedAt *int64 `json:"viewed_at"`
	}
	if msg = decodeContent(ev, &c); msg != "" {
		return
	}
	return requireNonNegative("viewed_at", c.ViewedAt)
}

func checkMarketplaceConfirmation(ev *event.T) (msg st) {
	if msg = requireERef(ev, 1); msg != "" {
		return
	}
	var c struct {
		SatsSettled *int64 `json:"sats_settled"`
	}
	if msg = decodeContent(ev, &c); msg != "" {
		return
	}
	if c.SatsSettled == nil {
		return "marketplace confirmation content requires a sats_settled field"
	}
	return requireNonNegative("sats_settled", c.SatsSettled)
}

func checkAttentionPaymentConfirmation(ev *event.T) (msg st) {
	if msg = requireERef(ev, 1); msg != "" {
		return
	}
	var c struct {
		SatsReceived *int64 `json:"sats_received"`
	}
	if msg = decodeContent(ev, &c); msg != "" {
		return
	}
	if c.SatsReceived == nil {
		return "payment confirmation content requires a sats_received field"
	}
	return requireNonNegative("sats_received", c.SatsReceived)
}
