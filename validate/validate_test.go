package validate

import (
	"strings"
	"testing"

	"lukechampine.com/frand"

	"github.com/joinnextblock/attn-protocol-sub001/event"
	"github.com/joinnextblock/attn-protocol-sub001/kind"
	"github.com/joinnextblock/attn-protocol-sub001/sha256"
	"github.com/joinnextblock/attn-protocol-sub001/tag"
	"github.com/joinnextblock/attn-protocol-sub001/tag/atag"
	"github.com/joinnextblock/attn-protocol-sub001/tags"
	"github.com/joinnextblock/attn-protocol-sub001/timestamp"
)

func testEvent(k *kind.T, content st, tgs *tags.T) (ev *event.T) {
	ev = event.New()
	ev.ID = frand.Bytes(sha256.Size)
	ev.PubKey = frand.Bytes(sha256.Size)
	ev.CreatedAt = timestamp.Now()
	ev.Kind = k
	if tgs == nil {
		tgs = tags.New()
	}
	ev.Tags = tgs
	ev.Content = by(content)
	return
}

func coordTag(k *kind.T, dtag st) (t *tag.T) {
	a := atag.T{Kind: k, PubKey: frand.Bytes(sha256.Size), DTag: by(dtag)}
	return tag.New(by("a"), a.Marshal(nil))
}

func eTag() (t *tag.T) {
	id := make(by, 2*sha256.Size)
	hexAlphabet := "0123456789abcdef"
	for i := range id {
		id[i] = hexAlphabet[frand.Intn(16)]
	}
	return tag.New(by("e"), id)
}

func dTag(v st) (t *tag.T) { return tag.New("d", v) }

func TestValidateProtocolKinds(t *testing.T) {
	tests := []struct {
		name string
		ev   *event.T
		ok   bo
		want st
	}{
		{
			name: "block valid",
			ev: testEvent(kind.Block,
				`{"height":850000,"hash":"`+strings.Repeat("ab", 32)+`"}`,
				tags.New(dTag("850000"))),
			ok: true,
		},
		{
			name: "block negative height",
			ev: testEvent(kind.Block,
				`{"height":-1,"hash":"`+strings.Repeat("ab", 32)+`"}`,
				tags.New(dTag("x"))),
			ok: false, want: "height",
		},
		{
			name: "block short hash",
			ev: testEvent(kind.Block, `{"height":1,"hash":"abcd"}`,
				tags.New(dTag("x"))),
			ok: false, want: "hash",
		},
		{
			name: "marketplace valid",
			ev: testEvent(kind.Marketplace,
				`{"name":"main","fee_rate_ppm":1000}`,
				tags.New(dTag("main"))),
			ok: true,
		},
		{
			name: "marketplace missing name",
			ev: testEvent(kind.Marketplace, `{"fee_rate_ppm":1000}`,
				tags.New(dTag("main"))),
			ok: false, want: "name",
		},
		{
			name: "marketplace missing d tag",
			ev:   testEvent(kind.Marketplace, `{"name":"main"}`, nil),
			ok:   false, want: "d tag",
		},
		{
			name: "billboard valid",
			ev: testEvent(kind.Billboard, `{"name":"north wall"}`,
				tags.New(dTag("nw"), coordTag(kind.Marketplace, "main"))),
			ok: true,
		},
		{
			name: "billboard missing marketplace ref",
			ev: testEvent(kind.Billboard, `{"name":"north wall"}`,
				tags.New(dTag("nw"))),
			ok: false, want: "marketplace",
		},
		{
			name: "promotion valid",
			ev: testEvent(kind.Promotion,
				`{"payload_url":"https://x.example/ad","budget_sats":5000,"duration_seconds":30}`,
				tags.New(dTag("p1"), coordTag(kind.Marketplace, "main"))),
			ok: true,
		},
		{
			name: "promotion missing budget",
			ev: testEvent(kind.Promotion,
				`{"payload_url":"https://x.example/ad"}`,
				tags.New(dTag("p1"), coordTag(kind.Marketplace, "main"))),
			ok: false, want: "budget_sats",
		},
		{
			name: "promotion negative budget",
			ev: testEvent(kind.Promotion,
				`{"payload_url":"https://x.example/ad","budget_sats":-5}`,
				tags.New(dTag("p1"), coordTag(kind.Marketplace, "main"))),
			ok: false, want: "budget_sats",
		},
		{
			name: "attention valid",
			ev: testEvent(kind.Attention, `{"price_sats":10}`,
				tags.New(dTag("a1"), coordTag(kind.Marketplace, "main"))),
			ok: true,
		},
		{
			name: "attention missing price",
			ev: testEvent(kind.Attention, `{}`,
				tags.New(dTag("a1"), coordTag(kind.Marketplace, "main"))),
			ok: false, want: "price_sats",
		},
		{
			name: "match valid",
			ev: testEvent(kind.Match, "",
				tags.New(coordTag(kind.Promotion, "p1"),
					coordTag(kind.Attention, "a1"))),
			ok: true,
		},
		{
			name: "match missing attention ref",
			ev: testEvent(kind.Match, "",
				tags.New(coordTag(kind.Promotion, "p1"))),
			ok: false, want: "attention",
		},
		{
			name: "billboard confirmation valid",
			ev: testEvent(kind.BillboardConfirmation,
				`{"displayed_at":1700000000}`, tags.New(eTag())),
			ok: true,
		},
		{
			name: "billboard confirmation missing e ref",
			ev: testEvent(kind.BillboardConfirmation,
				`{"displayed_at":1700000000}`, nil),
			ok: false, want: "e tag",
		},
		{
			name: "attention confirmation valid",
			ev: testEvent(kind.AttentionConfirmation,
				`{"viewed_at":1700000000}`, tags.New(eTag())),
			ok: true,
		},
		{
			name: "marketplace confirmation valid",
			ev: testEvent(kind.MarketplaceConfirmation,
				`{"sats_settled":500}`, tags.New(eTag())),
			ok: true,
		},
		{
			name: "marketplace confirmation missing settlement",
			ev: testEvent(kind.MarketplaceConfirmation, `{}`,
				tags.New(eTag())),
			ok: false, want: "sats_settled",
		},
		{
			name: "payment confirmation valid",
			ev: testEvent(kind.AttentionPaymentConfirmation,
				`{"sats_received":450}`, tags.New(eTag())),
			ok: true,
		},
		{
			name: "payment confirmation missing amount",
			ev: testEvent(kind.AttentionPaymentConfirmation, `{}`,
				tags.New(eTag())),
			ok: false, want: "sats_received",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, msg := Validate(tt.ev)
			if ok != tt.ok {
				t.Fatalf("got ok=%v msg=%q, want ok=%v", ok, msg, tt.ok)
			}
			if !tt.ok && !strings.Contains(msg, tt.want) {
				t.Fatalf("rejection %q does not mention %q", msg, tt.want)
			}
		})
	}
}

func TestMissingRefWording(t *testing.T) {
	ev := testEvent(kind.Billboard, `{"name":"north wall"}`,
		tags.New(dTag("nw")))
	if _, msg := Validate(ev); !strings.Contains(msg, "a marketplace event") {
		t.Fatalf("billboard rejection %q lacks lowercase kind", msg)
	}
	ev = testEvent(kind.Match, "",
		tags.New(coordTag(kind.Promotion, "p1")))
	if _, msg := Validate(ev); !strings.Contains(msg, "an attention event") {
		t.Fatalf("match rejection %q lacks lowercase kind", msg)
	}
}

func TestValidateEnvelope(t *testing.T) {
	ev := testEvent(kind.Marketplace, `{"name":"m"}`, tags.New(dTag("m")))
	ev.ID = ev.ID[:16]
	if ok, msg := Validate(ev); ok || !strings.Contains(msg, "id") {
		t.Fatalf("short id passed validation: %q", msg)
	}
	ev = testEvent(kind.Marketplace, `{"name":"m"}`, tags.New(dTag("m")))
	ev.CreatedAt = nil
	if ok, msg := Validate(ev); ok || !strings.Contains(msg, "created_at") {
		t.Fatalf("missing created_at passed validation: %q", msg)
	}
	if ok, _ := Validate(nil); ok {
		t.Fatal("nil event passed validation")
	}
}

func TestValidateUnknownKindPassesEnvelopeOnly(t *testing.T) {
	ev := testEvent(kind.New(1), "anything goes here", nil)
	if ok, msg := Validate(ev); !ok {
		t.Fatalf("out of protocol kind rejected: %q", msg)
	}
}

func TestValidateMalformedContent(t *testing.T) {
	ev := testEvent(kind.Marketplace, `{"name":`, tags.New(dTag("m")))
	if ok, _ := Validate(ev); ok {
		t.Fatal("malformed content passed validation")
	}
}
