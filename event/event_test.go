package event

import (
	"testing"

	"lukechampine.com/frand"

	"github.com/joinnextblock/attn-protocol-sub001/kind"
	"github.com/joinnextblock/attn-protocol-sub001/sha256"
	"github.com/joinnextblock/attn-protocol-sub001/tag"
	"github.com/joinnextblock/attn-protocol-sub001/tags"
	"github.com/joinnextblock/attn-protocol-sub001/timestamp"
)

func testEvent() (ev *T) {
	ev = New()
	ev.ID = frand.Bytes(sha256.Size)
	ev.PubKey = frand.Bytes(sha256.Size)
	ev.CreatedAt = timestamp.FromUnix(1700000000)
	ev.Kind = kind.Promotion
	ev.Tags = tags.New(
		tag.New("d", "p1"),
		tag.New("a", "38001:aabb:main"),
		tag.New("e", "ff00"),
	)
	ev.Content = by(`{"payload_url":"https://x.example/ad"}`)
	ev.Sig = frand.Bytes(64)
	return
}

func TestSerializeRoundTrip(t *testing.T) {
	ev := testEvent()
	b := ev.Serialize()
	got, err := FromJSON(b)
	if err != nil {
		t.Fatal(err)
	}
	if !equals(got.ID, ev.ID) || !equals(got.PubKey, ev.PubKey) ||
		!equals(got.Sig, ev.Sig) || !equals(got.Content, ev.Content) {
		t.Fatal("binary fields do not round trip")
	}
	if got.CreatedAtI64() != ev.CreatedAtI64() || !got.Kind.Equal(ev.Kind) {
		t.Fatal("kind or created_at does not round trip")
	}
	if got.Tags.Len() != 3 || got.Tags.N(0).S(1) != "p1" {
		t.Fatal("tags do not round trip")
	}
}

func TestFromJSONRejectsGarbage(t *testing.T) {
	if _, err := FromJSON(by(`{"id":"zz"}`)); err == nil {
		t.Fatal("non-hex id decoded")
	}
	if _, err := FromJSON(by(`nope`)); err == nil {
		t.Fatal("non-json decoded")
	}
}

func TestDTagAndAddress(t *testing.T) {
	ev := testEvent()
	if st(ev.DTag()) != "p1" {
		t.Fatalf("d tag %q", ev.DTag())
	}
	a := ev.Address()
	if !a.Kind.Equal(kind.Promotion) || st(a.DTag) != "p1" ||
		!equals(a.PubKey, ev.PubKey) {
		t.Fatalf("address %s wrong", a.String())
	}
}

func TestTagValues(t *testing.T) {
	ev := testEvent()
	if vs := ev.ETagValues(); len(vs) != 1 || st(vs[0]) != "ff00" {
		t.Fatalf("e values %v", vs)
	}
	if vs := ev.ATagValues(); len(vs) != 1 || st(vs[0]) != "38001:aabb:main" {
		t.Fatalf("a values %v", vs)
	}
	if v := ev.TagValue("d"); st(v) != "p1" {
		t.Fatalf("d value %q", v)
	}
}
