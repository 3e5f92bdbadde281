package sett

import (
	"errors"
	"testing"

	"lukechampine.com/frand"

	"github.com/joinnextblock/attn-protocol-sub001/context"
	"github.com/joinnextblock/attn-protocol-sub001/event"
	"github.com/joinnextblock/attn-protocol-sub001/filter"
	"github.com/joinnextblock/attn-protocol-sub001/kind"
	"github.com/joinnextblock/attn-protocol-sub001/kinds"
	"github.com/joinnextblock/attn-protocol-sub001/lol"
	"github.com/joinnextblock/attn-protocol-sub001/sha256"
	"github.com/joinnextblock/attn-protocol-sub001/store"
	"github.com/joinnextblock/attn-protocol-sub001/tag"
	"github.com/joinnextblock/attn-protocol-sub001/tags"
	"github.com/joinnextblock/attn-protocol-sub001/timestamp"
)

func openTest(t *testing.T) (r *T, c cx) {
	t.Helper()
	c, cancel := context.Cancel(context.Bg())
	r = New(Params{Ctx: c, LogLevel: lol.Error})
	if err := r.Init(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		cancel()
		chk.E(r.Close())
	})
	return
}

func testEvent(k *kind.T, createdAt int64, tgs *tags.T) (ev *event.T) {
	ev = event.New()
	ev.ID = frand.Bytes(sha256.Size)
	ev.PubKey = frand.Bytes(sha256.Size)
	ev.CreatedAt = timestamp.FromUnix(createdAt)
	ev.Kind = k
	if tgs == nil {
		tgs = tags.New()
	}
	ev.Tags = tgs
	ev.Content = by(`{}`)
	return
}

func dTags(v st) *tags.T { return tags.New(tag.New("d", v)) }

func queryKind(t *testing.T, r *T, c cx, k *kind.T) event.Ts {
	t.Helper()
	f := filter.New()
	f.Kinds = kinds.New(k)
	evs, err := r.QueryEvents(c, f)
	if err != nil {
		t.Fatal(err)
	}
	return evs
}

func TestSaveQueryRoundTrip(t *testing.T) {
	r, c := openTest(t)
	ev := testEvent(kind.Match, 1000, tags.New(tag.New("e", "abcd")))
	ev.Content = by(`{"note":"hello"}`)
	if err := r.SaveEvent(c, ev); err != nil {
		t.Fatal(err)
	}
	evs := queryKind(t, r, c, kind.Match)
	if len(evs) != 1 {
		t.Fatalf("got %d events", len(evs))
	}
	got := evs[0]
	if !equals(got.ID, ev.ID) || !equals(got.PubKey, ev.PubKey) ||
		!equals(got.Content, ev.Content) || got.Tags.Len() != 1 {
		t.Fatal("stored event does not round trip")
	}
}

func TestSaveDuplicate(t *testing.T) {
	r, c := openTest(t)
	ev := testEvent(kind.Match, 1000, nil)
	if err := r.SaveEvent(c, ev); err != nil {
		t.Fatal(err)
	}
	if err := r.SaveEvent(c, ev); !errors.Is(err, store.ErrDupEvent) {
		t.Fatalf("got %v, want ErrDupEvent", err)
	}
}

func TestReplaceableLastWins(t *testing.T) {
	r, c := openTest(t)
	first := testEvent(kind.Marketplace, 1000, dTags("main"))
	second := testEvent(kind.Marketplace, 2000, dTags("main"))
	second.PubKey = first.PubKey
	stale := testEvent(kind.Marketplace, 1500, dTags("main"))
	stale.PubKey = first.PubKey
	for _, ev := range []*event.T{first, second, stale} {
		if err := r.SaveEvent(c, ev); err != nil {
			t.Fatal(err)
		}
	}
	evs := queryKind(t, r, c, kind.Marketplace)
	if len(evs) != 1 || !equals(evs[0].ID, second.ID) {
		t.Fatalf("got %d events, newest version not current", len(evs))
	}
}

func TestDeleteAndTombstone(t *testing.T) {
	r, c := openTest(t)
	ev := testEvent(kind.Billboard, 1000, dTags("north"))
	if err := r.SaveEvent(c, ev); err != nil {
		t.Fatal(err)
	}
	if err := r.DeleteEvent(c, ev.ID); err != nil {
		t.Fatal(err)
	}
	if evs := queryKind(t, r, c, kind.Billboard); len(evs) != 0 {
		t.Fatal("event survived delete")
	}
	if err := r.SaveEvent(c, ev); err == nil {
		t.Fatal("tombstoned event stored again")
	}
	// the coordinate pointer is gone too, so a fresh version stores cleanly
	next := testEvent(kind.Billboard, 2000, dTags("north"))
	next.PubKey = ev.PubKey
	if err := r.SaveEvent(c, next); err != nil {
		t.Fatal(err)
	}
	if err := r.DeleteEvent(c, frand.Bytes(sha256.Size)); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestQueryLimitAndOrder(t *testing.T) {
	r, c := openTest(t)
	for i := int64(1); i <= 8; i++ {
		if err := r.SaveEvent(c, testEvent(kind.Match, i*100, nil)); err != nil {
			t.Fatal(err)
		}
	}
	f := filter.New()
	f.Kinds = kinds.New(kind.Match)
	lim := uint(3)
	f.Limit = &lim
	evs, err := r.QueryEvents(c, f)
	if err != nil {
		t.Fatal(err)
	}
	if len(evs) != 3 {
		t.Fatalf("limit ignored: got %d", len(evs))
	}
	if evs[0].CreatedAtI64() != 800 {
		t.Fatal("results not newest first")
	}
}

func TestEphemeralNotStored(t *testing.T) {
	r, c := openTest(t)
	if err := r.SaveEvent(c, testEvent(kind.New(21000), 1000, nil)); err != nil {
		t.Fatal(err)
	}
	f := filter.New()
	evs, err := r.QueryEvents(c, f)
	if err != nil {
		t.Fatal(err)
	}
	if len(evs) != 0 {
		t.Fatal("ephemeral event was stored")
	}
}
