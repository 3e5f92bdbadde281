package hook

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"lukechampine.com/frand"

	"github.com/joinnextblock/attn-protocol-sub001/context"
	"github.com/joinnextblock/attn-protocol-sub001/event"
	"github.com/joinnextblock/attn-protocol-sub001/filter"
	"github.com/joinnextblock/attn-protocol-sub001/hex"
	"github.com/joinnextblock/attn-protocol-sub001/kind"
	"github.com/joinnextblock/attn-protocol-sub001/memstore"
	"github.com/joinnextblock/attn-protocol-sub001/sha256"
	"github.com/joinnextblock/attn-protocol-sub001/tag"
	"github.com/joinnextblock/attn-protocol-sub001/tags"
	"github.com/joinnextblock/attn-protocol-sub001/timestamp"
)

// spyStore counts SaveEvent calls on top of an in-memory store.
type spyStore struct {
	*memstore.T
	saves atomic.Int64
}

func (s *spyStore) SaveEvent(c cx, ev *event.T) (err er) {
	s.saves.Add(1)
	return s.T.SaveEvent(c, ev)
}

func newSpy() *spyStore { return &spyStore{T: memstore.New()} }

func testEvent(k *kind.T) (ev *event.T) {
	ev = event.New()
	ev.ID = frand.Bytes(sha256.Size)
	ev.PubKey = frand.Bytes(sha256.Size)
	ev.CreatedAt = timestamp.Now()
	ev.Kind = k
	ev.Tags = tags.New()
	return
}

func TestDispatchBeforeVeto(t *testing.T) {
	s := newSpy()
	d := New(Params{Store: s})
	d.RegisterBefore(kind.Match, "policy", func(c cx, ev *event.T) er {
		return errors.New("not in this marketplace")
	})
	warnings, err := d.Dispatch(context.Bg(), testEvent(kind.Match))
	if err == nil {
		t.Fatal("vetoed event dispatched without error")
	}
	var aborted *Aborted
	if !errors.As(err, &aborted) {
		t.Fatalf("got %T, want *Aborted", err)
	}
	if aborted.Handler != "policy" || aborted.Timeout {
		t.Fatalf("unexpected abort detail: %+v", aborted)
	}
	if len(warnings) != 0 {
		t.Fatalf("veto produced %d warnings", len(warnings))
	}
	if s.saves.Load() != 0 {
		t.Fatal("storage called for a vetoed event")
	}
}

func TestDispatchBeforeOrder(t *testing.T) {
	s := newSpy()
	d := New(Params{Store: s})
	var order []st
	d.RegisterBefore(kind.Match, "first", func(c cx, ev *event.T) er {
		order = append(order, "first")
		return nil
	})
	d.RegisterBefore(kind.Match, "second", func(c cx, ev *event.T) er {
		order = append(order, "second")
		return errors.New("stop")
	})
	d.RegisterBefore(kind.Match, "third", func(c cx, ev *event.T) er {
		order = append(order, "third")
		return nil
	})
	_, err := d.Dispatch(context.Bg(), testEvent(kind.Match))
	if err == nil {
		t.Fatal("expected veto")
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("handlers ran in order %v", order)
	}
}

func TestDispatchAfterErrorsDoNotRollBack(t *testing.T) {
	s := newSpy()
	d := New(Params{Store: s})
	d.RegisterAfter(kind.Match, "notify", func(c cx, ev *event.T) er {
		return errors.New("downstream offline")
	})
	ev := testEvent(kind.Match)
	warnings, err := d.Dispatch(context.Bg(), ev)
	if err != nil {
		t.Fatalf("after error became a dispatch error: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
	var w *Warning
	if !errors.As(warnings[0], &w) || w.Handler != "notify" {
		t.Fatalf("unexpected warning: %v", warnings[0])
	}
	if s.saves.Load() != 1 {
		t.Fatal("event not committed despite after-only failure")
	}
}

func TestDispatchTimeout(t *testing.T) {
	s := newSpy()
	d := New(Params{Store: s, Timeout: 30 * time.Millisecond})
	d.RegisterBefore(kind.Match, "slow", func(c cx, ev *event.T) er {
		<-c.Done()
		return c.Err()
	})
	_, err := d.Dispatch(context.Bg(), testEvent(kind.Match))
	var aborted *Aborted
	if !errors.As(err, &aborted) {
		t.Fatalf("got %T, want *Aborted", err)
	}
	if !aborted.Timeout {
		t.Fatalf("timeout not flagged: %+v", aborted)
	}
	if s.saves.Load() != 0 {
		t.Fatal("storage called after deadline")
	}
}

func TestUnregister(t *testing.T) {
	s := newSpy()
	d := New(Params{Store: s})
	h := d.RegisterBefore(kind.Match, "policy", func(c cx, ev *event.T) er {
		return errors.New("no")
	})
	h.Unregister()
	if _, err := d.Dispatch(context.Bg(), testEvent(kind.Match)); err != nil {
		t.Fatalf("unregistered handler still vetoing: %v", err)
	}
	if s.saves.Load() != 1 {
		t.Fatal("event not stored")
	}
}

func TestDispatchStorageFailure(t *testing.T) {
	s := newSpy()
	d := New(Params{Store: s})
	ev := testEvent(kind.Match)
	if _, err := d.Dispatch(context.Bg(), ev); err != nil {
		t.Fatal(err)
	}
	// a second dispatch of the same event hits the duplicate check
	_, err := d.Dispatch(context.Bg(), ev)
	var sf *StorageFailure
	if !errors.As(err, &sf) {
		t.Fatalf("got %T, want *StorageFailure", err)
	}
}

func TestDeletePath(t *testing.T) {
	s := newSpy()
	d := New(Params{Store: s})
	target := testEvent(kind.Match)
	if _, err := d.Dispatch(context.Bg(), target); err != nil {
		t.Fatal(err)
	}
	other := testEvent(kind.Match)
	if _, err := d.Dispatch(context.Bg(), other); err != nil {
		t.Fatal(err)
	}
	del := testEvent(kind.Deletion)
	del.PubKey = target.PubKey
	del.Tags = tags.New(
		tag.New(by("e"), by(hex.Enc(target.ID))),
		tag.New(by("e"), by(hex.Enc(other.ID))),
	)
	if _, err := d.Dispatch(context.Bg(), del); err != nil {
		t.Fatal(err)
	}
	// target shares the deletion's author and is gone; other does not and
	// stays; the deletion event itself is retained
	if s.T.Len() != 2 {
		t.Fatalf("store holds %d events, want 2", s.T.Len())
	}
	evs, err := s.QueryEvents(context.Bg(), idFilter(target.ID))
	if err != nil || len(evs) != 0 {
		t.Fatalf("deleted event still queryable: %d", len(evs))
	}
	evs, err = s.QueryEvents(context.Bg(), idFilter(other.ID))
	if err != nil || len(evs) != 1 {
		t.Fatalf("other author's event removed: %d", len(evs))
	}
}

func TestDeleteRefusesDeletionKind(t *testing.T) {
	s := newSpy()
	d := New(Params{Store: s})
	first := testEvent(kind.Deletion)
	first.Tags = tags.New()
	if _, err := d.Dispatch(context.Bg(), first); err != nil {
		t.Fatal(err)
	}
	second := testEvent(kind.Deletion)
	second.PubKey = first.PubKey
	second.Tags = tags.New(tag.New(by("e"), by(hex.Enc(first.ID))))
	if _, err := d.Dispatch(context.Bg(), second); err == nil {
		t.Fatal("deleting a deletion event was allowed")
	}
}

func idFilter(id by) *filter.T {
	f := filter.New()
	f.Ids = tag.FromBytesSlice(id)
	return f
}
