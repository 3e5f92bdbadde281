package publish

import (
	"errors"
	"testing"

	"lukechampine.com/frand"

	"github.com/joinnextblock/attn-protocol-sub001/context"
	"github.com/joinnextblock/attn-protocol-sub001/event"
	"github.com/joinnextblock/attn-protocol-sub001/hook"
	"github.com/joinnextblock/attn-protocol-sub001/kind"
	"github.com/joinnextblock/attn-protocol-sub001/memstore"
	"github.com/joinnextblock/attn-protocol-sub001/sha256"
	"github.com/joinnextblock/attn-protocol-sub001/tags"
	"github.com/joinnextblock/attn-protocol-sub001/timestamp"
)

type recorder struct {
	name      st
	delivered event.Ts
	fail      bo
}

func (r *recorder) Type() st { return r.name }

func (r *recorder) Deliver(ev *event.T) (err er) {
	if r.fail {
		return errors.New("subscriber gone")
	}
	r.delivered = append(r.delivered, ev)
	return
}

func testEvent(k *kind.T) (ev *event.T) {
	ev = event.New()
	ev.ID = frand.Bytes(sha256.Size)
	ev.PubKey = frand.Bytes(sha256.Size)
	ev.CreatedAt = timestamp.Now()
	ev.Kind = k
	ev.Tags = tags.New()
	return
}

func TestDeliverFanOut(t *testing.T) {
	s := New()
	a := &recorder{name: "a"}
	b := &recorder{name: "b"}
	s.Register(a)
	s.Register(b)
	ev := testEvent(kind.Match)
	if err := s.Deliver(ev); err != nil {
		t.Fatal(err)
	}
	if len(a.delivered) != 1 || len(b.delivered) != 1 {
		t.Fatalf("delivery counts %d/%d, want 1/1", len(a.delivered),
			len(b.delivered))
	}
}

func TestDeliverFailureDoesNotStopFanOut(t *testing.T) {
	s := New()
	bad := &recorder{name: "bad", fail: true}
	good := &recorder{name: "good"}
	s.Register(bad)
	s.Register(good)
	if err := s.Deliver(testEvent(kind.Match)); err == nil {
		t.Fatal("failed delivery not surfaced")
	}
	if len(good.delivered) != 1 {
		t.Fatal("failure in one publisher starved the next")
	}
}

func TestRegisterAllDeliversOnCommit(t *testing.T) {
	store := memstore.New()
	d := hook.New(hook.Params{Store: store})
	s := New()
	handles := s.RegisterAll(d)
	if len(handles) != len(kind.Protocol) {
		t.Fatalf("registered %d hooks, want %d", len(handles),
			len(kind.Protocol))
	}
	r := &recorder{name: "feed"}
	s.Register(r)
	ev := testEvent(kind.Match)
	if _, err := d.Dispatch(context.Bg(), ev); err != nil {
		t.Fatal(err)
	}
	if len(r.delivered) != 1 || !equals(r.delivered[0].ID, ev.ID) {
		t.Fatal("committed event not delivered")
	}
	// a vetoed event is never delivered
	d.RegisterBefore(kind.Match, "policy", func(c cx, ev *event.T) er {
		return errors.New("no")
	})
	if _, err := d.Dispatch(context.Bg(), testEvent(kind.Match)); err == nil {
		t.Fatal("expected veto")
	}
	if len(r.delivered) != 1 {
		t.Fatal("vetoed event delivered")
	}
}
