// Package publish is the post-commit delivery registry: once an event is
// durably stored, registered publishers fan it out to whoever is listening
// (subscription feeds, matcher triggers, bridges). Delivery is notification,
// not gatekeeping - it runs as an After hook and can never unwind a commit.
package publish

import (
	"sync"

	"github.com/joinnextblock/attn-protocol-sub001/event"
	"github.com/joinnextblock/attn-protocol-sub001/hook"
	"github.com/joinnextblock/attn-protocol-sub001/kind"
)

// I is one delivery target.
type I interface {
	// Type names the publisher in logs.
	Type() st
	// Deliver hands over one committed event.
	Deliver(ev *event.T) (err er)
}

// S is the registry. Registration happens during wiring; delivery is
// read-mostly, so one RWMutex suffices.
type S struct {
	mx         sync.RWMutex
	publishers []I
}

func New() (s *S) { return &S{} }

// Register adds a publisher to the delivery fan-out.
func (s *S) Register(p I) {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.publishers = append(s.publishers, p)
}

// Deliver fans one committed event out to every registered publisher. The
// first failure is returned so the dispatcher can aggregate it as a warning;
// remaining publishers still get the event.
func (s *S) Deliver(ev *event.T) (err er) {
	s.mx.RLock()
	targets := append([]I{}, s.publishers...)
	s.mx.RUnlock()
	for _, p := range targets {
		if perr := p.Deliver(ev); chk.E(perr) {
			log.W.F("publisher %s failed to deliver %s: %s",
				p.Type(), ev.IDString(), perr.Error())
			if err == nil {
				err = perr
			}
		}
	}
	return
}

// AfterHook adapts the registry into an After handler for one kind's hook
// list.
func (s *S) AfterHook() hook.Fn {
	return func(c cx, ev *event.T) (err er) { return s.Deliver(ev) }
}

// RegisterAll wires the registry as an After hook for every protocol kind.
func (s *S) RegisterAll(d *hook.D) (handles []*hook.Handle) {
	for _, k := range kind.Protocol {
		handles = append(handles, d.RegisterAfter(k, "publish", s.AfterHook()))
	}
	return
}
