// Package memstore is the reference in-memory implementation of store.I. It
// exists to make the admission pipeline testable without a database directory
// and to document the expected storage semantics in the simplest possible
// form. Nothing survives a restart.
package memstore

import (
	"sort"
	"sync"

	"github.com/joinnextblock/attn-protocol-sub001/event"
	"github.com/joinnextblock/attn-protocol-sub001/filter"
	"github.com/joinnextblock/attn-protocol-sub001/hex"
	"github.com/joinnextblock/attn-protocol-sub001/store"
)

// T is an in-memory event store. Safe for concurrent use; one lock guards
// everything because the reference implementation favors being obviously
// correct over being fast.
type T struct {
	mx sync.Mutex
	// path is carried only to satisfy store.Pather.
	path st
	// events keyed by hex id.
	events map[st]*event.T
	// latest parameterized replaceable version keyed by coordinate.
	coords map[st]*event.T
	// tombstones of deleted ids; a deleted event may not be stored again.
	tombstones map[st]struct{}
}

var _ store.I = (*T)(nil)

func New() (s *T) {
	return &T{
		events:     make(map[st]*event.T),
		coords:     make(map[st]*event.T),
		tombstones: make(map[st]struct{}),
	}
}

func (s *T) Init(path st) (err er) {
	s.path = path
	return
}

func (s *T) Path() (p st) { return s.path }

func (s *T) Close() (err er) { return }

func (s *T) Sync() (err er) { return }

func (s *T) SaveEvent(c cx, ev *event.T) (err er) {
	if ev.Kind != nil && ev.Kind.IsEphemeral() {
		return
	}
	s.mx.Lock()
	defer s.mx.Unlock()
	id := ev.IDString()
	if _, ok := s.tombstones[id]; ok {
		return errorf.W("tombstone found %s, event will not be saved", id)
	}
	if _, ok := s.events[id]; ok {
		return store.ErrDupEvent
	}
	if ev.Kind != nil && ev.Kind.IsParameterizedReplaceable() {
		coord := ev.Address().String()
		if prior, ok := s.coords[coord]; ok {
			if prior.CreatedAtI64() >= ev.CreatedAtI64() {
				// a newer version of this identity is already current; the
				// stale copy is dropped rather than stored.
				log.D.F("stale replaceable event %s for %s", id, coord)
				return
			}
			delete(s.events, prior.IDString())
		}
		s.coords[coord] = ev
	}
	s.events[id] = ev
	return
}

func (s *T) QueryEvents(c cx, f *filter.T) (evs event.Ts, err er) {
	s.mx.Lock()
	defer s.mx.Unlock()
	for _, ev := range s.events {
		if f.Matches(ev) {
			evs = append(evs, ev)
		}
	}
	sort.Sort(evs)
	limit := no(store.DefaultLimit)
	if f != nil && f.Limit != nil {
		limit = no(*f.Limit)
	}
	if len(evs) > limit {
		evs = evs[:limit]
	}
	return
}

func (s *T) DeleteEvent(c cx, id by) (err er) {
	s.mx.Lock()
	defer s.mx.Unlock()
	hexId := hex.Enc(id)
	ev, ok := s.events[hexId]
	if !ok {
		return store.ErrNotFound
	}
	if ev.Kind.IsParameterizedReplaceable() {
		coord := ev.Address().String()
		if s.coords[coord] == ev {
			delete(s.coords, coord)
		}
	}
	delete(s.events, hexId)
	s.tombstones[hexId] = struct{}{}
	return
}

// Len returns the number of currently stored events.
func (s *T) Len() (l no) {
	s.mx.Lock()
	defer s.mx.Unlock()
	return len(s.events)
}
