// Package hook routes an admitted event, by kind, through ordered Before and
// After handler lists around a single storage call. Before handlers can veto
// admission; After handlers cannot undo it - storage commit is the only
// externally observable side effect worth protecting transactionally, and
// everything after that point is notification or derivation.
package hook

import (
	"errors"
	"sync"
	"time"

	"github.com/joinnextblock/attn-protocol-sub001/context"
	"github.com/joinnextblock/attn-protocol-sub001/event"
	"github.com/joinnextblock/attn-protocol-sub001/kind"
	"github.com/joinnextblock/attn-protocol-sub001/store"
)

// DefaultTimeout is the per-event-total ceiling over the Before chain plus
// the storage call. The deadline covers the whole admission of one event,
// not each handler separately.
const DefaultTimeout = 5 * time.Second

// Fn is a handler. A Before handler returning an error vetoes the event; an
// After handler returning an error is logged and aggregated only.
type Fn func(c cx, ev *event.T) (err er)

type registration struct {
	id   uint64
	name st
	fn   Fn
}

type entry struct {
	before []registration
	after  []registration
}

// D is the dispatcher. The registry is read-mostly: registrations happen
// during wiring, not per-event, so a single RWMutex suffices.
type D struct {
	mx      sync.RWMutex
	serial  uint64
	entries map[uint16]*entry
	store   store.I
	// timeout bounds Before chain + save of one event.
	timeout time.Duration
	// afterTimeout bounds the After chain; its expiry is logged, not
	// surfaced.
	afterTimeout time.Duration
}

// Params configures a dispatcher; zero durations get DefaultTimeout.
type Params struct {
	Store        store.I
	Timeout      time.Duration
	AfterTimeout time.Duration
}

func New(p Params) (d *D) {
	if p.Timeout == 0 {
		p.Timeout = DefaultTimeout
	}
	if p.AfterTimeout == 0 {
		p.AfterTimeout = DefaultTimeout
	}
	return &D{
		entries:      make(map[uint16]*entry),
		store:        p.Store,
		timeout:      p.Timeout,
		afterTimeout: p.AfterTimeout,
	}
}

// Handle identifies one registration so it can be removed again.
type Handle struct {
	d     *D
	kind  uint16
	after bo
	id    uint64
}

// Unregister removes exactly the registration this handle was returned for.
func (h *Handle) Unregister() {
	if h == nil || h.d == nil {
		return
	}
	h.d.mx.Lock()
	defer h.d.mx.Unlock()
	e, ok := h.d.entries[h.kind]
	if !ok {
		return
	}
	list := &e.before
	if h.after {
		list = &e.after
	}
	for i := range *list {
		if (*list)[i].id == h.id {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return
		}
	}
}

func (d *D) register(k *kind.T, name st, fn Fn, after bo) (h *Handle) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.serial++
	e, ok := d.entries[k.ToU16()]
	if !ok {
		e = &entry{}
		d.entries[k.ToU16()] = e
	}
	r := registration{id: d.serial, name: name, fn: fn}
	if after {
		e.after = append(e.after, r)
	} else {
		e.before = append(e.before, r)
	}
	return &Handle{d: d, kind: k.ToU16(), after: after, id: d.serial}
}

// RegisterBefore appends a veto-capable handler to the ordered Before list of
// a kind. The name appears in rejection reasons.
func (d *D) RegisterBefore(k *kind.T, name st, fn Fn) (h *Handle) {
	return d.register(k, name, fn, false)
}

// RegisterAfter appends a notification handler to the ordered After list of a
// kind.
func (d *D) RegisterAfter(k *kind.T, name st, fn Fn) (h *Handle) {
	return d.register(k, name, fn, true)
}

// handlers snapshots the registration lists of a kind under the read lock. An
// absent kind means empty lists, not an error.
func (d *D) handlers(k *kind.T) (before, after []registration) {
	d.mx.RLock()
	defer d.mx.RUnlock()
	e, ok := d.entries[k.ToU16()]
	if !ok {
		return
	}
	before = append(before, e.before...)
	after = append(after, e.after...)
	return
}

// Dispatch runs one admitted event through its kind's Before handlers, the
// storage call, and its After handlers. A nil err means the event committed;
// warnings carry any After handler failures, which never roll it back.
func (d *D) Dispatch(c cx, ev *event.T) (warnings []er, err er) {
	if ev.Kind.Equal(kind.Deletion) {
		// deletion is honored outside the kind hook table
		return nil, d.deletePath(c, ev)
	}
	before, after := d.handlers(ev.Kind)
	tc, cancel := context.Timeout(c, d.timeout)
	defer cancel()
	for _, b := range before {
		if herr := b.fn(tc, ev); herr != nil {
			return nil, &Aborted{
				Handler: b.name,
				Timeout: errors.Is(herr, context.DeadlineExceeded) || tc.Err() != nil,
				Err:     herr,
			}
		}
	}
	if serr := d.store.SaveEvent(tc, ev); serr != nil {
		return nil, &StorageFailure{Err: serr}
	}
	// the event is committed; After handlers run to completion on a fresh
	// deadline even if the client has gone away.
	ac, acancel := context.Timeout(context.Bg(), d.afterTimeout)
	defer acancel()
	for _, a := range after {
		if herr := a.fn(ac, ev); herr != nil {
			w := &Warning{Handler: a.name, Err: herr}
			log.W.F("%s", w.Error())
			warnings = append(warnings, w)
		}
	}
	return
}
