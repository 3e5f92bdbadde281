// Package store defines the capability interfaces of a persistence layer for
// events handled by the relay, and the errors its implementations share. The
// admission pipeline is written against these interfaces only, so the engine
// behind them is a deployment decision.
package store

import (
	"errors"
	"io"

	"github.com/joinnextblock/attn-protocol-sub001/event"
	"github.com/joinnextblock/attn-protocol-sub001/filter"
)

// DefaultLimit caps a query that arrives without a limit, so a malformed or
// excessively broad filter cannot pull the whole database.
const DefaultLimit = 500

var (
	// ErrDupEvent signals an event already present; not an admission failure.
	ErrDupEvent = errors.New("duplicate: already have this event")
	// ErrNotFound signals a delete for an id the store has never seen.
	ErrNotFound = errors.New("event not found")
)

// I is the full contract of a persistence layer for relay events.
type I interface {
	Initializer
	Pather
	// Closer must be called after you're done using the store, to free up
	// resources and flush buffers.
	io.Closer
	Saver
	Querent
	Deleter
	Syncer
}

type Initializer interface {
	// Init is called once before any connection is accepted, allowing the
	// implementation to open files, set cache parameters and so on. A failure
	// here is fatal to the process.
	Init(path st) (err er)
}

type Pather interface {
	// Path returns the directory of the database.
	Path() (s st)
}

type Saver interface {
	// SaveEvent persists one admitted event. An event whose (kind, pubkey,
	// d-tag) identity already exists with a later or equal created_at is
	// superseded: the store must serialize conflicting writes to the same
	// identity and reads return only the latest version.
	SaveEvent(c cx, ev *event.T) (err er)
}

type Querent interface {
	// QueryEvents returns the events matching a filter in reverse
	// chronological order. Fields of the filter combine with AND, values
	// within a field with OR. An absent limit defaults to DefaultLimit.
	QueryEvents(c cx, f *filter.T) (evs event.Ts, err er)
}

type Deleter interface {
	// DeleteEvent removes an event by id, failing with ErrNotFound if the id
	// is unknown.
	DeleteEvent(c cx, id by) (err er)
}

type Syncer interface {
	// Sync signals the event store to flush its buffers.
	Sync() (err er)
}

// Pair is one promotion/attention pairing proposed by a Matcher.
type Pair struct {
	Promotion *event.T
	Attention *event.T
}

// Matcher is the pluggable matching algorithm that pairs promotions with
// attention offers. The heuristic is not specified here; implementations are
// brought by the marketplace operator.
type Matcher interface {
	FindMatches(c cx, promotions, attentions event.Ts) (pairs []Pair, err er)
}
