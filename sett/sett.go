// Package sett is the badger backed implementation of store.I (a sett being
// where a badger lives). Events are stored whole as wire JSON under their id;
// a coordinate index keeps at most one current version per parameterized
// replaceable identity; tombstones stop deleted events from coming back.
// Queries scan and filter: the ATTN protocol's event volume is modest and a
// scan keeps the storage layer small enough to audit in one sitting.
package sett

import (
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/joinnextblock/attn-protocol-sub001/sha256"
	"github.com/joinnextblock/attn-protocol-sub001/store"
	"github.com/joinnextblock/attn-protocol-sub001/units"
)

// key prefixes: 'e' + id for events, 'c' + digest(coordinate) for the
// current version of a replaceable identity, 't' + id for tombstones.
var (
	prefixEvent     = by("e")
	prefixCoord     = by("c")
	prefixTombstone = by("t")
)

// T is a badger event store.
type T struct {
	Ctx            cx
	WG             *sync.WaitGroup
	dataDir        st
	BlockCacheSize no
	InitLogLevel   no
	Logger         *logger
	// DB is the badger db
	*badger.DB
	// MaxLimit caps even an explicit query limit, to avoid sending out too
	// many events from a malformed or excessively broad filter.
	MaxLimit no
}

var _ store.I = (*T)(nil)

// DefaultMaxLimit bounds the biggest batch of events a single query returns.
const DefaultMaxLimit = store.DefaultLimit

// Params is the configuration used in creating a new sett.T.
type Params struct {
	Ctx            cx
	WG             *sync.WaitGroup
	BlockCacheSize no
	LogLevel       no
	MaxLimit       no
}

// New configures a new sett.T event store. Init must be called before use.
func New(p Params) (r *T) {
	if p.MaxLimit == 0 {
		p.MaxLimit = DefaultMaxLimit
	}
	if p.BlockCacheSize == 0 {
		p.BlockCacheSize = units.Gb
	}
	return &T{
		Ctx:            p.Ctx,
		WG:             p.WG,
		BlockCacheSize: p.BlockCacheSize,
		InitLogLevel:   p.LogLevel,
		MaxLimit:       p.MaxLimit,
	}
}

// Init opens the database directory. A failure here is fatal to startup.
func (r *T) Init(path st) (err er) {
	r.dataDir = path
	log.I.Ln("opening sett event store at", r.Path())
	opts := badger.DefaultOptions(r.dataDir)
	opts.BlockCacheSize = int64(r.BlockCacheSize)
	opts.BlockSize = units.Mb
	opts.CompactL0OnClose = true
	opts.Compression = options.None
	r.Logger = NewLogger(r.InitLogLevel, r.dataDir)
	opts.Logger = r.Logger
	if r.DB, err = badger.Open(opts); chk.E(err) {
		return err
	}
	return
}

// SetLogLevel adjusts the badger logger's level.
func (r *T) SetLogLevel(level no) { r.Logger.SetLogLevel(level) }

// Path returns the path where the database files are stored.
func (r *T) Path() (s st) { return r.dataDir }

// Close flushes and closes the database.
func (r *T) Close() (err er) {
	if r.DB == nil {
		return
	}
	log.I.Ln("closing sett event store at", r.dataDir)
	return r.DB.Close()
}

// Sync flushes the database buffers to disk.
func (r *T) Sync() (err er) { return r.DB.Sync() }

func eventKey(id by) (k by)     { return append(append(by{}, prefixEvent...), id...) }
func tombstoneKey(id by) (k by) { return append(append(by{}, prefixTombstone...), id...) }

func coordKey(coord by) (k by) {
	h := sha256.Hash(coord)
	return append(append(by{}, prefixCoord...), h...)
}
