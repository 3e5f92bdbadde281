package sett

import (
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/joinnextblock/attn-protocol-sub001/event"
	"github.com/joinnextblock/attn-protocol-sub001/filter"
	"github.com/joinnextblock/attn-protocol-sub001/store"
)

// QueryEvents scans the event records, returning those the filter matches in
// reverse chronological order, capped at the filter limit or the store
// default when the filter carries none.
func (r *T) QueryEvents(c cx, f *filter.T) (evs event.Ts, err er) {
	err = r.DB.View(func(txn *badger.Txn) (err er) {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefixEvent
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.ValidForPrefix(prefixEvent); it.Next() {
			select {
			case <-c.Done():
				return c.Err()
			default:
			}
			var b by
			if b, err = it.Item().ValueCopy(nil); chk.E(err) {
				return
			}
			var ev *event.T
			if ev, err = event.FromJSON(b); chk.E(err) {
				// a record that fails to decode is skipped, not fatal
				err = nil
				continue
			}
			if f.Matches(ev) {
				evs = append(evs, ev)
			}
		}
		return
	})
	if chk.E(err) {
		return
	}
	sort.Sort(evs)
	limit := no(store.DefaultLimit)
	if f != nil && f.Limit != nil {
		limit = no(*f.Limit)
	}
	if r.MaxLimit > 0 && limit > r.MaxLimit {
		limit = r.MaxLimit
	}
	if len(evs) > limit {
		evs = evs[:limit]
	}
	return
}
