package sett

import (
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/joinnextblock/attn-protocol-sub001/event"
	"github.com/joinnextblock/attn-protocol-sub001/hex"
	"github.com/joinnextblock/attn-protocol-sub001/store"
)

// DeleteEvent removes an event by id and writes a tombstone so the same id
// cannot be stored again. The coordinate pointer is cleaned up when the
// deleted event was the current version of its identity. An unknown id
// returns store.ErrNotFound.
func (r *T) DeleteEvent(c cx, id by) (err er) {
	if r.WG != nil {
		r.WG.Add(1)
		defer r.WG.Done()
	}
	err = r.DB.Update(func(txn *badger.Txn) (err er) {
		var ev *event.T
		if ev, err = r.fetch(txn, id); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return store.ErrNotFound
			}
			return
		}
		if ev.Kind.IsParameterizedReplaceable() {
			ck := coordKey(ev.Address().Marshal(nil))
			var item *badger.Item
			if item, err = txn.Get(ck); err == nil {
				var current by
				if current, err = item.ValueCopy(nil); chk.E(err) {
					return
				}
				if equals(current, id) {
					if err = txn.Delete(ck); chk.E(err) {
						return
					}
				}
			}
			err = nil
		}
		if err = txn.Delete(eventKey(id)); chk.E(err) {
			return
		}
		return txn.Set(tombstoneKey(id), nil)
	})
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		chk.E(err)
	}
	if err == nil {
		log.D.F("deleted event %s", hex.Enc(id))
	}
	return
}
