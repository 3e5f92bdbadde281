package sett

import (
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/joinnextblock/attn-protocol-sub001/event"
	"github.com/joinnextblock/attn-protocol-sub001/store"
)

// SaveEvent writes an event to the store. Ephemeral events are silently not
// stored, tombstoned ids are refused, duplicates return store.ErrDupEvent,
// and a parameterized replaceable event displaces any older version sharing
// its coordinate. An older version arriving after a newer one is dropped
// without error, as resends of stale versions are routine on a relay mesh.
func (r *T) SaveEvent(c cx, ev *event.T) (err er) {
	if ev.Kind != nil && ev.Kind.IsEphemeral() {
		return
	}
	if r.WG != nil {
		r.WG.Add(1)
		defer r.WG.Done()
	}
	ek := eventKey(ev.ID)
	err = r.DB.Update(func(txn *badger.Txn) (err er) {
		if _, err = txn.Get(tombstoneKey(ev.ID)); err == nil {
			return errorf.W("tombstone found %s, event will not be saved",
				ev.IDString())
		}
		if _, err = txn.Get(ek); err == nil {
			return store.ErrDupEvent
		}
		if ev.Kind.IsParameterizedReplaceable() {
			var stale bo
			if stale, err = r.displacePrior(txn, ev); chk.E(err) {
				return
			}
			if stale {
				return
			}
		}
		return txn.Set(ek, ev.Serialize())
	})
	if err != nil && !errors.Is(err, store.ErrDupEvent) {
		chk.E(err)
	}
	return
}

// displacePrior resolves the coordinate index for a parameterized replaceable
// event inside the given transaction. When a newer version of the identity is
// already current the incoming event is stale and nothing is written.
func (r *T) displacePrior(txn *badger.Txn, ev *event.T) (stale bo, err er) {
	ck := coordKey(ev.Address().Marshal(nil))
	var item *badger.Item
	if item, err = txn.Get(ck); err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return
		}
		// first version of this identity
		return false, txn.Set(ck, ev.ID)
	}
	var priorId by
	if priorId, err = item.ValueCopy(nil); chk.E(err) {
		return
	}
	var prior *event.T
	if prior, err = r.fetch(txn, priorId); err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return
		}
		// dangling pointer, the prior event was deleted out of band
		return false, txn.Set(ck, ev.ID)
	}
	if prior.CreatedAtI64() >= ev.CreatedAtI64() {
		log.D.F("stale replaceable event %s for %s", ev.IDString(),
			ev.Address().String())
		return true, nil
	}
	if err = txn.Delete(eventKey(priorId)); chk.E(err) {
		return
	}
	return false, txn.Set(ck, ev.ID)
}

// fetch loads and decodes one event by id inside a transaction.
func (r *T) fetch(txn *badger.Txn, id by) (ev *event.T, err er) {
	var item *badger.Item
	if item, err = txn.Get(eventKey(id)); err != nil {
		return
	}
	var b by
	if b, err = item.ValueCopy(nil); chk.E(err) {
		return
	}
	return event.FromJSON(b)
}
