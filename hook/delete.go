package hook

import (
	"github.com/joinnextblock/attn-protocol-sub001/event"
	"github.com/joinnextblock/attn-protocol-sub001/filter"
	"github.com/joinnextblock/attn-protocol-sub001/hex"
	"github.com/joinnextblock/attn-protocol-sub001/kind"
	"github.com/joinnextblock/attn-protocol-sub001/kinds"
	"github.com/joinnextblock/attn-protocol-sub001/tag"
	"github.com/joinnextblock/attn-protocol-sub001/tag/atag"
	"github.com/joinnextblock/attn-protocol-sub001/tags"
)

// deletePath honors a deletion event: referenced events by the same author
// are removed from the store and the deletion itself is appended to the log.
// References to other authors' events are skipped, and deletion events may
// not themselves be deleted.
func (d *D) deletePath(c cx, ev *event.T) (err er) {
	for _, v := range ev.ETagValues() {
		var id by
		if id, err = hex.Dec(st(v)); err != nil {
			return errorf.E("malformed e tag in delete event: %s", err)
		}
		var evs event.Ts
		f := filter.New()
		f.Ids = tag.FromBytesSlice(id)
		if evs, err = d.store.QueryEvents(c, f); chk.E(err) {
			return &StorageFailure{Err: err}
		}
		if len(evs) == 0 {
			// the referenced event may never have propagated here; nothing
			// to remove
			log.D.F("delete reference to unknown event %s", st(v))
			continue
		}
		target := evs[0]
		if target.Kind.Equal(kind.Deletion) {
			return errorf.E("delete event kind may not be deleted")
		}
		if !equals(target.PubKey, ev.PubKey) {
			log.I.F("skipping delete of event %s not authored by %s",
				target.IDString(), ev.PubKeyString())
			continue
		}
		if err = d.store.DeleteEvent(c, target.ID); chk.E(err) {
			return &StorageFailure{Err: err}
		}
	}
	if err = d.deleteByCoordinates(c, ev); err != nil {
		return
	}
	// the log is append-only; the deletion event itself is part of the
	// record
	if err = d.store.SaveEvent(c, ev); chk.E(err) {
		return &StorageFailure{Err: err}
	}
	return
}

func (d *D) deleteByCoordinates(c cx, ev *event.T) (err er) {
	for _, t := range ev.Tags.GetAll(by("a")) {
		coord := t.Value()
		var target *event.T
		if target, err = d.latestByCoordinate(c, coord); err != nil {
			return
		}
		if target == nil {
			log.D.F("delete reference to unknown coordinate %s", st(coord))
			continue
		}
		if target.Kind.Equal(kind.Deletion) {
			return errorf.E("delete event kind may not be deleted")
		}
		if !equals(target.PubKey, ev.PubKey) {
			log.I.F("skipping delete of coordinate %s not authored by %s",
				st(coord), ev.PubKeyString())
			continue
		}
		if target.CreatedAtI64() > ev.CreatedAtI64() {
			// the current version postdates the deletion; it stays
			continue
		}
		if err = d.store.DeleteEvent(c, target.ID); chk.E(err) {
			return &StorageFailure{Err: err}
		}
	}
	return
}

// latestByCoordinate resolves a coordinate reference to the current version
// of that identity, or nil if none is stored.
func (d *D) latestByCoordinate(c cx, coord by) (target *event.T, err er) {
	a := &atag.T{}
	if err = a.Unmarshal(coord); err != nil {
		return nil, errorf.E("malformed a tag in delete event: %s", err)
	}
	if !a.Kind.IsParameterizedReplaceable() {
		return nil, errorf.E(
			"delete a tags referencing non-parameterized-replaceable events cannot be processed")
	}
	f := filter.New()
	f.Kinds = kinds.New(a.Kind)
	f.Authors = tag.FromBytesSlice(a.PubKey)
	f.Tags = tags.New(tag.New(by("#d"), a.DTag))
	lim := uint(1)
	f.Limit = &lim
	var evs event.Ts
	if evs, err = d.store.QueryEvents(c, f); chk.E(err) {
		return nil, &StorageFailure{Err: err}
	}
	if len(evs) == 0 {
		return nil, nil
	}
	return evs[0], nil
}
