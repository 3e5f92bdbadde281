package validate

import (
	"encoding/json"
	"fmt"

	"github.com/joinnextblock/attn-protocol-sub001/event"
)

// decodeContent parses the kind-specific JSON payload of an event into the
// given schema struct. Pointer fields distinguish absent from zero.
func decodeContent(ev *event.T, into any) (msg st) {
	if len(ev.Content) == 0 {
		return "event content is empty"
	}
	if err := json.Unmarshal(ev.Content, into); err != nil {
		return fmt.Sprintf("event content is not valid JSON: %s", err.Error())
	}
	return
}

// requireNonNegative rejects a present numeric field holding a negative
// value. Absent fields pass; callers add their own presence checks where the
// field is mandatory.
func requireNonNegative(name st, v *int64) (msg st) {
	if v != nil && *v < 0 {
		return fmt.Sprintf("content field %s must be a non-negative integer", name)
	}
	return
}
