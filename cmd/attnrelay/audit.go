package main

import (
	"time"

	"github.com/joinnextblock/attn-protocol-sub001/chain"
	"github.com/joinnextblock/attn-protocol-sub001/relay"
)

// auditInterval is how often the stored confirmation chains are walked.
const auditInterval = time.Hour

// auditor periodically reconstructs every confirmation chain in the store
// and reports completeness, so operators can see settlement progress and
// spot confirmations that reference matches this relay never saw.
func auditor(c cx, pipeline *relay.P) {
	tick := time.NewTicker(auditInterval)
	defer tick.Stop()
	for {
		select {
		case <-c.Done():
			return
		case <-tick.C:
		}
		trails, orphans, err := chain.Audit(c, pipeline.Storage())
		if chk.E(err) {
			continue
		}
		var complete no
		for _, t := range trails {
			if t.Complete() {
				complete++
			}
		}
		log.I.F("chain audit: %d matches, %d complete, %d orphan confirmations",
			len(trails), complete, len(orphans))
		for _, orphan := range orphans {
			log.D.F("orphan confirmation %s kind %s", orphan.IDString(),
				orphan.Kind.Name())
		}
	}
}
