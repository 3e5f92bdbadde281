//go:build !linux

package interrupt

import (
	"github.com/joinnextblock/attn-protocol-sub001/log"
)

// Restart is only implemented on linux; elsewhere the process just exits.
func Restart() {
	log.W.Ln("restart not implemented on this platform")
}
