package config

import (
	"github.com/joinnextblock/attn-protocol-sub001/lol"
)

type (
	bo = bool
	st = string
	er = error
	no = int
)

var log, chk, errorf = lol.Main.Log, lol.Main.Check, lol.Main.Errorf
