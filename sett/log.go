package sett

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/joinnextblock/attn-protocol-sub001/lol"
)

// NewLogger creates a badger-compatible logger routed into lol.
func NewLogger(logLevel no, label st) (l *logger) {
	l = &logger{Label: label}
	l.Level.Store(int32(logLevel))
	return
}

type logger struct {
	Level atomic.Int32
	Label st
}

// SetLogLevel atomically adjusts the log level to the given log level code.
func (l *logger) SetLogLevel(level no) { l.Level.Store(int32(level)) }

func (l *logger) printf(lvl int32, p lol.LevelPrinter, s st, i ...any) {
	if l.Level.Load() >= lvl {
		p.F("%s", strings.TrimSpace(fmt.Sprintf(l.Label+": "+s, i...)))
	}
}

// badger demands all four of these; its own notion of importance runs a
// level noisier than ours, so each maps one level quieter.

func (l *logger) Errorf(s st, i ...any)   { l.printf(lol.Error, log.E, s, i...) }
func (l *logger) Warningf(s st, i ...any) { l.printf(lol.Warn, log.D, s, i...) }
func (l *logger) Infof(s st, i ...any)    { l.printf(lol.Info, log.D, s, i...) }
func (l *logger) Debugf(s st, i ...any)   { l.printf(lol.Debug, log.T, s, i...) }
