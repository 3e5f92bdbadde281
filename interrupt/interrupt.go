// Package interrupt runs registered shutdown handlers when the process
// receives an interrupt signal, so stores get closed and buffers flushed
// before exit.
package interrupt

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joinnextblock/attn-protocol-sub001/log"
)

var (
	mx       sync.Mutex
	handlers []handler
	// restart requests an exec of the same binary instead of an exit.
	restart bo
	ch      chan os.Signal
	// HandlersDone is closed after all handlers have run.
	HandlersDone = make(chan struct{})
)

type handler struct {
	name st
	fn   func()
}

func listen() {
	sig := <-ch
	log.I.F("received signal %v, shutting down", sig)
	mx.Lock()
	defer mx.Unlock()
	// run handlers in reverse registration order, teardown mirrors setup
	for i := len(handlers) - 1; i >= 0; i-- {
		log.D.Ln("running interrupt handler", handlers[i].name)
		handlers[i].fn()
	}
	handlers = nil
	close(HandlersDone)
	if restart {
		Restart()
	}
	os.Exit(0)
}

// AddHandler registers a named function to run at shutdown. The first call
// starts the signal listener.
func AddHandler(name st, fn func()) {
	mx.Lock()
	defer mx.Unlock()
	if ch == nil {
		ch = make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		go listen()
	}
	handlers = append(handlers, handler{name: name, fn: fn})
}

// Request triggers the shutdown sequence as though an interrupt had been
// received.
func Request() {
	mx.Lock()
	c := ch
	mx.Unlock()
	if c != nil {
		c <- syscall.SIGTERM
	}
}

// RequestRestart triggers the shutdown sequence and then restarts the
// process in place.
func RequestRestart() {
	mx.Lock()
	restart = true
	mx.Unlock()
	Request()
}
