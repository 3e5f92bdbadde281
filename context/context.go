// Package context is a set of shorter names for the very longwinded standard
// library context library.
package context

import (
	"context"
	"time"
)

type (
	// T is a context.Context.
	T = context.Context
	// F is a context.CancelFunc.
	F = context.CancelFunc
)

// Bg returns a context.Background.
func Bg() T { return context.Background() }

// Cancel returns a cancellable context and its cancel function.
func Cancel(c T) (T, F) { return context.WithCancel(c) }

// Timeout returns a context that cancels itself after a given duration.
func Timeout(c T, d time.Duration) (T, F) { return context.WithTimeout(c, d) }

// Value returns a context with a key/value pair attached.
func Value(c T, key, val any) T { return context.WithValue(c, key, val) }

// Canceled is the error a context returns after it has been cancelled.
var Canceled = context.Canceled

// DeadlineExceeded is the error a context returns after its deadline passed.
var DeadlineExceeded = context.DeadlineExceeded
