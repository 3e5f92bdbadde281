package hook

import (
	"fmt"
)

// Aborted is a Before handler veto. Storage was never called; the handler's
// reason is surfaced to the publishing client.
type Aborted struct {
	// Handler is the registered name of the vetoing handler.
	Handler st
	// Timeout marks a veto caused by the per-event deadline rather than a
	// handler decision.
	Timeout bo
	Err     er
}

func (a *Aborted) Error() st {
	if a.Timeout {
		return fmt.Sprintf("hook %s exceeded the admission deadline: %s", a.Handler, a.Err)
	}
	return fmt.Sprintf("hook %s rejected event: %s", a.Handler, a.Err)
}

func (a *Aborted) Unwrap() error { return a.Err }

// Warning is an After handler failure. The event is already committed, so a
// Warning is observability, never a rollback.
type Warning struct {
	Handler st
	Err     er
}

func (w *Warning) Error() st {
	return fmt.Sprintf("after hook %s failed: %s", w.Handler, w.Err)
}

func (w *Warning) Unwrap() error { return w.Err }

// StorageFailure wraps an error from the storage collaborator, including
// timeout and cancellation.
type StorageFailure struct {
	Err er
}

func (s *StorageFailure) Error() st { return fmt.Sprintf("storage failure: %s", s.Err) }

func (s *StorageFailure) Unwrap() error { return s.Err }
