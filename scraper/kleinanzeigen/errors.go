package kleinanzeigen

import (
	"errors"
	"fmt"
)

// ErrNotStarted is returned (wrapped in the operation's error type) when an
// operation is attempted before Start, without touching the network.
var ErrNotStarted = errors.New("browser not initialized, call Start first")

// SessionError means the browser process failed to start or respond. It is
// fatal for the whole session and never retried: a missing binary or broken
// environment does not fix itself.
type SessionError struct {
	Err error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("browser session: %v", e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

// SearchError aggregates any failure during a multi-page search: an
// unstarted session, a navigation failure or an extraction failure.
type SearchError struct {
	Err error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search listings: %v", e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

// DetailFetchError is a failure fetching one listing's detail page. It
// carries the requested id.
type DetailFetchError struct {
	ID  string
	Err error
}

func (e *DetailFetchError) Error() string {
	return fmt.Sprintf("fetch listing %s: %v", e.ID, e.Err)
}

func (e *DetailFetchError) Unwrap() error { return e.Err }
