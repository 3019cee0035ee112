package engine

import "errors"

// Sentinel errors returned by Coordinator.Start. All of them are
// configuration errors raised before any worker is spawned; the caller
// must fix the configuration and retry.
var (
	// ErrAlreadyRunning is returned when Start is called while a run is
	// active.
	ErrAlreadyRunning = errors.New("a run is already active")

	// ErrInvalidTarget is returned when no target value is set.
	ErrInvalidTarget = errors.New("no target value set")

	// ErrMissingWordlist is returned when Wordlist mode is requested
	// without a non-empty wordlist.
	ErrMissingWordlist = errors.New("wordlist mode requires a non-empty wordlist")
)
