package engine

import "fmt"

// EventKind tags the events a worker can emit.
type EventKind int

const (
	// EventProgress reports a completed batch with no match.
	EventProgress EventKind = iota
	// EventMatch reports that the worker found the target.
	EventMatch
	// EventExhausted reports that the worker finished its finite
	// partition without a match. Random-mode workers never emit it.
	EventExhausted
	// EventError reports an unrecoverable per-worker setup failure.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "progress"
	case EventMatch:
		return "match"
	case EventExhausted:
		return "exhausted"
	case EventError:
		return "error"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is one message from a worker to the coordinator. A worker never
// reports its own ID; the fan-in transport tags each event with the
// worker it came from, so a misbehaving worker cannot impersonate
// another.
type Event struct {
	Kind EventKind

	// Attempts and LastAttempt are set for EventProgress.
	Attempts    uint64
	LastAttempt string

	// Value is set for EventMatch.
	Value string

	// Message is set for EventError.
	Message string
}

// taggedEvent is an Event annotated with its origin by the transport.
type taggedEvent struct {
	workerID int
	Event
}
