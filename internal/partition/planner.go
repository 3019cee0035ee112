// Package partition splits a search space into per-worker tasks.
package partition

import (
	"errors"
	"fmt"

	"github.com/Daolyap/random.daolyap.dev/internal/scheme"
)

// Sentinel errors returned by Plan.
var (
	// ErrUnsupportedMode is returned when Sequential mode is requested
	// for a scheme without an enumerator. Callers should fall back to
	// Random mode.
	ErrUnsupportedMode = errors.New("scheme does not support sequential enumeration")

	// ErrEmptyWordlist is returned when Wordlist mode is requested with
	// an empty list.
	ErrEmptyWordlist = errors.New("wordlist is empty")
)

// Mode selects how candidates are produced and how the space is split.
type Mode int

const (
	// Random samples the full space independently on every worker.
	Random Mode = iota
	// Sequential walks the scheme's enumerator exhaustively, one
	// disjoint index range per worker.
	Sequential
	// Wordlist replays a caller-supplied list, one contiguous slice per
	// worker.
	Wordlist
)

func (m Mode) String() string {
	switch m {
	case Random:
		return "random"
	case Sequential:
		return "sequential"
	case Wordlist:
		return "wordlist"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "random":
		return Random, nil
	case "sequential":
		return Sequential, nil
	case "wordlist":
		return Wordlist, nil
	default:
		return Random, fmt.Errorf("unknown attack mode %q", s)
	}
}

// Range is a half-open index range [Start, End).
type Range struct {
	Start uint64
	End   uint64
}

// Len returns the number of indices in the range.
func (r Range) Len() uint64 {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Task is one worker's immutable share of a run. It is created once by
// Plan, handed to exactly one worker, and never mutated afterwards.
type Task struct {
	WorkerID  int
	Mode      Mode
	Target    string
	BatchSize int
	Scheme    *scheme.Scheme

	// Range holds the worker's enumerator indices in Sequential mode.
	Range Range
	// Slice holds the worker's wordlist entries in Wordlist mode.
	Slice []string
}

// Plan computes workerCount tasks covering the search space for the
// chosen mode. Sequential and Wordlist partitions are exact: no gaps, no
// overlaps, last worker short when the space doesn't divide evenly.
func Plan(mode Mode, workerCount int, s *scheme.Scheme, target string, batchSize int, wordlist []string) ([]Task, error) {
	if workerCount < 1 {
		return nil, fmt.Errorf("plan: worker count %d < 1", workerCount)
	}

	tasks := make([]Task, workerCount)
	for i := range tasks {
		tasks[i] = Task{
			WorkerID:  i,
			Mode:      mode,
			Target:    target,
			BatchSize: batchSize,
			Scheme:    s,
		}
	}

	switch mode {
	case Random:
		// Every worker samples the full space; nothing to split.

	case Sequential:
		if !s.Enumerable() {
			return nil, fmt.Errorf("plan %s: %w", s.Key, ErrUnsupportedMode)
		}
		total := s.Enum.TotalCount()
		perWorker := ceilDiv(total, uint64(workerCount))
		for i := range tasks {
			tasks[i].Range = Range{
				Start: min(uint64(i)*perWorker, total),
				End:   min((uint64(i)+1)*perWorker, total),
			}
		}

	case Wordlist:
		if len(wordlist) == 0 {
			return nil, fmt.Errorf("plan: %w", ErrEmptyWordlist)
		}
		total := uint64(len(wordlist))
		perWorker := ceilDiv(total, uint64(workerCount))
		for i := range tasks {
			start := min(uint64(i)*perWorker, total)
			end := min((uint64(i)+1)*perWorker, total)
			tasks[i].Slice = wordlist[start:end]
		}

	default:
		return nil, fmt.Errorf("plan: unknown mode %v", mode)
	}

	return tasks, nil
}

func ceilDiv(a, b uint64) uint64 {
	return (a + b - 1) / b
}
