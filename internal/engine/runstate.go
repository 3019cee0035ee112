package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/Daolyap/random.daolyap.dev/internal/partition"
)

// historySize bounds the recent-attempt ring buffer.
const historySize = 10

// Attempt is one recently tried candidate, kept for display.
type Attempt struct {
	Value    string
	WorkerID int
}

// attemptRing is a fixed-size ring buffer of the most recent attempts.
type attemptRing struct {
	buf   [historySize]Attempt
	next  int
	count int
}

func (r *attemptRing) push(a Attempt) {
	r.buf[r.next] = a
	r.next = (r.next + 1) % historySize
	if r.count < historySize {
		r.count++
	}
}

// recent returns the buffered attempts, oldest first.
func (r *attemptRing) recent() []Attempt {
	out := make([]Attempt, 0, r.count)
	start := (r.next - r.count + historySize) % historySize
	for i := 0; i < r.count; i++ {
		out = append(out, r.buf[(start+i)%historySize])
	}
	return out
}

// runState is the coordinator's aggregate view of one run. It is
// mutated only by the event loop, under the coordinator's lock so that
// Snapshot can read it from other goroutines.
type runState struct {
	totalAttempts uint64
	startedAt     time.Time
	history       attemptRing
	exhausted     map[int]struct{}
	failed        map[int]struct{}
	terminal      bool
	outcome       Outcome
}

func newRunState(now time.Time) runState {
	return runState{
		startedAt: now,
		exhausted: make(map[int]struct{}),
		failed:    make(map[int]struct{}),
	}
}

// Snapshot is a point-in-time view of a run for presentation layers.
// Polling it is optional; run correctness never depends on it.
type Snapshot struct {
	RunID             uuid.UUID
	Running           bool
	SchemeKey         string
	Mode              partition.Mode
	Target            string
	TotalAttempts     uint64
	Elapsed           time.Duration
	AttemptsPerSecond float64
	Recent            []Attempt
	ExhaustedWorkers  int
	FailedWorkers     int
}
