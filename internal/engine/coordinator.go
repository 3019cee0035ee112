// Package engine implements the brute-force search core: a pool of
// batch-oriented search workers, a coordinator that aggregates their
// events and decides termination, and the run handle callers wait on.
package engine

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Daolyap/random.daolyap.dev/internal/partition"
	"github.com/Daolyap/random.daolyap.dev/internal/scheme"
)

// Bounds for run configuration knobs. Both are throughput/responsiveness
// tradeoffs with no correctness effect.
const (
	MinWorkers   = 1
	MaxWorkers   = 16
	MinBatchSize = 100
	MaxBatchSize = 100_000
)

// Reason explains why a run ended.
type Reason string

const (
	ReasonFound     Reason = "found"
	ReasonExhausted Reason = "search space exhausted"
	ReasonBudget    Reason = "attempt budget exhausted"
	ReasonAllFailed Reason = "all workers failed"
	ReasonStopped   Reason = "stopped"
)

// Outcome is the terminal result of a run.
type Outcome struct {
	Matched          bool
	Value            string // matched value, when Matched
	Reason           Reason
	TotalAttempts    uint64
	Elapsed          time.Duration
	SearchedFraction float64 // attempts / space size, capped at 1
}

// RunConfig is everything Start needs for one run.
type RunConfig struct {
	Scheme      *scheme.Scheme
	Target      string
	Mode        partition.Mode
	WorkerCount int
	BatchSize   int
	// MaxAttempts stops the run as a failure once totalAttempts reaches
	// it. 0 means unlimited.
	MaxAttempts uint64
	// Wordlist is required in Wordlist mode: ordered, deduplicated,
	// non-empty strings owned by the caller.
	Wordlist []string
}

// RunHandle lets the caller of Start wait for and read the run's
// outcome. Done is closed only after every worker goroutine has been
// reaped, so a closed handle means no run resources remain.
type RunHandle struct {
	ID      uuid.UUID
	done    chan struct{}
	outcome Outcome
}

// Done is closed when the run has fully terminated and cleaned up.
func (h *RunHandle) Done() <-chan struct{} { return h.done }

// Outcome returns the terminal result. Valid only after Done is closed.
func (h *RunHandle) Outcome() Outcome { return h.outcome }

// Wait blocks until the run terminates or ctx expires.
func (h *RunHandle) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	case <-h.done:
		return h.outcome, nil
	}
}

type run struct {
	id       uuid.UUID
	cfg      RunConfig
	cancel   context.CancelFunc
	handle   *RunHandle
	state    runState
	// spaceSize is the denominator for SearchedFraction, +Inf when the
	// space exceeds float64 integer precision anyway.
	spaceSize float64
}

// Coordinator owns at most one run at a time. All cross-worker
// aggregation happens in its single event-loop goroutine; the mutex only
// guards the handoff between that loop, Start/Stop, and Snapshot.
type Coordinator struct {
	logger  Logger
	metrics Collector

	mu  sync.Mutex
	run *run
}

// NewCoordinator creates an idle coordinator.
func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{
		logger:  nopLogger{},
		metrics: nopCollector{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Running reports whether a run is active.
func (c *Coordinator) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.run != nil
}

// Start validates the configuration, partitions the search space, spawns
// the worker pool, and begins aggregating events. It returns once the
// run is underway; the caller observes completion through the handle.
//
// ctx cancellation stops the run the same way Stop does.
func (c *Coordinator) Start(ctx context.Context, cfg RunConfig) (*RunHandle, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	tasks, err := partition.Plan(cfg.Mode, cfg.WorkerCount, cfg.Scheme, cfg.Target, cfg.BatchSize, cfg.Wordlist)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.run != nil {
		return nil, ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	id := uuid.New()
	r := &run{
		id:        id,
		cfg:       cfg,
		cancel:    cancel,
		handle:    &RunHandle{ID: id, done: make(chan struct{})},
		state:     newRunState(time.Now()),
		spaceSize: spaceSize(cfg),
	}
	c.run = r

	events := make(chan taggedEvent, cfg.WorkerCount)
	workers, _ := errgroup.WithContext(runCtx)
	var forwarders sync.WaitGroup

	for _, task := range tasks {
		out := make(chan Event, 1)
		workers.Go(func() error {
			defer close(out)
			runWorker(runCtx, task, out)
			return nil
		})

		// The transport, not the worker, attaches the worker ID.
		forwarders.Add(1)
		go func(id int) {
			defer forwarders.Done()
			for ev := range out {
				events <- taggedEvent{workerID: id, Event: ev}
			}
		}(task.WorkerID)
	}

	go func() {
		// Workers report failures as events, never as errors.
		_ = workers.Wait()
		forwarders.Wait()
		close(events)
	}()

	go c.runLoop(r, events)

	c.logger.Info("run started",
		"run_id", r.id, "scheme", schemeKey(cfg.Scheme), "mode", cfg.Mode.String(),
		"workers", cfg.WorkerCount, "batch_size", cfg.BatchSize, "max_attempts", cfg.MaxAttempts)
	c.metrics.RecordRunStart(cfg.Mode.String(), cfg.WorkerCount)

	return r.handle, nil
}

// Stop cancels the active run, waits for every worker to be reaped, and
// returns the coordinator to idle. Idempotent; safe to call when no run
// is active.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	r := c.run
	c.mu.Unlock()
	if r == nil {
		return
	}
	r.cancel()
	<-r.handle.done
}

// Snapshot returns a point-in-time aggregate of the active run, or a
// zero snapshot with Running=false when idle.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := c.run
	if r == nil {
		return Snapshot{}
	}

	elapsed := time.Since(r.state.startedAt)
	rate := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(r.state.totalAttempts) / secs
	}
	return Snapshot{
		RunID:             r.id,
		Running:           true,
		SchemeKey:         schemeKey(r.cfg.Scheme),
		Mode:              r.cfg.Mode,
		Target:            r.cfg.Target,
		TotalAttempts:     r.state.totalAttempts,
		Elapsed:           elapsed,
		AttemptsPerSecond: rate,
		Recent:            r.state.history.recent(),
		ExhaustedWorkers:  len(r.state.exhausted),
		FailedWorkers:     len(r.state.failed),
	}
}

// runLoop is the run's single event handler. It processes events one at
// a time until every worker has been reaped, then publishes the outcome.
func (c *Coordinator) runLoop(r *run, events <-chan taggedEvent) {
	for te := range events {
		c.handleEvent(r, te)
	}

	// All workers and forwarders are gone. If no terminal state was
	// reached the run was stopped externally.
	c.mu.Lock()
	if !r.state.terminal {
		c.finishLocked(r, Outcome{Matched: false, Reason: ReasonStopped})
	}
	outcome := r.state.outcome
	if c.run == r {
		c.run = nil
	}
	c.mu.Unlock()

	r.handle.outcome = outcome
	close(r.handle.done)

	c.logger.Info("run ended",
		"run_id", r.id, "reason", string(outcome.Reason),
		"attempts", outcome.TotalAttempts, "elapsed", outcome.Elapsed)
	c.metrics.RecordOutcome(string(outcome.Reason), outcome.TotalAttempts, outcome.Elapsed.Seconds())
}

// handleEvent applies one worker event to the run state. Order across
// workers is unspecified, so every mutation here is commutative: counter
// adds and set insertions only.
func (c *Coordinator) handleEvent(r *run, te taggedEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := &r.state
	if st.terminal {
		// A terminal state is irreversible; late events are ignored.
		return
	}

	switch te.Kind {
	case EventProgress:
		st.totalAttempts += te.Attempts
		st.history.push(Attempt{Value: te.LastAttempt, WorkerID: te.workerID})
		c.metrics.ObserveBatch(te.Attempts)
		if r.cfg.MaxAttempts > 0 && st.totalAttempts >= r.cfg.MaxAttempts {
			c.finishLocked(r, Outcome{Matched: false, Reason: ReasonBudget})
		}

	case EventMatch:
		c.finishLocked(r, Outcome{Matched: true, Value: te.Value, Reason: ReasonFound})

	case EventError:
		c.logger.Warn("worker failed", "run_id", r.id, "worker", te.workerID, "error", te.Message)
		st.failed[te.workerID] = struct{}{}
		c.metrics.RecordWorkerError()
		c.checkPoolDoneLocked(r)

	case EventExhausted:
		if _, failed := st.failed[te.workerID]; failed {
			// A worker contributes to termination at most once.
			return
		}
		st.exhausted[te.workerID] = struct{}{}
		c.metrics.RecordWorkerExhausted()
		c.checkPoolDoneLocked(r)
	}
}

// checkPoolDoneLocked terminates the run once every worker has either
// exhausted its partition or failed. The run counts as "all workers
// failed" only when every single worker errored; any other full
// coverage means the reachable space was searched.
func (c *Coordinator) checkPoolDoneLocked(r *run) {
	st := &r.state
	if len(st.exhausted)+len(st.failed) < r.cfg.WorkerCount {
		return
	}
	reason := ReasonExhausted
	if len(st.failed) == r.cfg.WorkerCount {
		reason = ReasonAllFailed
	}
	c.finishLocked(r, Outcome{Matched: false, Reason: reason})
}

// finishLocked records the terminal outcome and cancels the pool. The
// handle is closed later by runLoop, after every worker is reaped.
func (c *Coordinator) finishLocked(r *run, outcome Outcome) {
	st := &r.state
	outcome.TotalAttempts = st.totalAttempts
	outcome.Elapsed = time.Since(st.startedAt)
	outcome.SearchedFraction = math.Min(1, float64(st.totalAttempts)/r.spaceSize)
	st.terminal = true
	st.outcome = outcome
	r.cancel()
}

// spaceSize returns the denominator for SearchedFraction.
func spaceSize(cfg RunConfig) float64 {
	switch cfg.Mode {
	case partition.Wordlist:
		return float64(len(cfg.Wordlist))
	case partition.Sequential:
		return float64(cfg.Scheme.Enum.TotalCount())
	default:
		return math.Exp2(cfg.Scheme.Bits)
	}
}

func schemeKey(s *scheme.Scheme) string {
	if s == nil {
		return ""
	}
	return s.Key
}

func validate(cfg RunConfig) error {
	if cfg.Target == "" {
		return ErrInvalidTarget
	}
	if cfg.Scheme == nil && cfg.Mode != partition.Wordlist {
		return fmt.Errorf("start: no scheme selected")
	}
	if cfg.Mode == partition.Wordlist && len(cfg.Wordlist) == 0 {
		return ErrMissingWordlist
	}
	if cfg.WorkerCount < MinWorkers || cfg.WorkerCount > MaxWorkers {
		return fmt.Errorf("start: worker count %d outside [%d,%d]", cfg.WorkerCount, MinWorkers, MaxWorkers)
	}
	if cfg.BatchSize < MinBatchSize || cfg.BatchSize > MaxBatchSize {
		return fmt.Errorf("start: batch size %d outside [%d,%d]", cfg.BatchSize, MinBatchSize, MaxBatchSize)
	}
	return nil
}
