package engine

import (
	"context"
	"fmt"

	"github.com/Daolyap/random.daolyap.dev/internal/partition"
)

// runWorker executes one task to completion: it produces candidates in
// batches of task.BatchSize, compares each against the target, and
// reports outcomes on out. The channel send after every batch doubles as
// the cooperative yield point; once ctx is cancelled the worker emits
// nothing further and returns within one batch.
func runWorker(ctx context.Context, task partition.Task, out chan<- Event) {
	next, err := candidateStream(task)
	if err != nil {
		send(ctx, out, Event{Kind: EventError, Message: err.Error()})
		return
	}

	batchSize := task.BatchSize
	if batchSize < 1 {
		batchSize = 1
	}

	for {
		if ctx.Err() != nil {
			return
		}

		produced := uint64(0)
		var last string
		for produced < uint64(batchSize) {
			candidate, ok := next()
			if !ok {
				// Partition drained mid-batch: account for the partial
				// batch, then report exhaustion.
				if produced > 0 {
					if !send(ctx, out, Event{Kind: EventProgress, Attempts: produced, LastAttempt: last}) {
						return
					}
				}
				send(ctx, out, Event{Kind: EventExhausted})
				return
			}
			produced++
			last = candidate

			if candidate == task.Target {
				send(ctx, out, Event{Kind: EventMatch, Value: candidate})
				return
			}
		}

		if !send(ctx, out, Event{Kind: EventProgress, Attempts: produced, LastAttempt: last}) {
			return
		}
	}
}

// candidateStream builds the task's candidate iterator. The returned
// function yields successive candidates and reports false once the
// assigned partition is drained; Random streams never drain.
func candidateStream(task partition.Task) (func() (string, bool), error) {
	switch task.Mode {
	case partition.Random:
		if task.Scheme == nil || task.Scheme.Generate == nil {
			return nil, fmt.Errorf("worker %d: random mode without a generator", task.WorkerID)
		}
		gen := task.Scheme.Generate
		return func() (string, bool) { return gen(), true }, nil

	case partition.Sequential:
		if !task.Scheme.Enumerable() {
			return nil, fmt.Errorf("worker %d: sequential mode without an enumerator", task.WorkerID)
		}
		enum := task.Scheme.Enum
		i := task.Range.Start
		end := task.Range.End
		return func() (string, bool) {
			if i >= end {
				return "", false
			}
			v := enum.FromIndex(i)
			i++
			return v, true
		}, nil

	case partition.Wordlist:
		slice := task.Slice
		k := 0
		return func() (string, bool) {
			if k >= len(slice) {
				return "", false
			}
			v := slice[k]
			k++
			return v, true
		}, nil

	default:
		return nil, fmt.Errorf("worker %d: unknown mode %v", task.WorkerID, task.Mode)
	}
}

// send delivers ev unless the run has been cancelled first. It reports
// whether the event was delivered.
func send(ctx context.Context, out chan<- Event, ev Event) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- ev:
		return true
	}
}
