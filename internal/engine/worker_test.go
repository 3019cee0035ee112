package engine

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Daolyap/random.daolyap.dev/internal/partition"
	"github.com/Daolyap/random.daolyap.dev/internal/scheme"
)

type fakeEnum struct{ total uint64 }

func (f fakeEnum) TotalCount() uint64        { return f.total }
func (f fakeEnum) FromIndex(i uint64) string { return fmt.Sprintf("v%05d", i) }

// fakeSeqScheme enumerates v00000..v<total-1>; its generator cycles the
// same space deterministically and is safe for concurrent workers.
func fakeSeqScheme(total uint64) *scheme.Scheme {
	e := fakeEnum{total: total}
	var i atomic.Uint64
	return &scheme.Scheme{
		Key:  "fake",
		Bits: math.Log2(float64(total)),
		Generate: func() string {
			return e.FromIndex((i.Add(1) - 1) % total)
		},
		Enum: e,
	}
}

// collectEvents runs the worker to completion and returns everything it
// emitted.
func collectEvents(t *testing.T, ctx context.Context, task partition.Task) []Event {
	t.Helper()

	out := make(chan Event, 256)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(out)
		runWorker(ctx, task, out)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not finish")
	}

	var events []Event
	for ev := range out {
		events = append(events, ev)
	}
	return events
}

func TestWorkerSequentialExhaustsRange(t *testing.T) {
	task := partition.Task{
		WorkerID:  0,
		Mode:      partition.Sequential,
		Target:    "not-in-space",
		BatchSize: 100,
		Scheme:    fakeSeqScheme(1000),
		Range:     partition.Range{Start: 0, End: 250},
	}

	events := collectEvents(t, context.Background(), task)
	require.Len(t, events, 4)

	assert.Equal(t, EventProgress, events[0].Kind)
	assert.Equal(t, uint64(100), events[0].Attempts)
	assert.Equal(t, "v00099", events[0].LastAttempt)
	assert.Equal(t, EventProgress, events[1].Kind)
	assert.Equal(t, uint64(100), events[1].Attempts)
	assert.Equal(t, EventProgress, events[2].Kind)
	assert.Equal(t, uint64(50), events[2].Attempts)
	assert.Equal(t, "v00249", events[2].LastAttempt)
	assert.Equal(t, EventExhausted, events[3].Kind)
}

func TestWorkerSequentialFindsTarget(t *testing.T) {
	task := partition.Task{
		Mode:      partition.Sequential,
		Target:    "v00120",
		BatchSize: 100,
		Scheme:    fakeSeqScheme(1000),
		Range:     partition.Range{Start: 0, End: 1000},
	}

	events := collectEvents(t, context.Background(), task)
	require.Len(t, events, 2)

	assert.Equal(t, EventProgress, events[0].Kind)
	assert.Equal(t, uint64(100), events[0].Attempts)
	require.Equal(t, EventMatch, events[1].Kind)
	assert.Equal(t, "v00120", events[1].Value)
}

func TestWorkerHaltsOnMatchMidBatch(t *testing.T) {
	// Target sits in the middle of the first batch; the worker must emit
	// exactly one Match and nothing else.
	task := partition.Task{
		Mode:      partition.Sequential,
		Target:    "v00042",
		BatchSize: 100,
		Scheme:    fakeSeqScheme(1000),
		Range:     partition.Range{Start: 0, End: 1000},
	}

	events := collectEvents(t, context.Background(), task)
	require.Len(t, events, 1)
	assert.Equal(t, EventMatch, events[0].Kind)
	assert.Equal(t, "v00042", events[0].Value)
}

func TestWorkerEmptyRangeExhaustsImmediately(t *testing.T) {
	task := partition.Task{
		Mode:      partition.Sequential,
		Target:    "x",
		BatchSize: 100,
		Scheme:    fakeSeqScheme(10),
		Range:     partition.Range{Start: 10, End: 10},
	}

	events := collectEvents(t, context.Background(), task)
	require.Len(t, events, 1)
	assert.Equal(t, EventExhausted, events[0].Kind)
}

func TestWorkerWordlistExhaustsSlice(t *testing.T) {
	task := partition.Task{
		Mode:      partition.Wordlist,
		Target:    "missing",
		BatchSize: 100,
		Slice:     []string{"alpha", "beta", "gamma"},
	}

	events := collectEvents(t, context.Background(), task)
	require.Len(t, events, 2)

	assert.Equal(t, EventProgress, events[0].Kind)
	assert.Equal(t, uint64(3), events[0].Attempts)
	assert.Equal(t, "gamma", events[0].LastAttempt)
	assert.Equal(t, EventExhausted, events[1].Kind)
}

func TestWorkerWordlistFindsTarget(t *testing.T) {
	task := partition.Task{
		Mode:      partition.Wordlist,
		Target:    "beta",
		BatchSize: 100,
		Slice:     []string{"alpha", "beta", "gamma"},
	}

	events := collectEvents(t, context.Background(), task)
	require.Len(t, events, 1)
	assert.Equal(t, EventMatch, events[0].Kind)
	assert.Equal(t, "beta", events[0].Value)
}

func TestWorkerRandomFindsTarget(t *testing.T) {
	// The fake generator cycles deterministically, so the target always
	// turns up within one cycle.
	task := partition.Task{
		Mode:      partition.Random,
		Target:    "v00007",
		BatchSize: 100,
		Scheme:    fakeSeqScheme(10),
	}

	events := collectEvents(t, context.Background(), task)
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, EventMatch, last.Kind)
	assert.Equal(t, "v00007", last.Value)
}

func TestWorkerRandomStopsSilentlyOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	task := partition.Task{
		Mode:      partition.Random,
		Target:    "never",
		BatchSize: 100,
		Scheme:    fakeSeqScheme(10),
	}

	out := make(chan Event)
	done := make(chan struct{})
	go func() {
		defer close(done)
		runWorker(ctx, task, out)
	}()

	// Let a couple of batches through, then stop.
	for i := 0; i < 2; i++ {
		ev := <-out
		assert.Equal(t, EventProgress, ev.Kind)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not observe cancellation")
	}

	// No Exhausted, no trailing events after the stop signal.
	select {
	case ev, ok := <-out:
		require.False(t, ok, "unexpected event after stop: %+v", ev)
	default:
	}
}

func TestWorkerSetupErrors(t *testing.T) {
	noEnum := &scheme.Scheme{Key: "opaque", Bits: 10, Generate: func() string { return "x" }}

	tests := []struct {
		name string
		task partition.Task
	}{
		{"sequential without enumerator", partition.Task{Mode: partition.Sequential, Target: "x", BatchSize: 100, Scheme: noEnum}},
		{"random without generator", partition.Task{Mode: partition.Random, Target: "x", BatchSize: 100, Scheme: &scheme.Scheme{Key: "broken"}}},
		{"unknown mode", partition.Task{Mode: partition.Mode(99), Target: "x", BatchSize: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := collectEvents(t, context.Background(), tt.task)
			require.Len(t, events, 1)
			assert.Equal(t, EventError, events[0].Kind)
			assert.NotEmpty(t, events[0].Message)
		})
	}
}
