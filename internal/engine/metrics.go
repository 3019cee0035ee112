package engine

// Collector receives instrumentation from the coordinator. All methods
// are called from the single event-loop goroutine, one at a time.
type Collector interface {
	// RecordRunStart is called once per run after workers are spawned.
	RecordRunStart(mode string, workers int)

	// ObserveBatch is called for every progress event.
	ObserveBatch(attempts uint64)

	// RecordWorkerError is called when a worker reports a setup failure.
	RecordWorkerError()

	// RecordWorkerExhausted is called when a worker drains its partition.
	RecordWorkerExhausted()

	// RecordOutcome is called once per run with its terminal reason.
	RecordOutcome(reason string, totalAttempts uint64, elapsedSeconds float64)
}

// nopCollector is the default when no collector is injected.
type nopCollector struct{}

func (nopCollector) RecordRunStart(string, int) {}

func (nopCollector) ObserveBatch(uint64) {}

func (nopCollector) RecordWorkerError() {}

func (nopCollector) RecordWorkerExhausted() {}

func (nopCollector) RecordOutcome(string, uint64, float64) {}
