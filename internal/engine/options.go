package engine

// Option configures a Coordinator with optional dependencies.
type Option func(*Coordinator)

// WithLogger sets a structured logger. Defaults to a no-op logger.
func WithLogger(logger Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets a metrics collector. Defaults to a no-op collector.
func WithMetrics(metrics Collector) Option {
	return func(c *Coordinator) {
		if metrics != nil {
			c.metrics = metrics
		}
	}
}
