package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Daolyap/random.daolyap.dev/internal/config"
	"github.com/Daolyap/random.daolyap.dev/internal/engine"
	"github.com/Daolyap/random.daolyap.dev/internal/estimate"
	"github.com/Daolyap/random.daolyap.dev/internal/logging"
	"github.com/Daolyap/random.daolyap.dev/internal/metrics"
	"github.com/Daolyap/random.daolyap.dev/internal/partition"
	"github.com/Daolyap/random.daolyap.dev/internal/scheme"
	"github.com/Daolyap/random.daolyap.dev/internal/wordlist"
)

var (
	version = "1.0.0"

	configFile  string
	schemeKey   string
	modeName    string
	target      string
	workers     int
	batchSize   int
	maxAttempts uint64
	wordlists   []string
	verbose     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "randhunt",
		Short: "Brute-force your way back to a freshly generated random value",
		Long: `randhunt v` + version + `
Pick a random-value scheme (UUID, IP address, credit card, ...), generate
one target value, then try to rediscover it by brute force with a pool of
concurrent workers. A demonstration of how entropy bits decide whether
guessing is feasible.`,
		RunE: runHunt,
	}

	rootCmd.Flags().StringVar(&configFile, "config", "", "YAML config file with run defaults")
	rootCmd.Flags().StringVarP(&schemeKey, "scheme", "s", "", "Scheme to attack (see 'randhunt schemes')")
	rootCmd.Flags().StringVarP(&modeName, "mode", "a", "", "Attack mode: random, sequential, wordlist")
	rootCmd.Flags().StringVarP(&target, "target", "T", "", "Explicit target value (default: freshly generated)")
	rootCmd.Flags().IntVarP(&workers, "workers", "t", 0, "Worker count (1-16)")
	rootCmd.Flags().IntVarP(&batchSize, "batch", "b", 0, "Candidates per batch (100-100000)")
	rootCmd.Flags().Uint64VarP(&maxAttempts, "max-attempts", "m", 0, "Stop after this many attempts (0 = unlimited)")
	rootCmd.Flags().StringSliceVarP(&wordlists, "wordlist", "w", nil, "Wordlist file (repeatable)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	schemesCmd := &cobra.Command{
		Use:   "schemes",
		Short: "List the scheme catalog",
		Run:   runSchemes,
	}

	estimateCmd := &cobra.Command{
		Use:   "estimate",
		Short: "Show expected time-to-match and probability curve for a configuration",
		RunE:  runEstimate,
	}
	estimateCmd.Flags().StringVarP(&schemeKey, "scheme", "s", "uuid_v4", "Scheme to estimate")
	estimateCmd.Flags().IntVarP(&workers, "workers", "t", 4, "Worker count")
	estimateCmd.Flags().IntVarP(&batchSize, "batch", "b", 1000, "Candidates per batch")

	rootCmd.AddCommand(schemesCmd, estimateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveConfig merges the config file (or defaults) with explicit flags.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("scheme") {
		cfg.Scheme = schemeKey
	}
	if cmd.Flags().Changed("mode") {
		cfg.Mode = modeName
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("batch") {
		cfg.BatchSize = batchSize
	}
	if cmd.Flags().Changed("max-attempts") {
		cfg.MaxAttempts = maxAttempts
	}
	if cmd.Flags().Changed("wordlist") {
		cfg.Wordlists = wordlists
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runHunt(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	registry := scheme.DefaultRegistry()
	s, ok := registry.Lookup(cfg.Scheme)
	if !ok {
		return fmt.Errorf("unknown scheme %q (see 'randhunt schemes')", cfg.Scheme)
	}

	mode, err := partition.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}
	if mode == partition.Sequential && !s.Enumerable() {
		fmt.Printf("scheme %s has no enumerator; falling back to random mode\n", s.Key)
		mode = partition.Random
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var words []string
	if mode == partition.Wordlist {
		words, err = wordlist.LoadFiles(ctx, cfg.Wordlists)
		if err != nil {
			return err
		}
		if len(words) == 0 {
			return fmt.Errorf("wordlist mode requires at least one non-empty wordlist (-w)")
		}
	}

	runTarget := target
	if runTarget == "" {
		runTarget = s.Generate()
	}

	fmt.Printf("randhunt v%s\n", version)
	fmt.Println("================================")
	fmt.Printf("Scheme:  %s (%.1f bits)\n", s.Key, s.Bits)
	fmt.Printf("Mode:    %s\n", mode)
	fmt.Printf("Target:  %s\n", runTarget)
	fmt.Printf("Workers: %d, batch %d\n", cfg.Workers, cfg.BatchSize)

	aps := estimate.AttemptsPerSecond(cfg.Workers, cfg.BatchSize)
	fmt.Printf("Assumed rate: %.0f attempts/sec, expected time to match: %s\n\n",
		aps, formatSeconds(estimate.ExpectedTimeToMatchSeconds(s.Bits, aps)))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted - stopping...")
		cancel()
	}()

	reg := prometheus.NewRegistry()
	coordinator := engine.NewCoordinator(
		engine.WithLogger(logging.NewSlogDefault(verbose)),
		engine.WithMetrics(metrics.NewPrometheus(reg, "randhunt")),
	)

	handle, err := coordinator.Start(ctx, engine.RunConfig{
		Scheme:      s,
		Target:      runTarget,
		Mode:        mode,
		WorkerCount: cfg.Workers,
		BatchSize:   cfg.BatchSize,
		MaxAttempts: cfg.MaxAttempts,
		Wordlist:    words,
	})
	if err != nil {
		return err
	}

	outcome := watchRun(coordinator, handle, mode, s, len(words))
	printOutcome(outcome)
	return nil
}

// watchRun polls the run snapshot on a UI tick until the run ends. The
// cadence is cosmetic; termination comes from the handle.
func watchRun(c *engine.Coordinator, handle *engine.RunHandle, mode partition.Mode, s *scheme.Scheme, wordCount int) engine.Outcome {
	bar := progressbar.NewOptions64(progressTotal(mode, s, wordCount),
		progressbar.OptionSetDescription("searching"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("attempts"),
		progressbar.OptionThrottle(100*time.Millisecond),
	)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-handle.Done():
			_ = bar.Finish()
			fmt.Fprintln(os.Stderr)
			return handle.Outcome()
		case <-ticker.C:
			snap := c.Snapshot()
			_ = bar.Set64(int64(snap.TotalAttempts))
			if len(snap.Recent) > 0 {
				last := snap.Recent[len(snap.Recent)-1]
				bar.Describe(fmt.Sprintf("searching (last: %s)", truncate(last.Value, 24)))
			}
		}
	}
}

// progressTotal returns the bar's denominator: the real space size for
// finite modes, indeterminate otherwise.
func progressTotal(mode partition.Mode, s *scheme.Scheme, wordCount int) int64 {
	switch mode {
	case partition.Sequential:
		if total := s.Enum.TotalCount(); total <= uint64(1<<62) {
			return int64(total)
		}
	case partition.Wordlist:
		return int64(wordCount)
	}
	return -1
}

func printOutcome(outcome engine.Outcome) {
	fmt.Println()
	if outcome.Matched {
		fmt.Println("================================")
		fmt.Printf("MATCH FOUND: %s\n", outcome.Value)
		fmt.Println("================================")
	} else {
		fmt.Printf("No match: %s\n", outcome.Reason)
	}
	fmt.Printf("Attempts: %d\n", outcome.TotalAttempts)
	fmt.Printf("Time:     %s\n", formatDuration(outcome.Elapsed))
	if outcome.Elapsed.Seconds() > 0 {
		fmt.Printf("Rate:     %.0f attempts/second\n", float64(outcome.TotalAttempts)/outcome.Elapsed.Seconds())
	}
	fmt.Printf("Searched: %s of the space\n", formatPercent(outcome.SearchedFraction))
}

func runSchemes(_ *cobra.Command, _ []string) {
	registry := scheme.DefaultRegistry()

	fmt.Printf("%-12s %9s %-11s %s\n", "KEY", "BITS", "SEQUENTIAL", "SAMPLE")
	for _, key := range registry.Keys() {
		s, _ := registry.Lookup(key)
		sequential := "-"
		if s.Enumerable() {
			sequential = "yes"
		}
		fmt.Printf("%-12s %9.2f %-11s %s\n", s.Key, s.Bits, sequential, s.Generate())
	}
}

func runEstimate(_ *cobra.Command, _ []string) error {
	s, ok := scheme.DefaultRegistry().Lookup(schemeKey)
	if !ok {
		return fmt.Errorf("unknown scheme %q (see 'randhunt schemes')", schemeKey)
	}

	aps := estimate.AttemptsPerSecond(workers, batchSize)

	fmt.Printf("Scheme:        %s\n", s.Key)
	fmt.Printf("Entropy:       %.2f bits (%.3g combinations)\n", s.Bits, estimate.Combinations(s.Bits))
	fmt.Printf("Assumed rate:  %.0f attempts/sec (%d workers x %d batch x %d batches/sec)\n",
		aps, workers, batchSize, estimate.BatchesPerSecond)
	fmt.Printf("Expected time: %s\n\n", formatSeconds(estimate.ExpectedTimeToMatchSeconds(s.Bits, aps)))

	fmt.Println("Probability of a match:")
	horizons := []struct {
		label string
		secs  float64
	}{
		{"1 second", 1},
		{"1 minute", 60},
		{"1 hour", 3600},
		{"1 day", 86400},
		{"30 days", 30 * 86400},
		{"1 year", 365 * 86400},
	}
	for _, h := range horizons {
		p := estimate.ProbabilityOfMatch(s.Bits, aps, h.secs)
		fmt.Printf("  after %-9s %s\n", h.label+":", formatPercent(p))
	}
	return nil
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}

// formatSeconds renders spans far beyond time.Duration's range.
func formatSeconds(secs float64) string {
	const year = 365.25 * 86400
	switch {
	case secs < 1:
		return fmt.Sprintf("%.2gs", secs)
	case secs < 120:
		return fmt.Sprintf("%.1fs", secs)
	case secs < 2*3600:
		return fmt.Sprintf("%.1f minutes", secs/60)
	case secs < 2*86400:
		return fmt.Sprintf("%.1f hours", secs/3600)
	case secs < 2*year:
		return fmt.Sprintf("%.1f days", secs/86400)
	case secs < 1e6*year:
		return fmt.Sprintf("%.0f years", secs/year)
	default:
		return fmt.Sprintf("%.2g years", secs/year)
	}
}

// formatPercent keeps tiny probabilities readable instead of rounding
// them to zero.
func formatPercent(p float64) string {
	if p >= 0.0001 {
		return fmt.Sprintf("%.2f%%", p*100)
	}
	return fmt.Sprintf("%.2g%%", p*100)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
