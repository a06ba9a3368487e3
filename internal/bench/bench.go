// Package bench measures inference latency across every known
// framework. The harness owns its own transient engines; it never
// touches the manager's active engine, so benchmarking cannot disturb
// in-flight application inference.
package bench

import (
	"context"
	"log/slog"
	"time"

	"github.com/soundsense-team/soundsense/internal/engine"
)

// Result aggregates timing for one framework over a benchmark run.
type Result struct {
	Framework    engine.Framework `json:"framework"`
	Iterations   int              `json:"iterations"`
	AvgInference time.Duration    `json:"avg_inference"`
	MinInference time.Duration    `json:"min_inference"`
	MaxInference time.Duration    `json:"max_inference"`
}

// Report is the outcome of a full benchmark run. Frameworks land in
// exactly one of the three maps: measured, skipped because the platform
// cannot run them, or failed during initialize/infer.
type Report struct {
	Results  map[engine.Framework]*Result
	Skipped  map[engine.Framework]string
	Failures map[engine.Framework]error
}

// Harness benchmarks all known frameworks sequentially, one engine at a
// time, so timings stay free of cross-engine contention.
type Harness struct {
	factory engine.Factory
	warmup  int
	trials  int
}

// NewHarness creates a benchmark harness. Warmup runs are discarded;
// trials are timed.
func NewHarness(factory engine.Factory, warmup, trials int) *Harness {
	if warmup < 0 {
		warmup = 0
	}
	if trials < 1 {
		trials = 1
	}
	return &Harness{
		factory: factory,
		warmup:  warmup,
		trials:  trials,
	}
}

// Run benchmarks every known framework with the given sample window.
// A failing framework is recorded and iteration continues; only the
// harness itself erroring would stop a run, and it has no failure mode
// beyond its engines.
func (h *Harness) Run(ctx context.Context, samples []float64) *Report {
	report := &Report{
		Results:  make(map[engine.Framework]*Result),
		Skipped:  make(map[engine.Framework]string),
		Failures: make(map[engine.Framework]error),
	}

	for _, fw := range engine.Frameworks {
		h.runOne(ctx, fw, samples, report)
	}

	return report
}

func (h *Harness) runOne(ctx context.Context, fw engine.Framework, samples []float64, report *Report) {
	eng, err := h.factory(fw)
	if err != nil {
		report.Failures[fw] = err
		return
	}

	if !eng.Available() {
		report.Skipped[fw] = "unavailable on this platform"
		slog.Debug("Benchmark skipping framework", "framework", fw)
		return
	}

	if err := eng.Initialize(ctx); err != nil {
		report.Failures[fw] = err
		slog.Warn("Benchmark framework failed to initialize", "framework", fw, "error", err)
		return
	}
	defer func() {
		if err := eng.Dispose(); err != nil {
			slog.Warn("Benchmark engine dispose failed", "framework", fw, "error", err)
		}
	}()

	for i := 0; i < h.warmup; i++ {
		if _, err := eng.Infer(ctx, samples); err != nil {
			report.Failures[fw] = err
			slog.Warn("Benchmark warm-up failed", "framework", fw, "error", err)
			return
		}
	}

	var total, min, max time.Duration
	for i := 0; i < h.trials; i++ {
		start := time.Now()
		if _, err := eng.Infer(ctx, samples); err != nil {
			report.Failures[fw] = err
			slog.Warn("Benchmark trial failed", "framework", fw, "trial", i, "error", err)
			return
		}
		elapsed := time.Since(start)

		total += elapsed
		if i == 0 || elapsed < min {
			min = elapsed
		}
		if elapsed > max {
			max = elapsed
		}
	}

	report.Results[fw] = &Result{
		Framework:    fw,
		Iterations:   h.trials,
		AvgInference: total / time.Duration(h.trials),
		MinInference: min,
		MaxInference: max,
	}

	slog.Info("Benchmark completed",
		"framework", fw,
		"iterations", h.trials,
		"avg", report.Results[fw].AvgInference,
		"min", min,
		"max", max)
}
