package http

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/soundsense-team/soundsense/internal/bench"
)

type (
	BenchmarkRequestDTO struct {
		Samples []float64 `json:"samples"`
	}

	BenchmarkResultDTO struct {
		Framework  string  `json:"framework"`
		Iterations int     `json:"iterations"`
		AvgMillis  float64 `json:"avg_ms"`
		MinMillis  float64 `json:"min_ms"`
		MaxMillis  float64 `json:"max_ms"`
	}

	BenchmarkResponseDTO struct {
		Results  []BenchmarkResultDTO `json:"results"`
		Skipped  map[string]string    `json:"skipped,omitempty"`
		Failures map[string]string    `json:"failures,omitempty"`
	}
)

type (
	BenchmarkInput struct {
		Body BenchmarkRequestDTO
	}

	BenchmarkOutput struct {
		Body BenchmarkResponseDTO
	}
)

// BenchmarkHandler handles HTTP requests for the benchmark harness.
type BenchmarkHandler struct {
	harness *bench.Harness
}

// NewBenchmarkHandler creates a new BenchmarkHandler instance.
func NewBenchmarkHandler(api huma.API, harness *bench.Harness) *BenchmarkHandler {
	h := &BenchmarkHandler{harness: harness}

	huma.Register(api, huma.Operation{
		OperationID:   "benchmark",
		Method:        "POST",
		Path:          "/benchmark",
		Summary:       "Benchmark every known inference framework",
		Tags:          []string{"benchmark"},
		DefaultStatus: http.StatusOK,
	}, h.handleBenchmark)

	return h
}

// handleBenchmark handles the benchmark operation.
func (h *BenchmarkHandler) handleBenchmark(ctx context.Context, input *BenchmarkInput) (*BenchmarkOutput, error) {
	report := h.harness.Run(ctx, input.Body.Samples)

	out := BenchmarkResponseDTO{
		Results:  make([]BenchmarkResultDTO, 0, len(report.Results)),
		Skipped:  make(map[string]string, len(report.Skipped)),
		Failures: make(map[string]string, len(report.Failures)),
	}

	for fw, res := range report.Results {
		out.Results = append(out.Results, BenchmarkResultDTO{
			Framework:  string(fw),
			Iterations: res.Iterations,
			AvgMillis:  millis(res.AvgInference),
			MinMillis:  millis(res.MinInference),
			MaxMillis:  millis(res.MaxInference),
		})
	}
	for fw, reason := range report.Skipped {
		out.Skipped[string(fw)] = reason
	}
	for fw, err := range report.Failures {
		out.Failures[string(fw)] = err.Error()
	}

	return &BenchmarkOutput{Body: out}, nil
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
