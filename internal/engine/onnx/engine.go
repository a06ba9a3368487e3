// Package onnx wraps an ONNX Runtime runner binary, the cross-platform
// alternative to the TFLite engines on desktop hosts.
package onnx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/soundsense-team/soundsense/internal/engine"
	"github.com/soundsense-team/soundsense/internal/platform"
)

const inferTimeout = 30 * time.Second

// Engine implements engine.Engine over the onnxruntime runner binary.
type Engine struct {
	binPath  string
	modelDir string
	threads  int
	platform platform.Provider
	runner   engine.CommandRunner
	executor *engine.Executor
}

// Option configures an Engine.
type Option func(*Engine)

// WithRunner substitutes the command runner, bypassing the binary
// existence check. Used by tests.
func WithRunner(r engine.CommandRunner) Option {
	return func(e *Engine) {
		e.runner = r
	}
}

// New creates an ONNX Runtime engine.
func New(binPath, modelDir string, threads int, p platform.Provider, opts ...Option) *Engine {
	e := &Engine{
		binPath:  binPath,
		modelDir: modelDir,
		threads:  threads,
		platform: p,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Framework implements engine.Engine.
func (e *Engine) Framework() engine.Framework {
	return engine.FrameworkONNXRuntime
}

// Available implements engine.Engine. ONNX Runtime ships for desktop
// targets only.
func (e *Engine) Available() bool {
	switch e.platform.OS() {
	case "linux", "darwin", "windows":
		return true
	default:
		return false
	}
}

// Initialize implements engine.Engine.
func (e *Engine) Initialize(_ context.Context) error {
	if !e.Available() {
		return &engine.UnavailableError{Framework: e.Framework(), OS: e.platform.OS()}
	}

	if _, err := e.resolveModel(); err != nil {
		return err
	}

	if e.runner != nil {
		e.executor = engine.NewExecutorWithRunner(e.binPath, inferTimeout, e.runner)
		return nil
	}

	executor, err := engine.NewExecutor(e.binPath, inferTimeout)
	if err != nil {
		return err
	}
	e.executor = executor

	return nil
}

// Infer implements engine.Engine.
func (e *Engine) Infer(ctx context.Context, samples []float64) (engine.Result, error) {
	if e.executor == nil {
		return nil, engine.ErrNotInitialized
	}

	modelPath, err := e.resolveModel()
	if err != nil {
		return nil, err
	}

	args := []string{"--model", modelPath}
	if e.threads > 0 {
		args = append(args, "--intra-op-threads", fmt.Sprintf("%d", e.threads))
	}

	stdout, stderr, err := e.executor.Execute(ctx, args, bytes.NewReader(engine.EncodeSamples(samples)))
	if err != nil {
		return nil, fmt.Errorf("execution failed: %w\nstderr: %s", err, stderr)
	}

	var out struct {
		Index  int       `json:"index"`
		Score  float64   `json:"score"`
		Scores []float64 `json:"scores"`
	}
	if err := json.Unmarshal(stdout, &out); err != nil {
		return nil, fmt.Errorf("failed to decode runner output: %w", err)
	}

	return engine.Result{
		engine.ResultKeyIndex:  out.Index,
		engine.ResultKeyScore:  out.Score,
		engine.ResultKeyScores: out.Scores,
	}, nil
}

// Dispose implements engine.Engine.
func (e *Engine) Dispose() error {
	e.executor = nil
	return nil
}

// resolveModel locates the .onnx model file inside the model directory.
func (e *Engine) resolveModel() (string, error) {
	matches, err := filepath.Glob(filepath.Join(e.modelDir, "*.onnx"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no .onnx model found in %s", e.modelDir)
	}
	return matches[0], nil
}
