// Package tflite wraps a TensorFlow Lite runner binary. One engine type
// serves three frameworks, distinguished by the delegate handed to the
// runner: plain CPU, the GPU delegate, or the Android NNAPI delegate.
package tflite

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

// Delegate selects the execution backend of the runner.
type Delegate string

const (
	DelegateCPU   Delegate = "cpu"
	DelegateGPU   Delegate = "gpu"
	DelegateNNAPI Delegate = "nnapi"
)

const inferTimeout = 30 * time.Second

// Engine implements engine.Engine over the tflite runner binary.
type Engine struct {
	delegate Delegate
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

// New creates a tflite engine. Construction does not touch runtime
// resources; Initialize does.
func New(delegate Delegate, binPath, modelDir string, threads int, p platform.Provider, opts ...Option) *Engine {
	e := &Engine{
		delegate: delegate,
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
	switch e.delegate {
	case DelegateGPU:
		return engine.FrameworkTFLiteGPU
	case DelegateNNAPI:
		return engine.FrameworkTFLiteNNAPI
	default:
		return engine.FrameworkTFLiteCPU
	}
}

// Available implements engine.Engine.
func (e *Engine) Available() bool {
	switch e.delegate {
	case DelegateGPU:
		return e.platform.HasGPU()
	case DelegateNNAPI:
		return e.platform.OS() == "android"
	default:
		return true
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

// Infer implements engine.Engine. Samples go to the runner as
// little-endian float32 on stdin; the runner answers with one JSON
// document of class scores on stdout.
func (e *Engine) Infer(ctx context.Context, samples []float64) (engine.Result, error) {
	if e.executor == nil {
		return nil, engine.ErrNotInitialized
	}

	modelPath, err := e.resolveModel()
	if err != nil {
		return nil, err
	}

	args := []string{
		"--model", modelPath,
		"--delegate", string(e.delegate),
	}
	if e.threads > 0 {
		args = append(args, "--threads", fmt.Sprintf("%d", e.threads))
	}

	stdout, stderr, err := e.executor.Execute(ctx, args, bytes.NewReader(engine.EncodeSamples(samples)))
	if err != nil {
		return nil, fmt.Errorf("execution failed: %w\nstderr: %s", err, stderr)
	}

	return parseOutput(stdout)
}

// Dispose implements engine.Engine.
func (e *Engine) Dispose() error {
	e.executor = nil
	return nil
}

// resolveModel locates the .tflite model file inside the model directory.
func (e *Engine) resolveModel() (string, error) {
	matches, err := filepath.Glob(filepath.Join(e.modelDir, "*.tflite"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no .tflite model found in %s", e.modelDir)
	}
	return matches[0], nil
}

type runnerOutput struct {
	Index  int       `json:"index"`
	Score  float64   `json:"score"`
	Scores []float64 `json:"scores"`
}

func parseOutput(stdout []byte) (engine.Result, error) {
	var out runnerOutput
	if err := json.Unmarshal(stdout, &out); err != nil {
		return nil, fmt.Errorf("failed to decode runner output: %w", err)
	}

	return engine.Result{
		engine.ResultKeyIndex:  out.Index,
		engine.ResultKeyScore:  out.Score,
		engine.ResultKeyScores: out.Scores,
	}, nil
}
