// Package coreml wraps a Core ML sidecar server. The compiled model
// stays resident in the server between calls, so Initialize starts the
// process and Dispose stops it.
package coreml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/soundsense-team/soundsense/internal/engine"
	"github.com/soundsense-team/soundsense/internal/platform"
)

const serverName = "coreml"

// Engine implements engine.Engine over a local Core ML classifier server.
type Engine struct {
	binPath       string
	modelDir      string
	port          int
	platform      platform.Provider
	serverManager *engine.ServerManager
	client        *http.Client
	initialized   bool
}

// New creates a Core ML engine.
func New(binPath, modelDir string, port int, p platform.Provider, sm *engine.ServerManager) *Engine {
	return &Engine{
		binPath:       binPath,
		modelDir:      modelDir,
		port:          port,
		platform:      p,
		serverManager: sm,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Framework implements engine.Engine.
func (e *Engine) Framework() engine.Framework {
	return engine.FrameworkCoreML
}

// Available implements engine.Engine. Core ML exists on Apple platforms.
func (e *Engine) Available() bool {
	switch e.platform.OS() {
	case "darwin", "ios":
		return true
	default:
		return false
	}
}

// Initialize implements engine.Engine. Starting the server compiles and
// loads the model, so a ready server means a ready engine.
func (e *Engine) Initialize(_ context.Context) error {
	if !e.Available() {
		return &engine.UnavailableError{Framework: e.Framework(), OS: e.platform.OS()}
	}

	modelPath, err := e.resolveModel()
	if err != nil {
		return err
	}

	if err := e.serverManager.StartServer(engine.ServerConfig{
		Name:    serverName,
		BinPath: e.binPath,
		Args: []string{
			"--model", modelPath,
			"--port", fmt.Sprintf("%d", e.port),
			"--host", "127.0.0.1",
		},
		Port: e.port,
	}); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	e.initialized = true
	return nil
}

// Infer implements engine.Engine.
func (e *Engine) Infer(ctx context.Context, samples []float64) (engine.Result, error) {
	if !e.initialized {
		return nil, engine.ErrNotInitialized
	}

	body, err := json.Marshal(struct {
		Samples []float64 `json:"samples"`
	}{Samples: samples})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx,
		http.MethodPost,
		fmt.Sprintf("http://localhost:%d/classify", e.port),
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}
		return nil, fmt.Errorf("request failed with status code %d: %s", resp.StatusCode, msg)
	}

	var out struct {
		Index  int       `json:"index"`
		Score  float64   `json:"score"`
		Scores []float64 `json:"scores"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return engine.Result{
		engine.ResultKeyIndex:  out.Index,
		engine.ResultKeyScore:  out.Score,
		engine.ResultKeyScores: out.Scores,
	}, nil
}

// Dispose implements engine.Engine. StopServer on a stopped server is a
// no-op, which keeps Dispose idempotent.
func (e *Engine) Dispose() error {
	e.initialized = false
	return e.serverManager.StopServer(serverName, e.port)
}

// resolveModel locates the compiled .mlmodelc bundle (or source
// .mlmodel) inside the model directory.
func (e *Engine) resolveModel() (string, error) {
	for _, pattern := range []string{"*.mlmodelc", "*.mlmodel"} {
		matches, err := filepath.Glob(filepath.Join(e.modelDir, pattern))
		if err != nil {
			return "", err
		}
		if len(matches) > 0 {
			return matches[0], nil
		}
	}
	return "", fmt.Errorf("no Core ML model found in %s", e.modelDir)
}
