package coreml

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundsense-team/soundsense/internal/engine"
	"github.com/soundsense-team/soundsense/internal/platform"
)

var darwin = platform.Static{GOOS: "darwin"}

// sidecarBinary writes a stand-in server binary. The stub listener
// answers the HTTP surface, so the process only has to exist and stay
// alive until Dispose kills it.
func sidecarBinary(t *testing.T) string {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "coreml-audio-server")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\nsleep 30\n"), 0o755))
	return bin
}

func modelDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sound.mlmodel"), []byte("stub"), 0o644))
	return dir
}

// stubListener serves the sidecar's health and classify endpoints on an
// ephemeral port and returns that port.
func stubListener(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/classify", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Samples []float64 `json:"samples"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"index":  2,
			"score":  0.9,
			"scores": []float64{0.05, 0.05, 0.9},
		})
	})

	srv := &http.Server{Handler: mux}
	go srv.Serve(ln)
	t.Cleanup(func() { srv.Close() })

	return ln.Addr().(*net.TCPAddr).Port
}

func TestEngine_Framework(t *testing.T) {
	e := New("", "", 0, darwin, nil)
	assert.Equal(t, engine.FrameworkCoreML, e.Framework())
}

func TestEngine_Available(t *testing.T) {
	for goos, want := range map[string]bool{
		"darwin":  true,
		"ios":     true,
		"linux":   false,
		"android": false,
		"windows": false,
	} {
		e := New("", "", 0, platform.Static{GOOS: goos}, nil)
		assert.Equal(t, want, e.Available(), "goos=%s", goos)
	}
}

func TestEngine_InitializeUnavailable(t *testing.T) {
	e := New(sidecarBinary(t), modelDir(t), 8083, platform.Static{GOOS: "linux"}, engine.NewServerManager())

	err := e.Initialize(context.Background())
	var unavailable *engine.UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, engine.FrameworkCoreML, unavailable.Framework)
	assert.Equal(t, "linux", unavailable.OS)
}

func TestEngine_InitializeMissingModel(t *testing.T) {
	e := New(sidecarBinary(t), t.TempDir(), 8083, darwin, engine.NewServerManager())

	err := e.Initialize(context.Background())
	assert.ErrorContains(t, err, "no Core ML model found")
}

func TestEngine_InferBeforeInitialize(t *testing.T) {
	e := New(sidecarBinary(t), modelDir(t), 8083, darwin, engine.NewServerManager())

	_, err := e.Infer(context.Background(), []float64{0.1})
	assert.ErrorIs(t, err, engine.ErrNotInitialized)
}

func TestEngine_InitializeAndInfer(t *testing.T) {
	port := stubListener(t)
	sm := engine.NewServerManager()
	e := New(sidecarBinary(t), modelDir(t), port, darwin, sm)

	require.NoError(t, e.Initialize(context.Background()))
	assert.True(t, sm.IsRunning(serverName, port))

	res, err := e.Infer(context.Background(), []float64{0.1, -0.2, 0.3})
	require.NoError(t, err)
	assert.Equal(t, 2, res[engine.ResultKeyIndex])
	assert.Equal(t, 0.9, res[engine.ResultKeyScore])
	assert.Len(t, res[engine.ResultKeyScores], 3)

	require.NoError(t, e.Dispose())
	assert.False(t, sm.IsRunning(serverName, port))
}

func TestEngine_DisposeIsIdempotent(t *testing.T) {
	port := stubListener(t)
	sm := engine.NewServerManager()
	e := New(sidecarBinary(t), modelDir(t), port, darwin, sm)

	require.NoError(t, e.Initialize(context.Background()))
	require.NoError(t, e.Dispose())
	require.NoError(t, e.Dispose())

	assert.False(t, sm.IsRunning(serverName, port))

	_, err := e.Infer(context.Background(), []float64{0.1})
	assert.ErrorIs(t, err, engine.ErrNotInitialized)
}

func TestEngine_SeparateSupervisorsKeepSidecarsApart(t *testing.T) {
	bin := sidecarBinary(t)
	dir := modelDir(t)

	livePort := stubListener(t)
	liveSM := engine.NewServerManager()
	live := New(bin, dir, livePort, darwin, liveSM)
	require.NoError(t, live.Initialize(context.Background()))

	benchPort := stubListener(t)
	benchSM := engine.NewServerManager()
	transient := New(bin, dir, benchPort, darwin, benchSM)
	require.NoError(t, transient.Initialize(context.Background()))

	// One sidecar per supervisor, each on its own port.
	assert.True(t, liveSM.IsRunning(serverName, livePort))
	assert.True(t, benchSM.IsRunning(serverName, benchPort))

	// Disposing the transient engine must not stop the live sidecar.
	require.NoError(t, transient.Dispose())
	assert.False(t, benchSM.IsRunning(serverName, benchPort))
	assert.True(t, liveSM.IsRunning(serverName, livePort))

	res, err := live.Infer(context.Background(), []float64{0.1, 0.2})
	require.NoError(t, err)
	assert.Equal(t, 2, res[engine.ResultKeyIndex])

	require.NoError(t, live.Dispose())
	assert.False(t, liveSM.IsRunning(serverName, livePort))
}
