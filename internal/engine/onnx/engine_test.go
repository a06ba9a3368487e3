package onnx

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundsense-team/soundsense/internal/engine"
	"github.com/soundsense-team/soundsense/internal/platform"
)

type fakeRunner struct {
	args   []string
	stdin  []byte
	stdout []byte
	err    error
}

func (f *fakeRunner) Run(_ context.Context, _ string, args []string, stdin io.Reader) ([]byte, []byte, error) {
	f.args = args
	if stdin != nil {
		f.stdin, _ = io.ReadAll(stdin)
	}
	return f.stdout, nil, f.err
}

func modelDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "yamnet.onnx"), []byte("stub"), 0o644))
	return dir
}

func TestEngine_Available(t *testing.T) {
	for goos, want := range map[string]bool{
		"linux":   true,
		"darwin":  true,
		"windows": true,
		"android": false,
		"ios":     false,
		"js":      false,
	} {
		e := New("/usr/bin/ort-audio", "", 0, platform.Static{GOOS: goos})
		assert.Equal(t, want, e.Available(), "goos=%s", goos)
	}
}

func TestEngine_InitializeAndInfer(t *testing.T) {
	runner := &fakeRunner{stdout: []byte(`{"index":0,"score":0.6,"scores":[0.6,0.4]}`)}
	dir := modelDir(t)
	e := New("/usr/bin/ort-audio", dir, 4, platform.Static{GOOS: "linux"}, WithRunner(runner))

	require.NoError(t, e.Initialize(context.Background()))

	res, err := e.Infer(context.Background(), []float64{0.5, -0.5})
	require.NoError(t, err)

	assert.Equal(t, 0, res[engine.ResultKeyIndex])
	assert.Equal(t, 0.6, res[engine.ResultKeyScore])
	assert.Len(t, runner.stdin, 8)
	assert.Contains(t, runner.args, filepath.Join(dir, "yamnet.onnx"))
	assert.Contains(t, runner.args, "--intra-op-threads")
}

func TestEngine_InitializeUnavailable(t *testing.T) {
	e := New("/usr/bin/ort-audio", modelDir(t), 0, platform.Static{GOOS: "android"})

	err := e.Initialize(context.Background())
	var unavailable *engine.UnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

func TestEngine_InferBeforeInitialize(t *testing.T) {
	e := New("/usr/bin/ort-audio", modelDir(t), 0, platform.Static{GOOS: "linux"})

	_, err := e.Infer(context.Background(), []float64{0.1})
	assert.ErrorIs(t, err, engine.ErrNotInitialized)
}
