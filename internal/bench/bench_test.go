package bench

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/soundsense-team/soundsense/internal/engine"
)

// --- Mock types ---

type MockEngine struct {
	mock.Mock
	fw engine.Framework
}

func NewMockEngine(fw engine.Framework) *MockEngine {
	return &MockEngine{fw: fw}
}

func (m *MockEngine) Framework() engine.Framework {
	return m.fw
}

func (m *MockEngine) Available() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockEngine) Initialize(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEngine) Infer(ctx context.Context, samples []float64) (engine.Result, error) {
	args := m.Called(ctx, samples)
	if res, ok := args.Get(0).(engine.Result); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEngine) Dispose() error {
	args := m.Called()
	return args.Error(0)
}

func mockFactory(engines map[engine.Framework]engine.Engine) engine.Factory {
	return func(fw engine.Framework) (engine.Engine, error) {
		e, ok := engines[fw]
		if !ok {
			return nil, fmt.Errorf("%w: %q", engine.ErrUnknownFramework, fw)
		}
		return e, nil
	}
}

// measuredEngine builds a mock that initializes and answers every
// inference claim.
func measuredEngine(fw engine.Framework, calls int) *MockEngine {
	e := NewMockEngine(fw)
	e.On("Available").Return(true)
	e.On("Initialize", mock.Anything).Return(nil).Once()
	e.On("Infer", mock.Anything, mock.Anything).
		Return(engine.Result{engine.ResultKeyIndex: 0}, nil).Times(calls)
	e.On("Dispose").Return(nil).Once()
	return e
}

func unavailableEngine(fw engine.Framework) *MockEngine {
	e := NewMockEngine(fw)
	e.On("Available").Return(false)
	return e
}

// --- Tests ---

func TestHarness_Run(t *testing.T) {
	const warmup, trials = 2, 5

	cpu := measuredEngine(engine.FrameworkTFLiteCPU, warmup+trials)
	onnx := measuredEngine(engine.FrameworkONNXRuntime, warmup+trials)
	gpu := unavailableEngine(engine.FrameworkTFLiteGPU)
	nnapi := unavailableEngine(engine.FrameworkTFLiteNNAPI)

	coreml := NewMockEngine(engine.FrameworkCoreML)
	coreml.On("Available").Return(true)
	coreml.On("Initialize", mock.Anything).Return(errors.New("server did not become ready")).Once()

	h := NewHarness(mockFactory(map[engine.Framework]engine.Engine{
		engine.FrameworkTFLiteCPU:   cpu,
		engine.FrameworkTFLiteGPU:   gpu,
		engine.FrameworkTFLiteNNAPI: nnapi,
		engine.FrameworkONNXRuntime: onnx,
		engine.FrameworkCoreML:      coreml,
	}), warmup, trials)

	report := h.Run(context.Background(), []float64{0.1, 0.2, 0.3})

	// Every framework lands in exactly one bucket.
	assert.Len(t, report.Results, 2)
	assert.Len(t, report.Skipped, 2)
	assert.Len(t, report.Failures, 1)

	for fw, res := range report.Results {
		assert.Contains(t, engine.Frameworks, fw)
		assert.Equal(t, trials, res.Iterations)
		assert.LessOrEqual(t, res.MinInference, res.AvgInference, "framework %s", fw)
		assert.LessOrEqual(t, res.AvgInference, res.MaxInference, "framework %s", fw)
	}

	assert.Contains(t, report.Skipped, engine.FrameworkTFLiteGPU)
	assert.Contains(t, report.Skipped, engine.FrameworkTFLiteNNAPI)
	assert.Contains(t, report.Failures, engine.FrameworkCoreML)

	// Unavailable engines are never initialized; failed ones are never
	// disposed because initialize acquired nothing.
	gpu.AssertNotCalled(t, "Initialize", mock.Anything)
	nnapi.AssertNotCalled(t, "Initialize", mock.Anything)
	coreml.AssertNotCalled(t, "Dispose")

	cpu.AssertExpectations(t)
	onnx.AssertExpectations(t)
	coreml.AssertExpectations(t)
}

func TestHarness_InferFailureRecordedAsFailure(t *testing.T) {
	const warmup, trials = 1, 3

	cpu := NewMockEngine(engine.FrameworkTFLiteCPU)
	cpu.On("Available").Return(true)
	cpu.On("Initialize", mock.Anything).Return(nil).Once()
	cpu.On("Infer", mock.Anything, mock.Anything).Return(nil, errors.New("scratch buffer overflow")).Once()
	cpu.On("Dispose").Return(nil).Once()

	h := NewHarness(mockFactory(map[engine.Framework]engine.Engine{
		engine.FrameworkTFLiteCPU: cpu,
	}), warmup, trials)

	report := h.Run(context.Background(), []float64{0.5})

	assert.Empty(t, report.Results)
	assert.Contains(t, report.Failures, engine.FrameworkTFLiteCPU)

	// The engine is still disposed after a mid-run failure.
	cpu.AssertExpectations(t)
}

func TestHarness_ConstructionFailureRecorded(t *testing.T) {
	h := NewHarness(mockFactory(nil), 1, 1)

	report := h.Run(context.Background(), nil)

	assert.Empty(t, report.Results)
	assert.Len(t, report.Failures, len(engine.Frameworks))
}
