package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/soundsense-team/soundsense/internal/config"
	"github.com/soundsense-team/soundsense/internal/engine"
	"github.com/soundsense-team/soundsense/internal/manager"
	"github.com/soundsense-team/soundsense/internal/model"
	"github.com/soundsense-team/soundsense/internal/platform"
)

// --- Mock types ---

type MockEngine struct {
	mock.Mock
	fw engine.Framework
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

func readyManager(t *testing.T, eng engine.Engine) *manager.Manager {
	t.Helper()

	mgr := manager.New(func(fw engine.Framework) (engine.Engine, error) {
		if fw != eng.Framework() {
			return nil, fmt.Errorf("%w: %q", engine.ErrUnknownFramework, fw)
		}
		return eng, nil
	}, platform.Static{GOOS: "linux"})

	require.NoError(t, mgr.Initialize(context.Background(), eng.Framework()))
	return mgr
}

func testRegistry(labels []string) *model.Registry {
	registry := model.NewRegistry(&config.Config{})
	instance := model.NewInstance(&config.ModelConfig{}, "yamnet", "/tmp/models/yamnet")
	instance.Labels = labels
	registry.Set(instance)
	return registry
}

// --- Tests ---

func TestClassifier_Classify(t *testing.T) {
	eng := &MockEngine{fw: engine.FrameworkTFLiteCPU}
	eng.On("Initialize", mock.Anything).Return(nil).Once()
	eng.On("Infer", mock.Anything, mock.Anything).Return(engine.Result{
		engine.ResultKeyIndex:  1,
		engine.ResultKeyScore:  0.87,
		engine.ResultKeyScores: []float64{0.1, 0.87, 0.03},
	}, nil).Once()

	svc := NewClassifier(readyManager(t, eng), testRegistry([]string{"Silence", "Dog bark", "Siren"}), "yamnet")

	got, err := svc.Classify(context.Background(), []float64{0.1, 0.2})
	require.NoError(t, err)

	assert.Equal(t, "Dog bark", got.Label)
	assert.Equal(t, 1, got.Index)
	assert.Equal(t, 0.87, got.Score)
	assert.Equal(t, engine.FrameworkTFLiteCPU, got.Framework)

	eng.AssertExpectations(t)
}

func TestClassifier_IndexOutsideLabelList(t *testing.T) {
	eng := &MockEngine{fw: engine.FrameworkTFLiteCPU}
	eng.On("Initialize", mock.Anything).Return(nil).Once()
	eng.On("Infer", mock.Anything, mock.Anything).Return(engine.Result{
		engine.ResultKeyIndex: 40,
		engine.ResultKeyScore: 0.5,
	}, nil).Once()

	svc := NewClassifier(readyManager(t, eng), testRegistry([]string{"Silence"}), "yamnet")

	got, err := svc.Classify(context.Background(), []float64{0.1})
	require.NoError(t, err)
	assert.Empty(t, got.Label)
	assert.Equal(t, 40, got.Index)
}

func TestClassifier_ModelNotFound(t *testing.T) {
	eng := &MockEngine{fw: engine.FrameworkTFLiteCPU}
	eng.On("Initialize", mock.Anything).Return(nil).Once()

	svc := NewClassifier(readyManager(t, eng), testRegistry(nil), "missing")

	_, err := svc.Classify(context.Background(), []float64{0.1})
	assert.ErrorIs(t, err, model.ErrNotFound)

	eng.AssertNotCalled(t, "Infer", mock.Anything, mock.Anything)
}

func TestClassifier_NotInitialized(t *testing.T) {
	mgr := manager.New(func(fw engine.Framework) (engine.Engine, error) {
		return nil, fmt.Errorf("%w: %q", engine.ErrUnknownFramework, fw)
	}, platform.Static{GOOS: "linux"})

	svc := NewClassifier(mgr, testRegistry([]string{"Silence"}), "yamnet")

	_, err := svc.Classify(context.Background(), []float64{0.1})
	assert.ErrorIs(t, err, engine.ErrNotInitialized)
}
