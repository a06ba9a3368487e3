// Package manager owns the active inference engine. It is the single
// entry point the application talks to: initialize with policy
// selection and fallback, infer, switch frameworks, dispose.
package manager

import (
	"context"
	"log/slog"
	"sync"

	"github.com/soundsense-team/soundsense/internal/engine"
	"github.com/soundsense-team/soundsense/internal/platform"
)

// Manager holds zero or one live engine. All operations are serialized
// by an internal mutex; overlapping calls block rather than interleave.
type Manager struct {
	factory  engine.Factory
	platform platform.Provider

	mu        sync.Mutex
	active    engine.Engine
	framework engine.Framework
}

// New creates an uninitialized Manager.
func New(factory engine.Factory, p platform.Provider) *Manager {
	return &Manager{
		factory:  factory,
		platform: p,
	}
}

// Initialize selects and initializes an engine. An empty preferred
// framework defers to the platform policy. When the preferred framework
// fails, the platform's fallback sequence is tried in order; if every
// candidate fails the Manager stays uninitialized and the caller gets a
// single ExhaustedError. Initializing while an engine is already
// active disposes it first, so at most one engine is ever live.
func (m *Manager) Initialize(ctx context.Context, preferred engine.Framework) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.initializeLocked(ctx, preferred)
}

func (m *Manager) initializeLocked(ctx context.Context, preferred engine.Framework) error {
	m.disposeLocked()

	if preferred == "" {
		preferred = Preferred(m.platform)
	}

	eng, err := m.tryFramework(ctx, preferred)
	if err == nil {
		m.adopt(eng, preferred)
		return nil
	}

	slog.Warn("Preferred framework failed to initialize, falling back", "framework", preferred, "error", err)
	attempts := []engine.Attempt{{Framework: preferred, Err: err}}

	for _, fw := range FallbackSequence(m.platform, preferred) {
		eng, err := m.tryFramework(ctx, fw)
		if err == nil {
			m.adopt(eng, fw)
			slog.Info("Fallback framework adopted", "framework", fw)
			return nil
		}

		slog.Warn("Fallback framework failed to initialize", "framework", fw, "error", err)
		attempts = append(attempts, engine.Attempt{Framework: fw, Err: err})
	}

	return &engine.ExhaustedError{Attempts: attempts}
}

// tryFramework constructs and initializes one candidate. A candidate
// that fails to initialize is disposed before the error is returned, so
// no half-initialized engine survives.
func (m *Manager) tryFramework(ctx context.Context, fw engine.Framework) (engine.Engine, error) {
	eng, err := m.factory(fw)
	if err != nil {
		return nil, err
	}

	if err := eng.Initialize(ctx); err != nil {
		if derr := eng.Dispose(); derr != nil {
			slog.Warn("Failed to dispose engine after failed initialize", "framework", fw, "error", derr)
		}
		return nil, err
	}

	return eng, nil
}

func (m *Manager) adopt(eng engine.Engine, fw engine.Framework) {
	m.active = eng
	m.framework = fw
}

// Infer classifies one window of samples with the active engine. Engine
// errors propagate unchanged.
func (m *Manager) Infer(ctx context.Context, samples []float64) (engine.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return nil, engine.ErrNotInitialized
	}

	return m.active.Infer(ctx, samples)
}

// SwitchFramework moves the Manager to another framework. Switching to
// the already-active framework is a no-op. Otherwise the old engine is
// disposed before the new one is constructed, and the usual fallback
// semantics apply if the requested target fails.
func (m *Manager) SwitchFramework(ctx context.Context, fw engine.Framework) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil && m.framework == fw {
		return nil
	}

	return m.initializeLocked(ctx, fw)
}

// Dispose releases the active engine, if any. Always safe to call.
func (m *Manager) Dispose() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.disposeLocked()
}

func (m *Manager) disposeLocked() error {
	if m.active == nil {
		return nil
	}

	err := m.active.Dispose()
	if err != nil {
		slog.Warn("Engine dispose failed", "framework", m.framework, "error", err)
	}

	m.active = nil
	m.framework = ""
	return err
}

// CurrentFramework returns the active framework, or false when the
// Manager is uninitialized.
func (m *Manager) CurrentFramework() (engine.Framework, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return "", false
	}
	return m.framework, true
}
