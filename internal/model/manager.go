package model

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/soundsense-team/soundsense/internal/config"
	"github.com/soundsense-team/soundsense/internal/config/source"
	"github.com/soundsense-team/soundsense/internal/envvar"
	"github.com/soundsense-team/soundsense/internal/xfs"
)

// Manager orchestrates model lifecycle.
type Manager struct {
	registry *Registry
	mu       sync.RWMutex
}

// NewManager creates a new Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// Registry returns the model registry.
func (m *Manager) Registry() *Registry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.registry
}

// LoadModelsFromConfig downloads the models the classify service is
// assigned to and updates the registry, evicting anything no longer
// referenced by the config.
func (m *Manager) LoadModelsFromConfig(ctx context.Context, cfg *config.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.registry = NewRegistry(cfg)

	assignedModels := make(map[string]bool)
	if cfg.Classify.Model != "" {
		assignedModels[cfg.Classify.Model] = true
	}

	modelsPath := resolveModelsPath(cfg)
	if err := source.EnsureModelsDirectory(modelsPath); err != nil {
		return fmt.Errorf("failed to prepare models directory %s: %w", modelsPath, err)
	}

	loadedKeys := make(map[string]bool)
	for modelID := range assignedModels {
		modelConfig, ok := cfg.Models[modelID]
		if !ok {
			slog.Warn("Model not found in config", "model_id", modelID)
			continue
		}

		modelSource, err := modelConfig.GetSource()
		if err != nil {
			return fmt.Errorf("failed to get model source for %s: %w", modelID, err)
		}

		downloader, err := source.GetDownloader(ctx, modelSource.Type())
		if err != nil {
			return fmt.Errorf("failed to get downloader for %s: %w", modelID, err)
		}

		downloadPath, _, err := downloader.Download(ctx, &modelConfig, modelsPath)
		if err != nil {
			return fmt.Errorf("failed to download model %s into %s: %w", modelID, modelsPath, err)
		}

		instance := NewInstance(&modelConfig, modelID, downloadPath)

		labels, err := ReadLabels(downloadPath)
		if err != nil {
			instance.SetStatus(StatusFailed)
			instance.SetError(err)
			slog.Warn("Model has no readable label list", "model_id", modelID, "error", err)
		} else {
			instance.Labels = labels
			instance.SetStatus(StatusLoaded)
		}

		loadedKeys[modelID] = true
		m.registry.Set(instance)

		slog.Info("Model loaded into registry", "model_id", modelID, "download_path", downloadPath, "labels", len(instance.Labels))
	}

	// Delete unloaded models from the registry (if any)
	current := m.registry.List()
	for _, instance := range current {
		if !loadedKeys[instance.ID] {
			m.registry.Delete(instance.ID)
			slog.Info("Model unloaded successfully", "model_entry", instance.ID)
		}
	}

	return nil
}

// resolveModelsPath returns the path to the models directory.
// Precedence:
// 1. SOUNDSENSE_MODELS_PATH environment variable.
// 2. ModelsDir field in the config.
// 3. Default models path.
func resolveModelsPath(cfg *config.Config) string {
	if p := os.Getenv(envvar.SoundsenseModelsPath); p != "" {
		return xfs.ExpandTilde(p)
	}
	if cfg.Storage.ModelsDir != "" {
		return xfs.ExpandTilde(cfg.Storage.ModelsDir)
	}
	return xfs.ExpandTilde(config.DefaultModelsPath())
}
