package model

import (
	"time"

	"github.com/soundsense-team/soundsense/internal/config"
)

// Status is the current loading status of a model.
type Status string

const (
	// StatusUnloaded indicates that the model is not loaded.
	StatusUnloaded Status = "unloaded"

	// StatusLoading indicates that the model is being loaded.
	StatusLoading Status = "loading"

	// StatusLoaded indicates that the model is loaded.
	StatusLoaded Status = "loaded"

	// StatusFailed indicates that the model failed to load.
	StatusFailed Status = "failed"
)

// Instance represents a downloaded classifier model: the directory
// holding the model files plus the class-name list shipped next to it.
type Instance struct {
	Config   *config.ModelConfig `json:"config"`
	LoadedAt *time.Time          `json:"loaded_at,omitempty"`
	ID       string              `json:"id"`
	Path     string              `json:"-"`
	Labels   []string            `json:"-"`
	Status   Status              `json:"status"`
	Error    string              `json:"error,omitempty"`
}

// NewInstance creates a new model instance.
func NewInstance(cfg *config.ModelConfig, id, path string) *Instance {
	return &Instance{
		ID:     id,
		Path:   path,
		Config: cfg,
		Status: StatusUnloaded,
	}
}

// SetStatus sets the status of the model instance.
func (i *Instance) SetStatus(status Status) {
	i.Status = status
	if status == StatusLoaded {
		now := time.Now()
		i.LoadedAt = &now
	}
}

// SetError sets the error associated with the model instance.
func (i *Instance) SetError(err error) {
	i.Error = err.Error()
}
