package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/soundsense-team/soundsense/internal/engine"
	"github.com/soundsense-team/soundsense/internal/manager"
)

type (
	FrameworkResponseDTO struct {
		Framework string `json:"framework,omitempty"`
		Active    bool   `json:"active"`
	}

	SwitchFrameworkRequestDTO struct {
		Framework string `json:"framework" minLength:"1"`
	}
)

type (
	GetFrameworkOutput struct {
		Body FrameworkResponseDTO
	}

	SwitchFrameworkInput struct {
		Body SwitchFrameworkRequestDTO
	}

	SwitchFrameworkOutput struct {
		Body FrameworkResponseDTO
	}
)

// FrameworkHandler handles HTTP requests for framework inspection and switching.
type FrameworkHandler struct {
	manager *manager.Manager
}

// NewFrameworkHandler creates a new FrameworkHandler instance.
func NewFrameworkHandler(api huma.API, mgr *manager.Manager) *FrameworkHandler {
	h := &FrameworkHandler{manager: mgr}

	huma.Register(api, huma.Operation{
		OperationID:   "get-framework",
		Method:        "GET",
		Path:          "/framework",
		Summary:       "Report the active inference framework",
		Tags:          []string{"framework"},
		DefaultStatus: http.StatusOK,
	}, h.handleGet)

	huma.Register(api, huma.Operation{
		OperationID:   "switch-framework",
		Method:        "PUT",
		Path:          "/framework",
		Summary:       "Switch to another inference framework",
		Tags:          []string{"framework"},
		DefaultStatus: http.StatusOK,
	}, h.handleSwitch)

	return h
}

// handleGet handles the get-framework operation.
func (h *FrameworkHandler) handleGet(_ context.Context, _ *struct{}) (*GetFrameworkOutput, error) {
	fw, active := h.manager.CurrentFramework()

	return &GetFrameworkOutput{
		Body: FrameworkResponseDTO{
			Framework: string(fw),
			Active:    active,
		},
	}, nil
}

// handleSwitch handles the switch-framework operation.
func (h *FrameworkHandler) handleSwitch(ctx context.Context, input *SwitchFrameworkInput) (*SwitchFrameworkOutput, error) {
	fw := engine.Framework(input.Body.Framework)
	if !engine.Known(fw) {
		return nil, huma.Error422UnprocessableEntity("unknown framework", errors.New(input.Body.Framework))
	}

	if err := h.manager.SwitchFramework(ctx, fw); err != nil {
		var exhausted *engine.ExhaustedError
		if errors.As(err, &exhausted) {
			return nil, huma.Error502BadGateway("no inference framework could be initialized", err)
		}
		return nil, huma.Error500InternalServerError("failed to switch framework", err)
	}

	active, ok := h.manager.CurrentFramework()
	return &SwitchFrameworkOutput{
		Body: FrameworkResponseDTO{
			Framework: string(active),
			Active:    ok,
		},
	}, nil
}
