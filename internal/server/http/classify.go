package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/soundsense-team/soundsense/internal/engine"
	"github.com/soundsense-team/soundsense/internal/model"
	"github.com/soundsense-team/soundsense/internal/service"
)

type (
	ClassifyRequestDTO struct {
		Samples []float64 `json:"samples"`
	}

	ClassifyResponseDTO struct {
		Classification *service.Classification `json:"classification"`
	}
)

type (
	ClassifyInput struct {
		Body ClassifyRequestDTO
	}

	ClassifyOutput struct {
		Body ClassifyResponseDTO
	}
)

// ClassifyHandler handles HTTP requests for sound classification.
type ClassifyHandler struct {
	service *service.Classifier
}

// NewClassifyHandler creates a new ClassifyHandler instance.
func NewClassifyHandler(api huma.API, service *service.Classifier) *ClassifyHandler {
	h := &ClassifyHandler{service: service}

	huma.Register(api, huma.Operation{
		OperationID:   "classify",
		Method:        "POST",
		Path:          "/classify",
		Summary:       "Classify one window of audio samples",
		Tags:          []string{"classify"},
		DefaultStatus: http.StatusOK,
	}, h.handleClassify)

	return h
}

// handleClassify handles the classify operation.
func (h *ClassifyHandler) handleClassify(ctx context.Context, input *ClassifyInput) (*ClassifyOutput, error) {
	classification, err := h.service.Classify(ctx, input.Body.Samples)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrNotInitialized):
			return nil, huma.Error409Conflict("inference engine not initialized", err)
		case errors.Is(err, model.ErrNotFound):
			return nil, huma.Error404NotFound("model not found", err)
		default:
			return nil, huma.Error500InternalServerError("failed to classify", err)
		}
	}

	return &ClassifyOutput{
		Body: ClassifyResponseDTO{
			Classification: classification,
		},
	}, nil
}
