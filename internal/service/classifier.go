package service

import (
	"context"
	"log/slog"

	"github.com/soundsense-team/soundsense/internal/engine"
	"github.com/soundsense-team/soundsense/internal/manager"
	"github.com/soundsense-team/soundsense/internal/mapsafe"
	"github.com/soundsense-team/soundsense/internal/model"
)

// Classification is the shaped result of classifying one audio window.
type Classification struct {
	Label     string           `json:"label"`
	Index     int              `json:"index"`
	Score     float64          `json:"score"`
	Scores    []float64        `json:"scores,omitempty"`
	Framework engine.Framework `json:"framework"`
}

// Classifier is a service abstraction for ambient sound classification.
// It delegates inference to the manager and attaches the class label
// from the assigned model's label list.
type Classifier struct {
	manager *manager.Manager
	models  *model.Registry
	modelID string
}

// NewClassifier creates a new Classifier service.
func NewClassifier(mgr *manager.Manager, models *model.Registry, modelID string) *Classifier {
	return &Classifier{
		manager: mgr,
		models:  models,
		modelID: modelID,
	}
}

// Classify classifies one window of audio samples.
func (s *Classifier) Classify(ctx context.Context, samples []float64) (*Classification, error) {
	m, ok := s.models.Get(s.modelID)
	if !ok {
		return nil, model.ErrNotFound
	}

	res, err := s.manager.Infer(ctx, samples)
	if err != nil {
		slog.Error("Failed to classify samples", "error", err)
		return nil, err
	}

	index := mapsafe.Get(res, engine.ResultKeyIndex, -1)
	score := mapsafe.Get(res, engine.ResultKeyScore, 0.0)
	scores := mapsafe.Get(res, engine.ResultKeyScores, []float64(nil))

	label := ""
	if index >= 0 && index < len(m.Labels) {
		label = m.Labels[index]
	}

	framework, _ := s.manager.CurrentFramework()

	return &Classification{
		Label:     label,
		Index:     index,
		Score:     score,
		Scores:    scores,
		Framework: framework,
	}, nil
}
