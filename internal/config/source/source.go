package source

import (
	"context"
	"fmt"
	"os"

	"github.com/soundsense-team/soundsense/internal/config"
)

// Downloader fetches a model into the local models directory. It
// returns the local path and whether the download was skipped because
// the model was already present.
type Downloader interface {
	Download(ctx context.Context, modelConfig *config.ModelConfig, targetDir string) (string, bool, error)
}

// GetDownloader returns the downloader for a source type.
func GetDownloader(_ context.Context, t config.SourceType) (Downloader, error) {
	switch t {
	case config.SourceTypeHuggingFace:
		return &HuggingFaceDownloader{}, nil
	default:
		return nil, fmt.Errorf("unsupported model source type: %s", t)
	}
}

// EnsureModelsDirectory creates the models directory if it does not exist.
func EnsureModelsDirectory(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create models directory: %w", err)
	}
	return nil
}
