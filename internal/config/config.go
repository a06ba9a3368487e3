package config

import (
	"errors"
)

// SourceType represents the type of model source.
type SourceType string

const (
	// SourceTypeHuggingFace represents a Hugging Face model repository source.
	SourceTypeHuggingFace SourceType = "huggingface"
)

// Config holds the main configuration for the application.
type Config struct {
	Version   string                 `json:"version"             yaml:"version"`
	Storage   StorageConfig          `json:"storage,omitempty"   yaml:"storage,omitempty"`
	Models    map[string]ModelConfig `json:"models"              yaml:"models"`
	Classify  ClassifyConfig         `json:"classify"            yaml:"classify"`
	Engines   EnginesConfig          `json:"engines"             yaml:"engines"`
	Benchmark BenchmarkConfig        `json:"benchmark,omitempty" yaml:"benchmark,omitempty"`
}

// StorageConfig holds configuration for caching and auto-download.
type StorageConfig struct {
	ModelsDir string `json:"models_dir,omitempty" yaml:"models_dir,omitempty"`
}

// ClassifyConfig assigns a model to the classification service and
// optionally pins the inference framework.
type ClassifyConfig struct {
	Model     string `json:"model"               yaml:"model"`
	Framework string `json:"framework,omitempty" yaml:"framework,omitempty"`
}

// EnginesConfig holds the runtime binaries for each engine family.
type EnginesConfig struct {
	TFLite TFLiteConfig `json:"tflite" yaml:"tflite"`
	ONNX   ONNXConfig   `json:"onnx"   yaml:"onnx"`
	CoreML CoreMLConfig `json:"coreml" yaml:"coreml"`
}

// TFLiteConfig configures the TFLite runner.
type TFLiteConfig struct {
	RunnerPath string `json:"runner_path"       yaml:"runner_path"`
	Threads    int    `json:"threads,omitempty" yaml:"threads,omitempty"`
}

// ONNXConfig configures the ONNX Runtime runner.
type ONNXConfig struct {
	RunnerPath string `json:"runner_path"       yaml:"runner_path"`
	Threads    int    `json:"threads,omitempty" yaml:"threads,omitempty"`
}

// CoreMLConfig configures the Core ML sidecar server. BenchPort is the
// port benchmark sidecars bind; it must differ from Port so benchmark
// runs never touch the live server.
type CoreMLConfig struct {
	ServerPath string `json:"server_path"          yaml:"server_path"`
	Port       int    `json:"port,omitempty"       yaml:"port,omitempty"`
	BenchPort  int    `json:"bench_port,omitempty" yaml:"bench_port,omitempty"`
}

// BenchmarkConfig configures the benchmark harness.
type BenchmarkConfig struct {
	Warmup int `json:"warmup,omitempty" yaml:"warmup,omitempty"`
	Trials int `json:"trials,omitempty" yaml:"trials,omitempty"`
}

// ModelConfig holds configuration for a specific model.
type ModelConfig struct {
	Source SourceConfig `json:"source" yaml:"source"`
	Tags   []string     `json:"tags"   yaml:"tags"`
}

// SourceConfig wraps optional sources (only one should be set).
type SourceConfig struct {
	HuggingFace *HuggingFaceSource `json:"huggingface,omitempty" yaml:"huggingface,omitempty"`
}

// -------------------------
// Source definitions
// -------------------------

// ModelSource represents a source for a model.
type ModelSource interface {
	Type() SourceType
}

// HuggingFaceSource represents a Hugging Face model repository source.
type HuggingFaceSource struct {
	Repo          string   `json:"repo"                     yaml:"repo"`
	Revision      string   `json:"revision,omitempty"       yaml:"revision,omitempty"`
	RepoType      string   `json:"repo_type,omitempty"      yaml:"repo_type,omitempty"`
	Token         string   `json:"token,omitempty"          yaml:"token,omitempty"`
	Include       []string `json:"include,omitempty"        yaml:"include,omitempty"`
	Exclude       []string `json:"exclude,omitempty"        yaml:"exclude,omitempty"`
	MaxWorkers    int      `json:"max_workers,omitempty"    yaml:"max_workers,omitempty"`
	ForceDownload bool     `json:"force_download,omitempty" yaml:"force_download,omitempty"`
}

// Type returns the Hugging Face source type.
func (h HuggingFaceSource) Type() SourceType {
	return SourceTypeHuggingFace
}

// GetSource returns the active source for the model.
func (m *ModelConfig) GetSource() (ModelSource, error) {
	if m.Source.HuggingFace != nil {
		return *m.Source.HuggingFace, nil
	}

	return nil, errors.New("no source configured for model")
}

// SetHuggingFaceSource sets the Hugging Face source.
func (m *ModelConfig) SetHuggingFaceSource(source HuggingFaceSource) {
	m.Source.HuggingFace = &source
}
