package engine

import "context"

// Framework is a string identifier for a runtime/accelerator pairing.
type Framework string

const (
	FrameworkTFLiteCPU   Framework = "tflite-cpu"
	FrameworkTFLiteGPU   Framework = "tflite-gpu"
	FrameworkTFLiteNNAPI Framework = "tflite-nnapi"
	FrameworkONNXRuntime Framework = "onnxruntime"
	FrameworkCoreML      Framework = "coreml"
)

// Frameworks is the closed set of supported frameworks.
var Frameworks = []Framework{
	FrameworkTFLiteCPU,
	FrameworkTFLiteGPU,
	FrameworkTFLiteNNAPI,
	FrameworkONNXRuntime,
	FrameworkCoreML,
}

// Known reports whether fw names a supported framework.
func Known(fw Framework) bool {
	for _, f := range Frameworks {
		if f == fw {
			return true
		}
	}
	return false
}

// Result keys shared by the bundled engines. The schema is
// engine-specific; these are the keys the classifier service reads.
const (
	ResultKeyIndex  = "index"
	ResultKeyScore  = "score"
	ResultKeyScores = "scores"
)

// Result is the output mapping of a single inference call.
type Result map[string]any

// Engine defines the core interface for all inference engines.
// An Engine exclusively owns its native resources; it is created on
// demand, initialized once, and released via Dispose.
type Engine interface {
	// Framework returns the engine identifier.
	Framework() Framework

	// Available reports static platform compatibility. It has no side
	// effects and does not reflect whether Initialize was attempted.
	Available() bool

	// Initialize acquires runtime resources (model load, delegate
	// attachment). It fails with an UnavailableError when the required
	// platform feature is absent.
	Initialize(ctx context.Context) error

	// Infer classifies one window of audio samples. It fails with
	// ErrNotInitialized before a successful Initialize.
	Infer(ctx context.Context, samples []float64) (Result, error)

	// Dispose releases all resources. Idempotent; safe on a
	// never-initialized engine.
	Dispose() error
}

// Factory constructs an engine for a framework. It fails with
// ErrUnknownFramework for identifiers outside the closed set;
// construction itself does not touch runtime resources.
type Factory func(fw Framework) (Engine, error)
