// Package factory maps framework identifiers to concrete engines. The
// switch is exhaustive over the closed framework set, so adding a
// framework without a construction arm fails the unknown-framework path
// visibly instead of silently.
package factory

import (
	"fmt"

	"github.com/soundsense-team/soundsense/internal/config"
	"github.com/soundsense-team/soundsense/internal/engine"
	"github.com/soundsense-team/soundsense/internal/engine/coreml"
	"github.com/soundsense-team/soundsense/internal/engine/onnx"
	"github.com/soundsense-team/soundsense/internal/engine/tflite"
	"github.com/soundsense-team/soundsense/internal/platform"
)

// Options carries everything engine construction needs.
type Options struct {
	// ModelDir is the directory of the downloaded classifier model.
	ModelDir string

	// Platform answers capability queries for the engines.
	Platform platform.Provider

	// Engines holds runner binary paths and tuning per engine family.
	Engines config.EnginesConfig

	// ServerManager supervises sidecar inference servers. Bind creates
	// one if unset.
	ServerManager *engine.ServerManager
}

// New constructs the engine for a framework identifier. Construction
// never touches runtime resources; Initialize does.
func New(fw engine.Framework, opts Options) (engine.Engine, error) {
	switch fw {
	case engine.FrameworkTFLiteCPU:
		return tflite.New(tflite.DelegateCPU, opts.Engines.TFLite.RunnerPath, opts.ModelDir, opts.Engines.TFLite.Threads, opts.Platform), nil
	case engine.FrameworkTFLiteGPU:
		return tflite.New(tflite.DelegateGPU, opts.Engines.TFLite.RunnerPath, opts.ModelDir, opts.Engines.TFLite.Threads, opts.Platform), nil
	case engine.FrameworkTFLiteNNAPI:
		return tflite.New(tflite.DelegateNNAPI, opts.Engines.TFLite.RunnerPath, opts.ModelDir, opts.Engines.TFLite.Threads, opts.Platform), nil
	case engine.FrameworkONNXRuntime:
		return onnx.New(opts.Engines.ONNX.RunnerPath, opts.ModelDir, opts.Engines.ONNX.Threads, opts.Platform), nil
	case engine.FrameworkCoreML:
		return coreml.New(opts.Engines.CoreML.ServerPath, opts.ModelDir, opts.Engines.CoreML.PortOrDefault(), opts.Platform, opts.ServerManager), nil
	default:
		return nil, fmt.Errorf("%w: %q", engine.ErrUnknownFramework, fw)
	}
}

// Bind closes Options over New, yielding the engine.Factory the manager
// and benchmark harness consume.
func Bind(opts Options) engine.Factory {
	if opts.ServerManager == nil {
		opts.ServerManager = engine.NewServerManager()
	}
	return func(fw engine.Framework) (engine.Engine, error) {
		return New(fw, opts)
	}
}
