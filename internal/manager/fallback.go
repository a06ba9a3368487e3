package manager

import (
	"github.com/soundsense-team/soundsense/internal/engine"
	"github.com/soundsense-team/soundsense/internal/platform"
)

// FallbackSequence returns the ordered alternatives to try after the
// given framework failed. The orders are fixed per platform, never
// adaptive, and always exclude the framework that already failed.
func FallbackSequence(p platform.Provider, failed engine.Framework) []engine.Framework {
	var order []engine.Framework

	switch p.OS() {
	case "darwin", "ios":
		order = []engine.Framework{
			engine.FrameworkCoreML,
			engine.FrameworkTFLiteGPU,
			engine.FrameworkTFLiteCPU,
			engine.FrameworkONNXRuntime,
		}
	case "android":
		order = []engine.Framework{
			engine.FrameworkTFLiteGPU,
			engine.FrameworkTFLiteNNAPI,
			engine.FrameworkTFLiteCPU,
			engine.FrameworkONNXRuntime,
		}
	case "js", "wasip1":
		order = []engine.Framework{
			engine.FrameworkTFLiteCPU,
		}
	default:
		order = []engine.Framework{
			engine.FrameworkONNXRuntime,
			engine.FrameworkTFLiteCPU,
			engine.FrameworkTFLiteGPU,
		}
	}

	sequence := make([]engine.Framework, 0, len(order))
	for _, fw := range order {
		if fw == failed {
			continue
		}
		sequence = append(sequence, fw)
	}

	return sequence
}
