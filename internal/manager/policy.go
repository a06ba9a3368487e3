package manager

import (
	"github.com/soundsense-team/soundsense/internal/engine"
	"github.com/soundsense-team/soundsense/internal/platform"
)

// Preferred returns the default framework for a host. Pure function of
// the platform, no I/O.
func Preferred(p platform.Provider) engine.Framework {
	switch p.OS() {
	case "darwin", "ios":
		return engine.FrameworkCoreML
	case "android":
		return engine.FrameworkTFLiteGPU
	case "js", "wasip1":
		return engine.FrameworkTFLiteCPU
	default:
		return engine.FrameworkONNXRuntime
	}
}
