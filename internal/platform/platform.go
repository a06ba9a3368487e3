package platform

import "runtime"

// Provider reports static capabilities of the host. Engines and the
// selection policy consult it instead of querying process globals, so
// tests can simulate any platform.
type Provider interface {
	// OS returns the GOOS-style operating system name
	// ("linux", "darwin", "android", "ios", "windows", "js", ...).
	OS() string

	// HasGPU reports whether a GPU execution backend is expected to work.
	HasGPU() bool
}

// Host is the Provider for the running process.
type Host struct{}

// OS implements Provider.
func (Host) OS() string {
	return runtime.GOOS
}

// HasGPU implements Provider.
func (Host) HasGPU() bool {
	switch runtime.GOOS {
	case "darwin", "ios", "android", "windows":
		return true
	default:
		return false
	}
}

// Static is a fixed-capability Provider, used to simulate platforms.
type Static struct {
	GOOS string
	GPU  bool
}

// OS implements Provider.
func (s Static) OS() string {
	return s.GOOS
}

// HasGPU implements Provider.
func (s Static) HasGPU() bool {
	return s.GPU
}
