package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/soundsense-team/soundsense/internal/envvar"
)

const (
	defaultHTTPPort        = 8090
	defaultBenchmarkWarmup = 3
	defaultBenchmarkTrials = 10
	defaultCoreMLPort      = 8083
	defaultCoreMLBenchPort = 8084
)

// DefaultConfigPath returns the default path for the SoundSense config directory.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "soundsense", "config")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "soundsense")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "soundsense")
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "soundsense")
		}
		return filepath.Join(home, ".config", "soundsense")
	}
}

// DefaultModelsPath returns the default path for the SoundSense models directory.
func DefaultModelsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "soundsense", "models")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Local", "soundsense", "models")
	case "darwin":
		return filepath.Join(home, "Library", "Caches", "soundsense", "models")
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
			return filepath.Join(xdg, "soundsense", "models")
		}
		return filepath.Join(home, ".cache", "soundsense", "models")
	}
}

// DefaultHTTPPort returns the HTTP port, honoring the environment override.
func DefaultHTTPPort() int {
	if v := os.Getenv(envvar.SoundsenseServerHTTPPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			return port
		}
	}
	return defaultHTTPPort
}

// WarmupOrDefault returns the configured warm-up count or its default.
func (b BenchmarkConfig) WarmupOrDefault() int {
	if b.Warmup > 0 {
		return b.Warmup
	}
	return defaultBenchmarkWarmup
}

// TrialsOrDefault returns the configured trial count or its default.
func (b BenchmarkConfig) TrialsOrDefault() int {
	if b.Trials > 0 {
		return b.Trials
	}
	return defaultBenchmarkTrials
}

// PortOrDefault returns the configured Core ML server port or its default.
func (c CoreMLConfig) PortOrDefault() int {
	if c.Port > 0 {
		return c.Port
	}
	return defaultCoreMLPort
}

// BenchPortOrDefault returns the Core ML port benchmark sidecars bind.
// It stays distinct from PortOrDefault so a benchmark run spawns its
// own sidecar instead of attaching to the live one.
func (c CoreMLConfig) BenchPortOrDefault() int {
	if c.BenchPort > 0 {
		return c.BenchPort
	}
	return defaultCoreMLBenchPort
}
