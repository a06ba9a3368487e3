package env

import (
	"os"

	"github.com/soundsense-team/soundsense/internal/envvar"
)

// Environment identifies the runtime environment of the application.
type Environment string

const (
	// Development is the default environment.
	Development Environment = "development"

	// Production is the environment for deployed builds.
	Production Environment = "production"
)

// FromEnv resolves the environment from SOUNDSENSE_ENV.
func FromEnv() Environment {
	switch os.Getenv(envvar.SoundsenseEnv) {
	case "production", "prod":
		return Production
	default:
		return Development
	}
}
