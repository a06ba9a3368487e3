package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Error definitions for the engine package.
var (
	ErrNotInitialized   = errors.New("engine not initialized")
	ErrUnknownFramework = errors.New("unknown inference framework")
)

// UnavailableError reports that a framework cannot run on the host
// platform. It is recoverable: the manager reacts by falling back.
type UnavailableError struct {
	Framework Framework
	OS        string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("framework %s is unavailable on %s", e.Framework, e.OS)
}

// Attempt records one failed framework during fallback iteration.
type Attempt struct {
	Framework Framework
	Err       error
}

// ExhaustedError reports that the preferred framework and every
// fallback alternative failed to initialize. It is terminal for the
// initialize call that produced it.
type ExhaustedError struct {
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	tried := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		tried = append(tried, string(a.Framework))
	}
	return fmt.Sprintf("all inference frameworks exhausted (tried %s)", strings.Join(tried, ", "))
}
