package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnavailableError(t *testing.T) {
	err := &UnavailableError{Framework: FrameworkCoreML, OS: "linux"}
	assert.Equal(t, "framework coreml is unavailable on linux", err.Error())

	wrapped := fmt.Errorf("initialize: %w", err)
	var unavailable *UnavailableError
	assert.ErrorAs(t, wrapped, &unavailable)
	assert.Equal(t, FrameworkCoreML, unavailable.Framework)
}

func TestExhaustedError(t *testing.T) {
	err := &ExhaustedError{Attempts: []Attempt{
		{Framework: FrameworkTFLiteGPU, Err: errors.New("no gpu")},
		{Framework: FrameworkONNXRuntime, Err: errors.New("crash")},
	}}
	assert.Equal(t, "all inference frameworks exhausted (tried tflite-gpu, onnxruntime)", err.Error())
}

func TestKnown(t *testing.T) {
	for _, fw := range Frameworks {
		assert.True(t, Known(fw))
	}
	assert.False(t, Known("tensorrt"))
}

func TestEncodeSamples(t *testing.T) {
	assert.Empty(t, EncodeSamples(nil))

	// 1.0 as little-endian float32.
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3f}, EncodeSamples([]float64{1.0}))
	assert.Len(t, EncodeSamples([]float64{0.1, 0.2, 0.3}), 12)
}
