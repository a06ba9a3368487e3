package mapsafe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	m := map[string]any{
		"index":  float64(3), // JSON numbers decode as float64
		"score":  0.75,
		"label":  "Siren",
		"flag":   true,
		"scores": []float64{0.1, 0.9},
	}

	assert.Equal(t, 3, Get(m, "index", -1))
	assert.Equal(t, 0.75, Get(m, "score", 0.0))
	assert.Equal(t, 3.0, Get(m, "index", 0.0))
	assert.Equal(t, "Siren", Get(m, "label", ""))
	assert.Equal(t, true, Get(m, "flag", false))
	assert.Equal(t, []float64{0.1, 0.9}, Get(m, "scores", []float64(nil)))

	// Missing keys and mismatched types yield the default.
	assert.Equal(t, -1, Get(m, "missing", -1))
	assert.Equal(t, 0, Get(m, "label", 0))
}
