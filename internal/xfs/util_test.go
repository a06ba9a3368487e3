package xfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	for _, tc := range []struct {
		path string
		want string
	}{
		{path: "~", want: home},
		{path: "~/models", want: filepath.Join(home, "models")},
		{path: "~/models/yamnet", want: filepath.Join(home, "models", "yamnet")},
		{path: "/var/lib/models", want: "/var/lib/models"},
		{path: "relative/models", want: "relative/models"},
		{path: "~other/models", want: "~other/models"},
		{path: "", want: ""},
	} {
		assert.Equal(t, tc.want, ExpandTilde(tc.path), "path=%q", tc.path)
	}
}
