package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layer-3/gamelan/core"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gamelan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMetaReadsMetaSection(t *testing.T) {
	path := writeFile(t, `
meta:
  title: gamelan
  description: nonce-gated text-to-speech gateway
  useCase: demo
`)

	meta, err := NewFileSource(path).Meta()
	require.NoError(t, err)
	assert.Equal(t, "gamelan", meta["title"])
	assert.Equal(t, "nonce-gated text-to-speech gateway", meta["description"])
}

func TestMetaErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.yaml") },
		},
		{
			name: "malformed yaml",
			path: func(t *testing.T) string { return writeFile(t, "meta: [unclosed") },
		},
		{
			name: "missing meta section",
			path: func(t *testing.T) string { return writeFile(t, "other:\n  key: value\n") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFileSource(tt.path(t)).Meta()
			assert.ErrorIs(t, err, core.ErrInvalidMetadata)
		})
	}
}
