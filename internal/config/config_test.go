package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileIsNotError(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, File{}, f)
}

func TestMerge_CLITakesPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snaplight.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: file-server:1704\nbufferMs: 200\n"), 0o600))

	f, err := Load(path)
	require.NoError(t, err)

	flags := &Flags{Server: "cli-server:1704", BufferMs: 0}
	changed := map[string]bool{"server": true}

	Merge(f, changed, flags)

	assert.Equal(t, "cli-server:1704", flags.Server, "explicit CLI flag must not be overridden by file")
	assert.Equal(t, 200, flags.BufferMs, "unset flag should fall back to file value")
}
