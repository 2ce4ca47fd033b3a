package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindConfigPathEnvVar(t *testing.T) {
	t.Setenv(EnvConfigPath, "/etc/filetier.yaml")
	assert.Equal(t, "/etc/filetier.yaml", FindConfigPath(t.TempDir()))
}

func TestFindConfigPathWalksUp(t *testing.T) {
	t.Setenv(EnvConfigPath, "")

	root := t.TempDir()
	configPath := filepath.Join(root, DirName, FileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(configPath), 0755))
	require.NoError(t, os.WriteFile(configPath, []byte("quiet: true\n"), 0644))

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	assert.Equal(t, configPath, FindConfigPath(nested))
}

func TestFindConfigPathFallback(t *testing.T) {
	t.Setenv(EnvConfigPath, "")

	dir := t.TempDir()
	got := FindConfigPath(dir)
	if _, err := os.Stat(got); err == nil {
		// A config in one of the temp dir's parents is picked up legitimately.
		t.Skipf("ancestor config present at %s", got)
	}
	assert.Equal(t, filepath.Join(dir, DirName, FileName), got)

	_, err := os.Stat(filepath.Join(dir, DirName))
	assert.True(t, os.IsNotExist(err), "discovery must not create directories")
}
