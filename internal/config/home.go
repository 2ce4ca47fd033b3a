package config

import (
	"os"
	"path/filepath"
)

const (
	// DirName is the per-project filetier directory.
	DirName = ".filetier"

	// FileName is the configuration file inside DirName.
	FileName = "config.yaml"

	// EnvConfigPath overrides config discovery when set.
	EnvConfigPath = "FILETIER_CONFIG"
)

// FindConfigPath returns the configuration file to load for a run started in
// startDir.
// Priority order:
//  1. FILETIER_CONFIG environment variable (if set)
//  2. The nearest .filetier/config.yaml in startDir or one of its parents
//  3. startDir/.filetier/config.yaml (which may not exist)
//
// Nothing is created on disk.
func FindConfigPath(startDir string) string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}

	fallback := filepath.Join(startDir, DirName, FileName)

	current, err := filepath.Abs(startDir)
	if err != nil {
		return fallback
	}

	for {
		candidate := filepath.Join(current, DirName, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	return fallback
}
