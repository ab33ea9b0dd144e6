package config

import (
	"os"
	"path/filepath"
)

// DirName is the per-project directory holding fixcheck configuration
const DirName = ".fixcheck"

// FindConfigFile walks from start towards the filesystem root and returns
// the first .fixcheck/config.yaml it finds.
func FindConfigFile(start string) (string, bool) {
	current, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}

	for {
		candidate := filepath.Join(current, DirName, "config.yaml")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}
