package resources

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/meridianhq/meridian/internal/config"
)

// findRoot walks up from cwd looking for meridian/config.yaml.
// Shared utility for resource handlers.
func findRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	current := dir
	for {
		if config.Exists(current) {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return dir, nil
		}
		current = parent
	}
}
