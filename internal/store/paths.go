package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nvandessel/hopfield/internal/constants"
)

// GlobalStatePath returns the path to the global .hopfield directory.
func GlobalStatePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, constants.StateDirName), nil
}

// LocalStatePath returns the .hopfield directory under projectRoot.
func LocalStatePath(projectRoot string) string {
	return filepath.Join(projectRoot, constants.StateDirName)
}

// EnsureStateDir creates the .hopfield directory under projectRoot.
func EnsureStateDir(projectRoot string) (string, error) {
	dir := LocalStatePath(projectRoot)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s directory: %w", constants.StateDirName, err)
	}
	return dir, nil
}
