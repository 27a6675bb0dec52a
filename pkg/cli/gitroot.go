package cli

import (
	"fmt"
	"os"
	"path/filepath"
)

// findGitRoot walks up from the working directory until it finds a .git
// entry. Worktrees keep a .git file instead of a directory, so any entry
// type counts.
func findGitRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to determine working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a git repository (no .git found above %s)", dir)
		}
		dir = parent
	}
}
