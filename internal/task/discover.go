package task

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Discover returns the task directories directly under root whose names
// carry the given prefix, in lexicographic order. An empty prefix matches
// every directory.
func Discover(root, prefix string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading samples directory: %w", err)
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if prefix != "" && !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		dirs = append(dirs, filepath.Join(root, entry.Name()))
	}
	return dirs, nil
}
