// Package filex has small filesystem helpers.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureParentDir creates the directory that will hold path (with parents)
// and returns it. In-memory SQLite DSNs are left alone.
func EnsureParentDir(path string) (string, error) {
	if path == "" || path == ":memory:" || filepath.Base(path) == path {
		return "", nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}
