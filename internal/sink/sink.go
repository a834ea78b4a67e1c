// Package sink writes rendered documents to the output directory.
package sink

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dir writes each document as a file directly under a single directory.
type Dir struct {
	dir string
}

// NewDir creates the output directory if needed and returns a sink for it.
func NewDir(dir string) (*Dir, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	return &Dir{dir: dir}, nil
}

// Write stores data under name and returns the full path written.
func (d *Dir) Write(name string, data []byte) (string, error) {
	path := filepath.Join(d.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return path, nil
}
