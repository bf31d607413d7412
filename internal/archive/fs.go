// Package archive stores raw feed snapshots for later inspection. Backends:
// local filesystem and Google Cloud Storage. Archival is best-effort and
// optional; the pipeline runs without it.
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FSConfig captures the parameters for the filesystem archiver.
type FSConfig struct {
	// BaseDir is the root directory where snapshots are stored.
	BaseDir string
}

// FS writes snapshots to the local filesystem.
type FS struct {
	baseDir string
}

// NewFS creates a filesystem-backed archiver rooted at the base directory.
func NewFS(cfg FSConfig) (*FS, error) {
	if strings.TrimSpace(cfg.BaseDir) == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	if err := os.MkdirAll(cfg.BaseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create base directory: %w", err)
	}
	return &FS{baseDir: cfg.BaseDir}, nil
}

// Store writes data to a file under the base directory and returns a file://
// URI.
func (a *FS) Store(_ context.Context, path string, _ string, data []byte) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path is required")
	}
	fullPath := filepath.Join(a.baseDir, path)

	// Reject paths that would escape the base directory.
	cleanBase := filepath.Clean(a.baseDir)
	if !strings.HasPrefix(filepath.Clean(fullPath), cleanBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes archive root")
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o600); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return "file://" + fullPath, nil
}
