package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// LocalBackend writes assets into a directory served by the web tier under
// /uploads. File names are prefixed with the submission timestamp to avoid
// collisions between submissions carrying the same original name.
type LocalBackend struct {
	baseDir string
}

// NewLocal creates the local filesystem backend, creating baseDir if needed.
func NewLocal(baseDir string) (*LocalBackend, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("uploads directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &LocalBackend{baseDir: baseDir}, nil
}

// Store writes the asset to disk and returns its /uploads URL. The logical
// folder is ignored here: local URLs are flat by contract.
func (b *LocalBackend) Store(ctx context.Context, folder string, src Source) (Object, error) {
	name := fmt.Sprintf("%d-%s", time.Now().UnixNano(), SanitizeFilename(src.Name))
	dstPath := filepath.Join(b.baseDir, name)

	in, err := src.Open()
	if err != nil {
		return Object{}, fmt.Errorf("open upload %s: %w", src.Name, err)
	}
	defer in.Close()

	out, err := os.Create(dstPath)
	if err != nil {
		return Object{}, fmt.Errorf("create %s: %w", dstPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		_ = os.Remove(dstPath)
		return Object{}, fmt.Errorf("write %s: %w", dstPath, err)
	}

	return Object{URL: "/uploads/" + name, Backend: BackendLocal}, nil
}
