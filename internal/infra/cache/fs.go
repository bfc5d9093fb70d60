// Package cache stores synthesized audio clips as blobs on the local
// filesystem, keyed by the content-addressed cache key.
package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"voiceclock/internal/domain"
)

// FS is a durable key/value blob store rooted at a directory. Keys may
// contain "/" segments; they become subdirectories. Entries are immutable:
// a Put for an existing key simply replaces identical content.
type FS struct {
	root string
}

func NewFS(root string) *FS {
	return &FS{root: root}
}

func (f *FS) Get(_ context.Context, key string) ([]byte, error) {
	path, err := f.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrCacheNotFound
		}
		return nil, fmt.Errorf("reading cache entry: %w", err)
	}
	return data, nil
}

func (f *FS) Put(_ context.Context, key string, data []byte) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	// tmp + rename so readers never observe a partial clip
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("committing cache entry: %w", err)
	}
	return nil
}

func (f *FS) path(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid cache key %q", key)
	}
	return filepath.Join(f.root, filepath.FromSlash(key)), nil
}
