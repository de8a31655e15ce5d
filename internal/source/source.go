// Package source locates the POS exports and reports their identity so the
// snapshot cache can tell when a file has been regenerated.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// ErrNotFound is returned by Stat and Open when the export does not exist.
var ErrNotFound = errors.New("source not found")

// Identity distinguishes one version of an export from another.
type Identity struct {
	Name       string
	ModTime    time.Time
	Size       int64
	Generation int64
}

// Key is the cache key for this version of the export.
func (id Identity) Key() string {
	return fmt.Sprintf("%s@%d:%d:%d", id.Name, id.ModTime.UnixNano(), id.Size, id.Generation)
}

// Source is one export file.
type Source interface {
	Stat(ctx context.Context) (Identity, error)
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileSource reads an export from the local filesystem.
type FileSource struct {
	Path string
}

// NewFileSource returns a FileSource for name inside dir.
func NewFileSource(dir, name string) *FileSource {
	return &FileSource{Path: filepath.Join(dir, name)}
}

func (s *FileSource) Stat(ctx context.Context) (Identity, error) {
	info, err := os.Stat(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return Identity{}, fmt.Errorf("stat %s: %w", s.Path, ErrNotFound)
	}
	if err != nil {
		return Identity{}, fmt.Errorf("stat %s: %w", s.Path, err)
	}
	return Identity{
		Name:    s.Path,
		ModTime: info.ModTime(),
		Size:    info.Size(),
	}, nil
}

func (s *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("open %s: %w", s.Path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	return f, nil
}
