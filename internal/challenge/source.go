package challenge

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Source is where a catalog is persisted.
type Source interface {
	// Read returns the persisted document, or an error wrapping ErrSourceNotExist.
	Read(ctx context.Context) ([]byte, error)
	// WriteIfAbsent persists data unless a document already exists; an existing document is not an error.
	WriteIfAbsent(ctx context.Context, data []byte) error
	// Format reports the serialization used by the source.
	Format() Format
	// String names the location for diagnostics.
	String() string
}

// OpenSource returns a GCSSource for gs:// locations and a FileSource otherwise.
// The returned close function releases any client the source owns.
func OpenSource(ctx context.Context, location string) (Source, func() error, error) {
	if strings.HasPrefix(location, gcsScheme) {
		src, err := NewGCSSource(ctx, location)
		if err != nil {
			return nil, nil, err
		}
		return src, src.Close, nil
	}
	return NewFileSource(location), func() error { return nil }, nil
}

// FileSource keeps the catalog in a local file.
type FileSource struct {
	path string
}

// NewFileSource returns a Source backed by the file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotExist, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", s.path, err)
	}
	return data, nil
}

func (s *FileSource) WriteIfAbsent(_ context.Context, data []byte) error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create catalog dir: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create catalog %s: %w", s.path, err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write catalog %s: %w", s.path, err)
	}
	return f.Close()
}

func (s *FileSource) Format() Format {
	return FormatFor(s.path)
}

func (s *FileSource) String() string {
	return s.path
}
