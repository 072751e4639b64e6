package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FileStore keeps the document in a single JSON or YAML file.
//
// Saves write a sibling temporary file and rename it over the document so a
// reader never observes a partial write.
type FileStore struct {
	path   string
	format Format
	logger *slog.Logger
}

// NewFileStore returns a store backed by path. An empty format is derived
// from the extension.
func NewFileStore(path string, format Format, logger *slog.Logger) (*FileStore, error) {
	if format == "" {
		format = FormatFromPath(path)
	}
	if format != FormatJSON && format != FormatYAML {
		return nil, fmt.Errorf("unknown format %q", format)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:gosec // G301: 0o755 is intentional for data directories
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	return &FileStore{path: path, format: format, logger: logger}, nil
}

// Path returns the document path.
func (s *FileStore) Path() string {
	return s.path
}

// Format returns the document encoding.
func (s *FileStore) Format() Format {
	return s.format
}

// Load implements Store.
func (s *FileStore) Load(ctx context.Context) (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.DebugContext(ctx, "No document yet", "path", s.path)
			return emptyDocument(), nil
		}
		return nil, storageError("failed to read document", err)
	}
	doc, err := s.decode(data)
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "Loaded document", "path", s.path, "summary", doc.Summary())
	return doc, nil
}

func (s *FileStore) decode(data []byte) (*Document, error) {
	doc := &Document{}
	if err := Unmarshal(data, s.format, doc); err != nil {
		return nil, invalidDocument(s.path, err)
	}
	return doc, nil
}

// Save implements Store.
func (s *FileStore) Save(ctx context.Context, doc *Document) error {
	data, err := Marshal(doc, s.format)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	f, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return storageError("failed to create temporary file", err)
	}
	tmp := f.Name()
	defer func() {
		_ = os.Remove(tmp)
	}()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return storageError("failed to write document", err)
	}
	if err := f.Close(); err != nil {
		return storageError("failed to write document", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return storageError("failed to replace document", err)
	}
	s.logger.DebugContext(ctx, "Saved document", "path", s.path, "bytes", len(data))
	return nil
}

// Close implements Store.
func (s *FileStore) Close() error {
	return nil
}
