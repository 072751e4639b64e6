// Package store persists palette documents.
//
// A document holds the snapshot of a palette and its undo log. Three
// backends are provided: a plain JSON or YAML file, the same file committed to
// a git repository on every save, and a BadgerDB database.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maruel/palettedb/internal/config"
	"github.com/maruel/palettedb/internal/errors"
	"github.com/maruel/palettedb/internal/palette"
)

// Version is the document version written by this package.
const Version = 1

// Document is the persisted form of a palette and its history.
type Document struct {
	Version int              `json:"version" jsonschema:"description=Document format version"`
	Palette palette.Snapshot `json:"palette"`
	History *palette.History `json:"history,omitempty"`
}

// NewDocument captures the current state of p and h.
func NewDocument(p *palette.Palette, h *palette.History) *Document {
	return &Document{Version: Version, Palette: p.Snapshot(), History: h}
}

// Restore validates the document and rebuilds the palette and its history.
func (d *Document) Restore() (*palette.Palette, *palette.History, error) {
	if d.Version != Version {
		return nil, nil, errors.Newf(errors.ErrInvalidDocument, "unsupported document version %d", d.Version).WithDetail("version", d.Version)
	}
	p, err := palette.FromSnapshot(d.Palette)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to restore palette: %w", err)
	}
	h := d.History
	if h == nil {
		h = &palette.History{}
	}
	return p, h, nil
}

// Summary returns a short human readable description.
func (d *Document) Summary() string {
	undo, redo := 0, 0
	if d.History != nil {
		undo, redo = d.History.UndoCount(), d.History.RedoCount()
	}
	return fmt.Sprintf("%d cells, %d names, %d positions, %d groups, %d undo, %d redo",
		len(d.Palette.Cells), len(d.Palette.Names), len(d.Palette.Positions), len(d.Palette.Groups), undo, redo)
}

func emptyDocument() *Document {
	return &Document{Version: Version, History: &palette.History{}}
}

// Store loads and saves documents.
type Store interface {
	// Load returns the stored document, or an empty one when nothing has
	// been saved yet.
	Load(ctx context.Context) (*Document, error)
	// Save replaces the stored document.
	Save(ctx context.Context, doc *Document) error
	Close() error
}

// Open returns the store described by cfg.
func Open(cfg *config.Config, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var s Store
	var err error
	switch cfg.Store.Backend {
	case config.BackendBadger:
		s, err = OpenBadger(BadgerOptions{Path: cfg.Store.Path, SyncWrites: true, Logger: logger})
	case config.BackendFile:
		format := Format(cfg.Store.Format)
		if cfg.Git.Enabled {
			s, err = OpenGit(cfg.Store.Path, format, Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}, logger)
		} else {
			s, err = NewFileStore(cfg.Store.Path, format, logger)
		}
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func storageError(msg string, err error) *errors.CodedError {
	return errors.New(errors.ErrStorageError, msg).Wrap(err)
}

func invalidDocument(source string, err error) *errors.CodedError {
	return errors.New(errors.ErrInvalidDocument, "invalid document").WithDetail("source", source).Wrap(err)
}
