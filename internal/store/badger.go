package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/maruel/palettedb/internal/palette"
)

// Keys used by BadgerStore.
var (
	keyVersion = []byte("version")
	keyPalette = []byte("palette")
	keyHistory = []byte("history")
)

// BadgerOptions configures OpenBadger.
type BadgerOptions struct {
	// Path is the database directory. Ignored when InMemory is true.
	Path string

	// InMemory keeps everything in memory. Useful for testing.
	InMemory bool

	// SyncWrites makes every save durable before returning.
	SyncWrites bool

	// Logger receives BadgerDB's own log output and the store's debug logs.
	// BadgerDB logging is disabled when nil.
	Logger *slog.Logger
}

// BadgerStore keeps the document in a BadgerDB database, with the palette
// snapshot and the history stored under separate keys and written in one
// transaction.
type BadgerStore struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// OpenBadger opens or creates the database described by opts.
func OpenBadger(opts BadgerOptions) (*BadgerStore, error) {
	var bo badger.Options
	if opts.InMemory {
		bo = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Path == "" {
			return nil, errors.New("path is required for persistent database")
		}
		if err := os.MkdirAll(opts.Path, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", opts.Path, err)
		}
		bo = badger.DefaultOptions(opts.Path)
	}
	bo = bo.WithSyncWrites(opts.SyncWrites).WithNumVersionsToKeep(1)
	logger := opts.Logger
	if logger != nil {
		bo = bo.WithLogger(&badgerLogger{logger: logger})
	} else {
		bo = bo.WithLogger(nil)
		logger = slog.Default()
	}
	db, err := badger.Open(bo)
	if err != nil {
		return nil, storageError("failed to open badger database", err)
	}
	return &BadgerStore{db: db, logger: logger}, nil
}

// Load implements Store.
func (s *BadgerStore) Load(ctx context.Context) (*Document, error) {
	var version, snap, hist []byte
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		if version, err = get(txn, keyVersion); err != nil {
			return err
		}
		if snap, err = get(txn, keyPalette); err != nil {
			return err
		}
		hist, err = get(txn, keyHistory)
		return err
	})
	if err != nil {
		return nil, storageError("failed to read document", err)
	}
	if version == nil {
		s.logger.DebugContext(ctx, "No document yet")
		return emptyDocument(), nil
	}
	doc := &Document{History: &palette.History{}}
	if err := json.Unmarshal(version, &doc.Version); err != nil {
		return nil, invalidDocument("badger:version", err)
	}
	if snap != nil {
		if err := json.Unmarshal(snap, &doc.Palette); err != nil {
			return nil, invalidDocument("badger:palette", err)
		}
	}
	if hist != nil {
		if err := json.Unmarshal(hist, doc.History); err != nil {
			return nil, invalidDocument("badger:history", err)
		}
	}
	s.logger.DebugContext(ctx, "Loaded document", "summary", doc.Summary())
	return doc, nil
}

// get returns the value of key, or nil when it is absent.
func get(txn *badger.Txn, key []byte) ([]byte, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

// Save implements Store.
func (s *BadgerStore) Save(ctx context.Context, doc *Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	version, err := json.Marshal(doc.Version)
	if err != nil {
		return err
	}
	snap, err := json.Marshal(doc.Palette)
	if err != nil {
		return fmt.Errorf("failed to encode palette: %w", err)
	}
	h := doc.History
	if h == nil {
		h = &palette.History{}
	}
	hist, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(keyVersion, version); err != nil {
			return err
		}
		if err := txn.Set(keyPalette, snap); err != nil {
			return err
		}
		return txn.Set(keyHistory, hist)
	})
	if err != nil {
		return storageError("failed to write document", err)
	}
	s.logger.DebugContext(ctx, "Saved document", "bytes", len(snap)+len(hist))
	return nil
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
