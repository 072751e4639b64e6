package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/maruel/palettedb/internal/config"
	perrors "github.com/maruel/palettedb/internal/errors"
	"github.com/maruel/palettedb/internal/store"
)

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the palette again whenever the document changes",
		Long: `Prints the palette, then prints it again each time the document file is
saved by another palettedb process or edited by hand. Only the file backend
can be watched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Store.Backend != config.BackendFile {
				return errors.New("watch requires the file backend")
			}
			ctx := cmd.Context()
			w := cmd.OutOrStdout()
			if err := a.print(ctx, w); err != nil {
				return err
			}
			fw, err := newFileWatcher(a.cfg.Store.Path)
			if err != nil {
				return fmt.Errorf("failed to watch %s: %w", a.cfg.Store.Path, err)
			}
			slog.InfoContext(ctx, "Watching document", "path", a.cfg.Store.Path)
			watchLoop(ctx, fw, a.cfg.Store.Path, func() {
				slog.InfoContext(ctx, "Document changed, reloading")
				if err := a.print(ctx, w); err != nil {
					slog.WarnContext(ctx, "Failed to reload document", append([]any{"err", err}, perrors.Attrs(err)...)...)
				}
			})
			return nil
		},
	}
}

func (a *app) print(ctx context.Context, w io.Writer) error {
	s, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()
	return printPalette(w, s.palette, store.NewDocument(s.palette, s.history).Summary())
}

// newFileWatcher watches the directory holding path. Saves rename a
// temporary file over the document, which a watch on the file itself would
// lose.
func newFileWatcher(path string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

// watchLoop calls changed each time path is written or replaced, until ctx
// is canceled. It closes w.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, path string, changed func()) {
	defer func() { _ = w.Close() }()
	path = filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				changed()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			slog.WarnContext(ctx, "Error watching document", "err", err)
		}
	}
}
