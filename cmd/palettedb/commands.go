package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/maruel/palettedb/internal/config"
	perrors "github.com/maruel/palettedb/internal/errors"
	"github.com/maruel/palettedb/internal/palette"
	"github.com/maruel/palettedb/internal/store"
)

// app holds the state shared by every subcommand.
type app struct {
	ll         *slog.LevelVar
	configPath string
	logLevel   string
	cfg        *config.Config
}

func newRootCmd(ll *slog.LevelVar) *cobra.Command {
	a := &app{ll: ll}
	root := &cobra.Command{
		Use:   "palettedb",
		Short: "Edit palettes of derived colors",
		Long: `palettedb keeps a palette document: cells addressed by index, position,
name or group, each holding a literal color or a blend of other cells.
Every edit is recorded and can be undone.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.loadConfig()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", config.FileName, "Configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error), overrides the configuration")
	root.AddCommand(
		a.initCmd(),
		a.showCmd(),
		a.applyCmd(),
		a.undoCmd(),
		a.redoCmd(),
		a.resolveCmd(),
		a.colorCmd(),
		a.logCmd(),
		a.journalCmd(),
		a.schemaCmd(),
		a.watchCmd(),
		versionCmd(),
	)
	return root
}

func (a *app) loadConfig() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := a.setLevel(cfg.LogLevel); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// setLevel applies the --log-level flag, or name when the flag is unset.
func (a *app) setLevel(name string) error {
	if a.logLevel != "" {
		name = a.logLevel
	}
	level, err := config.ParseLevel(name)
	if err != nil {
		return err
	}
	a.ll.Set(level)
	return nil
}

// session is an opened store with its document restored.
type session struct {
	store   store.Store
	palette *palette.Palette
	history *palette.History
	limit   int
}

func (a *app) open(ctx context.Context) (*session, error) {
	st, err := store.Open(a.cfg, slog.Default())
	if err != nil {
		return nil, err
	}
	doc, err := st.Load(ctx)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	p, h, err := doc.Restore()
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return &session{store: st, palette: p, history: h, limit: a.cfg.History.Limit}, nil
}

// save trims the history to the configured limit and writes the document.
func (s *session) save(ctx context.Context) error {
	if s.limit > 0 {
		s.history.Trim(s.limit)
	}
	return s.store.Save(ctx, store.NewDocument(s.palette, s.history))
}

func (s *session) Close() error {
	return s.store.Close()
}

// readInput decodes the file at path into v. "-" reads standard input as
// YAML, which also accepts JSON.
func readInput(cmd *cobra.Command, path string, v any) error {
	var data []byte
	var err error
	format := store.FormatYAML
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path) //nolint:gosec // G304: path is a command argument
		format = store.FormatFromPath(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := store.Unmarshal(data, format, v); err != nil {
		return perrors.New(perrors.ErrInvalidFormat, "invalid input").WithDetail("source", path).Wrap(err)
	}
	return nil
}

// countArg parses the optional batch count argument.
func countArg(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid count %q: want a positive integer", args[0])
	}
	return n, nil
}

func (a *app) initCmd() *cobra.Command {
	var backend, path, format string
	var journal string
	var git, force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the configuration file and an empty document",
		Args:  cobra.NoArgs,
		// The existing configuration, if any, is about to be replaced.
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setLevel("")
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(a.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", a.configPath)
			}
			cfg := config.Default()
			if backend != "" {
				cfg.Store.Backend = backend
				if backend == config.BackendBadger {
					cfg.Store.Path = "palette.db"
				}
			}
			if path != "" {
				cfg.Store.Path = path
			}
			cfg.Store.Format = format
			cfg.Git.Enabled = git
			cfg.History.Journal = journal
			if err := cfg.Save(a.configPath); err != nil {
				return err
			}
			if err := a.loadConfig(); err != nil {
				return err
			}
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			if err := s.save(cmd.Context()); err != nil {
				return err
			}
			slog.InfoContext(cmd.Context(), "Initialized palette", "config", a.configPath, "backend", a.cfg.Store.Backend, "path", a.cfg.Store.Path)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s\n", a.cfg.Store.Path)
			return err
		},
	}
	cmd.Flags().StringVar(&backend, "backend", "", "Store backend (file, badger)")
	cmd.Flags().StringVar(&path, "path", "", "Document file or database directory")
	cmd.Flags().StringVar(&format, "format", "", "Document format for the file backend (json, yaml)")
	cmd.Flags().BoolVar(&git, "git", false, "Commit every save to a git repository")
	cmd.Flags().StringVar(&journal, "journal", "", "Record every edit in this JSONL file")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration")
	return cmd
}

func (a *app) applyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <ops.yaml>",
		Short: "Apply a list of operations as one undoable batch",
		Long: `Reads a YAML or JSON list of operations, applies them in order and records
them as a single undoable batch. Use "-" to read standard input. Nothing is
saved when an operation fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ops []palette.Operation
			if err := readInput(cmd, args[0], &ops); err != nil {
				return err
			}
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			if err := s.palette.ApplyOperations(ops, s.history); err != nil {
				return fmt.Errorf("failed to apply operations: %w", err)
			}
			if err := s.save(cmd.Context()); err != nil {
				return err
			}
			if err := a.record(s, store.ActionApply, ops, 1); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Applied %d operations (%d undo, %d redo)\n",
				len(ops), s.history.UndoCount(), s.history.RedoCount())
			return err
		},
	}
}

func (a *app) undoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo [n]",
		Short: "Revert the last n batches",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.step(cmd, args, store.ActionUndo, "Undid", (*palette.Palette).Undo)
		},
	}
}

func (a *app) redoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "redo [n]",
		Short: "Reapply the last n undone batches",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.step(cmd, args, store.ActionRedo, "Redid", (*palette.Palette).Redo)
		},
	}
}

func (a *app) step(cmd *cobra.Command, args []string, action, verb string, f func(*palette.Palette, *palette.History, int) (int, error)) error {
	n, err := countArg(args)
	if err != nil {
		return err
	}
	s, err := a.open(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()
	done, err := f(s.palette, s.history, n)
	if err != nil {
		return fmt.Errorf("failed after %d batches: %w", done, err)
	}
	if done > 0 {
		if err := s.save(cmd.Context()); err != nil {
			return err
		}
		if err := a.record(s, action, nil, done); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %d batches (%d undo, %d redo)\n",
		verb, done, s.history.UndoCount(), s.history.RedoCount())
	return err
}

// record appends the edit to the journal when one is configured.
func (a *app) record(s *session, action string, ops []palette.Operation, batches int) error {
	if a.cfg.History.Journal == "" {
		return nil
	}
	j, err := store.OpenJournal(a.cfg.History.Journal)
	if err != nil {
		return err
	}
	return j.Append(store.JournalEntry{
		Action:  action,
		Ops:     ops,
		Batches: batches,
		Summary: store.NewDocument(s.palette, s.history).Summary(),
	})
}

func (a *app) journalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "journal [n]",
		Short: "List the last n edits recorded in the journal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.History.Journal == "" {
				return errors.New("history.journal is not configured")
			}
			n := 20
			if len(args) == 1 {
				var err error
				if n, err = countArg(args); err != nil {
					return err
				}
			}
			j, err := store.OpenJournal(a.cfg.History.Journal)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, e := range j.Tail(n) {
				count := e.Batches
				if e.Action == store.ActionApply {
					count = len(e.Ops)
				}
				_, _ = fmt.Fprintf(w, "%s %-5s %3d  %s\n", e.Time.Local().Format("2006-01-02 15:04:05"), e.Action, count, e.Summary)
			}
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			version, goVersion, revision, dirty := getBuildInfo()
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "palettedb %s\n", version)
			_, _ = fmt.Fprintf(w, "  Go version: %s\n", goVersion)
			_, _ = fmt.Fprintf(w, "  Revision:   %s\n", revision)
			if dirty {
				_, _ = fmt.Fprintf(w, "  Modified:   true\n")
			}
			return nil
		},
	}
}

var errNotGit = errors.New("this command requires git.enabled with the file backend")

func gitStore(s *session) (*store.GitStore, error) {
	gs, ok := s.store.(*store.GitStore)
	if !ok {
		return nil, errNotGit
	}
	return gs, nil
}
