package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Author identifies who commits saved documents.
type Author struct {
	Name  string
	Email string
}

// Commit describes one saved revision of the document.
type Commit struct {
	Hash    string    `json:"hash"`
	Message string    `json:"message"`
	Author  string    `json:"author"`
	Email   string    `json:"email"`
	When    time.Time `json:"when"`
}

// GitStore is a FileStore whose directory is a git repository. Every save
// that changes the document is committed, so earlier revisions can be listed
// and loaded back.
type GitStore struct {
	file   *FileStore
	dir    string
	name   string
	author Author
	repo   *gogit.Repository
	mu     sync.Mutex
}

// OpenGit opens the repository holding path, initializing it when needed.
func OpenGit(path string, format Format, author Author, logger *slog.Logger) (*GitStore, error) {
	if author.Name == "" || author.Email == "" {
		return nil, errors.New("git author name and email are required")
	}
	file, err := NewFileStore(path, format, logger)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		repo, err = gogit.PlainInit(dir, false)
		if err != nil {
			return nil, storageError("failed to initialize git repo", err)
		}
		cfg, err := repo.Config()
		if err != nil {
			return nil, storageError("failed to read git config", err)
		}
		cfg.User.Name = author.Name
		cfg.User.Email = author.Email
		if err := repo.SetConfig(cfg); err != nil {
			return nil, storageError("failed to write git config", err)
		}
		file.logger.Info("Initialized git repository", "dir", dir)
	}
	return &GitStore{
		file:   file,
		dir:    dir,
		name:   filepath.Base(path),
		author: author,
		repo:   repo,
	}, nil
}

// Load implements Store. It reads the working copy, which matches the last
// commit unless the file was edited by hand.
func (s *GitStore) Load(ctx context.Context) (*Document, error) {
	return s.file.Load(ctx)
}

// Save implements Store. Saving an unchanged document creates no commit.
func (s *GitStore) Save(ctx context.Context, doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.file.Save(ctx, doc); err != nil {
		return err
	}
	w, err := s.repo.Worktree()
	if err != nil {
		return storageError("failed to get worktree", err)
	}
	if _, err := w.Add(s.name); err != nil {
		return storageError("failed to stage document", err)
	}
	status, err := w.Status()
	if err != nil {
		return storageError("failed to get worktree status", err)
	}
	if fst, ok := status[s.name]; !ok || fst.Staging == gogit.Unmodified {
		s.file.logger.DebugContext(ctx, "Document unchanged, nothing to commit")
		return nil
	}
	now := time.Now()
	sig := &object.Signature{Name: s.author.Name, Email: s.author.Email, When: now}
	msg := "Save palette: " + doc.Summary()
	h, err := w.Commit(msg, &gogit.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		return storageError("failed to commit", err)
	}
	s.file.logger.InfoContext(ctx, "Committed document", "hash", h.String()[:12], "summary", doc.Summary())
	return nil
}

// Log returns up to n commits touching the document, newest first. n <= 0
// means no limit.
func (s *GitStore) Log(_ context.Context, n int) ([]*Commit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.repo.Head(); err != nil {
		// No commit yet.
		return nil, nil
	}
	iter, err := s.repo.Log(&gogit.LogOptions{FileName: &s.name})
	if err != nil {
		return nil, storageError("failed to read git log", err)
	}
	defer iter.Close()
	var commits []*Commit
	for n <= 0 || len(commits) < n {
		c, err := iter.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, storageError("failed to read git log", err)
		}
		subject, _, _ := strings.Cut(c.Message, "\n")
		commits = append(commits, &Commit{
			Hash:    c.Hash.String(),
			Message: subject,
			Author:  c.Author.Name,
			Email:   c.Author.Email,
			When:    c.Author.When,
		})
	}
	return commits, nil
}

// LoadAt returns the document as committed in hash. Abbreviated hashes and
// revisions such as "HEAD" or "HEAD~1" are accepted.
func (s *GitStore) LoadAt(ctx context.Context, hash string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, err := s.repo.ResolveRevision(plumbing.Revision(hash))
	if err != nil {
		return nil, storageError("failed to resolve revision", err).WithDetail("hash", hash)
	}
	c, err := s.repo.CommitObject(*h)
	if err != nil {
		return nil, storageError("failed to get commit", err).WithDetail("hash", hash)
	}
	f, err := c.File(s.name)
	if err != nil {
		return nil, storageError("failed to get document at commit", err)
	}
	r, err := f.Reader()
	if err != nil {
		return nil, storageError("failed to open document at commit", err)
	}
	defer func() { _ = r.Close() }()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, storageError("failed to read document at commit", err)
	}
	doc, err := s.file.decode(data)
	if err != nil {
		return nil, err
	}
	s.file.logger.DebugContext(ctx, "Loaded document at commit", "hash", c.Hash.String()[:12])
	return doc, nil
}

// Dir returns the repository directory.
func (s *GitStore) Dir() string {
	return s.dir
}

// Close implements Store.
func (s *GitStore) Close() error {
	return nil
}
