package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const sessionExt = ".json"

// FileStore keeps one JSON file per session in a directory.
//
// A file's modification time is set to the session's expiry, so Cleanup
// sweeps the directory without decoding anything. Writes go through a
// temporary file and a rename; a reader sees either the old or the new
// session, never a partial one.
type FileStore struct {
	dir string
	now func() time.Time
}

// NewFileStore opens a store in dir, creating it with owner-only
// permissions. An empty dir means ~/.config/honeycomb/sessions.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("session dir: %w", err)
		}
		dir = filepath.Join(home, ".config", "honeycomb", "sessions")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("session dir: %w", err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

// Path returns the session directory.
func (s *FileStore) Path() string { return s.dir }

// file maps a session ID to its path. Only UUIDs map to anything, which
// keeps IDs from escaping the directory.
func (s *FileStore) file(id string) (string, bool) {
	if uuid.Validate(id) != nil {
		return "", false
	}
	return filepath.Join(s.dir, id+sessionExt), true
}

func (s *FileStore) Get(ctx context.Context, id string) (*Session, error) {
	path, ok := s.file(id)
	if !ok {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}

	sess := new(Session)
	if err := json.Unmarshal(data, sess); err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}
	if s.now().After(sess.ExpiresAt) {
		_ = os.Remove(path)
		return nil, nil
	}
	return sess, nil
}

func (s *FileStore) Set(ctx context.Context, sess *Session) error {
	path, ok := s.file(sess.ID)
	if !ok {
		return fmt.Errorf("session id %q is not a UUID", sess.ID)
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".session-*")
	if err != nil {
		return err
	}
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write session %s: %w", sess.ID, err)
	}
	_ = os.Chtimes(tmp.Name(), sess.ExpiresAt, sess.ExpiresAt)
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write session %s: %w", sess.ID, err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	path, ok := s.file(id)
	if !ok {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

// Cleanup removes session files whose expiry (their modification time)
// has passed. It stops early when ctx is done.
func (s *FileStore) Cleanup(ctx context.Context) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	now := s.now()
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.IsDir() || !strings.HasSuffix(e.Name(), sessionExt) {
			continue
		}
		info, err := e.Info()
		if err != nil || !now.After(info.ModTime()) {
			continue
		}
		_ = os.Remove(filepath.Join(s.dir, e.Name()))
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
