// Package file implements a single-file JSON cache backend for local CLI runs.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kailas-cloud/gridprox/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

type entry struct {
	Version string `json:"version"`
	Expire  int64  `json:"expire"` // unix seconds, 0 = never
	Content string `json:"content"`
}

// Store keeps every entry in one JSON document keyed by cache key.
// Entries written under another version are treated as absent.
type Store struct {
	path    string
	version string
	now     func() time.Time

	mu     sync.Mutex
	closed bool
}

// NewStore opens (creating if needed) the cache file at path.
func NewStore(path, version string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, &db.Error{Op: db.OpWrite, Err: err}
		}
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
			return nil, &db.Error{Op: db.OpWrite, Err: err}
		}
	}
	return &Store{path: path, version: version, now: time.Now}, nil
}

// Ping checks that the cache file is readable.
func (s *Store) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return db.ErrClosed
	}
	if _, err := s.load(); err != nil {
		return err
	}
	return nil
}

// Close marks the store closed. Later calls fail with db.ErrClosed.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Get returns the content stored at key. Missing, expired and stale-version
// entries all report db.ErrKeyNotFound.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, db.ErrClosed
	}

	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	e, ok := entries[key]
	if !ok || e.Version != s.version {
		return nil, db.ErrKeyNotFound
	}
	if e.Expire != 0 && s.now().Unix() >= e.Expire {
		return nil, db.ErrKeyNotFound
	}
	return []byte(e.Content), nil
}

// SetWithTTL stores value at key, preserving every other entry in the file.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return db.ErrClosed
	}

	entries, err := s.load()
	if err != nil {
		return err
	}
	var expire int64
	if ttl > 0 {
		expire = s.now().Add(ttl).Unix()
	}
	entries[key] = entry{Version: s.version, Expire: expire, Content: string(value)}
	return s.save(entries)
}

// Del removes key from the file.
func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return db.ErrClosed
	}

	entries, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return s.save(entries)
}

func (s *Store) load() (map[string]entry, error) {
	data, err := os.ReadFile(filepath.Clean(s.path))
	if err != nil {
		return nil, &db.Error{Op: db.OpRead, Err: err}
	}
	entries := make(map[string]entry)
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &db.Error{Op: db.OpRead, Err: fmt.Errorf("decode %s: %w", s.path, err)}
	}
	return entries, nil
}

// save writes through a temp file so a crash never leaves a truncated cache.
func (s *Store) save(entries map[string]entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return &db.Error{Op: db.OpWrite, Err: err}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return &db.Error{Op: db.OpWrite, Err: err}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return &db.Error{Op: db.OpWrite, Err: err}
	}
	return nil
}
