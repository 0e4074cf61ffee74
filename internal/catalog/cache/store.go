package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/showcase-dev/showcase/internal/fsutil"
)

// Store owns the cache file. The in-memory mapping is safe for concurrent Get/Put.
type Store struct {
	path string

	mu      sync.Mutex
	entries map[string]Entry
}

// NewStore returns an empty store backed by path. Call Load to read persisted state.
func NewStore(path string) *Store {
	return &Store{path: path, entries: map[string]Entry{}}
}

// Path returns the cache file location.
func (s *Store) Path() string { return s.path }

// Load replaces the in-memory mapping with the persisted one.
//
// A missing file is not an error. An unreadable or malformed file leaves the store
// empty and returns an error wrapping ErrCorrupt so the caller can report it; the
// build should carry on regardless.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = map[string]Entry{}

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: cannot read %s: %v", ErrCorrupt, s.path, err)
	}
	var f file
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("%w: invalid JSON in %s: %v", ErrCorrupt, s.path, err)
	}
	if f.Version != FormatVersion {
		return fmt.Errorf("%w: unsupported version %d in %s", ErrCorrupt, f.Version, s.path)
	}
	for k, e := range f.Entries {
		s.entries[k] = e
	}
	return nil
}

// Save atomically overwrites the cache file with the full in-memory mapping.
func (s *Store) Save() error {
	s.mu.Lock()
	f := file{Version: FormatVersion, Entries: make(map[string]Entry, len(s.entries))}
	for k, e := range s.entries {
		f.Entries[k] = e
	}
	s.mu.Unlock()

	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal cache: %w", err)
	}
	b = append(b, '\n')
	if err := fsutil.WriteFileAtomic(s.path, b, 0o644); err != nil {
		return fmt.Errorf("cannot write cache %s: %w", s.path, err)
	}
	return nil
}

// Get returns the entry stored for path.
func (s *Store) Get(path string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[path]
	if ok {
		e.Technologies = slices.Clone(e.Technologies)
	}
	return e, ok
}

// Put upserts the entry for path. Nothing is written until Save.
func (s *Store) Put(path string, e Entry) {
	e.Technologies = slices.Clone(e.Technologies)
	s.mu.Lock()
	s.entries[path] = e
	s.mu.Unlock()
}

// FindByHash returns an entry whose content hash is hash, preferring the smallest path.
// It lets a project that moved in the tree reuse the metadata cached under its old path.
func (s *Store) FindByHash(hash string) (Entry, bool) {
	if hash == "" {
		return Entry{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		best  string
		found bool
	)
	for k, e := range s.entries {
		if e.Hash == hash && (!found || k < best) {
			best, found = k, true
		}
	}
	if !found {
		return Entry{}, false
	}
	e := s.entries[best]
	e.Technologies = slices.Clone(e.Technologies)
	return e, true
}

// Len returns the number of entries held in memory.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Lock takes the exclusive build lock that sits next to the cache file, retrying until
// timeout. The returned func releases it.
func (s *Store) Lock(timeout time.Duration) (func(), error) {
	lockPath := s.path + ".lock"
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return func() {}, fmt.Errorf("cannot create lock dir: %w", err)
	}
	l := flock.New(lockPath)
	deadline := time.Now().Add(timeout)
	for {
		locked, err := l.TryLock()
		if err != nil {
			return func() {}, fmt.Errorf("cannot acquire cache lock: %w", err)
		}
		if locked {
			return func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return func() {}, fmt.Errorf("%w (lock: %s)", ErrLocked, lockPath)
		}
		time.Sleep(100 * time.Millisecond)
	}
}
