// Package storage implements the write-through persistent backing store
// consumed by the cache server: write, read, and delete of whole values
// keyed by opaque byte strings, rooted at a single directory on disk.
package storage

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/H2Owater425/dqache/internal/logger"
)

// ErrFull is returned when a write fails because the backing filesystem has
// no space (or quota) left. The server maps this to the wire ERROR kind
// StorageFull and keeps the connection open.
var ErrFull = errors.New("storage is full")

// Storage is a directory-backed key/value store. One file per key, named by
// the hex encoding of the raw key bytes so that arbitrary (non-UTF-8, or
// path-traversal-shaped) keys never escape the root directory. Writes are
// staged to a temporary file, fsynced, then renamed into place so a reader
// never observes a partially written value.
//
// Reads run concurrently with each other; writes and deletes are mutually
// exclusive with everything, mirroring the reader/writer lock called for by
// the consumed storage contract.
type Storage struct {
	mu  sync.RWMutex
	dir string
	log logger.ILogger
}

// Open ensures dir exists and returns a Storage rooted there.
func Open(dir string, log logger.ILogger) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create directory %q: %w", dir, err)
	}
	if log == nil {
		log = logger.NewConsole(os.Stderr)
	}
	return &Storage{dir: dir, log: log.Sub("storage")}, nil
}

// Write stages value to a temporary file under dir, fsyncs it, and renames
// it over key's existing file (if any). The rename is atomic on every
// filesystem this package targets, so a concurrent Read never observes a
// half-written value.
func (s *Storage) Write(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "dqache-tmp-*")
	if err != nil {
		return s.classify(err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return s.classify(err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return s.classify(err)
	}
	if err := tmp.Close(); err != nil {
		return s.classify(err)
	}
	if err := os.Rename(tmpPath, s.path(key)); err != nil {
		return s.classify(err)
	}
	return nil
}

// Read returns the stored value for key and true, or (nil, false, nil) if
// key has never been written (or was deleted).
func (s *Storage) Read(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, s.classify(err)
	}
	return data, true, nil
}

// Delete removes key's file, reporting whether it previously existed.
func (s *Storage) Delete(key string) (existed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, s.classify(err)
	}
	return true, nil
}

func (s *Storage) path(key string) string {
	return filepath.Join(s.dir, hex.EncodeToString([]byte(key)))
}

// classify maps ENOSPC/EDQUOT to ErrFull so the server can report
// StorageFull instead of a generic IoError; everything else is wrapped
// as-is for logging.
func (s *Storage) classify(err error) error {
	if errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EDQUOT) {
		s.log.Warningf("backing store is full: %v", err)
		return ErrFull
	}
	return fmt.Errorf("storage: %w", err)
}
