// Package fsx provides a per-invocation view of the filesystem.
//
// All reads and stat calls go through a Snapshot so that one build run
// observes a consistent set of mtimes and file contents. A Snapshot lives
// for exactly one invocation and is discarded afterwards; there is no
// cross-run invalidation to get wrong.
package fsx

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 4096

type statEntry struct {
	modTime time.Time
	isDir   bool
	exists  bool
}

type readEntry struct {
	data []byte
	err  error
}

// Snapshot caches stat and read results keyed by absolute path.
//
// It is not safe for concurrent use; resolution and validation run
// single-threaded within one invocation.
type Snapshot struct {
	stats *lru.Cache[string, statEntry]
	reads *lru.Cache[string, readEntry]
}

// NewSnapshot creates a snapshot with bounded caches.
func NewSnapshot() *Snapshot {
	stats, err := lru.New[string, statEntry](defaultCacheSize)
	if err != nil {
		panic(fmt.Sprintf("fsx: stat cache: %v", err))
	}
	reads, err := lru.New[string, readEntry](defaultCacheSize)
	if err != nil {
		panic(fmt.Sprintf("fsx: read cache: %v", err))
	}
	return &Snapshot{stats: stats, reads: reads}
}

func (s *Snapshot) stat(path string) statEntry {
	path = filepath.Clean(path)
	if e, ok := s.stats.Get(path); ok {
		return e
	}
	var e statEntry
	if info, err := os.Stat(path); err == nil {
		e = statEntry{modTime: info.ModTime(), isDir: info.IsDir(), exists: true}
	}
	s.stats.Add(path, e)
	return e
}

// Exists reports whether path exists (file or directory).
func (s *Snapshot) Exists(path string) bool {
	return s.stat(path).exists
}

// IsDir reports whether path exists and is a directory.
func (s *Snapshot) IsDir(path string) bool {
	e := s.stat(path)
	return e.exists && e.isDir
}

// ModTime returns the modification time of path. The second return is
// false when the path does not exist.
func (s *Snapshot) ModTime(path string) (time.Time, bool) {
	e := s.stat(path)
	return e.modTime, e.exists
}

// ReadFile returns the contents of path, cached for the invocation.
func (s *Snapshot) ReadFile(path string) ([]byte, error) {
	path = filepath.Clean(path)
	if e, ok := s.reads.Get(path); ok {
		return e.data, e.err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("read %s: %w", path, err)
	}
	s.reads.Add(path, readEntry{data: data, err: err})
	return data, err
}
