package server

import (
	"sync"

	"github.com/andy/faktur/internal/export"
)

// Store holds the latest published preview. It is safe for concurrent use.
type Store struct {
	mu  sync.RWMutex
	doc export.Document
	ok  bool
}

func NewStore() *Store {
	return &Store{}
}

// Publish replaces the current snapshot.
func (s *Store) Publish(doc export.Document) {
	s.mu.Lock()
	s.doc, s.ok = doc, true
	s.mu.Unlock()
}

// Snapshot returns the latest document and whether one was published.
func (s *Store) Snapshot() (export.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc, s.ok
}
