// Package theme holds the light/dark display flag.
package theme

import "sync"

type Store struct {
	mu     sync.RWMutex
	isDark bool
}

// New returns a store in light mode.
func New() *Store {
	return &Store{}
}

// Toggle flips the flag and returns the new value.
func (s *Store) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isDark = !s.isDark
	return s.isDark
}

func (s *Store) IsDark() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isDark
}
