// Package appconfig stores the application's JSON configuration.
//
// Reads are safe from any goroutine. Mutation happens on the owner
// thread only; once a ProcessContext has been published, Set enforces
// that with a panic. Thread-safe with RWMutex for concurrent access.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"gameshell/internal/appenv"
)

// Store holds the application configuration key/value set.
type Store struct {
	mu     sync.RWMutex
	path   string
	values map[string]any
}

// Load reads the config file at path. A missing file is not an error;
// it yields an empty store that Save will create.
func Load(path string) (*Store, error) {
	s := &Store{
		path:   path,
		values: make(map[string]any),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return s, nil
}

// Path returns the file path backing the store.
func (s *Store) Path() string {
	return s.path
}

// Bool returns the value for key, or def when absent or mistyped.
func (s *Store) Bool(key string, def bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.values[key].(bool); ok {
		return v
	}
	return def
}

// Int returns the value for key, or def when absent or mistyped.
// JSON numbers decode as float64; whole values convert.
func (s *Store) Int(key string, def int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch v := s.values[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

// Float returns the value for key, or def when absent or mistyped.
func (s *Store) Float(key string, def float64) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.values[key].(float64); ok {
		return v
	}
	return def
}

// String returns the value for key, or def when absent or mistyped.
func (s *Store) String(key string, def string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.values[key].(string); ok {
		return v
	}
	return def
}

// Set stores a value for key. Mutation is an owner-thread operation;
// calling Set from any other thread after the ProcessContext has been
// published is a programming error and panics.
func (s *Store) Set(key string, value any) {
	if appenv.Published() && !appenv.Get().IsOnOwnerThread() {
		panic("appconfig: Set called off the owner thread")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Save writes the current values to the backing file.
func (s *Store) Save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.values, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", s.path, err)
	}

	return nil
}

// Reload replaces the value set from the backing file. Like Set, it is
// an owner-thread operation; Watch callers post it onto the main loop.
func (s *Store) Reload() error {
	if appenv.Published() && !appenv.Get().IsOnOwnerThread() {
		panic("appconfig: Reload called off the owner thread")
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", s.path, err)
	}

	values := make(map[string]any)
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	return nil
}
