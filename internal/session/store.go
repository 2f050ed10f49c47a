// Package session persists client-side session values such as the bearer
// token. Values live in ~/.config/chirp/session.toml.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/chirp/internal/config"
)

// Well-known keys.
const (
	KeyToken = "token"
	KeyTheme = "theme"
)

const defaultSessionPath = "~/.config/chirp/session.toml"

// KV is the key-value capability the rest of chirp depends on.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// Store is a file-backed KV. The file is re-read on every Get so a token
// written by another chirp process is picked up immediately.
type Store struct {
	mu   sync.Mutex
	path string
}

var _ KV = (*Store)(nil)

// DefaultPath returns the default session file path.
func DefaultPath() string {
	return defaultSessionPath
}

// Open resolves path (empty uses the default) and returns a Store. The file
// does not need to exist.
func Open(path string) (*Store, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve session path: %w", err)
	}
	return &Store{path: resolved}, nil
}

// Path returns the resolved session file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value stored under key. A missing or unreadable file
// behaves like an empty store.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := s.load()
	value, ok := values[key]
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}

// Set stores value under key, creating the session file as needed.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := s.load()
	values[key] = value
	return s.save(values)
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := s.load()
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.save(values)
}

func (s *Store) load() map[string]string {
	values := map[string]string{}
	bytes, err := os.ReadFile(s.path)
	if err != nil {
		return values // Graceful degradation
	}
	if err := toml.Unmarshal(bytes, &values); err != nil {
		return map[string]string{}
	}
	return values
}

func (s *Store) save(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	bytes, err := toml.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	// The file holds a bearer token.
	if err := os.WriteFile(s.path, bytes, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Memory is an in-process KV, used for --token overrides and tests.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ KV = (*Memory)(nil)

// NewMemory returns a Memory seeded with values.
func NewMemory(values map[string]string) *Memory {
	m := &Memory{values: make(map[string]string, len(values))}
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

// Get implements KV.
func (m *Memory) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}

// Set implements KV.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}

// Delete implements KV.
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return config.ExpandPath(defaultSessionPath)
	}
	return config.ExpandPath(path)
}
