// Package tokenstore persists the agent-symbol to bearer-token mapping used
// to authenticate per-agent SpaceTraders API calls.
package tokenstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// Store is a thread-safe, file-backed map of agent symbol to bearer token.
// Every mutation is flushed to disk before it returns, so a token survives a
// process restart. Writes go through a temp-file rename so a concurrent
// reader never observes a half-written file.
type Store struct {
	mu     sync.RWMutex
	path   string
	tokens map[string]string
	logger zerolog.Logger
}

// Open loads the store backed by the file at path. A missing or corrupt file
// yields an empty store: the operator can always re-register agents, so a bad
// token file must not prevent startup.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("token file path must not be empty")
	}

	s := &Store{
		path:   path,
		tokens: make(map[string]string),
		logger: logger.With().Str("component", "tokenstore").Logger(),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", path).Msg("token file unreadable, starting empty")
		}
		return s, nil
	}

	if err := json.Unmarshal(data, &s.tokens); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("token file corrupt, starting empty")
		s.tokens = make(map[string]string)
		return s, nil
	}

	s.logger.Debug().Int("count", len(s.tokens)).Msg("loaded agent tokens")
	return s, nil
}

// Get returns the stored token for an agent symbol.
func (s *Store) Get(agentSymbol string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[agentSymbol]
	return token, ok
}

// Set stores or overwrites the token for an agent symbol and persists the
// full mapping. Last write wins.
func (s *Store) Set(agentSymbol, token string) error {
	if agentSymbol == "" {
		return fmt.Errorf("agent symbol must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[agentSymbol] = token
	return s.save()
}

// Delete removes the token for an agent symbol and persists the mapping.
// Deleting an unknown symbol is a no-op.
func (s *Store) Delete(agentSymbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[agentSymbol]; !ok {
		return nil
	}
	delete(s.tokens, agentSymbol)
	return s.save()
}

// Symbols returns the agent symbols with stored tokens, sorted.
func (s *Store) Symbols() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	symbols := make([]string, 0, len(s.tokens))
	for symbol := range s.tokens {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// Size returns the number of stored tokens.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}

// save writes the mapping atomically. Must be called with the write lock held.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.tokens, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tokens: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp token file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp token file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace token file: %w", err)
	}
	return nil
}
