package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ResultStore persists one JSON file per graded session under a results
// directory. Writes are whole-object; last write wins.
type ResultStore struct {
	dir string
	mu  sync.Mutex
}

// NewResultStore creates the results directory if needed.
func NewResultStore(dir string) (*ResultStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create results directory %s: %w", dir, err)
	}
	return &ResultStore{dir: dir}, nil
}

func (s *ResultStore) path(sessionID string) (string, error) {
	// Session ids become file names; anything that could escape the
	// results directory is rejected.
	if sessionID == "" || filepath.Base(sessionID) != sessionID || strings.HasPrefix(sessionID, ".") {
		return "", ErrResultNotFound
	}
	return filepath.Join(s.dir, "result_"+sessionID+".json"), nil
}

// Save writes a result to result_<session-id>.json.
func (s *ResultStore) Save(result *Result) error {
	path, err := s.path(result.SessionID)
	if err != nil {
		return fmt.Errorf("invalid session id %q", result.SessionID)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result %s: %w", result.SessionID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write result file %s: %w", path, err)
	}
	return nil
}

// Load reads a persisted result by session id.
func (s *ResultStore) Load(sessionID string) (*Result, error) {
	path, err := s.path(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	data, err := os.ReadFile(path)
	s.mu.Unlock()
	if os.IsNotExist(err) {
		return nil, ErrResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read result file %s: %w", path, err)
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse result file %s: %w", path, err)
	}
	return &result, nil
}

// List returns all persisted results, most recent first. Unreadable files
// are skipped.
func (s *ResultStore) List() ([]*Result, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read results directory %s: %w", s.dir, err)
	}

	var results []*Result
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "result_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		sessionID := strings.TrimSuffix(strings.TrimPrefix(name, "result_"), ".json")
		result, err := s.Load(sessionID)
		if err != nil {
			continue
		}
		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].CompletionDate.After(results[j].CompletionDate)
	})
	return results, nil
}
