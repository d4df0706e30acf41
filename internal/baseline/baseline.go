// Package baseline persists the ratios of a ranking run to a JSON file so
// the next run can report how each duplicated pair moved.
package baseline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/garagon/duprank/internal/ratio"
	"github.com/garagon/duprank/internal/types"
)

// DefaultFile is the baseline file name suggested by `duprank init`.
const DefaultFile = ".duprank-baseline.json"

// Entry is the stored ratio pair for one duplicated file pair.
type Entry struct {
	Ratio1    float64 `json:"ratio1"`
	Ratio2    float64 `json:"ratio2"`
	UpdatedAt string  `json:"updated_at"`
}

// Store persists ratios keyed by types.Ratio.Key.
type Store struct {
	mu      sync.RWMutex
	RunID   string           `json:"run_id,omitempty"`
	Entries map[string]Entry `json:"entries"`
	path    string
}

// New creates a Store backed by the given file path.
func New(path string) *Store {
	return &Store{
		Entries: make(map[string]Entry),
		path:    path,
	}
}

// Load reads the baseline from disk. A missing file leaves the store
// empty. Symlinks are rejected.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Lstat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("baseline file is a symlink (rejected): %s", s.path)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, s); err != nil {
		return fmt.Errorf("parsing %s: %w", s.path, err)
	}
	if s.Entries == nil {
		s.Entries = make(map[string]Entry)
	}
	return nil
}

// Save writes the baseline, creating parent directories with 0o700 and the
// file with 0o600. Symlinks are rejected.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if info, err := os.Lstat(s.path); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("baseline file is a symlink (rejected): %s", s.path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Annotate returns a copy of ratios whose deltas are set for every pair
// present in the baseline. Pairs new since the baseline keep nil deltas.
func (s *Store) Annotate(ratios []types.Ratio) []types.Ratio {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Ratio, len(ratios))
	for i, r := range ratios {
		if prev, ok := s.Entries[r.Key()]; ok {
			d1 := ratio.Round2(r.Ratio1 - prev.Ratio1)
			d2 := ratio.Round2(r.Ratio2 - prev.Ratio2)
			r.Delta1, r.Delta2 = &d1, &d2
		}
		out[i] = r
	}
	return out
}

// Replace discards stored entries and records ratios as the new baseline.
func (s *Store) Replace(runID string, ratios []types.Ratio) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	s.RunID = runID
	s.Entries = make(map[string]Entry, len(ratios))
	for _, r := range ratios {
		s.Entries[r.Key()] = Entry{Ratio1: r.Ratio1, Ratio2: r.Ratio2, UpdatedAt: now}
	}
}
