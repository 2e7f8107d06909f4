// Package history keeps a bounded record of served predictions so the
// web layer can show recent activity. The pipeline itself never
// persists anything; this store belongs to the surrounding application.
package history

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// Entry is one served prediction.
type Entry struct {
	Timestamp   time.Time `json:"timestamp"`
	PredictedKW float64   `json:"predicted_power_kw"`
	HistoryKW   []float64 `json:"actual_last_24h_kw"`
	Source      string    `json:"source,omitempty"`
}

// Store is a fixed-capacity, newest-first record of predictions.
// Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
}

// NewStore creates a store that keeps at most capacity entries.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = 100
	}
	return &Store{capacity: capacity}
}

// Add records a prediction, evicting the oldest entry when full.
func (s *Store) Add(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append([]Entry{e}, s.entries...)
	if len(s.entries) > s.capacity {
		s.entries = s.entries[:s.capacity]
	}
}

// Recent returns up to n entries, newest first.
func (s *Store) Recent(n int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || n > len(s.entries) {
		n = len(s.entries)
	}
	out := make([]Entry, n)
	copy(out, s.entries[:n])
	return out
}

// Len returns the stored entry count.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Snapshot writes the current entries to a JSON file.
func (s *Store) Snapshot(filename string) error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.entries, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}

// Restore loads entries from a JSON snapshot, truncating to capacity.
// A missing file is not an error; the store just starts empty.
func (s *Store) Restore(filename string) error {
	data, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(entries) > s.capacity {
		entries = entries[:s.capacity]
	}
	s.entries = entries
	return nil
}
