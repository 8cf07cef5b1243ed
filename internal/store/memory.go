package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/andyalbarracin/condor-dashboard/internal/analytics"
)

// Memory is an in-process store used in tests and when no database is
// configured. Snapshots are kept in serialized form so Load returns an
// independent copy, matching the database-backed behavior.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (s *Memory) Load(_ context.Context, account string) (analytics.Snapshot, error) {
	s.mu.Lock()
	raw, ok := s.data[account]
	s.mu.Unlock()
	if !ok {
		return analytics.Snapshot{}, ErrNotFound
	}
	var snap analytics.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return analytics.Snapshot{}, err
	}
	return snap, nil
}

func (s *Memory) Save(_ context.Context, account string, snap analytics.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[account] = raw
	s.mu.Unlock()
	return nil
}

func (s *Memory) Reset(_ context.Context, account string) error {
	s.mu.Lock()
	delete(s.data, account)
	s.mu.Unlock()
	return nil
}

func (s *Memory) Ping(context.Context) error {
	return nil
}
