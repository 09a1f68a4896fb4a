package memory

import (
	"context"
	"sync"

	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/ports"
)

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore keeps slots in process memory for development and tests.
type SnapshotStore struct {
	mu     sync.RWMutex
	slots  map[string][]byte
	writes int
	// FailWrites makes Store return the given error, simulating a full or read-only disk.
	FailWrites error
}

// NewSnapshotStore constructs an empty in-memory store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{slots: map[string][]byte{}}
}

// Seed preloads a slot, e.g. with a snapshot from an earlier session.
func (s *SnapshotStore) Seed(key string, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = append([]byte(nil), payload...)
}

// Load returns a copy of the stored payload.
func (s *SnapshotStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.slots[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), payload...), true, nil
}

// Store overwrites the slot.
func (s *SnapshotStore) Store(_ context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	s.slots[key] = append([]byte(nil), payload...)
	s.writes++
	return nil
}

// Writes reports how many successful Store calls happened.
func (s *SnapshotStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
