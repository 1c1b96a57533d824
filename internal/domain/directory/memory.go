package directory

import (
	"context"
	"strings"
	"sync"
)

type MemoryStore struct {
	mu    sync.Mutex
	users map[string]*Record
	order []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: map[string]*Record{}}
}

func (s *MemoryStore) Insert(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := rec
	s.users[rec.ID] = &clone
	s.order = append(s.order, rec.ID)
	return nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return *rec, nil
}

func (s *MemoryStore) GetByEmail(ctx context.Context, email string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		if strings.EqualFold(s.users[id].Email, email) {
			return *s.users[id], nil
		}
	}
	return Record{}, ErrNotFound
}

func (s *MemoryStore) List(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.users[id])
	}
	return out, nil
}

func (s *MemoryStore) SetMFASecret(ctx context.Context, userID string, secretEnc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	rec.MFASecretEnc = secretEnc
	rec.MFAEnabled = false
	return nil
}

func (s *MemoryStore) SetMFAEnabled(ctx context.Context, userID string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	rec.MFAEnabled = enabled
	return nil
}
