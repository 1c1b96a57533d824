package auth

import (
	"context"
	"sync"
	"time"
)

// SessionStore tracks issued sessions by hashed session ID so logout and
// rotation can revoke tokens before they expire.
type SessionStore interface {
	Create(ctx context.Context, userID, tokenHash string, expires time.Time) error
	Valid(ctx context.Context, userID, tokenHash string) (bool, error)
	Revoke(ctx context.Context, userID, tokenHash string) error
	Rotate(ctx context.Context, userID, oldHash, newHash string, expires time.Time) error
}

type sessionRecord struct {
	userID  string
	expires time.Time
	revoked bool
}

type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionRecord
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: map[string]*sessionRecord{}}
}

func (s *MemorySessionStore) Create(ctx context.Context, userID, tokenHash string, expires time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[tokenHash] = &sessionRecord{userID: userID, expires: expires}
	return nil
}

func (s *MemorySessionStore) Valid(ctx context.Context, userID, tokenHash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.sessions[tokenHash]
	if !ok || rec.revoked || rec.userID != userID {
		return false, nil
	}
	return time.Now().Before(rec.expires), nil
}

func (s *MemorySessionStore) Revoke(ctx context.Context, userID, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.sessions[tokenHash]; ok && rec.userID == userID {
		rec.revoked = true
	}
	return nil
}

func (s *MemorySessionStore) Rotate(ctx context.Context, userID, oldHash, newHash string, expires time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.sessions[oldHash]; ok && rec.userID == userID {
		rec.revoked = true
	}
	s.sessions[newHash] = &sessionRecord{userID: userID, expires: expires}
	return nil
}
