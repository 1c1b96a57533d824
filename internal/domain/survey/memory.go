package survey

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu        sync.Mutex
	questions []Question
	responses []Response
}

func NewMemoryStore(questions []Question) *MemoryStore {
	return &MemoryStore{questions: questions}
}

func (s *MemoryStore) Questions(ctx context.Context) ([]Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Question, len(s.questions))
	copy(out, s.questions)
	return out, nil
}

func (s *MemoryStore) Append(ctx context.Context, response Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, response)
	return nil
}

func (s *MemoryStore) ListResponses(ctx context.Context) ([]Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Response, len(s.responses))
	copy(out, s.responses)
	return out, nil
}
