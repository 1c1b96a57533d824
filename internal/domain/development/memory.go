package development

import (
	"context"
	"sync"
	"time"
)

type MemoryStore struct {
	mu    sync.Mutex
	goals map[string]*Goal
	order []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{goals: map[string]*Goal{}}
}

func (s *MemoryStore) Insert(ctx context.Context, goal Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := cloneGoal(goal)
	s.goals[goal.ID] = &clone
	s.order = append(s.order, goal.ID)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	goal, ok := s.goals[id]
	if !ok {
		return Goal{}, ErrNotFound
	}
	return cloneGoal(*goal), nil
}

func (s *MemoryStore) Apply(ctx context.Context, id string, patch Patch) (Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	goal, ok := s.goals[id]
	if !ok {
		return Goal{}, ErrNotFound
	}
	patch.applyTo(goal, time.Now().UTC())
	return cloneGoal(*goal), nil
}

func (s *MemoryStore) AddComment(ctx context.Context, goalID string, comment Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	goal, ok := s.goals[goalID]
	if !ok {
		return ErrNotFound
	}
	goal.Comments = append(goal.Comments, comment)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Goal, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, cloneGoal(*s.goals[id]))
	}
	return out, nil
}

func cloneGoal(goal Goal) Goal {
	clone := goal
	clone.Comments = make([]Comment, len(goal.Comments))
	copy(clone.Comments, goal.Comments)
	if goal.CompletedAt != nil {
		completed := *goal.CompletedAt
		clone.CompletedAt = &completed
	}
	return clone
}
