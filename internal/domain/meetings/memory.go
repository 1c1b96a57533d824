package meetings

import (
	"context"
	"sort"
	"sync"
)

type MemoryStore struct {
	mu       sync.Mutex
	meetings map[string]Meeting
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{meetings: make(map[string]Meeting)}
}

func (s *MemoryStore) Insert(ctx context.Context, meeting Meeting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meetings[meeting.ID] = cloneMeeting(meeting)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	meeting, ok := s.meetings[id]
	if !ok {
		return Meeting{}, ErrNotFound
	}
	return cloneMeeting(meeting), nil
}

func (s *MemoryStore) Apply(ctx context.Context, id string, patch Patch) (Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	meeting, ok := s.meetings[id]
	if !ok {
		return Meeting{}, ErrNotFound
	}
	patch.applyTo(&meeting)
	s.meetings[id] = cloneMeeting(meeting)
	return cloneMeeting(meeting), nil
}

func (s *MemoryStore) ListForParticipant(ctx context.Context, userID string) ([]Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Meeting
	for _, meeting := range s.meetings {
		if meeting.EmployeeID == userID || meeting.ManagerID == userID {
			out = append(out, cloneMeeting(meeting))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledAt.After(out[j].ScheduledAt)
	})
	return out, nil
}

func (s *MemoryStore) ListAll(ctx context.Context) ([]Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Meeting, 0, len(s.meetings))
	for _, meeting := range s.meetings {
		out = append(out, cloneMeeting(meeting))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledAt.After(out[j].ScheduledAt)
	})
	return out, nil
}

func cloneMeeting(meeting Meeting) Meeting {
	out := meeting
	out.Topics = make([]string, len(meeting.Topics))
	copy(out.Topics, meeting.Topics)
	return out
}
