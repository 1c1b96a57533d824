package development

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// NewGoal carries the caller-supplied fields of addGoal. Status, progress and
// the comment log are not part of it: every new goal starts planned at 0%.
type NewGoal struct {
	Title       string
	Description string
	Category    string
	Priority    string
	DueDate     time.Time
}

func (s *Service) AddGoal(ctx context.Context, ownerID string, input NewGoal) (Goal, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Goal{}, &ValidationError{Field: "userId", Reason: "owner is required"}
	}
	if strings.TrimSpace(input.Title) == "" {
		return Goal{}, &ValidationError{Field: "title", Reason: "title is required"}
	}
	if input.DueDate.IsZero() {
		return Goal{}, &ValidationError{Field: "dueDate", Reason: "due date is required"}
	}
	if !oneOf(input.Category, Categories) {
		return Goal{}, &ValidationError{Field: "category", Reason: "must be one of technical, behavioral, leadership, language"}
	}
	if !oneOf(input.Priority, Priorities) {
		return Goal{}, &ValidationError{Field: "priority", Reason: "must be one of low, medium, high"}
	}

	goal := Goal{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Status:      StatusPlanned,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		Progress:    0,
		CreatedAt:   time.Now().UTC(),
		Comments:    []Comment{},
	}
	if err := s.store.Insert(ctx, goal); err != nil {
		return Goal{}, err
	}
	return goal, nil
}

func (s *Service) GetGoal(ctx context.Context, id string) (Goal, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) UpdateGoal(ctx context.Context, id string, patch Patch) (Goal, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Goal{}, err
	}
	if err := validatePatch(current, patch); err != nil {
		return Goal{}, err
	}
	return s.store.Apply(ctx, id, patch)
}

func (s *Service) AddComment(ctx context.Context, goalID, authorID, authorName, text string) (Comment, error) {
	if strings.TrimSpace(text) == "" {
		return Comment{}, &ValidationError{Field: "text", Reason: "comment text is required"}
	}
	comment := Comment{
		ID:         uuid.NewString(),
		AuthorID:   authorID,
		AuthorName: authorName,
		Text:       strings.TrimSpace(text),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.AddComment(ctx, goalID, comment); err != nil {
		return Comment{}, err
	}
	return comment, nil
}

// Filter scopes a goal listing. The zero value matches every goal, so the
// same predicate serves the owner view, the manager view and the admin view.
type Filter struct {
	OwnerID  string
	OwnerIDs []string
}

func (f Filter) Match(goal Goal) bool {
	if f.OwnerID != "" && goal.OwnerID != f.OwnerID {
		return false
	}
	if len(f.OwnerIDs) > 0 {
		for _, id := range f.OwnerIDs {
			if goal.OwnerID == id {
				return true
			}
		}
		return false
	}
	return true
}

func (s *Service) ListGoals(ctx context.Context, filter Filter) ([]Goal, error) {
	goals, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Goal, 0, len(goals))
	for _, goal := range goals {
		if filter.Match(goal) {
			out = append(out, goal)
		}
	}
	return out, nil
}

func validatePatch(current Goal, patch Patch) error {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return &ValidationError{Field: "title", Reason: "title cannot be blank"}
	}
	if patch.Category != nil && !oneOf(*patch.Category, Categories) {
		return &ValidationError{Field: "category", Reason: "unknown category"}
	}
	if patch.Priority != nil && !oneOf(*patch.Priority, Priorities) {
		return &ValidationError{Field: "priority", Reason: "unknown priority"}
	}
	if patch.Progress != nil && (*patch.Progress < 0 || *patch.Progress > 100) {
		return &ValidationError{Field: "progress", Reason: "must be between 0 and 100"}
	}
	if patch.DueDate != nil && patch.DueDate.IsZero() {
		return &ValidationError{Field: "dueDate", Reason: "due date cannot be cleared"}
	}
	if patch.Status != nil {
		if !oneOf(*patch.Status, Statuses) {
			return &ValidationError{Field: "status", Reason: "unknown status"}
		}
		// Re-sending the current terminal status is an accepted no-op, which
		// keeps repeated "completed" updates idempotent.
		if TerminalStatus(current.Status) && *patch.Status != current.Status {
			return &ValidationError{Field: "status", Reason: "goal is " + current.Status + " and cannot change status"}
		}
	}
	return nil
}

func oneOf(value string, allowed []string) bool {
	for _, candidate := range allowed {
		if value == candidate {
			return true
		}
	}
	return false
}
