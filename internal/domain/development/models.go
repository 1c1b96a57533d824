package development

import (
	"errors"
	"time"
)

const (
	CategoryTechnical  = "technical"
	CategoryBehavioral = "behavioral"
	CategoryLeadership = "leadership"
	CategoryLanguage   = "language"

	StatusPlanned    = "planned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var (
	Categories = []string{CategoryTechnical, CategoryBehavioral, CategoryLeadership, CategoryLanguage}
	Statuses   = []string{StatusPlanned, StatusInProgress, StatusCompleted, StatusCancelled}
	Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}
)

type Goal struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     time.Time  `json:"dueDate"`
	Progress    int        `json:"progress"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Comments    []Comment  `json:"comments"`
}

// Comment is append-only; AuthorName is a snapshot taken when it is written.
type Comment struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"userId"`
	AuthorName string    `json:"userName"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Patch lists the fields a goal update may legitimately touch. Status and
// progress defaults at creation time are not patchable through AddGoal.
type Patch struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	Priority    *string    `json:"priority"`
	Status      *string    `json:"status"`
	Progress    *int       `json:"progress"`
	DueDate     *time.Time `json:"dueDate"`
}

var ErrNotFound = errors.New("goal not found")

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func TerminalStatus(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// applyTo merges the patch into the goal. The completion timestamp is set the
// first time status becomes completed and never touched again.
func (p Patch) applyTo(goal *Goal, now time.Time) {
	if p.Title != nil {
		goal.Title = *p.Title
	}
	if p.Description != nil {
		goal.Description = *p.Description
	}
	if p.Category != nil {
		goal.Category = *p.Category
	}
	if p.Priority != nil {
		goal.Priority = *p.Priority
	}
	if p.Progress != nil {
		goal.Progress = *p.Progress
	}
	if p.DueDate != nil {
		goal.DueDate = *p.DueDate
	}
	if p.Status != nil {
		goal.Status = *p.Status
		if goal.Status == StatusCompleted && goal.CompletedAt == nil {
			completed := now
			goal.CompletedAt = &completed
		}
	}
}
