package meetings

import (
	"errors"
	"time"
)

const (
	StatusScheduled = "scheduled"
	StatusHeld      = "held"
	StatusCancelled = "cancelled"
)

// Meeting is a 1:1 between an employee and their manager.
type Meeting struct {
	ID          string    `json:"id"`
	EmployeeID  string    `json:"employeeId"`
	ManagerID   string    `json:"managerId"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	Topics      []string  `json:"topics"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Patch carries the fields an update may change. Nil means leave as is.
type Patch struct {
	ScheduledAt *time.Time
	Status      *string
	Notes       *string
	Topics      *[]string
}

func (p Patch) applyTo(meeting *Meeting) {
	if p.ScheduledAt != nil {
		meeting.ScheduledAt = p.ScheduledAt.UTC()
	}
	if p.Status != nil {
		meeting.Status = *p.Status
	}
	if p.Notes != nil {
		meeting.Notes = *p.Notes
	}
	if p.Topics != nil {
		meeting.Topics = cleanTopics(*p.Topics)
	}
}

// TerminalStatus reports whether a meeting in this status accepts no further
// status change.
func TerminalStatus(status string) bool {
	return status == StatusHeld || status == StatusCancelled
}

var ErrNotFound = errors.New("meeting not found")

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}
