package meetings

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"thrive/internal/domain/directory"
)

// Mailer delivers meeting invitations. Implementations must be safe for
// concurrent use.
type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type Service struct {
	store     Store
	directory *directory.Service
	mailer    Mailer
	fromAddr  string
	now       func() time.Time
}

func NewService(store Store, dir *directory.Service, mailer Mailer, fromAddr string) *Service {
	return &Service{
		store:     store,
		directory: dir,
		mailer:    mailer,
		fromAddr:  fromAddr,
		now:       time.Now,
	}
}

type ScheduleInput struct {
	EmployeeID  string
	ManagerID   string
	ScheduledAt time.Time
	Topics      []string
	Notes       string
}

// Schedule creates a 1:1 between an employee and a manager and sends both
// participants an invitation. Mail failures are logged, never surfaced.
func (s *Service) Schedule(ctx context.Context, input ScheduleInput) (Meeting, error) {
	if input.EmployeeID == "" {
		return Meeting{}, &ValidationError{Field: "employeeId", Reason: "must not be empty"}
	}
	if input.ManagerID == "" {
		return Meeting{}, &ValidationError{Field: "managerId", Reason: "must not be empty"}
	}
	if input.EmployeeID == input.ManagerID {
		return Meeting{}, &ValidationError{Field: "managerId", Reason: "participants must be two distinct users"}
	}
	if input.ScheduledAt.IsZero() {
		return Meeting{}, &ValidationError{Field: "scheduledAt", Reason: "must be set"}
	}
	if input.ScheduledAt.Before(s.now().Add(-time.Minute)) {
		return Meeting{}, &ValidationError{Field: "scheduledAt", Reason: "must not be in the past"}
	}

	employee, err := s.directory.GetUser(ctx, input.EmployeeID)
	if err != nil {
		return Meeting{}, &ValidationError{Field: "employeeId", Reason: "unknown user"}
	}
	manager, err := s.directory.GetUser(ctx, input.ManagerID)
	if err != nil {
		return Meeting{}, &ValidationError{Field: "managerId", Reason: "unknown user"}
	}

	meeting := Meeting{
		ID:          uuid.NewString(),
		EmployeeID:  input.EmployeeID,
		ManagerID:   input.ManagerID,
		ScheduledAt: input.ScheduledAt.UTC(),
		Status:      StatusScheduled,
		Notes:       input.Notes,
		Topics:      cleanTopics(input.Topics),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.Insert(ctx, meeting); err != nil {
		return Meeting{}, err
	}

	s.sendInvitations(ctx, meeting, employee, manager)
	return meeting, nil
}

func (s *Service) GetMeeting(ctx context.Context, id string) (Meeting, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) UpdateMeeting(ctx context.Context, id string, patch Patch) (Meeting, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Meeting{}, err
	}
	if err := validatePatch(current, patch); err != nil {
		return Meeting{}, err
	}
	return s.store.Apply(ctx, id, patch)
}

func (s *Service) ListMeetings(ctx context.Context, userID string) ([]Meeting, error) {
	return s.store.ListForParticipant(ctx, userID)
}

func (s *Service) ListAllMeetings(ctx context.Context) ([]Meeting, error) {
	return s.store.ListAll(ctx)
}

func validatePatch(current Meeting, patch Patch) error {
	if patch.Status != nil {
		next := *patch.Status
		switch next {
		case StatusScheduled, StatusHeld, StatusCancelled:
		default:
			return &ValidationError{Field: "status", Reason: "unknown status"}
		}
		if TerminalStatus(current.Status) && next != current.Status {
			return &ValidationError{Field: "status", Reason: fmt.Sprintf("meeting is already %s", current.Status)}
		}
	}
	if patch.ScheduledAt != nil && patch.ScheduledAt.IsZero() {
		return &ValidationError{Field: "scheduledAt", Reason: "must be set"}
	}
	return nil
}

func cleanTopics(topics []string) []string {
	out := make([]string, 0, len(topics))
	for _, topic := range topics {
		topic = strings.TrimSpace(topic)
		if topic != "" {
			out = append(out, topic)
		}
	}
	return out
}

func (s *Service) sendInvitations(ctx context.Context, meeting Meeting, employee, manager directory.User) {
	subject := fmt.Sprintf("1:1 scheduled for %s", meeting.ScheduledAt.Format("2006-01-02 15:04 MST"))
	body := fmt.Sprintf("A 1:1 between %s and %s has been scheduled.", employee.Name, manager.Name)
	if len(meeting.Topics) > 0 {
		body += "\n\nTopics:\n- " + strings.Join(meeting.Topics, "\n- ")
	}
	for _, to := range []string{employee.Email, manager.Email} {
		if to == "" {
			continue
		}
		if err := s.mailer.Send(ctx, s.fromAddr, to, subject, body); err != nil {
			slog.Warn("meeting invitation not delivered", "meetingId", meeting.ID, "to", to, "error", err)
		}
	}
}
