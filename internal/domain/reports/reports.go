package reports

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"thrive/internal/domain/development"
	"thrive/internal/domain/directory"
	"thrive/internal/domain/meetings"
)

// Summary is the per-user dashboard aggregate.
type Summary struct {
	UserID           string  `json:"userId"`
	ActiveGoals      int     `json:"activeGoals"`
	CompletedGoals   int     `json:"completedGoals"`
	CompletionRate   float64 `json:"completionRate"`
	AverageProgress  float64 `json:"averageProgress"`
	UpcomingMeetings int     `json:"upcomingMeetings"`
	HeldMeetings     int     `json:"heldMeetings"`
}

type Service struct {
	development *development.Service
	meetings    *meetings.Service
	directory   *directory.Service
	now         func() time.Time
}

func NewService(dev *development.Service, mtg *meetings.Service, dir *directory.Service) *Service {
	return &Service{development: dev, meetings: mtg, directory: dir, now: time.Now}
}

func (s *Service) UserSummary(ctx context.Context, userID string) (Summary, error) {
	goals, err := s.development.ListGoals(ctx, development.Filter{OwnerID: userID})
	if err != nil {
		return Summary{}, err
	}
	userMeetings, err := s.meetings.ListMeetings(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{UserID: userID}
	var progressSum int
	for _, goal := range goals {
		progressSum += goal.Progress
		switch goal.Status {
		case development.StatusCompleted:
			summary.CompletedGoals++
		case development.StatusPlanned, development.StatusInProgress:
			summary.ActiveGoals++
		}
	}
	if len(goals) > 0 {
		summary.AverageProgress = float64(progressSum) / float64(len(goals))
		summary.CompletionRate = float64(summary.CompletedGoals) / float64(len(goals))
	}

	now := s.now()
	for _, meeting := range userMeetings {
		switch {
		case meeting.Status == meetings.StatusHeld:
			summary.HeldMeetings++
		case meeting.Status == meetings.StatusScheduled && meeting.ScheduledAt.After(now):
			summary.UpcomingMeetings++
		}
	}
	return summary, nil
}

// DevelopmentPlanPDF renders a user's goals as a printable development plan.
func (s *Service) DevelopmentPlanPDF(ctx context.Context, userID string) ([]byte, error) {
	user, err := s.directory.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	goals, err := s.development.ListGoals(ctx, development.Filter{OwnerID: userID})
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Individual Development Plan", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Individual Development Plan")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("%s  |  %s  |  %s", user.Name, user.Position, user.Department))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Generated "+s.now().UTC().Format("2006-01-02"))
	pdf.Ln(12)

	if len(goals) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.Cell(0, 7, "No development goals recorded.")
	}

	for _, goal := range goals {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 6, goal.Title, "", "L", false)

		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, fmt.Sprintf("%s / %s priority / %s / %d%% / due %s",
			goal.Category, goal.Priority, goal.Status, goal.Progress,
			goal.DueDate.Format("2006-01-02")), "", "L", false)
		if goal.Description != "" {
			pdf.MultiCell(0, 5, goal.Description, "", "L", false)
		}
		for _, comment := range goal.Comments {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.MultiCell(0, 5, fmt.Sprintf("%s (%s): %s",
				comment.AuthorName, comment.CreatedAt.Format("2006-01-02"), comment.Text), "", "L", false)
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
