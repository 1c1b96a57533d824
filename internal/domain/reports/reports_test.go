package reports

import (
	"bytes"
	"context"
	"testing"
	"time"

	"thrive/internal/domain/development"
	"thrive/internal/domain/directory"
	"thrive/internal/domain/meetings"
)

type noopMailer struct{}

func (noopMailer) Send(ctx context.Context, from, to, subject, body string) error { return nil }

func newTestService(t *testing.T) (*Service, *development.Service, *meetings.Service) {
	t.Helper()
	ctx := context.Background()

	users := directory.NewMemoryStore()
	if err := directory.SeedMemory(ctx, users, "secret"); err != nil {
		t.Fatalf("seed directory: %v", err)
	}
	dir := directory.NewService(users)

	goalStore := development.NewMemoryStore()
	if err := development.SeedMemory(ctx, goalStore); err != nil {
		t.Fatalf("seed goals: %v", err)
	}
	dev := development.NewService(goalStore)

	mtg := meetings.NewService(meetings.NewMemoryStore(), dir, noopMailer{}, "hr@example.com")
	return NewService(dev, mtg, dir), dev, mtg
}

func TestUserSummary(t *testing.T) {
	svc, dev, mtg := newTestService(t)
	ctx := context.Background()

	// Complete one of the two seeded goals.
	completed := development.StatusCompleted
	if _, err := dev.UpdateGoal(ctx, "g-presentations", development.Patch{Status: &completed}); err != nil {
		t.Fatalf("UpdateGoal: %v", err)
	}

	meeting, err := mtg.Schedule(ctx, meetings.ScheduleInput{
		EmployeeID:  "u-ana",
		ManagerID:   "u-joao",
		ScheduledAt: time.Now().Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	second, err := mtg.Schedule(ctx, meetings.ScheduleInput{
		EmployeeID:  "u-ana",
		ManagerID:   "u-joao",
		ScheduledAt: time.Now().Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	held := meetings.StatusHeld
	if _, err := mtg.UpdateMeeting(ctx, second.ID, meetings.Patch{Status: &held}); err != nil {
		t.Fatalf("UpdateMeeting: %v", err)
	}
	_ = meeting

	summary, err := svc.UserSummary(ctx, "u-ana")
	if err != nil {
		t.Fatalf("UserSummary: %v", err)
	}
	if summary.ActiveGoals != 1 || summary.CompletedGoals != 1 {
		t.Errorf("goal counts = %+v, want 1 active and 1 completed", summary)
	}
	if summary.CompletionRate != 0.5 {
		t.Errorf("completionRate = %v, want 0.5", summary.CompletionRate)
	}
	if summary.UpcomingMeetings != 1 || summary.HeldMeetings != 1 {
		t.Errorf("meeting counts = %+v, want 1 upcoming and 1 held", summary)
	}
}

func TestUserSummaryEmpty(t *testing.T) {
	svc, _, _ := newTestService(t)

	summary, err := svc.UserSummary(context.Background(), "u-carla")
	if err != nil {
		t.Fatalf("UserSummary: %v", err)
	}
	if summary.ActiveGoals != 0 || summary.AverageProgress != 0 || summary.CompletionRate != 0 {
		t.Errorf("summary = %+v, want zeroes", summary)
	}
}

func TestDevelopmentPlanPDF(t *testing.T) {
	svc, _, _ := newTestService(t)

	pdf, err := svc.DevelopmentPlanPDF(context.Background(), "u-ana")
	if err != nil {
		t.Fatalf("DevelopmentPlanPDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("output is not a PDF document")
	}

	if _, err := svc.DevelopmentPlanPDF(context.Background(), "u-ghost"); err == nil {
		t.Error("expected unknown user to fail")
	}
}
