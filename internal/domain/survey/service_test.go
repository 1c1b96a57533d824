package survey

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func newTestService() *Service {
	return NewService(NewMemoryStore(DefaultQuestions()))
}

func TestSubmitScaleAnswer(t *testing.T) {
	svc := newTestService()

	response, err := svc.Submit(context.Background(), "u-ana", "q-satisfaction", NumberValue(4))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if response.ID == "" {
		t.Error("expected a generated response ID")
	}
	if response.Value.Number == nil || *response.Value.Number != 4 {
		t.Errorf("value = %+v, want 4", response.Value)
	}
	if response.SubmittedAt.IsZero() {
		t.Error("expected submittedAt to be set")
	}
}

func TestSubmitScaleValidation(t *testing.T) {
	svc := newTestService()

	cases := []struct {
		name  string
		value Value
	}{
		{"below range", NumberValue(0)},
		{"above range", NumberValue(6)},
		{"fractional", NumberValue(3.5)},
		{"text for scale", TextValue("great")},
		{"empty", Value{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), "u-ana", "q-satisfaction", tc.value)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want validation error", err)
			}
		})
	}
}

func TestSubmitUnknownQuestion(t *testing.T) {
	svc := newTestService()

	_, err := svc.Submit(context.Background(), "u-ana", "q-nope", NumberValue(3))
	if !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("err = %v, want ErrQuestionNotFound", err)
	}
}

func TestSubmitChoiceAnswer(t *testing.T) {
	svc := newTestService()

	if _, err := svc.Submit(context.Background(), "u-ana", "q-growth-track", TextValue("Leadership")); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	_, err := svc.Submit(context.Background(), "u-ana", "q-growth-track", TextValue("Astronautics"))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want validation error for unknown option", err)
	}
}

func TestSubmitCommentsBypassesQuestionLookup(t *testing.T) {
	svc := newTestService()

	response, err := svc.Submit(context.Background(), "u-ana", QuestionComments, TextValue("More pairing sessions, please."))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if response.QuestionID != QuestionComments {
		t.Errorf("questionId = %q, want %q", response.QuestionID, QuestionComments)
	}

	if _, err := svc.Submit(context.Background(), "u-ana", QuestionComments, TextValue("   ")); err == nil {
		t.Error("expected blank comments to be rejected")
	}
}

func TestRepeatSubmissionsAppend(t *testing.T) {
	svc := newTestService()

	for range 2 {
		if _, err := svc.Submit(context.Background(), "u-ana", "q-satisfaction", NumberValue(5)); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	responses, err := svc.ListResponses(context.Background())
	if err != nil {
		t.Fatalf("ListResponses: %v", err)
	}
	if len(responses) != 2 {
		t.Fatalf("len(responses) = %d, want 2 distinct rows", len(responses))
	}
	if responses[0].ID == responses[1].ID {
		t.Error("repeat submissions must not share an ID")
	}
}

func TestSummaryAverages(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	mustSubmit(t, svc, "u-ana", "q-satisfaction", NumberValue(4))
	mustSubmit(t, svc, "u-maria", "q-satisfaction", NumberValue(2))
	mustSubmit(t, svc, "u-ana", "q-growth-track", TextValue("Leadership"))
	mustSubmit(t, svc, "u-ana", QuestionComments, TextValue("All good."))

	summaries, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}

	byID := make(map[string]QuestionSummary)
	for _, s := range summaries {
		if s.QuestionID == "q-growth-track" {
			t.Error("summary must only cover scale questions")
		}
		byID[s.QuestionID] = s
	}

	sat := byID["q-satisfaction"]
	if sat.Count != 2 || sat.Average != 3 {
		t.Errorf("satisfaction summary = %+v, want count 2 average 3", sat)
	}
	if eng := byID["q-engagement"]; eng.Count != 0 || eng.Average != 0 {
		t.Errorf("unanswered question summary = %+v, want zeroes", eng)
	}
}

func TestValueJSONRoundTrip(t *testing.T) {
	numeric, err := json.Marshal(NumberValue(4))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(numeric) != "4" {
		t.Errorf("numeric value = %s, want 4", numeric)
	}

	var v Value
	if err := json.Unmarshal([]byte(`"free text"`), &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if v.Text != "free text" || v.Number != nil {
		t.Errorf("value = %+v, want text", v)
	}

	if err := json.Unmarshal([]byte(`{"nested":true}`), &v); err == nil {
		t.Error("expected objects to be rejected")
	}
}

func mustSubmit(t *testing.T, svc *Service, userID, questionID string, value Value) {
	t.Helper()
	if _, err := svc.Submit(context.Background(), userID, questionID, value); err != nil {
		t.Fatalf("Submit(%s, %s): %v", userID, questionID, err)
	}
}
