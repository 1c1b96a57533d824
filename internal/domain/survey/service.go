package survey

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Questions(ctx context.Context) ([]Question, error) {
	return s.store.Questions(ctx)
}

// Submit validates and records a single answer. Every submission appends a
// new row, even when the same user answers the same question again.
func (s *Service) Submit(ctx context.Context, userID, questionID string, value Value) (Response, error) {
	if userID == "" {
		return Response{}, &ValidationError{Field: "userId", Reason: "must not be empty"}
	}
	if questionID == "" {
		return Response{}, &ValidationError{Field: "questionId", Reason: "must not be empty"}
	}
	if value.IsZero() {
		return Response{}, &ValidationError{Field: "value", Reason: "must not be empty"}
	}

	if questionID == QuestionComments {
		if strings.TrimSpace(value.Text) == "" {
			return Response{}, &ValidationError{Field: "value", Reason: "comments must be free text"}
		}
	} else {
		question, err := s.findQuestion(ctx, questionID)
		if err != nil {
			return Response{}, err
		}
		if err := validateAnswer(question, value); err != nil {
			return Response{}, err
		}
	}

	response := Response{
		ID:          uuid.NewString(),
		UserID:      userID,
		QuestionID:  questionID,
		Value:       value,
		SubmittedAt: s.now().UTC(),
	}
	if err := s.store.Append(ctx, response); err != nil {
		return Response{}, err
	}
	return response, nil
}

func (s *Service) ListResponses(ctx context.Context) ([]Response, error) {
	return s.store.ListResponses(ctx)
}

// Summary aggregates the average score and answer count per scale question.
type QuestionSummary struct {
	QuestionID string  `json:"questionId"`
	Text       string  `json:"text"`
	Category   string  `json:"category"`
	Average    float64 `json:"average"`
	Count      int     `json:"count"`
}

func (s *Service) Summary(ctx context.Context) ([]QuestionSummary, error) {
	questions, err := s.store.Questions(ctx)
	if err != nil {
		return nil, err
	}
	responses, err := s.store.ListResponses(ctx)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range responses {
		if r.Value.Number == nil {
			continue
		}
		sums[r.QuestionID] += *r.Value.Number
		counts[r.QuestionID]++
	}

	out := make([]QuestionSummary, 0, len(questions))
	for _, q := range questions {
		if q.AnswerType != AnswerScale {
			continue
		}
		summary := QuestionSummary{QuestionID: q.ID, Text: q.Text, Category: q.Category}
		if n := counts[q.ID]; n > 0 {
			summary.Count = n
			summary.Average = sums[q.ID] / float64(n)
		}
		out = append(out, summary)
	}
	return out, nil
}

func (s *Service) findQuestion(ctx context.Context, questionID string) (Question, error) {
	questions, err := s.store.Questions(ctx)
	if err != nil {
		return Question{}, err
	}
	for _, q := range questions {
		if q.ID == questionID {
			return q, nil
		}
	}
	return Question{}, ErrQuestionNotFound
}

func validateAnswer(question Question, value Value) error {
	switch question.AnswerType {
	case AnswerScale:
		if value.Number == nil {
			return &ValidationError{Field: "value", Reason: "scale answers must be numeric"}
		}
		n := *value.Number
		if n < ScaleMin || n > ScaleMax || n != float64(int(n)) {
			return &ValidationError{Field: "value", Reason: "scale answers must be a whole number from 1 to 5"}
		}
	case AnswerMultipleChoice:
		if value.Text == "" {
			return &ValidationError{Field: "value", Reason: "choice answers must name an option"}
		}
		for _, option := range question.Options {
			if option == value.Text {
				return nil
			}
		}
		return &ValidationError{Field: "value", Reason: "answer is not one of the question's options"}
	case AnswerText:
		if strings.TrimSpace(value.Text) == "" {
			return &ValidationError{Field: "value", Reason: "text answers must not be blank"}
		}
	}
	return nil
}
