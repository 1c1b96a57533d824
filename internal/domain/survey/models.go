package survey

import (
	"encoding/json"
	"errors"
	"time"
)

const (
	CategorySatisfaction = "satisfaction"
	CategoryEngagement   = "engagement"
	CategoryLeadership   = "leadership"
	CategoryEnvironment  = "environment"

	AnswerScale          = "scale"
	AnswerMultipleChoice = "multiple_choice"
	AnswerText           = "text"

	// QuestionComments is the sentinel question ID carrying the optional
	// free-text addendum of a submission.
	QuestionComments = "comments"

	ScaleMin = 1
	ScaleMax = 5
)

type Question struct {
	ID         string   `json:"id"`
	Text       string   `json:"text"`
	Category   string   `json:"category"`
	AnswerType string   `json:"type"`
	Options    []string `json:"options,omitempty"`
}

type Response struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	QuestionID  string    `json:"questionId"`
	Value       Value     `json:"value"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Value is the number-or-text union a response carries: scale answers are
// numbers, choice answers and free text are strings.
type Value struct {
	Number *float64
	Text   string
}

func NumberValue(n float64) Value {
	return Value{Number: &n}
}

func TextValue(text string) Value {
	return Value{Text: text}
}

func (v Value) IsZero() bool {
	return v.Number == nil && v.Text == ""
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.Number != nil {
		return json.Marshal(*v.Number)
	}
	return json.Marshal(v.Text)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		v.Number = &n
		v.Text = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New("value must be a number or a string")
	}
	v.Number = nil
	v.Text = s
	return nil
}

var (
	ErrQuestionNotFound = errors.New("survey question not found")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}
