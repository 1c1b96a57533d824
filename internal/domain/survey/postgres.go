package survey

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	DB *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (s *PostgresStore) Questions(ctx context.Context) ([]Question, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, body, category, answer_type, options
    FROM survey_questions
    ORDER BY position
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Question
	for rows.Next() {
		var q Question
		var options []byte
		if err := rows.Scan(&q.ID, &q.Text, &q.Category, &q.AnswerType, &options); err != nil {
			return nil, err
		}
		if len(options) > 0 {
			if err := json.Unmarshal(options, &q.Options); err != nil {
				return nil, err
			}
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Append(ctx context.Context, response Response) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO survey_responses (id, user_id, question_id, number_value, text_value, submitted_at)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, response.ID, response.UserID, response.QuestionID, response.Value.Number, response.Value.Text, response.SubmittedAt)
	return err
}

func (s *PostgresStore) ListResponses(ctx context.Context) ([]Response, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, user_id, question_id, number_value, text_value, submitted_at
    FROM survey_responses
    ORDER BY submitted_at
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Response
	for rows.Next() {
		var r Response
		if err := rows.Scan(&r.ID, &r.UserID, &r.QuestionID, &r.Value.Number, &r.Value.Text, &r.SubmittedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
