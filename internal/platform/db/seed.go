package db

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"thrive/internal/domain/directory"
	"thrive/internal/domain/survey"
	"thrive/internal/platform/config"
)

// Seed inserts the fixture users and the reference questionnaire. Inserts are
// keyed on fixed IDs so re-running is a no-op.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	records, err := directory.Fixtures(cfg.SeedUserPassword)
	if err != nil {
		return err
	}
	for _, rec := range records {
		managerID := any(rec.ManagerID)
		if rec.ManagerID == "" {
			managerID = nil
		}
		if _, err := pool.Exec(ctx, `
      INSERT INTO users (id, name, email, role, department, position, manager_id, password_hash, mfa_enabled, mfa_secret_enc)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
      ON CONFLICT (id) DO NOTHING
    `, rec.ID, rec.Name, rec.Email, rec.Role, rec.Department, rec.Position,
			managerID, rec.PasswordHash, rec.MFAEnabled, rec.MFASecretEnc); err != nil {
			return err
		}
	}

	for position, question := range survey.DefaultQuestions() {
		options, err := json.Marshal(question.Options)
		if err != nil {
			return err
		}
		if _, err := pool.Exec(ctx, `
      INSERT INTO survey_questions (id, position, body, category, answer_type, options)
      VALUES ($1,$2,$3,$4,$5,$6)
      ON CONFLICT (id) DO NOTHING
    `, question.ID, position, question.Text, question.Category, question.AnswerType, options); err != nil {
			return err
		}
	}
	return nil
}
