package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	DB *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{DB: db}
}

const userColumns = `
    u.id, u.name, u.email, u.role, u.department, u.position,
    COALESCE(u.manager_id, ''), u.password_hash, u.mfa_enabled, u.mfa_secret_enc
`

func (s *PostgresStore) Insert(ctx context.Context, rec Record) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO users (id, name, email, role, department, position, manager_id, password_hash, mfa_enabled, mfa_secret_enc)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
  `, rec.ID, rec.Name, rec.Email, rec.Role, rec.Department, rec.Position,
		nullIfEmpty(rec.ManagerID), rec.PasswordHash, rec.MFAEnabled, rec.MFASecretEnc)
	return err
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (Record, error) {
	return s.scanOne(s.DB.QueryRow(ctx, `
    SELECT `+userColumns+`
    FROM users u
    WHERE u.id = $1
  `, id), ctx, id)
}

func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (Record, error) {
	var id string
	err := s.DB.QueryRow(ctx, "SELECT id FROM users WHERE lower(email) = lower($1)", email).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return s.GetByID(ctx, id)
}

func (s *PostgresStore) List(ctx context.Context) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+userColumns+`
    FROM users u
    ORDER BY u.name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID, &rec.Name, &rec.Email, &rec.Role, &rec.Department, &rec.Position,
			&rec.ManagerID, &rec.PasswordHash, &rec.MFAEnabled, &rec.MFASecretEnc,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	fillTeams(out)
	return out, nil
}

func (s *PostgresStore) SetMFASecret(ctx context.Context, userID string, secretEnc []byte) error {
	cmd, err := s.DB.Exec(ctx, "UPDATE users SET mfa_secret_enc = $1, mfa_enabled = false WHERE id = $2", secretEnc, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) SetMFAEnabled(ctx context.Context, userID string, enabled bool) error {
	cmd, err := s.DB.Exec(ctx, "UPDATE users SET mfa_enabled = $1 WHERE id = $2", enabled, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) scanOne(row pgx.Row, ctx context.Context, id string) (Record, error) {
	var rec Record
	err := row.Scan(
		&rec.ID, &rec.Name, &rec.Email, &rec.Role, &rec.Department, &rec.Position,
		&rec.ManagerID, &rec.PasswordHash, &rec.MFAEnabled, &rec.MFASecretEnc,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}

	rows, err := s.DB.Query(ctx, "SELECT id FROM users WHERE manager_id = $1 ORDER BY name", id)
	if err != nil {
		return Record{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var memberID string
		if err := rows.Scan(&memberID); err != nil {
			return Record{}, err
		}
		rec.TeamMemberIDs = append(rec.TeamMemberIDs, memberID)
	}
	return rec, rows.Err()
}

func fillTeams(records []Record) {
	byManager := map[string][]string{}
	for _, rec := range records {
		if rec.ManagerID != "" {
			byManager[rec.ManagerID] = append(byManager[rec.ManagerID], rec.ID)
		}
	}
	for i := range records {
		records[i].TeamMemberIDs = byManager[records[i].ID]
	}
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
