package meetings

import (
	"context"
	"encoding/json"
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

const meetingColumns = "id, employee_id, manager_id, scheduled_at, status, notes, topics, created_at"

func (s *PostgresStore) Insert(ctx context.Context, meeting Meeting) error {
	topics, err := json.Marshal(meeting.Topics)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO meetings (`+meetingColumns+`)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
  `, meeting.ID, meeting.EmployeeID, meeting.ManagerID, meeting.ScheduledAt,
		meeting.Status, meeting.Notes, topics, meeting.CreatedAt)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Meeting, error) {
	row := s.DB.QueryRow(ctx, `SELECT `+meetingColumns+` FROM meetings WHERE id = $1`, id)
	return scanMeeting(row)
}

func (s *PostgresStore) Apply(ctx context.Context, id string, patch Patch) (Meeting, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Meeting{}, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+meetingColumns+` FROM meetings WHERE id = $1 FOR UPDATE`, id)
	meeting, err := scanMeeting(row)
	if err != nil {
		return Meeting{}, err
	}

	patch.applyTo(&meeting)

	topics, err := json.Marshal(meeting.Topics)
	if err != nil {
		return Meeting{}, err
	}
	_, err = tx.Exec(ctx, `
    UPDATE meetings
    SET scheduled_at = $2, status = $3, notes = $4, topics = $5
    WHERE id = $1
  `, meeting.ID, meeting.ScheduledAt, meeting.Status, meeting.Notes, topics)
	if err != nil {
		return Meeting{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Meeting{}, err
	}
	return meeting, nil
}

func (s *PostgresStore) ListForParticipant(ctx context.Context, userID string) ([]Meeting, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+meetingColumns+`
    FROM meetings
    WHERE employee_id = $1 OR manager_id = $1
    ORDER BY scheduled_at DESC
  `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Meeting
	for rows.Next() {
		meeting, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, meeting)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]Meeting, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+meetingColumns+`
    FROM meetings
    ORDER BY scheduled_at DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Meeting
	for rows.Next() {
		meeting, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, meeting)
	}
	return out, rows.Err()
}

func scanMeeting(row pgx.Row) (Meeting, error) {
	var meeting Meeting
	var topics []byte
	err := row.Scan(&meeting.ID, &meeting.EmployeeID, &meeting.ManagerID, &meeting.ScheduledAt,
		&meeting.Status, &meeting.Notes, &topics, &meeting.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Meeting{}, ErrNotFound
	}
	if err != nil {
		return Meeting{}, err
	}
	if len(topics) > 0 {
		if err := json.Unmarshal(topics, &meeting.Topics); err != nil {
			return Meeting{}, err
		}
	}
	if meeting.Topics == nil {
		meeting.Topics = []string{}
	}
	return meeting, nil
}
