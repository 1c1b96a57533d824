package development

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	DB *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (s *PostgresStore) Insert(ctx context.Context, goal Goal) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO goals (id, owner_id, title, description, category, status, priority, due_date, progress, created_at, completed_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
  `, goal.ID, goal.OwnerID, goal.Title, goal.Description, goal.Category, goal.Status,
		goal.Priority, goal.DueDate, goal.Progress, goal.CreatedAt, goal.CompletedAt)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Goal, error) {
	goal, err := s.scanGoal(ctx, s.DB, id)
	if err != nil {
		return Goal{}, err
	}
	comments, err := s.loadComments(ctx, []string{id})
	if err != nil {
		return Goal{}, err
	}
	goal.Comments = comments[id]
	if goal.Comments == nil {
		goal.Comments = []Comment{}
	}
	return goal, nil
}

func (s *PostgresStore) Apply(ctx context.Context, id string, patch Patch) (Goal, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Goal{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	goal, err := s.scanGoalForUpdate(ctx, tx, id)
	if err != nil {
		return Goal{}, err
	}
	patch.applyTo(&goal, time.Now().UTC())

	if _, err := tx.Exec(ctx, `
    UPDATE goals
    SET title = $1, description = $2, category = $3, status = $4, priority = $5,
        due_date = $6, progress = $7, completed_at = $8
    WHERE id = $9
  `, goal.Title, goal.Description, goal.Category, goal.Status, goal.Priority,
		goal.DueDate, goal.Progress, goal.CompletedAt, id); err != nil {
		return Goal{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Goal{}, err
	}

	comments, err := s.loadComments(ctx, []string{id})
	if err != nil {
		return Goal{}, err
	}
	goal.Comments = comments[id]
	if goal.Comments == nil {
		goal.Comments = []Comment{}
	}
	return goal, nil
}

func (s *PostgresStore) AddComment(ctx context.Context, goalID string, comment Comment) error {
	cmd, err := s.DB.Exec(ctx, `
    INSERT INTO goal_comments (id, goal_id, author_id, author_name, body, created_at)
    SELECT $1, g.id, $3, $4, $5, $6 FROM goals g WHERE g.id = $2
  `, comment.ID, goalID, comment.AuthorID, comment.AuthorName, comment.Text, comment.CreatedAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Goal, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, owner_id, title, description, category, status, priority, due_date, progress, created_at, completed_at
    FROM goals
    ORDER BY created_at
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []Goal
	var ids []string
	for rows.Next() {
		var goal Goal
		if err := rows.Scan(
			&goal.ID, &goal.OwnerID, &goal.Title, &goal.Description, &goal.Category,
			&goal.Status, &goal.Priority, &goal.DueDate, &goal.Progress, &goal.CreatedAt, &goal.CompletedAt,
		); err != nil {
			return nil, err
		}
		goals = append(goals, goal)
		ids = append(ids, goal.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	comments, err := s.loadComments(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range goals {
		goals[i].Comments = comments[goals[i].ID]
		if goals[i].Comments == nil {
			goals[i].Comments = []Comment{}
		}
	}
	return goals, nil
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *PostgresStore) scanGoal(ctx context.Context, q querier, id string) (Goal, error) {
	return scanGoalRow(q.QueryRow(ctx, `
    SELECT id, owner_id, title, description, category, status, priority, due_date, progress, created_at, completed_at
    FROM goals
    WHERE id = $1
  `, id))
}

func (s *PostgresStore) scanGoalForUpdate(ctx context.Context, tx pgx.Tx, id string) (Goal, error) {
	return scanGoalRow(tx.QueryRow(ctx, `
    SELECT id, owner_id, title, description, category, status, priority, due_date, progress, created_at, completed_at
    FROM goals
    WHERE id = $1
    FOR UPDATE
  `, id))
}

func scanGoalRow(row pgx.Row) (Goal, error) {
	var goal Goal
	err := row.Scan(
		&goal.ID, &goal.OwnerID, &goal.Title, &goal.Description, &goal.Category,
		&goal.Status, &goal.Priority, &goal.DueDate, &goal.Progress, &goal.CreatedAt, &goal.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Goal{}, ErrNotFound
	}
	if err != nil {
		return Goal{}, err
	}
	return goal, nil
}

func (s *PostgresStore) loadComments(ctx context.Context, goalIDs []string) (map[string][]Comment, error) {
	out := map[string][]Comment{}
	if len(goalIDs) == 0 {
		return out, nil
	}
	rows, err := s.DB.Query(ctx, `
    SELECT goal_id, id, author_id, author_name, body, created_at
    FROM goal_comments
    WHERE goal_id = ANY($1)
    ORDER BY created_at
  `, goalIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var goalID string
		var comment Comment
		if err := rows.Scan(&goalID, &comment.ID, &comment.AuthorID, &comment.AuthorName, &comment.Text, &comment.CreatedAt); err != nil {
			return nil, err
		}
		out[goalID] = append(out[goalID], comment)
	}
	return out, rows.Err()
}
