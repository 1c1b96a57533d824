package survey

import "context"

type Store interface {
	Questions(ctx context.Context) ([]Question, error)
	// Append records one response. The log is append-only: duplicates for the
	// same (user, question) pair are stored as distinct rows, never upserted.
	Append(ctx context.Context, response Response) error
	ListResponses(ctx context.Context) ([]Response, error)
}
