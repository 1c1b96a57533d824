package development

import "context"

type Store interface {
	Insert(ctx context.Context, goal Goal) error
	Get(ctx context.Context, id string) (Goal, error)
	// Apply merges the patch atomically and returns the updated goal.
	Apply(ctx context.Context, id string, patch Patch) (Goal, error)
	AddComment(ctx context.Context, goalID string, comment Comment) error
	List(ctx context.Context) ([]Goal, error)
}
