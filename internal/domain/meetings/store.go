package meetings

import "context"

type Store interface {
	Insert(ctx context.Context, meeting Meeting) error
	Get(ctx context.Context, id string) (Meeting, error)
	// Apply merges the patch into the stored meeting atomically and returns
	// the result.
	Apply(ctx context.Context, id string, patch Patch) (Meeting, error)
	// ListForParticipant returns meetings where the user is the employee or
	// the manager, newest scheduledAt first.
	ListForParticipant(ctx context.Context, userID string) ([]Meeting, error)
	// ListAll returns every meeting, newest scheduledAt first.
	ListAll(ctx context.Context) ([]Meeting, error)
}
