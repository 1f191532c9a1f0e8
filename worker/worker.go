package worker

import "context"

// Worker is a long-running background task. Start blocks until ctx is done.
type Worker interface {
	Start(ctx context.Context) error
}
