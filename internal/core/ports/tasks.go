// internal/core/ports/tasks.go
package ports

import (
	"context"

	"github.com/hibiken/asynq"
)

// TaskQueue enqueues background work. *asynq.Client satisfies it.
type TaskQueue interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// SequenceGenerator hands out time-ordered transaction sequence numbers.
type SequenceGenerator interface {
	Next() int64
}
