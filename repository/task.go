package repository

import (
	"context"

	"github.com/taskdesk/backend/domain"
)

type TaskRepository interface {
	// ListByOwner returns the owner's tasks in insertion order.
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (int64, error)
	// DeleteOwned removes the task only when both id and owner match and
	// reports whether a row was removed. A miss is not an error: callers
	// must not be able to tell a foreign-owned task from a missing one.
	DeleteOwned(ctx context.Context, ownerID, taskID int64) (bool, error)
	// ClearOwned removes every task belonging to the owner and returns the
	// number of rows removed.
	ClearOwned(ctx context.Context, ownerID int64) (int64, error)
}
