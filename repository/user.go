package repository

import (
	"context"

	"github.com/taskdesk/backend/domain"
)

type UserRepository interface {
	// Create inserts a new user and returns the assigned id. A taken
	// username yields domain.ErrDuplicateUsername with no partial row.
	Create(ctx context.Context, username, passwordHash string) (int64, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
