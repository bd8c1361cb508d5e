package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskdesk/backend/domain"
	"github.com/taskdesk/backend/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Task, error) {
	const query = `
	SELECT id, user_id, task, date, created_at
	FROM tasks
	WHERE user_id = $1
	ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(&task.ID, &task.UserID, &task.Text, &task.Date, &task.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (int64, error) {
	if task == nil {
		return 0, domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO tasks (user_id, task, date)
	VALUES ($1, $2, $3)
	RETURNING id, created_at
	`
	if err := r.pool.QueryRow(ctx, query, task.UserID, task.Text, task.Date).Scan(&task.ID, &task.CreatedAt); err != nil {
		return 0, err
	}
	return task.ID, nil
}

func (r *taskRepository) DeleteOwned(ctx context.Context, ownerID, taskID int64) (bool, error) {
	// The owner check lives in the statement itself so a guessed id can
	// never touch another user's row.
	const query = `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, taskID, ownerID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *taskRepository) ClearOwned(ctx context.Context, ownerID int64) (int64, error) {
	const query = `DELETE FROM tasks WHERE user_id = $1`
	tag, err := r.pool.Exec(ctx, query, ownerID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
