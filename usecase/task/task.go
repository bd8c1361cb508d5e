package task

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taskdesk/backend/domain"
	"github.com/taskdesk/backend/repository"
)

type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
	now    func() time.Time
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		logger: logger,
		now:    time.Now,
	}
}

// ListTasks returns the owner's tasks in insertion order.
func (uc *UseCase) ListTasks(ctx context.Context, ownerID int64) ([]domain.Task, error) {
	return uc.tasks.ListByOwner(ctx, ownerID)
}

// AddTask validates the text, fills in today's UTC date when none is given
// and inserts the task for the owner.
func (uc *UseCase) AddTask(ctx context.Context, ownerID int64, text, date string) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, domain.ErrEmptyTask
	}

	date = strings.TrimSpace(date)
	if date == "" {
		date = uc.now().UTC().Format(domain.DateLayout)
	} else if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return 0, domain.ErrInvalidDate
	}

	id, err := uc.tasks.Create(ctx, &domain.Task{
		UserID: ownerID,
		Text:   text,
		Date:   date,
	})
	if err != nil {
		return 0, domain.WrapError(domain.ErrCodeInternal, "task was not added", err)
	}
	return id, nil
}

// DeleteTask removes the task when it belongs to the owner. A missing or
// foreign-owned task is a silent no-op so nothing about other users' tasks
// can be inferred from the outcome.
func (uc *UseCase) DeleteTask(ctx context.Context, ownerID, taskID int64) error {
	deleted, err := uc.tasks.DeleteOwned(ctx, ownerID, taskID)
	if err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "delete task", err)
	}
	if !deleted {
		uc.logger.Debug("delete matched no rows",
			zap.Int64("owner_id", ownerID),
			zap.Int64("task_id", taskID))
	}
	return nil
}

// ClearTasks removes every task owned by ownerID and returns the count.
func (uc *UseCase) ClearTasks(ctx context.Context, ownerID int64) (int64, error) {
	count, err := uc.tasks.ClearOwned(ctx, ownerID)
	if err != nil {
		return 0, domain.WrapError(domain.ErrCodeInternal, "clear tasks", err)
	}
	return count, nil
}
