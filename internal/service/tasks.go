package service

import (
	"context"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/todo-cli/internal/errs"
	"github.com/and161185/todo-cli/internal/model"
	"github.com/and161185/todo-cli/internal/repository"
)

// TaskService enforces business rules and ownership on top of the repository.
type TaskService interface {
	// CreateTask validates the request and stores a new task for the owner.
	CreateTask(ctx context.Context, userID uuid.UUID, req model.StoreTaskRequest) (*model.Task, error)
	// GetTasks returns the owner's tasks matching the filter.
	GetTasks(ctx context.Context, userID uuid.UUID, filter model.Filter) ([]model.Task, error)
	// GetTask returns a single task. ErrNotFound if absent, ErrAccessDenied
	// if it belongs to a different owner.
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error)
	// UpdateTask applies a partial update scoped by (id, owner).
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req model.UpdateTaskRequest) (*model.Task, error)
	// DeleteTask removes the task; false means nonexistent or not owned.
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) (bool, error)
	// CompleteTask is sugar for an update with status=Completed.
	CompleteTask(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error)
	// BulkUpdateStatus updates each task's status independently.
	BulkUpdateStatus(ctx context.Context, userID uuid.UUID, taskIDs []uuid.UUID, status model.Status) ([]model.Task, error)
	// BulkDeleteTasks deletes each task independently and returns the count.
	BulkDeleteTasks(ctx context.Context, userID uuid.UUID, taskIDs []uuid.UUID) (int, error)
	// SearchTasks matches title OR description, optionally truncated to limit.
	SearchTasks(ctx context.Context, userID uuid.UUID, term string, limit int) ([]model.Task, error)
	// GetOverdueTasks returns overdue, not-completed tasks.
	GetOverdueTasks(ctx context.Context, userID uuid.UUID) ([]model.Task, error)
	// GetStatistics counts the owner's tasks by state.
	GetStatistics(ctx context.Context, userID uuid.UUID) (model.Statistics, error)
}

type TaskServiceImpl struct {
	tasks repository.TaskRepository
	log   *zap.Logger
}

// NewTaskService constructs TaskService. A nil logger means no logging.
func NewTaskService(tasks repository.TaskRepository, log *zap.Logger) *TaskServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskServiceImpl{tasks: tasks, log: log}
}

// CreateTask validates the request and rejects due dates not strictly in the
// future at the moment of the write.
func (s *TaskServiceImpl) CreateTask(ctx context.Context, userID uuid.UUID, req model.StoreTaskRequest) (*model.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := checkDueDate(req.DueDate); err != nil {
		return nil, err
	}

	t, err := s.tasks.Store(ctx, req, userID)
	if err != nil {
		return nil, err
	}
	s.log.Info("task created", zap.String("task_id", t.ID.String()))
	return t, nil
}

// GetTasks selects a repository fast path when the filter matches exactly one
// of status-only, overdue-only, or search-only; otherwise it fetches all of
// the owner's tasks and filters in memory.
func (s *TaskServiceImpl) GetTasks(ctx context.Context, userID uuid.UUID, filter model.Filter) ([]model.Task, error) {
	switch {
	case filter.Status != nil && filter.Priority == nil && !filter.OverdueOnly && filter.SearchTerm == "":
		return s.tasks.FindByStatus(ctx, userID, *filter.Status)
	case filter.Status == nil && filter.Priority == nil && filter.OverdueOnly && filter.SearchTerm == "":
		return s.tasks.FindOverdueByUser(ctx, userID)
	case filter.Status == nil && filter.Priority == nil && !filter.OverdueOnly && filter.SearchTerm != "":
		return s.tasks.Search(ctx, userID, filter.SearchTerm)
	default:
		all, err := s.tasks.FindByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		out := all[:0]
		for i := range all {
			if filter.Matches(&all[i]) {
				out = append(out, all[i])
			}
		}
		return out, nil
	}
}

// GetTask distinguishes not-found from access-denied: the latter means the
// task exists but belongs to someone else.
func (s *TaskServiceImpl) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error) {
	t, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errs.ErrNotFound
	}
	if t.UserID != userID {
		s.log.Warn("task access denied",
			zap.String("task_id", taskID.String()),
			zap.String("user_id", userID.String()))
		return nil, errs.ErrAccessDenied
	}
	return t, nil
}

// UpdateTask validates, enforces the future-due-date rule, and delegates to
// the (id, owner)-scoped repository update.
func (s *TaskServiceImpl) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req model.UpdateTaskRequest) (*model.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := checkDueDate(req.DueDate); err != nil {
		return nil, err
	}
	return s.tasks.Update(ctx, taskID, userID, req)
}

// DeleteTask removes the task. False does not distinguish nonexistent from
// not owned.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) (bool, error) {
	deleted, err := s.tasks.Delete(ctx, taskID, userID)
	if err != nil {
		return false, err
	}
	if deleted {
		s.log.Info("task deleted", zap.String("task_id", taskID.String()))
	}
	return deleted, nil
}

// CompleteTask marks the task Completed via the generic update path.
func (s *TaskServiceImpl) CompleteTask(ctx context.Context, userID, taskID uuid.UUID) (*model.Task, error) {
	status := model.StatusCompleted
	return s.UpdateTask(ctx, userID, taskID, model.UpdateTaskRequest{Status: &status})
}

// BulkUpdateStatus updates each task independently. If every item fails the
// whole call fails with a BulkError; otherwise the successful subset is
// returned and failures are only logged.
func (s *TaskServiceImpl) BulkUpdateStatus(ctx context.Context, userID uuid.UUID, taskIDs []uuid.UUID, status model.Status) ([]model.Task, error) {
	updated := make([]model.Task, 0, len(taskIDs))
	failed := 0

	for _, id := range taskIDs {
		t, err := s.tasks.Update(ctx, id, userID, model.UpdateTaskRequest{Status: &status})
		if err != nil {
			s.log.Warn("bulk status update failed",
				zap.String("task_id", id.String()), zap.Error(err))
			failed++
			continue
		}
		updated = append(updated, *t)
	}

	if failed > 0 && failed == len(taskIDs) {
		return nil, &errs.BulkError{Failed: failed, Total: len(taskIDs)}
	}
	return updated, nil
}

// BulkDeleteTasks deletes each task independently under the same asymmetric
// policy as BulkUpdateStatus.
func (s *TaskServiceImpl) BulkDeleteTasks(ctx context.Context, userID uuid.UUID, taskIDs []uuid.UUID) (int, error) {
	deleted := 0
	failed := 0

	for _, id := range taskIDs {
		ok, err := s.tasks.Delete(ctx, id, userID)
		switch {
		case err != nil:
			s.log.Warn("bulk delete failed", zap.String("task_id", id.String()), zap.Error(err))
			failed++
		case !ok:
			s.log.Warn("bulk delete: task not found or not owned", zap.String("task_id", id.String()))
			failed++
		default:
			deleted++
		}
	}

	if failed > 0 && deleted == 0 {
		return 0, &errs.BulkError{Failed: failed, Total: len(taskIDs)}
	}
	return deleted, nil
}

// SearchTasks trims the term; an empty term returns an empty result. A
// positive limit truncates the result set.
func (s *TaskServiceImpl) SearchTasks(ctx context.Context, userID uuid.UUID, term string, limit int) ([]model.Task, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []model.Task{}, nil
	}
	tasks, err := s.tasks.Search(ctx, userID, term)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}
	return tasks, nil
}

// GetOverdueTasks returns overdue, not-completed tasks.
func (s *TaskServiceImpl) GetOverdueTasks(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	return s.tasks.FindOverdueByUser(ctx, userID)
}

// GetStatistics counts by status over the owner's full task set. Overdue
// excludes tasks that are already completed.
func (s *TaskServiceImpl) GetStatistics(ctx context.Context, userID uuid.UUID) (model.Statistics, error) {
	tasks, err := s.tasks.FindByUser(ctx, userID)
	if err != nil {
		return model.Statistics{}, err
	}

	stats := model.Statistics{Total: int64(len(tasks))}
	for i := range tasks {
		t := &tasks[i]
		switch t.Status {
		case model.StatusPending:
			stats.Pending++
		case model.StatusInProgress:
			stats.InProgress++
		case model.StatusCompleted:
			stats.Completed++
		}
		if t.IsOverdue() && !t.IsCompleted() {
			stats.Overdue++
		}
	}
	return stats, nil
}

// checkDueDate rejects due dates not strictly in the future.
func checkDueDate(due *time.Time) error {
	if due != nil && !due.After(time.Now()) {
		return errs.Validation("due_date", "due date must be in the future")
	}
	return nil
}
