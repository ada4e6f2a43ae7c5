package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/todo-cli/internal/model"
)

// TaskRepository provides storage access to tasks. Mutating operations are
// scoped by (id, owner) so a cross-owner write is indistinguishable from
// not-found at this layer.
type TaskRepository interface {
	// Store persists a new task built from the request.
	Store(ctx context.Context, req model.StoreTaskRequest, userID uuid.UUID) (*model.Task, error)
	// FindByID loads a task regardless of owner; nil if absent.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	// FindByUser returns all of the owner's tasks, most recently updated first.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Task, error)
	// FindOverdueByUser returns the owner's overdue, not-completed tasks.
	FindOverdueByUser(ctx context.Context, userID uuid.UUID) ([]model.Task, error)
	// FindByStatus returns the owner's tasks with the given status.
	FindByStatus(ctx context.Context, userID uuid.UUID, status model.Status) ([]model.Task, error)
	// Search matches title OR description, case-insensitive substring.
	Search(ctx context.Context, userID uuid.UUID, term string) ([]model.Task, error)
	// Update overwrites fields present in the request for the (id, owner)
	// pair. errs.ErrNotFound if the pair does not match.
	Update(ctx context.Context, id, userID uuid.UUID, req model.UpdateTaskRequest) (*model.Task, error)
	// Delete removes the (id, owner) pair; false means no matching row.
	Delete(ctx context.Context, id, userID uuid.UUID) (bool, error)
	// CountByUser returns the owner's total task count.
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
