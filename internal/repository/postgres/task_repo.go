package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/todo-cli/internal/errs"
	"github.com/and161185/todo-cli/internal/model"
)

// TaskRepo implements repository.TaskRepository using PostgreSQL.
type TaskRepo struct{ db *DB }

// NewTaskRepo constructs a task repository.
func NewTaskRepo(db *DB) *TaskRepo { return &TaskRepo{db: db} }

const taskColumns = `id, title, description, status, priority, due_date, completed_at, user_id, created_at, updated_at`

func scanTask(row pgx.Row) (*model.Task, error) {
	var t taskRow
	err := row.Scan(&t.m.ID, &t.m.Title, &t.m.Description, &t.status, &t.priority,
		&t.m.DueDate, &t.m.CompletedAt, &t.m.UserID, &t.m.CreatedAt, &t.m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t.toModel(), nil
}

// taskRow is a scan target; status/priority come back as smallint.
type taskRow struct {
	m        model.Task
	status   int16
	priority int16
}

func (t *taskRow) toModel() *model.Task {
	t.m.Status = model.Status(t.status)
	t.m.Priority = model.Priority(t.priority)
	out := t.m
	return &out
}

func collectTasks(rows pgx.Rows) ([]model.Task, error) {
	defer rows.Close()
	var out []model.Task
	for rows.Next() {
		var t taskRow
		err := rows.Scan(&t.m.ID, &t.m.Title, &t.m.Description, &t.status, &t.priority,
			&t.m.DueDate, &t.m.CompletedAt, &t.m.UserID, &t.m.CreatedAt, &t.m.UpdatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, *t.toModel())
	}
	return out, rows.Err()
}

// Store builds a task from the request (deriving completed_at) and inserts it.
func (r *TaskRepo) Store(ctx context.Context, req model.StoreTaskRequest, userID uuid.UUID) (*model.Task, error) {
	t, err := model.NewTask(req, userID)
	if err != nil {
		return nil, err
	}

	const q = `
INSERT INTO tasks (id, title, description, status, priority, due_date, completed_at, user_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + taskColumns
	return scanTask(r.db.Pool.QueryRow(ctx, q,
		t.ID, t.Title, t.Description, int16(t.Status), int16(t.Priority),
		t.DueDate, t.CompletedAt, t.UserID, t.CreatedAt, t.UpdatedAt))
}

// FindByID selects a task by ID regardless of owner; nil if absent.
func (r *TaskRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE id=$1`
	return scanTask(r.db.Pool.QueryRow(ctx, q, id))
}

// FindByUser returns the owner's tasks, most recently updated first.
func (r *TaskRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE user_id=$1 ORDER BY updated_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

// FindOverdueByUser returns overdue, not-completed tasks ordered by due date.
func (r *TaskRepo) FindOverdueByUser(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	const q = `
SELECT ` + taskColumns + `
FROM tasks
WHERE user_id=$1 AND due_date < NOW() AND status <> 2
ORDER BY due_date ASC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

// FindByStatus returns the owner's tasks with the given status.
func (r *TaskRepo) FindByStatus(ctx context.Context, userID uuid.UUID, status model.Status) ([]model.Task, error) {
	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE user_id=$1 AND status=$2 ORDER BY updated_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, userID, int16(status))
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

// Search matches title OR description with a case-insensitive substring.
func (r *TaskRepo) Search(ctx context.Context, userID uuid.UUID, term string) ([]model.Task, error) {
	const q = `
SELECT ` + taskColumns + `
FROM tasks
WHERE user_id=$1 AND (title ILIKE '%' || $2 || '%' OR description ILIKE '%' || $2 || '%')
ORDER BY updated_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, userID, term)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

// Update loads the (id, owner) row inside a transaction, applies the partial
// update with the entity's transition rules, and writes it back.
// errs.ErrNotFound if the pair does not match.
func (r *TaskRepo) Update(ctx context.Context, id, userID uuid.UUID, req model.UpdateTaskRequest) (result *model.Task, err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	const sel = `SELECT ` + taskColumns + ` FROM tasks WHERE id=$1 AND user_id=$2 FOR UPDATE`
	t, err := scanTask(tx.QueryRow(ctx, sel, id, userID))
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errs.ErrNotFound
	}

	t.ApplyUpdate(req)

	const upd = `
UPDATE tasks
SET title=$3, description=$4, status=$5, priority=$6, due_date=$7, completed_at=$8, updated_at=$9
WHERE id=$1 AND user_id=$2`
	if _, err = tx.Exec(ctx, upd, id, userID,
		t.Title, t.Description, int16(t.Status), int16(t.Priority),
		t.DueDate, t.CompletedAt, t.UpdatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes the (id, owner) row; false if no matching row.
func (r *TaskRepo) Delete(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	const q = `DELETE FROM tasks WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CountByUser returns the owner's total task count.
func (r *TaskRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	const q = `SELECT COUNT(*) FROM tasks WHERE user_id=$1`
	var n int64
	if err := r.db.Pool.QueryRow(ctx, q, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
