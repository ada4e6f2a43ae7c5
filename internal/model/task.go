// Package model defines domain entities used by services and repositories.
package model

import (
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/todo-cli/internal/errs"
)

const (
	titleMaxLen       = 255
	descriptionMaxLen = 1000
)

// Task is a single todo item owned by exactly one user.
type Task struct {
	ID          uuid.UUID
	Title       string
	Description *string
	Status      Status
	Priority    Priority
	DueDate     *time.Time
	CompletedAt *time.Time
	UserID      uuid.UUID // owner, immutable after creation
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StoreTaskRequest carries fields for creating a task.
type StoreTaskRequest struct {
	Title       string
	Description *string
	Status      Status
	Priority    Priority
	DueDate     *time.Time
}

// Validate checks field shape for a create request.
func (r *StoreTaskRequest) Validate() error {
	if err := validateTitle(r.Title); err != nil {
		return err
	}
	if err := validateDescription(r.Description); err != nil {
		return err
	}
	if !r.Status.Valid() {
		return errs.Validation("status", "unknown status value")
	}
	if !r.Priority.Valid() {
		return errs.Validation("priority", "unknown priority value")
	}
	return nil
}

// UpdateTaskRequest carries optional field overwrites; nil means "leave as is".
type UpdateTaskRequest struct {
	Title       *string
	Description *string
	Status      *Status
	Priority    *Priority
	DueDate     *time.Time
}

// Validate checks field shape for an update request.
func (r *UpdateTaskRequest) Validate() error {
	if r.Title != nil {
		if err := validateTitle(*r.Title); err != nil {
			return err
		}
	}
	if err := validateDescription(r.Description); err != nil {
		return err
	}
	if r.Status != nil && !r.Status.Valid() {
		return errs.Validation("status", "unknown status value")
	}
	if r.Priority != nil && !r.Priority.Valid() {
		return errs.Validation("priority", "unknown priority value")
	}
	return nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return errs.Validation("title", "title is required")
	}
	if len(title) > titleMaxLen {
		return errs.Validation("title", "title must be 1-255 characters")
	}
	return nil
}

func validateDescription(desc *string) error {
	if desc != nil && len(*desc) > descriptionMaxLen {
		return errs.Validation("description", "description must be at most 1000 characters")
	}
	return nil
}

// NewTask validates the request and builds a task with derived timestamps.
// completed_at is set iff the initial status is Completed.
func NewTask(request StoreTaskRequest, userID uuid.UUID) (*Task, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var completedAt *time.Time
	if request.Status == StatusCompleted {
		completedAt = &now
	}

	var desc *string
	if request.Description != nil {
		d := strings.TrimSpace(*request.Description)
		desc = &d
	}

	return &Task{
		ID:          id,
		Title:       strings.TrimSpace(request.Title),
		Description: desc,
		Status:      request.Status,
		Priority:    request.Priority,
		DueDate:     request.DueDate,
		CompletedAt: completedAt,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ApplyUpdate overwrites fields present in the request. completed_at is
// recomputed on any transition into or out of Completed, and updated_at is
// bumped only if something actually changed.
func (t *Task) ApplyUpdate(request UpdateTaskRequest) {
	updated := false
	now := time.Now().UTC()

	if request.Title != nil {
		title := strings.TrimSpace(*request.Title)
		if title != "" && t.Title != title {
			t.Title = title
			updated = true
		}
	}

	if request.Description != nil && !strPtrEqual(t.Description, request.Description) {
		t.Description = request.Description
		updated = true
	}

	if request.Status != nil && t.Status != *request.Status {
		old := t.Status
		t.Status = *request.Status
		switch {
		case old != StatusCompleted && t.Status == StatusCompleted:
			t.CompletedAt = &now
		case old == StatusCompleted && t.Status != StatusCompleted:
			t.CompletedAt = nil
		}
		updated = true
	}

	if request.Priority != nil && t.Priority != *request.Priority {
		t.Priority = *request.Priority
		updated = true
	}

	if request.DueDate != nil && !timePtrEqual(t.DueDate, request.DueDate) {
		t.DueDate = request.DueDate
		updated = true
	}

	if updated {
		t.UpdatedAt = now
	}
}

// Complete transitions Pending -> Completed; other states are a no-op.
func (t *Task) Complete() {
	if t.Status != StatusPending {
		return
	}
	now := time.Now().UTC()
	t.Status = StatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
}

// Uncomplete transitions Completed -> Pending; other states are a no-op.
func (t *Task) Uncomplete() {
	if t.Status != StatusCompleted {
		return
	}
	t.Status = StatusPending
	t.CompletedAt = nil
	t.UpdatedAt = time.Now().UTC()
}

// SetInProcess transitions Pending -> InProgress; other states are a no-op.
func (t *Task) SetInProcess() {
	if t.Status != StatusPending {
		return
	}
	t.Status = StatusInProgress
	t.UpdatedAt = time.Now().UTC()
}

// IsOverdue reports whether the due date lies strictly in the past.
func (t *Task) IsOverdue() bool {
	return t.DueDate != nil && t.DueDate.Before(time.Now())
}

// IsCompleted reports whether the task is Completed.
func (t *Task) IsCompleted() bool { return t.Status == StatusCompleted }

// IsInProcess reports whether the task is InProgress.
func (t *Task) IsInProcess() bool { return t.Status == StatusInProgress }

// DaysUntilDue returns whole days until the due date (negative if past),
// or false if no due date is set.
func (t *Task) DaysUntilDue() (int, bool) {
	if t.DueDate == nil {
		return 0, false
	}
	return int(time.Until(*t.DueDate).Hours() / 24), true
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// Statistics summarizes a user's task set. Overdue excludes completed tasks.
type Statistics struct {
	Total      int64
	Pending    int64
	InProgress int64
	Completed  int64
	Overdue    int64
}

// Filter selects a subset of a user's tasks. Empty fields do not constrain.
type Filter struct {
	Status      *Status
	Priority    *Priority
	OverdueOnly bool
	SearchTerm  string
}

// Matches applies the filter's conjunction of non-empty predicates.
// Search matches title OR description, case-insensitive.
func (f *Filter) Matches(t *Task) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.OverdueOnly && !t.IsOverdue() {
		return false
	}
	if f.SearchTerm != "" {
		term := strings.ToLower(f.SearchTerm)
		titleMatch := strings.Contains(strings.ToLower(t.Title), term)
		descMatch := t.Description != nil && strings.Contains(strings.ToLower(*t.Description), term)
		if !titleMatch && !descMatch {
			return false
		}
	}
	return true
}
