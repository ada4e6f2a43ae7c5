package main

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/todo-cli/internal/errs"
	"github.com/and161185/todo-cli/internal/model"
)

func Test_parseDueDate(t *testing.T) {
	due, err := parseDueDate("")
	if err != nil || due != nil {
		t.Fatalf("empty input: %v, %v", due, err)
	}

	due, err = parseDueDate("2026-12-31")
	if err != nil {
		t.Fatalf("date only: %v", err)
	}
	want := time.Date(2026, 12, 31, 23, 59, 59, 0, time.Local)
	if !due.Equal(want) {
		t.Fatalf("date only = %v, want end of day %v", due, want)
	}

	due, err = parseDueDate("2026-12-31T10:30:00Z")
	if err != nil {
		t.Fatalf("rfc3339: %v", err)
	}
	if !due.Equal(time.Date(2026, 12, 31, 10, 30, 0, 0, time.UTC)) {
		t.Fatalf("rfc3339 = %v", due)
	}

	if _, err := parseDueDate("31/12/2026"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func Test_parseTaskIDs(t *testing.T) {
	a := uuid.Must(uuid.NewV4())
	b := uuid.Must(uuid.NewV4())

	ids, err := parseTaskIDs([]string{a.String(), b.String()})
	if err != nil {
		t.Fatalf("parseTaskIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != a || ids[1] != b {
		t.Fatalf("ids = %v", ids)
	}

	if _, err := parseTaskIDs([]string{a.String(), "not-a-uuid"}); err == nil {
		t.Fatalf("expected error for bad id")
	}
}

func Test_userMessage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{errs.Validation("title", "title is required"), "title is required"},
		{errs.ErrAuthenticationFailed, "invalid credentials"},
		{errs.ErrUsernameExists, "username already taken"},
		{errs.ErrEmailExists, "email already registered"},
		{errs.ErrNotFound, "task not found"},
		{errs.ErrAccessDenied, "task not found"},
		{errs.ErrSessionExpired, "session expired, please log in again"},
		{fmt.Errorf("wrapped: %w", errs.ErrNotFound), "task not found"},
		{errors.New("boom"), "boom"},
	}
	for _, tc := range cases {
		if got := userMessage(tc.err); got != tc.want {
			t.Fatalf("userMessage(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func Test_truncateCell(t *testing.T) {
	if got := truncateCell("short"); got != "short" {
		t.Fatalf("short cell changed: %q", got)
	}
	long := strings.Repeat("x", 80)
	got := truncateCell(long)
	if len(got) != tableCellMaxWidth {
		t.Fatalf("truncated length = %d, want %d", len(got), tableCellMaxWidth)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("missing ellipsis: %q", got)
	}
}

func Test_writeTable_Alignment(t *testing.T) {
	var buf bytes.Buffer
	writeTable(&buf, []string{"A", "LONGHEADER"}, [][]string{
		{"xxxx", "y"},
		{"z", "yy"},
	})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d: %q", len(lines), lines)
	}
	// Second column starts at the same offset in every line.
	if !strings.HasPrefix(lines[0], "A     LONGHEADER") {
		t.Fatalf("header row: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "xxxx  y") {
		t.Fatalf("row 1: %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "z     yy") {
		t.Fatalf("row 2: %q", lines[2])
	}
}

func Test_printTaskTable(t *testing.T) {
	var buf bytes.Buffer
	printTaskTable(&buf, nil)
	if got := buf.String(); got != "No tasks found.\n" {
		t.Fatalf("empty list output: %q", got)
	}

	id := uuid.Must(uuid.NewV4())
	buf.Reset()
	printTaskTable(&buf, []model.Task{{
		ID:       id,
		Title:    "write report",
		Status:   model.StatusPending,
		Priority: model.PriorityHigh,
	}})
	out := buf.String()
	if !strings.Contains(out, id.String()[:8]) {
		t.Fatalf("missing id prefix: %q", out)
	}
	if !strings.Contains(out, "write report") {
		t.Fatalf("missing title: %q", out)
	}
	if !strings.Contains(out, "ID") || !strings.Contains(out, "STATUS") {
		t.Fatalf("missing headers: %q", out)
	}
}

func Test_dueCell(t *testing.T) {
	task := &model.Task{Status: model.StatusPending}
	if got := dueCell(task); got != "-" {
		t.Fatalf("no due date: %q", got)
	}

	past := time.Now().Add(-48 * time.Hour)
	task.DueDate = &past
	if got := dueCell(task); !strings.Contains(got, "(overdue)") {
		t.Fatalf("overdue marker missing: %q", got)
	}

	// Completed tasks never show the overdue marker.
	now := time.Now()
	task.Status = model.StatusCompleted
	task.CompletedAt = &now
	if got := dueCell(task); strings.Contains(got, "overdue") {
		t.Fatalf("completed task marked overdue: %q", got)
	}
}

func Test_printStatistics(t *testing.T) {
	var buf bytes.Buffer
	printStatistics(&buf, model.Statistics{Total: 6, Pending: 3, InProgress: 1, Completed: 2, Overdue: 1})
	out := buf.String()
	for _, col := range []string{"TOTAL", "PENDING", "IN PROGRESS", "COMPLETED", "OVERDUE"} {
		if !strings.Contains(out, col) {
			t.Fatalf("missing %q in %q", col, out)
		}
	}
	if !strings.Contains(out, "6") {
		t.Fatalf("missing total in %q", out)
	}
}
