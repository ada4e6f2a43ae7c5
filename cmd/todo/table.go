package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/and161185/todo-cli/internal/model"
)

const tableCellMaxWidth = 50

var (
	pendingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	inProgressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	completedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	highStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	overdueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func statusCell(s model.Status) string {
	switch s {
	case model.StatusInProgress:
		return inProgressStyle.Render(s.String())
	case model.StatusCompleted:
		return completedStyle.Render(s.String())
	default:
		return pendingStyle.Render(s.String())
	}
}

func priorityCell(p model.Priority) string {
	if p == model.PriorityHigh {
		return highStyle.Render(p.String())
	}
	return p.String()
}

func dueCell(t *model.Task) string {
	if t.DueDate == nil {
		return "-"
	}
	cell := t.DueDate.Local().Format("2006-01-02")
	if t.IsOverdue() && !t.IsCompleted() {
		return overdueStyle.Render(cell + " (overdue)")
	}
	return cell
}

func printTaskTable(w io.Writer, tasks []model.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}

	rows := make([][]string, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		rows = append(rows, []string{
			t.ID.String()[:8],
			statusCell(t.Status),
			priorityCell(t.Priority),
			dueCell(t),
			truncateCell(t.Title),
		})
	}
	writeTable(w, []string{"ID", "STATUS", "PRI", "DUE", "TITLE"}, rows)
}

func printTaskDetail(w io.Writer, t *model.Task) {
	fmt.Fprintf(w, "ID:        %s\n", t.ID)
	fmt.Fprintf(w, "Title:     %s\n", t.Title)
	if t.Description != nil && *t.Description != "" {
		fmt.Fprintf(w, "Details:   %s\n", *t.Description)
	}
	fmt.Fprintf(w, "Status:    %s\n", statusCell(t.Status))
	fmt.Fprintf(w, "Priority:  %s\n", priorityCell(t.Priority))
	fmt.Fprintf(w, "Due:       %s\n", dueCell(t))
	if days, ok := t.DaysUntilDue(); ok && !t.IsCompleted() {
		fmt.Fprintf(w, "Days left: %d\n", days)
	}
	if t.CompletedAt != nil {
		fmt.Fprintf(w, "Completed: %s\n", t.CompletedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(w, "Created:   %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04"))
}

func printStatistics(w io.Writer, stats model.Statistics) {
	writeTable(w, []string{"TOTAL", "PENDING", "IN PROGRESS", "COMPLETED", "OVERDUE"}, [][]string{{
		fmt.Sprint(stats.Total),
		fmt.Sprint(stats.Pending),
		fmt.Sprint(stats.InProgress),
		fmt.Sprint(stats.Completed),
		fmt.Sprint(stats.Overdue),
	}})
}

// writeTable renders headers and rows aligned by printable width, so styled
// (colored) cells line up with plain ones.
func writeTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	writeRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			pad := widths[i] - lipgloss.Width(cell)
			if pad < 0 {
				pad = 0
			}
			parts[i] = cell + strings.Repeat(" ", pad)
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	writeRow(headers)
	for _, row := range rows {
		writeRow(row)
	}
}

func truncateCell(s string) string {
	if len(s) <= tableCellMaxWidth {
		return s
	}
	return s[:tableCellMaxWidth-3] + "..."
}
