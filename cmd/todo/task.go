package main

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/spf13/cobra"

	"github.com/and161185/todo-cli/internal/model"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Task management commands",
}

var (
	addDescription string
	addPriority    string
	addDue         string

	listStatus   string
	listPriority string
	listSearch   string
	listOverdue  bool

	updateTitle       string
	updateDescription string
	updateStatus      string
	updatePriority    string
	updateDue         string
)

func init() {
	addCmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new task",
		Args:  cobra.ExactArgs(1),
		RunE:  runTaskAdd,
	}
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "task description")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "medium", "task priority (low|medium|high)")
	addCmd.Flags().StringVar(&addDue, "due", "", "due date (YYYY-MM-DD or RFC3339)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks with optional filtering",
		Args:  cobra.NoArgs,
		RunE:  runTaskList,
	}
	listCmd.Flags().StringVarP(&listStatus, "status", "s", "", "filter by status (pending|in-progress|completed)")
	listCmd.Flags().StringVarP(&listPriority, "priority", "p", "", "filter by priority (low|medium|high)")
	listCmd.Flags().StringVar(&listSearch, "search", "", "search in title and description")
	listCmd.Flags().BoolVar(&listOverdue, "overdue", false, "show overdue tasks only")

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an existing task",
		Args:  cobra.ExactArgs(1),
		RunE:  runTaskUpdate,
	}
	updateCmd.Flags().StringVarP(&updateTitle, "title", "t", "", "new title")
	updateCmd.Flags().StringVarP(&updateDescription, "description", "d", "", "new description")
	updateCmd.Flags().StringVarP(&updateStatus, "status", "s", "", "new status (pending|in-progress|completed)")
	updateCmd.Flags().StringVarP(&updatePriority, "priority", "p", "", "new priority (low|medium|high)")
	updateCmd.Flags().StringVar(&updateDue, "due", "", "new due date (YYYY-MM-DD or RFC3339)")

	taskCmd.AddCommand(
		addCmd,
		listCmd,
		updateCmd,
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show a single task",
			Args:  cobra.ExactArgs(1),
			RunE:  runTaskShow,
		},
		&cobra.Command{
			Use:   "complete <id>...",
			Short: "Mark one or more tasks as completed",
			Args:  cobra.MinimumNArgs(1),
			RunE:  runTaskComplete,
		},
		&cobra.Command{
			Use:   "uncomplete <id>",
			Short: "Mark a completed task as pending again",
			Args:  cobra.ExactArgs(1),
			RunE:  runTaskUncomplete,
		},
		&cobra.Command{
			Use:   "start <id>",
			Short: "Mark a pending task as in progress",
			Args:  cobra.ExactArgs(1),
			RunE:  runTaskStart,
		},
		&cobra.Command{
			Use:   "delete <id>...",
			Short: "Delete one or more tasks",
			Args:  cobra.MinimumNArgs(1),
			RunE:  runTaskDelete,
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Show task statistics",
			Args:  cobra.NoArgs,
			RunE:  runTaskStats,
		},
	)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	user, err := app.requireUser(cmd.Context())
	if err != nil {
		return err
	}

	priority, err := model.ParsePriority(addPriority)
	if err != nil {
		return err
	}
	due, err := parseDueDate(addDue)
	if err != nil {
		return err
	}

	req := model.StoreTaskRequest{
		Title:    args[0],
		Status:   model.StatusPending,
		Priority: priority,
		DueDate:  due,
	}
	if addDescription != "" {
		req.Description = &addDescription
	}

	task, err := app.tasks.CreateTask(cmd.Context(), user.ID, req)
	if err != nil {
		return err
	}
	fmt.Printf("Added task %s\n", task.ID)
	return nil
}

func runTaskList(cmd *cobra.Command, _ []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	user, err := app.requireUser(cmd.Context())
	if err != nil {
		return err
	}

	filter := model.Filter{OverdueOnly: listOverdue, SearchTerm: listSearch}
	if listStatus != "" {
		status, err := model.ParseStatus(listStatus)
		if err != nil {
			return err
		}
		filter.Status = &status
	}
	if listPriority != "" {
		priority, err := model.ParsePriority(listPriority)
		if err != nil {
			return err
		}
		filter.Priority = &priority
	}

	tasks, err := app.tasks.GetTasks(cmd.Context(), user.ID, filter)
	if err != nil {
		return err
	}
	printTaskTable(cmd.OutOrStdout(), tasks)
	return nil
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	user, err := app.requireUser(cmd.Context())
	if err != nil {
		return err
	}
	id, err := uuid.FromString(args[0])
	if err != nil {
		return fmt.Errorf("invalid task id %q", args[0])
	}

	task, err := app.tasks.GetTask(cmd.Context(), user.ID, id)
	if err != nil {
		return err
	}
	printTaskDetail(cmd.OutOrStdout(), task)
	return nil
}

func runTaskUpdate(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	user, err := app.requireUser(cmd.Context())
	if err != nil {
		return err
	}
	id, err := uuid.FromString(args[0])
	if err != nil {
		return fmt.Errorf("invalid task id %q", args[0])
	}

	var req model.UpdateTaskRequest
	if cmd.Flags().Changed("title") {
		req.Title = &updateTitle
	}
	if cmd.Flags().Changed("description") {
		req.Description = &updateDescription
	}
	if cmd.Flags().Changed("status") {
		status, err := model.ParseStatus(updateStatus)
		if err != nil {
			return err
		}
		req.Status = &status
	}
	if cmd.Flags().Changed("priority") {
		priority, err := model.ParsePriority(updatePriority)
		if err != nil {
			return err
		}
		req.Priority = &priority
	}
	if cmd.Flags().Changed("due") {
		due, err := parseDueDate(updateDue)
		if err != nil {
			return err
		}
		req.DueDate = due
	}

	task, err := app.tasks.UpdateTask(cmd.Context(), user.ID, id, req)
	if err != nil {
		return err
	}
	fmt.Printf("Updated task %s\n", task.ID)
	return nil
}

func runTaskComplete(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	user, err := app.requireUser(cmd.Context())
	if err != nil {
		return err
	}
	ids, err := parseTaskIDs(args)
	if err != nil {
		return err
	}

	if len(ids) == 1 {
		task, err := app.tasks.CompleteTask(cmd.Context(), user.ID, ids[0])
		if err != nil {
			return err
		}
		fmt.Printf("Completed task %s\n", task.ID)
		return nil
	}

	updated, err := app.tasks.BulkUpdateStatus(cmd.Context(), user.ID, ids, model.StatusCompleted)
	if err != nil {
		return err
	}
	fmt.Printf("Completed %d of %d tasks\n", len(updated), len(ids))
	return nil
}

func runTaskUncomplete(cmd *cobra.Command, args []string) error {
	return runStatusChange(cmd, args[0], model.StatusPending, "Reopened")
}

func runTaskStart(cmd *cobra.Command, args []string) error {
	return runStatusChange(cmd, args[0], model.StatusInProgress, "Started")
}

func runStatusChange(cmd *cobra.Command, rawID string, status model.Status, verb string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	user, err := app.requireUser(cmd.Context())
	if err != nil {
		return err
	}
	id, err := uuid.FromString(rawID)
	if err != nil {
		return fmt.Errorf("invalid task id %q", rawID)
	}

	task, err := app.tasks.UpdateTask(cmd.Context(), user.ID, id, model.UpdateTaskRequest{Status: &status})
	if err != nil {
		return err
	}
	fmt.Printf("%s task %s\n", verb, task.ID)
	return nil
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	user, err := app.requireUser(cmd.Context())
	if err != nil {
		return err
	}
	ids, err := parseTaskIDs(args)
	if err != nil {
		return err
	}

	if len(ids) == 1 {
		deleted, err := app.tasks.DeleteTask(cmd.Context(), user.ID, ids[0])
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("task not found")
		}
		fmt.Println("Deleted 1 task")
		return nil
	}

	deleted, err := app.tasks.BulkDeleteTasks(cmd.Context(), user.ID, ids)
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %d of %d tasks\n", deleted, len(ids))
	return nil
}

func runTaskStats(cmd *cobra.Command, _ []string) error {
	app, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	user, err := app.requireUser(cmd.Context())
	if err != nil {
		return err
	}

	stats, err := app.tasks.GetStatistics(cmd.Context(), user.ID)
	if err != nil {
		return err
	}
	printStatistics(cmd.OutOrStdout(), stats)
	return nil
}

func parseTaskIDs(args []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(args))
	for _, raw := range args {
		id, err := uuid.FromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid task id %q", raw)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseDueDate accepts YYYY-MM-DD (interpreted as end of that local day) or
// RFC3339. Empty input means no due date.
func parseDueDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	day, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q (want YYYY-MM-DD or RFC3339)", raw)
	}
	end := day.Add(24*time.Hour - time.Second)
	return &end, nil
}
