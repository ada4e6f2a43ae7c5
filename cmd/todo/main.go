// Command todo is a task-management CLI with user accounts.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/and161185/todo-cli/internal/config"
	"github.com/and161185/todo-cli/internal/errs"
	"github.com/and161185/todo-cli/internal/migrate"
	"github.com/and161185/todo-cli/internal/model"
	"github.com/and161185/todo-cli/internal/repository/postgres"
	"github.com/and161185/todo-cli/internal/service"
	"github.com/and161185/todo-cli/internal/session"
)

var (
	version = "dev"
	verbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", userMessage(err))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "todo",
	Short:         "A task-management CLI with user accounts",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(authCmd, taskCmd)
}

// App bundles the wired services for command handlers.
type App struct {
	db     *postgres.DB
	users  service.UserService
	tasks  service.TaskService
	auth   service.AuthService
	logger *zap.Logger
}

// newApp loads config, migrates the database, and wires repositories and
// services. The caller must Close it.
func newApp(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := zap.NewNop()
	if verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
	}

	if err := migrate.Up(ctx, cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("migrate up: %w", err)
	}

	db, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	store, err := session.NewStore(cfg.SessionDir)
	if err != nil {
		db.Close()
		return nil, err
	}

	users := service.NewUserService(postgres.NewUserRepo(db), logger)
	tasks := service.NewTaskService(postgres.NewTaskRepo(db), logger)
	auth := service.NewAuthService(users, store, []byte(cfg.JWTSecret), logger)

	return &App{db: db, users: users, tasks: tasks, auth: auth, logger: logger}, nil
}

// Close releases the connection pool and flushes logs.
func (a *App) Close() {
	a.db.Close()
	_ = a.logger.Sync()
}

// requireUser resolves the current session or fails with a login hint.
func (a *App) requireUser(ctx context.Context) (model.PublicUser, error) {
	user, err := a.auth.GetCurrentUser(ctx)
	if err != nil {
		if errors.Is(err, errs.ErrSessionNotFound) {
			return model.PublicUser{}, errors.New("not logged in (run 'todo auth login' first)")
		}
		return model.PublicUser{}, err
	}
	return user, nil
}

// userMessage maps service errors to short human-readable text. Bad
// credentials never reveal whether the account exists.
func userMessage(err error) string {
	var ve *errs.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, errs.ErrAuthenticationFailed):
		return "invalid credentials"
	case errors.Is(err, errs.ErrUsernameExists):
		return "username already taken"
	case errors.Is(err, errs.ErrEmailExists):
		return "email already registered"
	case errors.Is(err, errs.ErrNotFound):
		return "task not found"
	case errors.Is(err, errs.ErrAccessDenied):
		return "task not found" // do not leak existence of other users' tasks
	case errors.Is(err, errs.ErrSessionExpired):
		return "session expired, please log in again"
	default:
		return err.Error()
	}
}
