package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/xvierd/tempo-cli/internal/adapters/git"
	"github.com/xvierd/tempo-cli/internal/adapters/notification"
	"github.com/xvierd/tempo-cli/internal/adapters/storage"
	"github.com/xvierd/tempo-cli/internal/config"
	"github.com/xvierd/tempo-cli/internal/logging"
	"github.com/xvierd/tempo-cli/internal/ports"
	"github.com/xvierd/tempo-cli/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config     *config.Config
	configPath string
	logger     *zap.Logger
	storage    ports.Storage
	git        ports.GitDetector
	notifier   *notification.Notifier
	tasks      *services.TaskService
	habits     *services.HabitService
	notes      *services.NoteService
	dashboard  *services.DashboardService
	state      *services.StateService
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	var err error
	app.configPath, err = config.GetConfigPath()
	if err != nil {
		return err
	}

	// Load configuration
	app.config, err = config.LoadFrom(app.configPath)
	if err != nil {
		// If config loading fails, use defaults
		app.config = config.DefaultConfig()
	}

	level := app.config.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	if _, err := logging.ParseLevel(level); err != nil {
		return err
	}
	app.logger, err = logging.New(level, config.GetLogPath(app.config))
	if err != nil {
		app.logger = zap.NewNop()
	}

	// Initialize notifier
	app.notifier = notification.New(app.config.Notifications)

	// Determine database path
	path := dbPath
	if path == "" {
		path = config.GetDBPath(app.config)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	// Initialize storage
	app.storage, err = storage.New(path)
	if err != nil {
		app.logger.Error("storage unavailable", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Initialize git detector
	app.git = git.NewDetector()

	// Initialize services
	app.tasks = services.NewTaskService(app.storage, app.git)
	app.habits = services.NewHabitService(app.storage)
	app.notes = services.NewNoteService(app.storage)
	app.dashboard = services.NewDashboardService(app.storage)
	app.state = services.NewStateService(app.tasks, app.habits, app.notes, app.dashboard)

	app.logger.Debug("services initialized", zap.String("db", path))
	return nil
}

// cleanupServices closes all resources.
func cleanupServices() error {
	if app.logger != nil {
		_ = app.logger.Sync()
	}
	if app.storage != nil {
		err := app.storage.Close()
		app.storage = nil
		return err
	}
	return nil
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return ctx
}
