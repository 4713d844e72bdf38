package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/priya-kumar159/CodeQuest-Project/internal/app"
	"github.com/priya-kumar159/CodeQuest-Project/internal/config"
	"github.com/priya-kumar159/CodeQuest-Project/internal/shared/logging"
	"github.com/priya-kumar159/CodeQuest-Project/internal/tui"
)

// localSession identifies the single user of the terminal client.
const localSession = "local"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "codequest:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	logger, closeLog, err := newLogger(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	deps, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("startup error: %w", err)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logger.Error("failed to close stores", "error", err)
		}
	}()

	program := tea.NewProgram(tui.New(ctx, deps.Controller, localSession), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("terminal ui: %w", err)
	}
	return nil
}

// newLogger keeps log lines off the terminal the UI draws on.
func newLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return logging.Discard(), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return logging.NewLoggerTo(f, "codequest-tui"), func() { _ = f.Close() }, nil
}
