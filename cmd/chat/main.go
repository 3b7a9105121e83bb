package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gita-assistant/internal/adapter/tui"
	"gita-assistant/internal/app"
	"gita-assistant/internal/config"
	"gita-assistant/internal/logger"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	config.LoadDotEnv(".env", ".env.dev")
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, logs go to a file.
	logFile, err := os.OpenFile(filepath.Clean("gita-chat.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to open log file:", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.Log.Level),
		Output: logFile,
		JSON:   cfg.Log.JSON,
	})
	logger.SetDefault(log)

	ctx := logger.ContextWithLogger(context.Background(), log)
	container, err := app.Build(ctx, cfg, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build services:", err)
		os.Exit(1)
	}
	defer container.Close()
	if err := container.CheckCollection(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	p := tea.NewProgram(tui.New(ctx, container.Pipeline), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "chat failed:", err)
		os.Exit(1)
	}
}
