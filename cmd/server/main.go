package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"gita-assistant/internal/adapter/api"
	"gita-assistant/internal/app"
	"gita-assistant/internal/config"
	"gita-assistant/internal/logger"

	"github.com/gofiber/fiber/v2"
)

func main() {
	loaded := config.LoadDotEnv(".env", ".env.dev")
	cfg, err := config.Load()
	if err != nil {
		logger.NewLogger(nil).Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(cfg.Log.Level),
		Output:     os.Stdout,
		JSON:       cfg.Log.JSON,
		TimeFormat: time.RFC3339,
	})
	logger.SetDefault(log)
	if len(loaded) == 0 {
		log.Warn(".env file not found, using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.ContextWithLogger(ctx, log)

	container, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to build services", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = container.CheckCollection(checkCtx)
	cancel()
	if err != nil {
		log.Error("Vector store misconfigured", "error", err)
		os.Exit(1)
	}

	go func() {
		warmCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		container.Warm(warmCtx)
	}()

	srv := fiber.New(fiber.Config{
		AppName:               "Bhagavad Gita Assistant",
		DisableStartupMessage: true,
	})
	api.SetupRouter(srv, api.RouterConfig{
		Version:     cfg.Server.AppVersion,
		Environment: cfg.Server.Environment,
		CORSOrigins: cfg.Server.AllowedOrigins(),
		Logger:      log,
	},
		api.NewChatHandler(container.Chats),
		api.NewAuthHandler(container.Accounts),
		container.Accounts,
	)

	go func() {
		<-ctx.Done()
		log.Info("Shutting down")
		if err := srv.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("Shutdown failed", "error", err)
		}
	}()

	addr := ":" + strconv.Itoa(cfg.Server.Port)
	log.Info("Gita assistant running", "addr", addr, "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
	if err := srv.Listen(addr); err != nil {
		log.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
