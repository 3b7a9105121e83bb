package api

import (
	"gita-assistant/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	Version     string
	Environment string
	CORSOrigins string
	Logger      logger.Logger
}

func SetupRouter(app *fiber.App, cfg RouterConfig, chats *ChatHandler, auth *AuthHandler, accounts Authenticator) {
	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	if cfg.Logger != nil {
		app.Use(WithLogger(cfg.Logger))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "healthy",
			"version": cfg.Version,
			"env":     cfg.Environment,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/api")
	v1.Post("/chat", OptionalAuth(accounts), chats.HandlePrompt)

	history := v1.Group("/history", RequireAuth(accounts))
	history.Get("/", chats.ListHistory)
	history.Get("/stats", chats.HistoryStats)
	history.Get("/:id", chats.GetChat)
	history.Delete("/:id", chats.DeleteChat)
	history.Delete("/", chats.ClearHistory)

	authGroup := v1.Group("/auth")
	authGroup.Post("/register/otp", auth.RequestRegistrationOTP)
	authGroup.Post("/register", auth.Register)
	authGroup.Post("/login", auth.Login)

	session := RequireAuth(accounts)
	authGroup.Post("/logout", session, auth.Logout)
	authGroup.Get("/profile", session, auth.GetProfile)
	authGroup.Put("/profile", session, auth.UpdateProfile)
	authGroup.Post("/delete/otp", session, auth.RequestDeletionOTP)
	authGroup.Delete("/account", session, auth.DeleteAccount)
}
