package app

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jalexanderII/zero-todo/config"
	"github.com/jalexanderII/zero-todo/database"
	"github.com/jalexanderII/zero-todo/handlers"
	"github.com/jalexanderII/zero-todo/router"
	"github.com/jalexanderII/zero-todo/services"
	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger at the configured level.
func NewLogger(cfg *config.Config) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		l.WithField("level", cfg.LogLevel).Warn("unknown LOG_LEVEL, using info")
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	return l
}

// NewApp wires middleware, routes and swagger around store.
func NewApp(cfg *config.Config, store database.Store, l logrus.FieldLogger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "zero-todo",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	FiberMiddleware(app, cfg)

	h := handlers.NewHandler(services.NewTodoService(store, l), l)
	router.SetupRoutes(app, h, []byte(cfg.JWTSecret))

	config.AddSwaggerRoutes(app)
	return app
}

// SetupAndRunApp handle app and database start and graceful shutdown
func SetupAndRunApp(cfg *config.Config) error {
	l := NewLogger(cfg)

	ctx, cancel := database.NewDBContext(context.Background(), 10*time.Second)
	store, err := database.Open(ctx, cfg, l)
	cancel()
	if err != nil {
		return err
	}

	// defer closing database
	defer func() {
		ctx, cancel := database.NewDBContext(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			l.WithError(err).Error("failed to close store")
		}
	}()

	app := NewApp(cfg, store, l)

	StartServerWithGracefulShutdown(app, cfg.Port, l)

	return nil
}
