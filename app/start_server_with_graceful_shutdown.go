package app

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// StartServerWithGracefulShutdown function for starting server with a graceful shutdown.
func StartServerWithGracefulShutdown(a *fiber.App, port string, l logrus.FieldLogger) {
	// Create a channel for idle connections.
	idleConnsClosed := make(chan struct{})

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM) // Catch OS signals.
		<-sigint

		// Received an interrupt signal, shutdown.
		if err := a.Shutdown(); err != nil {
			// Error from closing listeners, or context timeout:
			l.WithError(err).Error("Oops... Server is not shutting down!")
		}

		close(idleConnsClosed)
	}()

	// Run server.
	if err := a.Listen(port); err != nil {
		l.WithError(err).Error("Oops... Server is not running!")
		return
	}
	<-idleConnsClosed
}
