package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jalexanderII/zero-todo/models"
	"github.com/jalexanderII/zero-todo/services"
	"github.com/sirupsen/logrus"
)

// UserIDKey is the fiber.Ctx Locals key holding the authenticated caller id.
const UserIDKey = "userID"

type Handler struct {
	Svc *services.TodoService
	L   logrus.FieldLogger
}

func NewHandler(svc *services.TodoService, l logrus.FieldLogger) *Handler {
	return &Handler{Svc: svc, L: l}
}

// ErrorResponse is the envelope of every failed request.
type ErrorResponse struct {
	Status  string `json:"status" example:"error"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func FiberJsonResponse(c *fiber.Ctx, httpStatus int, status, message string, data any) error {
	return c.Status(httpStatus).JSON(fiber.Map{"status": status, "message": message, "data": data})
}

// CallerID returns the user id stored by the auth middleware, or "".
func CallerID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}

// mutationError translates a service error into the JSON envelope.
func (h *Handler) mutationError(c *fiber.Ctx, err error, notFound string) error {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return FiberJsonResponse(c, fiber.StatusBadRequest, "error", "invalid input", verr.Fields)
	case errors.Is(err, models.ErrForbidden):
		return FiberJsonResponse(c, fiber.StatusNotFound, "error", notFound, nil)
	case errors.Is(err, models.ErrUnauthenticated):
		return FiberJsonResponse(c, fiber.StatusUnauthorized, "error", "authorization token required", nil)
	default:
		h.L.WithError(err).WithField("path", c.Path()).Error("[Handler] unexpected error")
		return FiberJsonResponse(c, fiber.StatusInternalServerError, "error", "something went wrong", nil)
	}
}
