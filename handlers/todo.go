package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jalexanderII/zero-todo/models"
)

const (
	listNotFound = "List not found or you don't have permission"
	itemNotFound = "Item not found or you don't have permission"
)

// @Summary Get all todo lists of the caller.
// @Description fetch every list owned by the caller, newest first, with items oldest first. Store faults yield an empty result.
// @Tags lists
// @Security BearerAuth
// @Produce json
// @Success 200 {object} []models.TodoList
// @Failure 401 {object} ErrorResponse
// @Router /api/lists [get]
func GetAllLists(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		lists := h.Svc.ListAll(c.UserContext(), CallerID(c))
		return FiberJsonResponse(c, fiber.StatusOK, "success", "user todo lists", lists)
	}
}

// @Summary Create a todo list.
// @Description create a list owned by the caller.
// @Tags lists
// @Security BearerAuth
// @Accept json
// @Param list body models.CreateListRequest true "List to create"
// @Produce json
// @Success 201 {object} models.TodoList
// @Failure 400 {object} ErrorResponse
// @Router /api/lists [post]
func CreateList(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		req := new(models.CreateListRequest)
		if err := c.BodyParser(req); err != nil {
			return FiberJsonResponse(c, fiber.StatusBadRequest, "error", "request body malformed", err.Error())
		}

		list, err := h.Svc.CreateList(c.UserContext(), CallerID(c), req.Title, req.Description)
		if err != nil {
			return h.mutationError(c, err, listNotFound)
		}
		return FiberJsonResponse(c, fiber.StatusCreated, "success", "todo list created", list)
	}
}

// @Summary Delete a todo list.
// @Description delete a list owned by the caller together with all its items.
// @Tags lists
// @Security BearerAuth
// @Param listId path string true "List ID"
// @Produce json
// @Success 200 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/lists/{listId} [delete]
func DeleteList(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		if err := h.Svc.DeleteList(c.UserContext(), CallerID(c), c.Params("listId")); err != nil {
			return h.mutationError(c, err, listNotFound)
		}
		return FiberJsonResponse(c, fiber.StatusOK, "success", "todo list deleted", nil)
	}
}

// @Summary Add an item to a todo list.
// @Description add an incomplete item to a list owned by the caller.
// @Tags items
// @Security BearerAuth
// @Accept json
// @Param listId path string true "List ID"
// @Param item body models.AddItemRequest true "Item to add"
// @Produce json
// @Success 201 {object} models.TodoItem
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/lists/{listId}/items [post]
func AddItem(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		req := new(models.AddItemRequest)
		if err := c.BodyParser(req); err != nil {
			return FiberJsonResponse(c, fiber.StatusBadRequest, "error", "request body malformed", err.Error())
		}

		item, err := h.Svc.AddItem(c.UserContext(), CallerID(c), c.Params("listId"), req.Title)
		if err != nil {
			return h.mutationError(c, err, listNotFound)
		}
		return FiberJsonResponse(c, fiber.StatusCreated, "success", "todo item created", item)
	}
}

// @Summary Toggle a todo item.
// @Description flip the completed flag of an item in a list owned by the caller.
// @Tags items
// @Security BearerAuth
// @Param itemId path string true "Item ID"
// @Produce json
// @Success 200 {object} models.TodoItem
// @Failure 404 {object} ErrorResponse
// @Router /api/items/{itemId}/toggle [patch]
func ToggleItem(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		item, err := h.Svc.ToggleItem(c.UserContext(), CallerID(c), c.Params("itemId"))
		if err != nil {
			return h.mutationError(c, err, itemNotFound)
		}
		return FiberJsonResponse(c, fiber.StatusOK, "success", "todo item toggled", item)
	}
}

// @Summary Delete a todo item.
// @Description delete an item from a list owned by the caller.
// @Tags items
// @Security BearerAuth
// @Param itemId path string true "Item ID"
// @Produce json
// @Success 200 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/items/{itemId} [delete]
func DeleteItem(h *Handler) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		if err := h.Svc.DeleteItem(c.UserContext(), CallerID(c), c.Params("itemId")); err != nil {
			return h.mutationError(c, err, itemNotFound)
		}
		return FiberJsonResponse(c, fiber.StatusOK, "success", "todo item deleted", nil)
	}
}
