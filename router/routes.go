package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jalexanderII/zero-todo/handlers"
)

func SetupRoutes(app *fiber.App, h *handlers.Handler, secret []byte) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Hello, World!",
		})
	})

	app.Get("/health", handlers.HandleHealthCheck)

	api := app.Group("/api", RequireUser(secret, h.L))

	lists := api.Group("/lists")
	lists.Get("/", handlers.GetAllLists(h))
	lists.Post("/", handlers.CreateList(h))
	lists.Delete("/:listId", handlers.DeleteList(h))
	lists.Post("/:listId/items", handlers.AddItem(h))

	items := api.Group("/items")
	items.Patch("/:itemId/toggle", handlers.ToggleItem(h))
	items.Delete("/:itemId", handlers.DeleteItem(h))
}
