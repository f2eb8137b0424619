package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/studyspacehq/studyspace/handlers"
)

func PublicRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Browsing is unauthenticated: prospective students explore branches,
	// plans and live availability before registering.
	api.Get("/libraries/:librarySlug/branches", handlers.ListBranches)
	api.Get("/branches/:branchId/plans", handlers.ListBranchPlans)
	api.Get("/branches/:branchId/fees", handlers.ListBranchFees)
	api.Get("/branches/:branchId/availability", handlers.GetBranchAvailability)

	api.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws/branches/:branchId/availability", websocket.New(handlers.ServeAvailability))
}
