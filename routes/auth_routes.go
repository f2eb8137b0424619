package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/studyspacehq/studyspace/handlers"
	"github.com/studyspacehq/studyspace/middleware"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.RegisterStudent)
	auth.Post("/login", handlers.LoginUser)

	staff := api.Group("/staff", middleware.Protected(), middleware.OwnerRequired())
	staff.Post("", handlers.CreateStaff)
}
