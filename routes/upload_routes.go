package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/studyspacehq/studyspace/handlers"
	"github.com/studyspacehq/studyspace/middleware"
)

func UploadRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	uploads := api.Group("/uploads", middleware.Protected())
	uploads.Get("/proof-signature", handlers.GenerateProofUploadSignature)
}
