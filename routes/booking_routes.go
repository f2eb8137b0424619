package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/studyspacehq/studyspace/handlers"
	"github.com/studyspacehq/studyspace/middleware"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	bookings := api.Group("/bookings", middleware.Protected())
	bookings.Post("/quote", handlers.QuoteBooking)
	bookings.Post("/coupon-preview", handlers.PreviewCoupon)
	bookings.Post("", middleware.StudentRequired(), handlers.CreatePublicBooking)

	subs := api.Group("/subscriptions", middleware.Protected())
	subs.Get("/me", middleware.StudentRequired(), handlers.GetMySubscriptions)

	desk := api.Group("/desk", middleware.Protected(), middleware.StaffRequired())
	desk.Post("/bookings", handlers.CreateDeskBooking)
	desk.Get("/branches/:branchId/subscriptions", handlers.ListBranchSubscriptions)
}
