package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/studyspacehq/studyspace/handlers"
	"github.com/studyspacehq/studyspace/middleware"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Gateways call back unauthenticated; the signature is the auth.
	api.Post("/payments/webhook/cashfree", handlers.HandleCashfreeWebhook)

	payments := api.Group("/payments", middleware.Protected())
	payments.Get("/me", middleware.StudentRequired(), handlers.GetMyPayments)
	payments.Post("/:paymentId/gateway-order", handlers.CreateGatewayOrder)
	payments.Post("/verify", handlers.VerifyGatewayPayment)
	payments.Post("/:paymentId/proof", middleware.StudentRequired(), handlers.SubmitPaymentProof)

	desk := api.Group("/desk/payments", middleware.Protected(), middleware.StaffRequired())
	desk.Get("/pending-verification", handlers.ListPendingVerification)
	desk.Post("/:paymentId/verify", handlers.MarkPaymentVerified)
}
