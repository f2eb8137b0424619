package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/studyspacehq/studyspace/handlers"
	"github.com/studyspacehq/studyspace/middleware"
)

func OwnerRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	owner := api.Group("/owner", middleware.Protected(), middleware.OwnerRequired())

	branches := owner.Group("/branches")
	branches.Post("", handlers.CreateBranch)
	branches.Put("/:branchId", handlers.UpdateBranch)
	branches.Get("", handlers.ListMyBranches)

	plans := owner.Group("/plans")
	plans.Post("", handlers.CreatePlan)
	plans.Put("/:planId", handlers.UpdatePlan)
	plans.Delete("/:planId", handlers.DeactivatePlan)

	fees := owner.Group("/fees")
	fees.Post("", handlers.CreateFee)
	fees.Put("/:feeId", handlers.UpdateFee)
	fees.Delete("/:feeId", handlers.DeactivateFee)

	promotions := owner.Group("/promotions")
	promotions.Post("", handlers.CreatePromotion)
	promotions.Get("", handlers.ListPromotions)
	promotions.Delete("/:promoId", handlers.DeactivatePromotion)
}
