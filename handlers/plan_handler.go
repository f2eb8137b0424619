package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/studyspacehq/studyspace/database"
	"github.com/studyspacehq/studyspace/models"
)

type PlanRequest struct {
	BranchID       string  `json:"branch_id" validate:"required,uuid"`
	Name           string  `json:"name" validate:"required"`
	Price          float64 `json:"price" validate:"gte=0"`
	Duration       int     `json:"duration" validate:"required,gt=0"`
	DurationUnit   string  `json:"duration_unit" validate:"required,oneof=days weeks months"`
	Category       string  `json:"category" validate:"required,oneof=fixed flexible"`
	ShiftStart     *string `json:"shift_start,omitempty"`
	ShiftEnd       *string `json:"shift_end,omitempty"`
	HoursPerDay    *int    `json:"hours_per_day,omitempty" validate:"omitempty,gt=0,lte=24"`
	BillingCycle   string  `json:"billing_cycle,omitempty"`
	IncludesSeat   bool    `json:"includes_seat"`
	IncludesLocker bool    `json:"includes_locker"`
}

func CreatePlan(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	var req PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	branchID := uuid.MustParse(req.BranchID)
	var branch models.Branch
	if err := database.DB.Where("id = ? AND library_id = ?", branchID, actor.LibraryID).First(&branch).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Branch not found"})
	}

	billingCycle := req.BillingCycle
	if billingCycle == "" {
		billingCycle = "upfront"
	}

	plan := models.Plan{
		LibraryID:      actor.LibraryID,
		BranchID:       branchID,
		Name:           req.Name,
		Price:          req.Price,
		Duration:       req.Duration,
		DurationUnit:   req.DurationUnit,
		Category:       req.Category,
		ShiftStart:     req.ShiftStart,
		ShiftEnd:       req.ShiftEnd,
		HoursPerDay:    req.HoursPerDay,
		BillingCycle:   billingCycle,
		IncludesSeat:   req.IncludesSeat,
		IncludesLocker: req.IncludesLocker,
	}
	if err := database.DB.Create(&plan).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create plan"})
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}

// UpdatePlan performs administrative edits. Existing subscriptions are never
// retroactively altered: their dates and payments were computed at booking
// time and stand.
func UpdatePlan(c *fiber.Ctx) error {
	actor := actorFromCtx(c)
	planID := c.Params("planId")

	var plan models.Plan
	if err := database.DB.Where("id = ? AND library_id = ?", planID, actor.LibraryID).First(&plan).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Plan not found"})
	}

	var req PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	plan.Name = req.Name
	plan.Price = req.Price
	plan.Duration = req.Duration
	plan.DurationUnit = req.DurationUnit
	plan.Category = req.Category
	plan.ShiftStart = req.ShiftStart
	plan.ShiftEnd = req.ShiftEnd
	plan.HoursPerDay = req.HoursPerDay
	plan.IncludesSeat = req.IncludesSeat
	plan.IncludesLocker = req.IncludesLocker
	if err := database.DB.Save(&plan).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update plan"})
	}
	return c.JSON(plan)
}

func DeactivatePlan(c *fiber.Ctx) error {
	actor := actorFromCtx(c)
	result := database.DB.Model(&models.Plan{}).
		Where("id = ? AND library_id = ?", c.Params("planId"), actor.LibraryID).
		Update("is_active", false)

	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate plan"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Plan not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func ListBranchPlans(c *fiber.Ctx) error {
	branchID, err := uuid.Parse(c.Params("branchId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid branch ID"})
	}

	var plans []models.Plan
	database.DB.Where("branch_id = ? AND is_active = ?", branchID, true).Order("price").Find(&plans)
	return c.JSON(plans)
}
