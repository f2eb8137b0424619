package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/studyspacehq/studyspace/database"
	"github.com/studyspacehq/studyspace/models"
	"github.com/studyspacehq/studyspace/services"
)

type PromotionRequest struct {
	Code              string   `json:"code" validate:"required,min=3,max=50"`
	Type              string   `json:"type" validate:"required,oneof=percentage flat free_trial"`
	Value             float64  `json:"value" validate:"gte=0"`
	MaxDiscount       *float64 `json:"max_discount,omitempty" validate:"omitempty,gt=0"`
	MinOrderValue     float64  `json:"min_order_value" validate:"gte=0"`
	StartDate         string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate           string   `json:"end_date" validate:"required,datetime=2006-01-02"`
	UsageLimit        *int     `json:"usage_limit,omitempty" validate:"omitempty,gt=0"`
	PerUserLimit      *int     `json:"per_user_limit,omitempty" validate:"omitempty,gt=0"`
	BranchID          *string  `json:"branch_id,omitempty" validate:"omitempty,uuid"`
	PlanID            *string  `json:"plan_id,omitempty" validate:"omitempty,uuid"`
	TrialDuration     *int     `json:"trial_duration,omitempty" validate:"omitempty,gt=0"`
	TrialDurationUnit *string  `json:"trial_duration_unit,omitempty" validate:"omitempty,oneof=days weeks months"`
}

func CreatePromotion(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	var req PromotionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Type == models.PromoTypePercentage && req.Value > 100 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Percentage value cannot exceed 100"})
	}
	if req.Type == models.PromoTypeFreeTrial && (req.TrialDuration == nil || req.TrialDurationUnit == nil) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Free trial promotions require trial_duration and trial_duration_unit"})
	}

	// Codes live uppercase; lookups normalize the same way.
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	var count int64
	database.DB.Model(&models.Promotion{}).
		Where("library_id = ? AND code = ?", actor.LibraryID, code).
		Count(&count)
	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A promotion with this code already exists"})
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)
	if !endDate.After(startDate) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "end_date must be after start_date"})
	}

	promo := models.Promotion{
		LibraryID:         actor.LibraryID,
		Code:              code,
		Type:              req.Type,
		Value:             req.Value,
		MaxDiscount:       req.MaxDiscount,
		MinOrderValue:     req.MinOrderValue,
		StartDate:         startDate,
		EndDate:           endDate.Add(24*time.Hour - time.Second), // inclusive of the end day
		UsageLimit:        req.UsageLimit,
		PerUserLimit:      req.PerUserLimit,
		BranchID:          parseUUIDPtr(req.BranchID),
		PlanID:            parseUUIDPtr(req.PlanID),
		TrialDuration:     req.TrialDuration,
		TrialDurationUnit: req.TrialDurationUnit,
	}
	if err := database.DB.Create(&promo).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create promotion"})
	}
	return c.Status(fiber.StatusCreated).JSON(promo)
}

func DeactivatePromotion(c *fiber.Ctx) error {
	actor := actorFromCtx(c)
	result := database.DB.Model(&models.Promotion{}).
		Where("id = ? AND library_id = ?", c.Params("promoId"), actor.LibraryID).
		Update("is_active", false)

	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate promotion"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Promotion not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func ListPromotions(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	var promos []models.Promotion
	database.DB.Where("library_id = ?", actor.LibraryID).Order("created_at desc").Find(&promos)

	// Attach derived usage so owners see redemption without a second counter.
	type promoWithUsage struct {
		models.Promotion
		TimesUsed int64 `json:"times_used"`
	}
	out := make([]promoWithUsage, 0, len(promos))
	for _, p := range promos {
		var used int64
		database.DB.Model(&models.Payment{}).
			Where("promotion_id = ? AND status = ?", p.ID, models.PaymentCompleted).
			Count(&used)
		out = append(out, promoWithUsage{Promotion: p, TimesUsed: used})
	}
	return c.JSON(out)
}

type PreviewCouponRequest struct {
	Code     string  `json:"code" validate:"required"`
	BranchID string  `json:"branch_id" validate:"required,uuid"`
	PlanID   string  `json:"plan_id" validate:"required,uuid"`
	Subtotal float64 `json:"subtotal" validate:"gte=0"`
}

// PreviewCoupon validates a code against an order context without booking
// anything, so the UI can show the discount before checkout.
func PreviewCoupon(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	var req PreviewCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := services.ValidatePromotionCode(database.DB, actor.LibraryID, req.Code, services.PromoContext{
		Subtotal:  req.Subtotal,
		StudentID: actor.ID,
		PlanID:    uuid.MustParse(req.PlanID),
		BranchID:  uuid.MustParse(req.BranchID),
		Now:       time.Now(),
	})
	if err != nil {
		return coreError(c, err)
	}
	return c.JSON(result)
}
