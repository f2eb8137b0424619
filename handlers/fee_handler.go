package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/studyspacehq/studyspace/database"
	"github.com/studyspacehq/studyspace/models"
)

type FeeRequest struct {
	BranchID     string  `json:"branch_id" validate:"required,uuid"`
	Name         string  `json:"name" validate:"required"`
	Amount       float64 `json:"amount" validate:"gte=0"`
	BillType     string  `json:"bill_type" validate:"required,oneof=ONE_TIME MONTHLY"`
	IsOptional   bool    `json:"is_optional"`
	GrantsLocker bool    `json:"grants_locker"`
}

func CreateFee(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	var req FeeRequest
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

	fee := models.AdditionalFee{
		LibraryID:    actor.LibraryID,
		BranchID:     branchID,
		Name:         req.Name,
		Amount:       req.Amount,
		BillType:     req.BillType,
		IsOptional:   req.IsOptional,
		GrantsLocker: req.GrantsLocker,
	}
	if err := database.DB.Create(&fee).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create fee"})
	}
	return c.Status(fiber.StatusCreated).JSON(fee)
}

func UpdateFee(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	var fee models.AdditionalFee
	if err := database.DB.Where("id = ? AND library_id = ?", c.Params("feeId"), actor.LibraryID).First(&fee).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Fee not found"})
	}

	var req FeeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	fee.Name = req.Name
	fee.Amount = req.Amount
	fee.BillType = req.BillType
	fee.IsOptional = req.IsOptional
	fee.GrantsLocker = req.GrantsLocker
	if err := database.DB.Save(&fee).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update fee"})
	}
	return c.JSON(fee)
}

func DeactivateFee(c *fiber.Ctx) error {
	actor := actorFromCtx(c)
	result := database.DB.Model(&models.AdditionalFee{}).
		Where("id = ? AND library_id = ?", c.Params("feeId"), actor.LibraryID).
		Update("is_active", false)

	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate fee"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Fee not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func ListBranchFees(c *fiber.Ctx) error {
	branchID, err := uuid.Parse(c.Params("branchId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid branch ID"})
	}

	var fees []models.AdditionalFee
	database.DB.Where("branch_id = ? AND is_active = ?", branchID, true).Order("name").Find(&fees)
	return c.JSON(fees)
}
