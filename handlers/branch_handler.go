package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/studyspacehq/studyspace/database"
	"github.com/studyspacehq/studyspace/models"
	"github.com/studyspacehq/studyspace/services"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BranchRequest struct {
	Name        string                 `json:"name" validate:"required"`
	Address     string                 `json:"address"`
	City        string                 `json:"city"`
	SeatCount   int                    `json:"seat_count" validate:"gte=0"`
	LockerCount int                    `json:"locker_count" validate:"gte=0"`
	Hours       *models.OperatingHours `json:"operating_hours,omitempty"`
	Amenities   []string               `json:"amenities,omitempty"`
}

func CreateBranch(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	var req BranchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	hours := models.OperatingHours{Always24x7: true}
	if req.Hours != nil {
		hours = *req.Hours
	}
	if err := hours.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	branch := models.Branch{
		LibraryID:      actor.LibraryID,
		Name:           req.Name,
		Address:        req.Address,
		City:           req.City,
		SeatCount:      req.SeatCount,
		LockerCount:    req.LockerCount,
		OperatingHours: datatypes.NewJSONType(hours),
		Amenities:      datatypes.NewJSONType(req.Amenities),
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&branch).Error; err != nil {
			return err
		}
		if err := provisionSeats(tx, &branch, req.SeatCount); err != nil {
			return err
		}
		return provisionLockers(tx, &branch, req.LockerCount)
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create branch"})
	}

	return c.Status(fiber.StatusCreated).JSON(branch)
}

// provisionSeats tops the branch up to the configured count. Existing seats
// are never deleted here; shrinking a branch is an explicit admin concern
// because live subscriptions may reference the higher numbers.
func provisionSeats(tx *gorm.DB, branch *models.Branch, target int) error {
	var existing int64
	if err := tx.Model(&models.Seat{}).Where("branch_id = ?", branch.ID).Count(&existing).Error; err != nil {
		return err
	}
	for n := int(existing) + 1; n <= target; n++ {
		seat := models.Seat{
			LibraryID: branch.LibraryID,
			BranchID:  branch.ID,
			Number:    n,
		}
		if err := tx.Create(&seat).Error; err != nil {
			return err
		}
	}
	return nil
}

func provisionLockers(tx *gorm.DB, branch *models.Branch, target int) error {
	var existing int64
	if err := tx.Model(&models.Locker{}).Where("branch_id = ?", branch.ID).Count(&existing).Error; err != nil {
		return err
	}
	for n := int(existing) + 1; n <= target; n++ {
		locker := models.Locker{
			LibraryID: branch.LibraryID,
			BranchID:  branch.ID,
			Number:    n,
		}
		if err := tx.Create(&locker).Error; err != nil {
			return err
		}
	}
	return nil
}

func UpdateBranch(c *fiber.Ctx) error {
	actor := actorFromCtx(c)
	branchID := c.Params("branchId")

	var branch models.Branch
	if err := database.DB.Where("id = ? AND library_id = ?", branchID, actor.LibraryID).First(&branch).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Branch not found"})
	}

	var req BranchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	branch.Name = req.Name
	branch.Address = req.Address
	branch.City = req.City
	if req.Hours != nil {
		if err := req.Hours.Validate(); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		branch.OperatingHours = datatypes.NewJSONType(*req.Hours)
	}
	if req.Amenities != nil {
		branch.Amenities = datatypes.NewJSONType(req.Amenities)
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if req.SeatCount > branch.SeatCount {
			if err := provisionSeats(tx, &branch, req.SeatCount); err != nil {
				return err
			}
			branch.SeatCount = req.SeatCount
		}
		if req.LockerCount > branch.LockerCount {
			if err := provisionLockers(tx, &branch, req.LockerCount); err != nil {
				return err
			}
			branch.LockerCount = req.LockerCount
		}
		return tx.Save(&branch).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update branch"})
	}

	return c.JSON(branch)
}

func ListBranches(c *fiber.Ctx) error {
	librarySlug := c.Params("librarySlug")

	var library models.Library
	if err := database.DB.Where("slug = ? AND is_active = ?", librarySlug, true).First(&library).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Library not found"})
	}

	var branches []models.Branch
	database.DB.Where("library_id = ? AND is_active = ?", library.ID, true).Order("name").Find(&branches)
	return c.JSON(branches)
}

func ListMyBranches(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	var branches []models.Branch
	database.DB.Where("library_id = ?", actor.LibraryID).Order("name").Find(&branches)
	return c.JSON(branches)
}

// GetBranchAvailability returns the derived seat/locker occupancy map.
// Selection stays advisory until the reservation transaction confirms it.
func GetBranchAvailability(c *fiber.Ctx) error {
	branchID, err := uuid.Parse(c.Params("branchId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid branch ID"})
	}

	var branch models.Branch
	if err := database.DB.Where("id = ? AND is_active = ?", branchID, true).First(&branch).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Branch not found"})
	}

	availability, err := services.BranchAvailability(database.DB, branchID, time.Now())
	if err != nil {
		return coreError(c, err)
	}
	return c.JSON(fiber.Map{"branch_id": branchID, "resources": availability})
}
