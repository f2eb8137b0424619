package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/studyspacehq/studyspace/database"
	"github.com/studyspacehq/studyspace/models"
)

func GetMySubscriptions(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	var subs []models.Subscription
	database.DB.
		Preload("Plan").
		Preload("Seat").
		Preload("Locker").
		Where("library_id = ? AND student_id = ?", actor.LibraryID, actor.ID).
		Order("created_at desc").
		Find(&subs)
	return c.JSON(subs)
}

// ListBranchSubscriptions is the staff roster view. Staff pinned to a branch
// see that branch only; owners can pass any branch of their library.
func ListBranchSubscriptions(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	branchID, err := uuid.Parse(c.Params("branchId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid branch ID"})
	}
	if actor.BranchID != nil && *actor.BranchID != branchID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You can only view your own branch"})
	}

	query := database.DB.
		Preload("Student").
		Preload("Plan").
		Preload("Seat").
		Preload("Locker").
		Where("library_id = ? AND branch_id = ?", actor.LibraryID, branchID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if raw := c.Query("expiring_within_days"); raw != "" {
		if days, convErr := strconv.Atoi(raw); convErr == nil && days > 0 {
			cutoff := time.Now().AddDate(0, 0, days)
			query = query.Where("status = ? AND end_date <= ?", models.SubscriptionActive, cutoff)
		}
	}

	var subs []models.Subscription
	query.Order("end_date").Find(&subs)
	return c.JSON(subs)
}
