package handlers

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/studyspacehq/studyspace/services"
)

var validate = validator.New()

// actorFromCtx turns the verified JWT claims into the explicit actor context
// every core operation takes. Nothing below the handler layer reads request
// state.
func actorFromCtx(c *fiber.Ctx) services.Actor {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)

	actor := services.Actor{}
	if id, ok := claims["user_id"].(string); ok {
		actor.ID, _ = uuid.Parse(id)
	}
	if role, ok := claims["role"].(string); ok {
		actor.Role = role
	}
	if lib, ok := claims["library_id"].(string); ok {
		actor.LibraryID, _ = uuid.Parse(lib)
	}
	if branch, ok := claims["branch_id"].(string); ok && branch != "" {
		if id, err := uuid.Parse(branch); err == nil {
			actor.BranchID = &id
		}
	}
	return actor
}

// coreError maps the engine's error taxonomy onto HTTP outcomes. Expected
// rejections carry their reason; storage and pricing failures are logged with
// context and surfaced as a generic error.
func coreError(c *fiber.Ctx, err error) error {
	var rejection *services.PromoRejection
	switch {
	case errors.As(err, &rejection):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  rejection.Message,
			"reason": rejection.Reason,
		})
	case errors.Is(err, services.ErrSeatTaken), errors.Is(err, services.ErrLockerTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":  err.Error(),
			"action": "reselect",
		})
	case errors.Is(err, services.ErrCrossTenant):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadyFinalized):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrBookingReleased):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":  err.Error(),
			"action": "rebook",
		})
	case errors.Is(err, services.ErrInvalidSignature):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "payment verification failed, you have not been charged",
			"action": "retry_payment",
		})
	default:
		log.Printf("🔥 %s %s failed: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong, please try again."})
	}
}

func parseUUIDPtr(s *string) *uuid.UUID {
	if s == nil || *s == "" {
		return nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil
	}
	return &id
}
