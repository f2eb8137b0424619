package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	config "github.com/studyspacehq/studyspace/configs"
	"github.com/studyspacehq/studyspace/database"
	"github.com/studyspacehq/studyspace/models"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	LibrarySlug string  `json:"library_slug" validate:"required"`
	FullName    string  `json:"full_name" validate:"required,min=3"`
	Email       string  `json:"email" validate:"required,email"`
	Phone       *string `json:"phone,omitempty"`
	Password    string  `json:"password" validate:"required,min=6"`
}

func RegisterStudent(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var library models.Library
	if err := database.DB.Where("slug = ? AND is_active = ?", req.LibrarySlug, true).First(&library).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Library not found"})
	}

	var count int64
	database.DB.Model(&models.User{}).
		Where("library_id = ? AND email = ?", library.ID, req.Email).
		Count(&count)
	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "An account with this email already exists"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process password"})
	}

	student := models.User{
		LibraryID: library.ID,
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  string(hashedPassword),
		Role:      "student",
	}
	if err := database.DB.Create(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create account"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":        student.ID,
		"full_name": student.FullName,
		"email":     student.Email,
		"role":      student.Role,
	})
}

type LoginRequest struct {
	LibrarySlug string `json:"library_slug" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
}

func LoginUser(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var library models.Library
	if err := database.DB.Where("slug = ?", req.LibrarySlug).First(&library).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	var user models.User
	if err := database.DB.Where("library_id = ? AND email = ? AND is_active = ?", library.ID, req.Email, true).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	branchID := ""
	if user.BranchID != nil {
		branchID = user.BranchID.String()
	}
	claims := jwt.MapClaims{
		"user_id":    user.ID.String(),
		"role":       user.Role,
		"library_id": user.LibraryID.String(),
		"branch_id":  branchID,
		"exp":        time.Now().Add(time.Hour * 72).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := token.SignedString([]byte(config.Config("JWT_SECRET")))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	return c.JSON(fiber.Map{"token": t, "role": user.Role})
}

type CreateStaffRequest struct {
	FullName string  `json:"full_name" validate:"required,min=3"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	BranchID *string `json:"branch_id,omitempty" validate:"omitempty,uuid"`
}

// CreateStaff lets the owner add desk staff, optionally pinned to one branch.
func CreateStaff(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	var req CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var branchID *uuid.UUID
	if req.BranchID != nil {
		branchID = parseUUIDPtr(req.BranchID)
		var branch models.Branch
		if err := database.DB.Where("id = ? AND library_id = ?", branchID, actor.LibraryID).First(&branch).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Branch not found"})
		}
	}

	var count int64
	database.DB.Model(&models.User{}).
		Where("library_id = ? AND email = ?", actor.LibraryID, req.Email).
		Count(&count)
	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "An account with this email already exists"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process password"})
	}

	staff := models.User{
		LibraryID: actor.LibraryID,
		BranchID:  branchID,
		FullName:  req.FullName,
		Email:     req.Email,
		Password:  string(hashedPassword),
		Role:      "staff",
	}
	if err := database.DB.Create(&staff).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create staff account"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":        staff.ID,
		"full_name": staff.FullName,
		"email":     staff.Email,
		"role":      staff.Role,
		"branch_id": staff.BranchID,
	})
}
