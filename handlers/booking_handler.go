package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/studyspacehq/studyspace/database"
	"github.com/studyspacehq/studyspace/models"
	"github.com/studyspacehq/studyspace/notifications"
	"github.com/studyspacehq/studyspace/services"
	"github.com/studyspacehq/studyspace/utils"
	ws "github.com/studyspacehq/studyspace/websocket"
)

type DeskBookingRequest struct {
	StudentID            string   `json:"student_id" validate:"required,uuid"`
	BranchID             string   `json:"branch_id" validate:"required,uuid"`
	PlanID               string   `json:"plan_id" validate:"required,uuid"`
	SeatID               *string  `json:"seat_id,omitempty" validate:"omitempty,uuid"`
	LockerID             *string  `json:"locker_id,omitempty" validate:"omitempty,uuid"`
	StartDate            *string  `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Quantity             int      `json:"quantity" validate:"omitempty,gt=0"`
	FeeIDs               []string `json:"fee_ids,omitempty" validate:"omitempty,dive,uuid"`
	CouponCode           string   `json:"coupon_code,omitempty"`
	ManualDiscount       float64  `json:"manual_discount" validate:"gte=0"`
	IsAddOn              bool     `json:"is_add_on"`
	ParentSubscriptionID *string  `json:"parent_subscription_id,omitempty" validate:"omitempty,uuid"`
	Method               string   `json:"method" validate:"required,oneof=razorpay cashfree upi_app qr_code front_desk"`
	AmountReceived       *float64 `json:"amount_received,omitempty" validate:"omitempty,gte=0"`
	ProofURL             *string  `json:"proof_url,omitempty"`
	TransactionRef       *string  `json:"transaction_ref,omitempty"`
}

// CreateDeskBooking is the owner/staff flow: manual discounts, partial
// payment and immediate front-desk settlement are available here only.
func CreateDeskBooking(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	var req DeskBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := services.CreateBooking(database.DB, actor, services.BookingRequest{
		StudentID:            uuid.MustParse(req.StudentID),
		BranchID:             uuid.MustParse(req.BranchID),
		PlanID:               uuid.MustParse(req.PlanID),
		SeatID:               parseUUIDPtr(req.SeatID),
		LockerID:             parseUUIDPtr(req.LockerID),
		StartDate:            parseDatePtr(req.StartDate),
		Quantity:             req.Quantity,
		FeeIDs:               parseUUIDList(req.FeeIDs),
		CouponCode:           req.CouponCode,
		ManualDiscount:       req.ManualDiscount,
		IsAddOn:              req.IsAddOn,
		ParentSubscriptionID: parseUUIDPtr(req.ParentSubscriptionID),
		Method:               req.Method,
		AmountReceived:       req.AmountReceived,
		ProofURL:             req.ProofURL,
		TransactionRef:       req.TransactionRef,
	})
	if err != nil {
		return coreError(c, err)
	}

	afterBooking(uuid.MustParse(req.BranchID), uuid.MustParse(req.StudentID), req.SeatID, req.LockerID, result)
	return c.Status(fiber.StatusCreated).JSON(result)
}

type PublicBookingRequest struct {
	BranchID             string   `json:"branch_id" validate:"required,uuid"`
	PlanID               string   `json:"plan_id" validate:"required,uuid"`
	SeatID               *string  `json:"seat_id,omitempty" validate:"omitempty,uuid"`
	LockerID             *string  `json:"locker_id,omitempty" validate:"omitempty,uuid"`
	Quantity             int      `json:"quantity" validate:"omitempty,gt=0"`
	FeeIDs               []string `json:"fee_ids,omitempty" validate:"omitempty,dive,uuid"`
	CouponCode           string   `json:"coupon_code,omitempty"`
	IsAddOn              bool     `json:"is_add_on"`
	ParentSubscriptionID *string  `json:"parent_subscription_id,omitempty" validate:"omitempty,uuid"`
	Method               string   `json:"method" validate:"required,oneof=razorpay cashfree upi_app qr_code"`
	ProofURL             *string  `json:"proof_url,omitempty"`
	// OCRText is the client-side scan of the uploaded proof screenshot.
	OCRText string `json:"ocr_text,omitempty"`
}

// CreatePublicBooking is the student self-serve flow. Bookings settle in
// full; manual methods wait for staff verification, gateways for signature
// verification. The start date is always computed (renewals stack).
func CreatePublicBooking(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	var req PublicBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var txnRef *string
	if req.OCRText != "" {
		// Best-effort hint for the verifying staff member; never trusted.
		if ref := utils.ExtractTransactionRef(req.OCRText); ref != "" {
			txnRef = &ref
		}
	}

	result, err := services.CreateBooking(database.DB, actor, services.BookingRequest{
		StudentID:            actor.ID,
		BranchID:             uuid.MustParse(req.BranchID),
		PlanID:               uuid.MustParse(req.PlanID),
		SeatID:               parseUUIDPtr(req.SeatID),
		LockerID:             parseUUIDPtr(req.LockerID),
		Quantity:             req.Quantity,
		FeeIDs:               parseUUIDList(req.FeeIDs),
		CouponCode:           req.CouponCode,
		IsAddOn:              req.IsAddOn,
		ParentSubscriptionID: parseUUIDPtr(req.ParentSubscriptionID),
		Method:               req.Method,
		ProofURL:             req.ProofURL,
		TransactionRef:       txnRef,
	})
	if err != nil {
		return coreError(c, err)
	}

	afterBooking(uuid.MustParse(req.BranchID), actor.ID, req.SeatID, req.LockerID, result)
	return c.Status(fiber.StatusCreated).JSON(result)
}

// afterBooking runs the post-commit side effects: receipt email and live
// availability push. Neither can fail the booking.
func afterBooking(branchID, studentID uuid.UUID, seatID, lockerID *string, result *services.BookingResult) {
	if id := parseUUIDPtr(seatID); id != nil {
		ws.NotifyResourceChange(branchID, "seat", *id, true)
	}
	if id := parseUUIDPtr(lockerID); id != nil {
		ws.NotifyResourceChange(branchID, "locker", *id, true)
	}

	go func() {
		var student models.User
		if err := database.DB.First(&student, "id = ?", studentID).Error; err == nil {
			notifications.SendBookingReceipt(student.FullName, student.Email, result.ReceiptNumber, result.Payable, result.DueAmount)
		}
	}()
}

type QuoteRequest struct {
	BranchID   string   `json:"branch_id" validate:"required,uuid"`
	PlanID     string   `json:"plan_id" validate:"required,uuid"`
	Quantity   int      `json:"quantity" validate:"omitempty,gt=0"`
	FeeIDs     []string `json:"fee_ids,omitempty" validate:"omitempty,dive,uuid"`
	CouponCode string   `json:"coupon_code,omitempty"`
	IsAddOn    bool     `json:"is_add_on"`
}

// QuoteBooking prices an order without writing anything.
func QuoteBooking(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	var req QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	quote, err := services.QuoteOrder(database.DB, actor, services.BookingRequest{
		StudentID:  actor.ID,
		BranchID:   uuid.MustParse(req.BranchID),
		PlanID:     uuid.MustParse(req.PlanID),
		Quantity:   req.Quantity,
		FeeIDs:     parseUUIDList(req.FeeIDs),
		CouponCode: req.CouponCode,
		IsAddOn:    req.IsAddOn,
	})
	if err != nil {
		return coreError(c, err)
	}
	return c.JSON(quote)
}

func parseDatePtr(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}

func parseUUIDList(in []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(in))
	for _, s := range in {
		if id, err := uuid.Parse(s); err == nil {
			out = append(out, id)
		}
	}
	return out
}
