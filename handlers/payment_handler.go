package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/studyspacehq/studyspace/database"
	"github.com/studyspacehq/studyspace/models"
	"github.com/studyspacehq/studyspace/notifications"
	"github.com/studyspacehq/studyspace/payments"
	"github.com/studyspacehq/studyspace/services"
	"github.com/studyspacehq/studyspace/utils"
	"gorm.io/gorm"
)

// CreateGatewayOrder opens a Razorpay order or Cashfree session for a pending
// payment so the client can launch checkout.
func CreateGatewayOrder(c *fiber.Ctx) error {
	actor := actorFromCtx(c)
	paymentID := c.Params("paymentId")
	if _, err := uuid.Parse(paymentID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment ID format"})
	}

	var payment models.Payment
	err := database.DB.
		Where("id = ? AND library_id = ? AND status = ?", paymentID, actor.LibraryID, models.PaymentPending).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Pending payment not found for this ID"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	switch payment.Method {
	case models.MethodRazorpay:
		order, err := payments.CreateRazorpayOrder(payment.Amount, "INR", payment.ReceiptNumber)
		if err != nil {
			log.Printf("🔥 Razorpay CreateOrder failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create gateway order"})
		}
		if err := services.AttachGatewayOrder(database.DB, &payment, order.ID); err != nil {
			return coreError(c, err)
		}
		return c.JSON(fiber.Map{"gateway": "razorpay", "order_id": order.ID, "amount": order.Amount, "currency": order.Currency})

	case models.MethodCashfree:
		var student models.User
		database.DB.Joins("JOIN subscriptions ON subscriptions.student_id = users.id").
			Where("subscriptions.id = ?", payment.SubscriptionID).
			First(&student)

		phone := ""
		if student.Phone != nil {
			phone = *student.Phone
		}
		order, err := payments.CreateCashfreeOrder(payment.ReceiptNumber, payment.Amount, "INR", payments.CashfreeCustomerInfo{
			CustomerID:    student.ID.String(),
			CustomerEmail: student.Email,
			CustomerPhone: phone,
		})
		if err != nil {
			log.Printf("🔥 Cashfree CreateOrder failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create gateway order"})
		}
		if err := services.AttachGatewayOrder(database.DB, &payment, order.OrderID); err != nil {
			return coreError(c, err)
		}
		return c.JSON(fiber.Map{"gateway": "cashfree", "order_id": order.OrderID, "payment_session_id": order.PaymentSessionID})
	}

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payment method does not use a gateway"})
}

type VerifyPaymentRequest struct {
	PaymentID        string `json:"payment_id" validate:"required,uuid"`
	GatewayPaymentID string `json:"gateway_payment_id" validate:"required"`
	Signature        string `json:"signature" validate:"required"`
}

// VerifyGatewayPayment is the post-checkout callback: the signature check is
// the sole authority that settles an online payment.
func VerifyGatewayPayment(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	var req VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	payment, err := services.VerifyGatewayPayment(database.DB, actor.LibraryID,
		uuid.MustParse(req.PaymentID), req.GatewayPaymentID, req.Signature)
	if err != nil {
		return coreError(c, err)
	}

	notifyPaymentSettled(payment)
	return c.JSON(fiber.Map{"status": payment.Status, "receipt_number": payment.ReceiptNumber})
}

type CashfreeWebhookPayload struct {
	Data struct {
		Order struct {
			OrderID string `json:"order_id"`
		} `json:"order"`
		Payment struct {
			CfPaymentID string  `json:"cf_payment_id"`
			Amount      float64 `json:"payment_amount"`
		} `json:"payment"`
	} `json:"data"`
	Signature string `json:"signature"`
}

// HandleCashfreeWebhook settles payments server-to-server when the client
// never came back from checkout.
func HandleCashfreeWebhook(c *fiber.Ctx) error {
	var payload CashfreeWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse webhook payload"})
	}

	var payment models.Payment
	if err := database.DB.Where("gateway_order_id = ?", payload.Data.Order.OrderID).First(&payment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment record not found"})
	}
	if payment.Status == models.PaymentCompleted {
		return c.JSON(fiber.Map{"message": "Webhook already processed"})
	}

	settled, err := services.VerifyGatewayPayment(database.DB, payment.LibraryID, payment.ID,
		payload.Data.Payment.CfPaymentID, payload.Signature)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSignature) {
			log.Printf("⚠️ Cashfree webhook signature mismatch for order %s", payload.Data.Order.OrderID)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid signature"})
		}
		return coreError(c, err)
	}

	notifyPaymentSettled(settled)
	return c.JSON(fiber.Map{"message": "Webhook processed successfully"})
}

// MarkPaymentVerified is the staff action that settles manual payments. The
// scanned transaction hint shown alongside the proof never substitutes for
// this human step.
func MarkPaymentVerified(c *fiber.Ctx) error {
	actor := actorFromCtx(c)
	paymentID, err := uuid.Parse(c.Params("paymentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment ID format"})
	}

	payment, err := services.MarkManualVerified(database.DB, actor.LibraryID, paymentID, actor)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment not found"})
		}
		return coreError(c, err)
	}

	notifyPaymentSettled(payment)
	return c.JSON(fiber.Map{"message": "Payment verified", "status": payment.Status})
}

func ListPendingVerification(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	query := database.DB.
		Preload("Subscription.Student").
		Preload("Subscription.Plan").
		Where("payments.library_id = ? AND payments.status = ?", actor.LibraryID, models.PaymentPendingVerification)
	if actor.BranchID != nil {
		query = query.Joins("JOIN subscriptions ON subscriptions.id = payments.subscription_id").
			Where("subscriptions.branch_id = ?", *actor.BranchID)
	}

	var pending []models.Payment
	query.Order("payments.created_at").Find(&pending)
	return c.JSON(pending)
}

func GetMyPayments(c *fiber.Ctx) error {
	actor := actorFromCtx(c)

	var mine []models.Payment
	database.DB.
		Joins("JOIN subscriptions ON subscriptions.id = payments.subscription_id").
		Where("payments.library_id = ? AND subscriptions.student_id = ?", actor.LibraryID, actor.ID).
		Order("payments.created_at desc").
		Find(&mine)
	return c.JSON(mine)
}

type SubmitProofRequest struct {
	ProofURL string `json:"proof_url" validate:"required,url"`
	OCRText  string `json:"ocr_text,omitempty"`
}

// SubmitPaymentProof attaches an uploaded screenshot to a payment awaiting
// verification, with an advisory transaction ref scanned from it.
func SubmitPaymentProof(c *fiber.Ctx) error {
	actor := actorFromCtx(c)
	paymentID := c.Params("paymentId")

	var req SubmitProofRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var payment models.Payment
	err := database.DB.
		Joins("JOIN subscriptions ON subscriptions.id = payments.subscription_id").
		Where("payments.id = ? AND payments.library_id = ? AND subscriptions.student_id = ?",
			paymentID, actor.LibraryID, actor.ID).
		First(&payment).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment not found"})
	}
	if payment.Status != models.PaymentPendingVerification {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Proof can only be attached while verification is pending"})
	}

	payment.ProofURL = &req.ProofURL
	if ref := utils.ExtractTransactionRef(req.OCRText); ref != "" && payment.TransactionRef == nil {
		payment.TransactionRef = &ref
	}
	if err := database.DB.Save(&payment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save proof"})
	}
	return c.JSON(fiber.Map{"message": "Proof submitted, awaiting verification", "transaction_ref": payment.TransactionRef})
}

// notifyPaymentSettled emails the receipt once a payment reaches completed.
// Notification failures must never affect settlement.
func notifyPaymentSettled(payment *models.Payment) {
	if payment == nil || payment.Status != models.PaymentCompleted {
		return
	}
	go func(p models.Payment) {
		var sub models.Subscription
		if err := database.DB.Preload("Student").First(&sub, "id = ?", p.SubscriptionID).Error; err != nil {
			return
		}
		if sub.Student.Email == "" {
			return
		}
		notifications.SendBookingReceipt(sub.Student.FullName, sub.Student.Email, p.ReceiptNumber, p.Amount, p.DueAmount)
	}(*payment)
}
