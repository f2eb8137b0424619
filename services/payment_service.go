package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/studyspacehq/studyspace/models"
	"github.com/studyspacehq/studyspace/payments"
	"github.com/studyspacehq/studyspace/utils"
	"gorm.io/gorm"
)

// Actor is the resolved identity every core operation receives explicitly;
// nothing reads session state ambiently.
type Actor struct {
	ID        uuid.UUID
	Role      string // owner | staff | student
	LibraryID uuid.UUID
	BranchID  *uuid.UUID
}

func (a Actor) IsDesk() bool {
	return a.Role == "owner" || a.Role == "staff"
}

func IsGatewayMethod(method string) bool {
	return method == models.MethodRazorpay || method == models.MethodCashfree
}

func IsManualMethod(method string) bool {
	switch method {
	case models.MethodUpiApp, models.MethodQrCode, models.MethodFrontDesk:
		return true
	}
	return false
}

// InitialPaymentStatus maps a method to the status a fresh payment is born
// with. Gateways settle via signature verification, manual methods via a
// staff verification action. Free trials start pending too: CompletePayment
// is the only place a payment settles, so the subscription activation it
// carries is never skipped.
func InitialPaymentStatus(method string) string {
	switch {
	case IsGatewayMethod(method):
		return models.PaymentPending
	case IsManualMethod(method):
		return models.PaymentPendingVerification
	default:
		return models.PaymentPending
	}
}

type PaymentParams struct {
	LibraryID      uuid.UUID
	SubscriptionID uuid.UUID
	PromotionID    *uuid.UUID
	Subtotal       float64
	CouponDiscount float64
	Discount       float64
	Amount         float64
	DueAmount      float64
	Method         string
	ProofURL       *string
	TransactionRef *string
}

func RecordPayment(tx *gorm.DB, p PaymentParams) (*models.Payment, error) {
	receipt, err := utils.GenerateReceiptNumber(tx)
	if err != nil {
		return nil, err
	}

	payment := models.Payment{
		LibraryID:      p.LibraryID,
		SubscriptionID: p.SubscriptionID,
		PromotionID:    p.PromotionID,
		Subtotal:       p.Subtotal,
		CouponDiscount: p.CouponDiscount,
		Discount:       p.Discount,
		Amount:         p.Amount,
		DueAmount:      p.DueAmount,
		Method:         p.Method,
		Status:         InitialPaymentStatus(p.Method),
		ReceiptNumber:  receipt,
		ProofURL:       p.ProofURL,
		TransactionRef: p.TransactionRef,
	}
	if err := tx.Create(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// SettlableSubscription reports whether a payment may still settle against a
// subscription in the given status. Cancelled and expired bookings refuse
// settlement: the stale sweep has already released their resources, and a
// completed payment on a released booking would be an inconsistent pairing.
func SettlableSubscription(status string) bool {
	return status == models.SubscriptionPending || status == models.SubscriptionActive
}

// CompletePayment flips a payment to completed and activates its pending
// subscription. Calling it on an already-completed payment is a no-op.
func CompletePayment(tx *gorm.DB, payment *models.Payment) error {
	if payment.Status == models.PaymentCompleted {
		return nil
	}

	var sub models.Subscription
	if err := tx.First(&sub, "id = ?", payment.SubscriptionID).Error; err != nil {
		return err
	}
	if !SettlableSubscription(sub.Status) {
		return ErrBookingReleased
	}

	payment.Status = models.PaymentCompleted
	if err := tx.Save(payment).Error; err != nil {
		return err
	}

	return tx.Model(&models.Subscription{}).
		Where("id = ? AND status = ?", payment.SubscriptionID, models.SubscriptionPending).
		Update("status", models.SubscriptionActive).Error
}

// MarkManualVerified is the only path to completed for manual methods
// (upi_app, qr_code, front_desk). The OCR-suggested transaction ref never
// reaches this decision; a human does.
func MarkManualVerified(db *gorm.DB, libraryID, paymentID uuid.UUID, actor Actor) (*models.Payment, error) {
	var payment models.Payment
	if err := db.Where("id = ? AND library_id = ?", paymentID, libraryID).First(&payment).Error; err != nil {
		return nil, err
	}
	if !IsManualMethod(payment.Method) {
		return nil, fmt.Errorf("%w: payment method %s is not manually verifiable", ErrValidation, payment.Method)
	}
	if payment.Status == models.PaymentCompleted || payment.Status == models.PaymentFailed {
		return nil, ErrAlreadyFinalized
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		payment.VerifiedByID = &actor.ID
		payment.VerifiedByRole = &actor.Role
		payment.VerifiedAt = &now
		return CompletePayment(tx, &payment)
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// VerifyGatewayPayment is the sole authority that settles an online payment.
// A valid signature on an already-completed payment is an idempotent success;
// an invalid one fails a pending payment but never mutates a completed one.
func VerifyGatewayPayment(db *gorm.DB, libraryID, paymentID uuid.UUID, gatewayPaymentID, signature string) (*models.Payment, error) {
	var payment models.Payment
	if err := db.Where("id = ? AND library_id = ?", paymentID, libraryID).First(&payment).Error; err != nil {
		return nil, err
	}
	if !IsGatewayMethod(payment.Method) {
		return nil, fmt.Errorf("%w: payment method %s is not gateway-verifiable", ErrValidation, payment.Method)
	}
	if payment.GatewayOrderID == nil {
		return nil, fmt.Errorf("%w: no gateway order exists for this payment", ErrValidation)
	}

	var valid bool
	switch payment.Method {
	case models.MethodRazorpay:
		valid = payments.VerifyRazorpaySignature(*payment.GatewayOrderID, gatewayPaymentID, signature)
	case models.MethodCashfree:
		valid = payments.VerifyCashfreeSignature(*payment.GatewayOrderID, gatewayPaymentID, payment.Amount, signature)
	}

	if !valid {
		if payment.Status != models.PaymentCompleted {
			payment.Status = models.PaymentFailed
			if err := db.Save(&payment).Error; err != nil {
				return nil, err
			}
		}
		return &payment, ErrInvalidSignature
	}

	if payment.Status == models.PaymentCompleted {
		return &payment, nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		payment.GatewayPaymentID = &gatewayPaymentID
		return CompletePayment(tx, &payment)
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// AttachGatewayOrder stores the gateway-side order id on a pending payment so
// the later signature check has something to verify against.
func AttachGatewayOrder(db *gorm.DB, payment *models.Payment, gatewayOrderID string) error {
	if payment.Status == models.PaymentCompleted {
		return ErrAlreadyFinalized
	}
	payment.GatewayOrderID = &gatewayOrderID
	return db.Save(payment).Error
}
