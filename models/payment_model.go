package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentPending             = "pending"
	PaymentPendingVerification = "pending_verification"
	PaymentCompleted           = "completed"
	PaymentFailed              = "failed"
)

const (
	MethodRazorpay  = "razorpay"
	MethodCashfree  = "cashfree"
	MethodUpiApp    = "upi_app"
	MethodQrCode    = "qr_code"
	MethodFrontDesk = "front_desk"
	MethodFreeTrial = "free_trial"
)

// A Payment is immutable once completed; corrections require a new
// compensating record.
type Payment struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	LibraryID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"library_id"`
	SubscriptionID uuid.UUID  `gorm:"type:uuid;not null;index" json:"subscription_id"`
	PromotionID    *uuid.UUID `gorm:"type:uuid;index" json:"promotion_id,omitempty"`

	Subtotal       float64 `gorm:"type:numeric(10,2);not null" json:"subtotal"`
	CouponDiscount float64 `gorm:"type:numeric(10,2);default:0" json:"coupon_discount"`
	Discount       float64 `gorm:"type:numeric(10,2);default:0" json:"discount"` // coupon + manual
	Amount         float64 `gorm:"type:numeric(10,2);not null" json:"amount"`    // received
	DueAmount      float64 `gorm:"type:numeric(10,2);default:0" json:"due_amount"`

	Method        string `gorm:"size:20;not null" json:"method"`
	Status        string `gorm:"size:30;not null" json:"status"`
	ReceiptNumber string `gorm:"size:30;unique" json:"receipt_number"`

	GatewayOrderID   *string `gorm:"size:255;unique" json:"gateway_order_id,omitempty"`
	GatewayPaymentID *string `gorm:"size:255" json:"gateway_payment_id,omitempty"`

	// Manual-method evidence. TransactionRef may be pre-filled from a
	// best-effort scan of the proof screenshot; it is advisory only and never
	// drives a status transition.
	ProofURL       *string `gorm:"size:512" json:"proof_url,omitempty"`
	TransactionRef *string `gorm:"size:100" json:"transaction_ref,omitempty"`

	VerifiedByID   *uuid.UUID `gorm:"type:uuid" json:"verified_by_id,omitempty"`
	VerifiedByRole *string    `gorm:"size:20" json:"verified_by_role,omitempty"`
	VerifiedAt     *time.Time `json:"verified_at,omitempty"`

	Subscription Subscription `gorm:"foreignkey:SubscriptionID" json:"subscription,omitempty"`
	Promotion    *Promotion   `gorm:"foreignkey:PromotionID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
