package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/studyspacehq/studyspace/models"
	"gorm.io/gorm"
)

type BookingRequest struct {
	StudentID            uuid.UUID
	BranchID             uuid.UUID
	PlanID               uuid.UUID
	SeatID               *uuid.UUID
	LockerID             *uuid.UUID
	StartDate            *time.Time
	Quantity             int
	FeeIDs               []uuid.UUID
	CouponCode           string
	ManualDiscount       float64
	IsAddOn              bool
	ParentSubscriptionID *uuid.UUID
	Method               string
	// AmountReceived is the free-entry desk field; nil means full settlement.
	// Partial payment is a desk-only affordance.
	AmountReceived *float64
	ProofURL       *string
	TransactionRef *string
}

type BookingResult struct {
	SubscriptionID     uuid.UUID `json:"subscription_id"`
	PaymentID          uuid.UUID `json:"payment_id"`
	ReceiptNumber      string    `json:"receipt_number"`
	Subtotal           float64   `json:"subtotal"`
	Discount           float64   `json:"discount"`
	Payable            float64   `json:"payable"`
	AmountReceived     float64   `json:"amount_received"`
	DueAmount          float64   `json:"due_amount"`
	PaymentStatus      string    `json:"payment_status"`
	SubscriptionStatus string    `json:"subscription_status"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
}

// bookingScope is every row the request references, loaded and tenant-checked
// up front so nothing is persisted for a request that crosses a library or
// branch boundary.
type bookingScope struct {
	branch  models.Branch
	plan    models.Plan
	fees    []models.AdditionalFee
	student models.User
	promo   *models.Promotion
	pricing OrderTotal
	coupon  float64
}

func loadBookingScope(db *gorm.DB, actor Actor, req BookingRequest, now time.Time) (*bookingScope, error) {
	scope := &bookingScope{}

	if err := db.First(&scope.branch, "id = ?", req.BranchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: branch not found", ErrValidation)
		}
		return nil, err
	}
	if scope.branch.LibraryID != actor.LibraryID {
		return nil, ErrCrossTenant
	}
	if actor.IsDesk() && actor.BranchID != nil && *actor.BranchID != scope.branch.ID {
		return nil, ErrCrossTenant
	}

	if err := db.First(&scope.plan, "id = ?", req.PlanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: plan not found", ErrValidation)
		}
		return nil, err
	}
	if scope.plan.LibraryID != actor.LibraryID || scope.plan.BranchID != scope.branch.ID {
		return nil, ErrCrossTenant
	}
	if !scope.plan.IsActive {
		return nil, fmt.Errorf("%w: plan is not active", ErrValidation)
	}

	if len(req.FeeIDs) > 0 {
		if err := db.Where("id IN ?", req.FeeIDs).Find(&scope.fees).Error; err != nil {
			return nil, err
		}
		if len(scope.fees) != len(req.FeeIDs) {
			return nil, fmt.Errorf("%w: one or more fees not found", ErrValidation)
		}
		for _, fee := range scope.fees {
			if fee.LibraryID != actor.LibraryID || fee.BranchID != scope.branch.ID {
				return nil, ErrCrossTenant
			}
		}
	}

	if req.SeatID != nil {
		var seat models.Seat
		if err := db.First(&seat, "id = ?", *req.SeatID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: seat not found", ErrValidation)
			}
			return nil, err
		}
		if seat.LibraryID != actor.LibraryID || seat.BranchID != scope.branch.ID {
			return nil, ErrCrossTenant
		}
	}
	if req.LockerID != nil {
		var locker models.Locker
		if err := db.First(&locker, "id = ?", *req.LockerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: locker not found", ErrValidation)
			}
			return nil, err
		}
		if locker.LibraryID != actor.LibraryID || locker.BranchID != scope.branch.ID {
			return nil, ErrCrossTenant
		}
	}

	if err := db.First(&scope.student, "id = ?", req.StudentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: student not found", ErrValidation)
		}
		return nil, err
	}
	if scope.student.LibraryID != actor.LibraryID {
		return nil, ErrCrossTenant
	}
	if scope.student.Role != "student" {
		return nil, fmt.Errorf("%w: subscriptions can only be booked for students", ErrValidation)
	}

	// Seat/locker picking must obey the same policy in every flow.
	policy := ResourceSelectionPolicy(scope.plan, scope.fees)
	if req.SeatID != nil && !req.IsAddOn && !policy.SeatAllowed {
		return nil, fmt.Errorf("%w: this plan does not include seat selection", ErrValidation)
	}
	if req.LockerID != nil && !policy.LockerAllowed && !req.IsAddOn {
		return nil, fmt.Errorf("%w: this plan does not include locker selection", ErrValidation)
	}

	quantity := req.Quantity
	base, err := ComputeOrder(scope.plan, quantity, scope.fees, req.ManualDiscount, 0, req.IsAddOn)
	if err != nil {
		return nil, err
	}

	if req.CouponCode != "" {
		promoResult, err := ValidatePromotionCode(db, actor.LibraryID, req.CouponCode, PromoContext{
			Subtotal:  base.Subtotal,
			StudentID: req.StudentID,
			PlanID:    scope.plan.ID,
			BranchID:  scope.branch.ID,
			Now:       now,
		})
		if err != nil {
			// Rejections propagate verbatim to the caller.
			return nil, err
		}
		scope.promo = &promoResult.Promo
		scope.coupon = promoResult.Discount
	}

	scope.pricing, err = ComputeOrder(scope.plan, quantity, scope.fees, req.ManualDiscount, scope.coupon, req.IsAddOn)
	if err != nil {
		return nil, err
	}
	return scope, nil
}

// CreateBooking sequences validation, coupon, pricing, reservation,
// subscription and payment for both the desk and the public flow. Steps that
// write run inside one transaction, so a reservation is rolled back whenever
// anything downstream of it fails.
func CreateBooking(db *gorm.DB, actor Actor, req BookingRequest) (*BookingResult, error) {
	now := time.Now()

	if req.Quantity < 1 {
		req.Quantity = 1
	}
	if req.Method == "" {
		return nil, fmt.Errorf("%w: payment method is required", ErrValidation)
	}
	if !IsGatewayMethod(req.Method) && !IsManualMethod(req.Method) {
		return nil, fmt.Errorf("%w: unknown payment method %s", ErrValidation, req.Method)
	}
	if req.IsAddOn {
		if req.ParentSubscriptionID == nil || req.LockerID == nil {
			return nil, fmt.Errorf("%w: locker add-ons require a parent subscription and a locker", ErrValidation)
		}
		if req.SeatID != nil {
			return nil, fmt.Errorf("%w: add-ons cannot reserve a seat", ErrValidation)
		}
	}
	if req.AmountReceived != nil && !actor.IsDesk() {
		return nil, fmt.Errorf("%w: partial payment is only available at the desk", ErrValidation)
	}
	if req.AmountReceived != nil && req.Method != models.MethodFrontDesk {
		return nil, fmt.Errorf("%w: amount received only applies to front desk payments", ErrValidation)
	}
	if req.AmountReceived != nil && *req.AmountReceived < 0 {
		return nil, fmt.Errorf("%w: amount received cannot be negative", ErrValidation)
	}

	scope, err := loadBookingScope(db, actor, req, now)
	if err != nil {
		return nil, err
	}

	freeTrial := scope.promo != nil && scope.promo.Type == models.PromoTypeFreeTrial

	var startDate, endDate time.Time
	var parent *models.Subscription
	switch {
	case req.IsAddOn:
		parent, err = LoadAddOnParent(db, actor.LibraryID, *req.ParentSubscriptionID, req.StudentID, scope.branch.ID)
		if err != nil {
			return nil, err
		}
		startDate, endDate = parent.StartDate, parent.EndDate
	default:
		if req.StartDate != nil {
			startDate = truncateToDay(*req.StartDate)
		} else {
			startDate, err = RenewalStartDate(db, actor.LibraryID, scope.branch.ID, req.StudentID, now)
			if err != nil {
				return nil, err
			}
		}
		if freeTrial && scope.promo.TrialDuration != nil && scope.promo.TrialDurationUnit != nil {
			endDate = AddPlanDuration(startDate, *scope.promo.TrialDurationUnit, *scope.promo.TrialDuration)
		} else {
			endDate = AddPlanDuration(startDate, scope.plan.DurationUnit, scope.plan.Duration*req.Quantity)
		}
	}

	payable := scope.pricing.Payable

	method := req.Method
	received := payable
	if freeTrial {
		method = models.MethodFreeTrial
		received = 0
	} else if req.AmountReceived != nil && req.Method == models.MethodFrontDesk {
		received = *req.AmountReceived
	}
	due := DueAmount(payable, received)

	// Desk acceptance of cash settles in the same breath; every other manual
	// method waits for explicit verification.
	settleNow := freeTrial || (req.Method == models.MethodFrontDesk && actor.IsDesk())

	var promoID *uuid.UUID
	if scope.promo != nil {
		promoID = &scope.promo.ID
	}

	var sub *models.Subscription
	var payment *models.Payment
	err = db.Transaction(func(tx *gorm.DB) error {
		if req.SeatID != nil && !req.IsAddOn {
			if err := ReserveSeat(tx, *req.SeatID, now); err != nil {
				return err
			}
		}
		if req.LockerID != nil {
			if err := ReserveLocker(tx, *req.LockerID, now); err != nil {
				return err
			}
		}

		sub, err = CreateSubscription(tx, SubscriptionParams{
			LibraryID: actor.LibraryID,
			BranchID:  scope.branch.ID,
			StudentID: req.StudentID,
			PlanID:    scope.plan.ID,
			SeatID:    req.SeatID,
			LockerID:  req.LockerID,
			StartDate: startDate,
			EndDate:   endDate,
			Status:    models.SubscriptionPending,
			IsAddOn:   req.IsAddOn,
			ParentID:  req.ParentSubscriptionID,
		})
		if err != nil {
			return err
		}

		payment, err = RecordPayment(tx, PaymentParams{
			LibraryID:      actor.LibraryID,
			SubscriptionID: sub.ID,
			PromotionID:    promoID,
			Subtotal:       scope.pricing.Subtotal,
			CouponDiscount: scope.coupon,
			Discount:       scope.pricing.Discount,
			Amount:         received,
			DueAmount:      due,
			Method:         method,
			ProofURL:       req.ProofURL,
			TransactionRef: req.TransactionRef,
		})
		if err != nil {
			return err
		}

		if settleNow {
			if !freeTrial {
				verifiedAt := now
				payment.VerifiedByID = &actor.ID
				payment.VerifiedByRole = &actor.Role
				payment.VerifiedAt = &verifiedAt
			}
			if err := CompletePayment(tx, payment); err != nil {
				return err
			}
			sub.Status = models.SubscriptionActive
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &BookingResult{
		SubscriptionID:     sub.ID,
		PaymentID:          payment.ID,
		ReceiptNumber:      payment.ReceiptNumber,
		Subtotal:           scope.pricing.Subtotal,
		Discount:           scope.pricing.Discount,
		Payable:            payable,
		AmountReceived:     received,
		DueAmount:          due,
		PaymentStatus:      payment.Status,
		SubscriptionStatus: sub.Status,
		StartDate:          startDate,
		EndDate:            endDate,
	}, nil
}

type QuoteResult struct {
	Subtotal  float64         `json:"subtotal"`
	Discount  float64         `json:"discount"`
	Payable   float64         `json:"payable"`
	FreeTrial bool            `json:"free_trial"`
	Policy    SelectionPolicy `json:"policy"`
}

// QuoteOrder prices a prospective booking, coupon included, without touching
// any state. Public booking UIs call this before the student commits.
func QuoteOrder(db *gorm.DB, actor Actor, req BookingRequest) (*QuoteResult, error) {
	if req.Quantity < 1 {
		req.Quantity = 1
	}
	scope, err := loadBookingScope(db, actor, req, time.Now())
	if err != nil {
		return nil, err
	}
	return &QuoteResult{
		Subtotal:  scope.pricing.Subtotal,
		Discount:  scope.pricing.Discount,
		Payable:   scope.pricing.Payable,
		FreeTrial: scope.promo != nil && scope.promo.Type == models.PromoTypeFreeTrial,
		Policy:    ResourceSelectionPolicy(scope.plan, scope.fees),
	}, nil
}
