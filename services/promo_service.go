package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/studyspacehq/studyspace/models"
	"gorm.io/gorm"
)

// PromoContext is everything a promotion is judged against. Usage counts are
// supplied by the caller so the evaluation itself stays free of storage.
type PromoContext struct {
	Subtotal    float64
	StudentID   uuid.UUID
	PlanID      uuid.UUID
	BranchID    uuid.UUID
	Now         time.Time
	GlobalUses  int64
	StudentUses int64
}

type PromoResult struct {
	Promo       models.Promotion `json:"promotion"`
	Discount    float64          `json:"discount"`
	FinalAmount float64          `json:"final_amount"`
}

// EvaluatePromotion runs the rejection checks in order; the first failing
// check wins. On success it returns the discount the promotion grants
// against the given subtotal.
func EvaluatePromotion(promo models.Promotion, ctx PromoContext) (PromoResult, error) {
	if !promo.IsActive {
		return PromoResult{}, rejectPromo(PromoInactive, "coupon %s is no longer active", promo.Code)
	}
	if ctx.Now.Before(promo.StartDate) || ctx.Now.After(promo.EndDate) {
		return PromoResult{}, rejectPromo(PromoExpired, "coupon %s is not valid on this date", promo.Code)
	}
	if ctx.Subtotal < promo.MinOrderValue {
		return PromoResult{}, rejectPromo(PromoMinOrder, "order must be at least %.2f to use coupon %s", promo.MinOrderValue, promo.Code)
	}
	if promo.BranchID != nil && *promo.BranchID != ctx.BranchID {
		return PromoResult{}, rejectPromo(PromoScopeMismatch, "coupon %s is not valid at this branch", promo.Code)
	}
	if promo.PlanID != nil && *promo.PlanID != ctx.PlanID {
		return PromoResult{}, rejectPromo(PromoScopeMismatch, "coupon %s is not valid for this plan", promo.Code)
	}
	if promo.UsageLimit != nil && ctx.GlobalUses >= int64(*promo.UsageLimit) {
		return PromoResult{}, rejectPromo(PromoUsageExhausted, "coupon %s has been fully redeemed", promo.Code)
	}
	if promo.PerUserLimit != nil && ctx.StudentUses >= int64(*promo.PerUserLimit) {
		return PromoResult{}, rejectPromo(PromoPerUserExceeded, "you have already used coupon %s the maximum number of times", promo.Code)
	}

	var discount float64
	switch promo.Type {
	case models.PromoTypePercentage:
		discount = ctx.Subtotal * promo.Value / 100
		if promo.MaxDiscount != nil && discount > *promo.MaxDiscount {
			discount = *promo.MaxDiscount
		}
	case models.PromoTypeFlat:
		discount = promo.Value
		if discount > ctx.Subtotal {
			discount = ctx.Subtotal
		}
	case models.PromoTypeFreeTrial:
		// The whole order is waived; the trial duration on the promotion
		// overrides the plan duration downstream.
		discount = ctx.Subtotal
	default:
		return PromoResult{}, rejectPromo(PromoInactive, "coupon %s has an unknown type", promo.Code)
	}

	return PromoResult{
		Promo:       promo,
		Discount:    discount,
		FinalAmount: ctx.Subtotal - discount,
	}, nil
}

// ValidatePromotionCode resolves a code within a library (codes are stored
// uppercase and looked up uppercase) and fills in the derived usage counts
// before delegating to EvaluatePromotion. Usage is counted from completed
// payments so there is no second counter to drift.
func ValidatePromotionCode(db *gorm.DB, libraryID uuid.UUID, code string, ctx PromoContext) (PromoResult, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))

	var promo models.Promotion
	err := db.Where("library_id = ? AND code = ?", libraryID, normalized).First(&promo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PromoResult{}, rejectPromo(PromoNotFound, "coupon %s not found", normalized)
		}
		return PromoResult{}, err
	}

	if err := db.Model(&models.Payment{}).
		Where("promotion_id = ? AND status = ?", promo.ID, models.PaymentCompleted).
		Count(&ctx.GlobalUses).Error; err != nil {
		return PromoResult{}, err
	}

	if err := db.Model(&models.Payment{}).
		Joins("JOIN subscriptions ON subscriptions.id = payments.subscription_id").
		Where("payments.promotion_id = ? AND payments.status = ? AND subscriptions.student_id = ?",
			promo.ID, models.PaymentCompleted, ctx.StudentID).
		Count(&ctx.StudentUses).Error; err != nil {
		return PromoResult{}, err
	}

	return EvaluatePromotion(promo, ctx)
}
