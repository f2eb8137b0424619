package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/studyspacehq/studyspace/models"
)

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func validPromo() models.Promotion {
	return models.Promotion{
		ID:        uuid.New(),
		Code:      "WELCOME10",
		Type:      models.PromoTypePercentage,
		Value:     10,
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC),
		IsActive:  true,
	}
}

func promoCtx(subtotal float64) PromoContext {
	return PromoContext{
		Subtotal:  subtotal,
		StudentID: uuid.New(),
		PlanID:    uuid.New(),
		BranchID:  uuid.New(),
		Now:       time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC),
	}
}

func rejectionReason(t *testing.T, err error) string {
	t.Helper()
	var rej *PromoRejection
	if !errors.As(err, &rej) {
		t.Fatalf("err = %v, want *PromoRejection", err)
	}
	return rej.Reason
}

func TestEvaluatePromotion_RejectionOrder(t *testing.T) {
	otherBranch := uuid.New()

	cases := []struct {
		name       string
		mutate     func(*models.Promotion)
		ctx        PromoContext
		wantReason string
	}{
		{
			name:       "inactive wins over everything",
			mutate:     func(p *models.Promotion) { p.IsActive = false; p.MinOrderValue = 99999 },
			ctx:        promoCtx(100),
			wantReason: PromoInactive,
		},
		{
			name:       "outside window",
			mutate:     func(p *models.Promotion) { p.EndDate = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC) },
			ctx:        promoCtx(100),
			wantReason: PromoExpired,
		},
		{
			name:       "below min order",
			mutate:     func(p *models.Promotion) { p.MinOrderValue = 500 },
			ctx:        promoCtx(100),
			wantReason: PromoMinOrder,
		},
		{
			name:       "wrong branch",
			mutate:     func(p *models.Promotion) { p.BranchID = &otherBranch },
			ctx:        promoCtx(100),
			wantReason: PromoScopeMismatch,
		},
		{
			name:       "global limit exhausted",
			mutate:     func(p *models.Promotion) { p.UsageLimit = intPtr(50) },
			ctx:        func() PromoContext { c := promoCtx(100); c.GlobalUses = 50; return c }(),
			wantReason: PromoUsageExhausted,
		},
		{
			name:       "per-user limit exhausted",
			mutate:     func(p *models.Promotion) { p.PerUserLimit = intPtr(1) },
			ctx:        func() PromoContext { c := promoCtx(100); c.StudentUses = 1; return c }(),
			wantReason: PromoPerUserExceeded,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			promo := validPromo()
			tc.mutate(&promo)
			_, err := EvaluatePromotion(promo, tc.ctx)
			if got := rejectionReason(t, err); got != tc.wantReason {
				t.Fatalf("reason = %q, want %q", got, tc.wantReason)
			}
		})
	}
}

func TestEvaluatePromotion_PercentageWithCap(t *testing.T) {
	promo := validPromo()
	promo.Value = 20
	promo.MaxDiscount = floatPtr(150)

	got, err := EvaluatePromotion(promo, promoCtx(1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Discount != 150 {
		t.Fatalf("discount = %.2f, want capped 150", got.Discount)
	}
	if got.FinalAmount != 850 {
		t.Fatalf("final = %.2f, want 850", got.FinalAmount)
	}
}

func TestEvaluatePromotion_FlatNeverExceedsSubtotal(t *testing.T) {
	promo := validPromo()
	promo.Type = models.PromoTypeFlat
	promo.Value = 500

	got, err := EvaluatePromotion(promo, promoCtx(300))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Discount != 300 || got.FinalAmount != 0 {
		t.Fatalf("got discount=%.2f final=%.2f, want 300 and 0", got.Discount, got.FinalAmount)
	}
}

func TestEvaluatePromotion_FreeTrialWaivesOrder(t *testing.T) {
	promo := validPromo()
	promo.Type = models.PromoTypeFreeTrial
	promo.TrialDuration = intPtr(7)
	unit := models.DurationUnitDays
	promo.TrialDurationUnit = &unit

	got, err := EvaluatePromotion(promo, promoCtx(1200))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.FinalAmount != 0 {
		t.Fatalf("final = %.2f, want 0", got.FinalAmount)
	}
}

func TestEvaluatePromotion_PlanScope(t *testing.T) {
	ctx := promoCtx(100)

	promo := validPromo()
	promo.PlanID = &ctx.PlanID

	if _, err := EvaluatePromotion(promo, ctx); err != nil {
		t.Fatalf("matching plan scope should pass, got %v", err)
	}

	other := uuid.New()
	promo.PlanID = &other
	_, err := EvaluatePromotion(promo, ctx)
	if got := rejectionReason(t, err); got != PromoScopeMismatch {
		t.Fatalf("reason = %q, want %q", got, PromoScopeMismatch)
	}
}
