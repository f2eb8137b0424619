package services

import (
	"errors"
	"testing"

	"github.com/studyspacehq/studyspace/models"
)

func monthlyPlan(price float64, months int) models.Plan {
	return models.Plan{Price: price, Duration: months, DurationUnit: models.DurationUnitMonths}
}

func TestComputeOrder_MonthlyFeesFollowPlanDuration(t *testing.T) {
	// A 2-month plan bills monthly fees twice and one-time fees once,
	// regardless of quantity staying at 1.
	plan := monthlyPlan(1000, 2)
	fees := []models.AdditionalFee{
		{Name: "Locker Fee", Amount: 500, BillType: models.BillTypeMonthly},
		{Name: "Registration", Amount: 100, BillType: models.BillTypeOneTime},
	}

	got, err := ComputeOrder(plan, 1, fees, 0, 0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 1000.0 + 500*2 + 100
	if got.Subtotal != want {
		t.Fatalf("subtotal = %.2f, want %.2f", got.Subtotal, want)
	}
}

func TestComputeOrder_QuantityMultipliesPlanNotMonthlyFees(t *testing.T) {
	plan := monthlyPlan(1000, 1)
	fees := []models.AdditionalFee{
		{Amount: 200, BillType: models.BillTypeMonthly},
	}

	got, err := ComputeOrder(plan, 3, fees, 0, 0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 3 plan cycles, but the monthly fee tracks the 1-month duration.
	if want := 3000.0 + 200; got.Subtotal != want {
		t.Fatalf("subtotal = %.2f, want %.2f", got.Subtotal, want)
	}
}

func TestComputeOrder_MonthlyFeeOnDayPlanFallsBackToQuantity(t *testing.T) {
	plan := models.Plan{Price: 50, Duration: 10, DurationUnit: models.DurationUnitDays}
	fees := []models.AdditionalFee{
		{Amount: 30, BillType: models.BillTypeMonthly},
	}

	got, err := ComputeOrder(plan, 2, fees, 0, 0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := 100.0 + 60; got.Subtotal != want {
		t.Fatalf("subtotal = %.2f, want %.2f", got.Subtotal, want)
	}
}

func TestComputeOrder_LockerAddOnZeroesPlanPrice(t *testing.T) {
	plan := monthlyPlan(1500, 1)
	fees := []models.AdditionalFee{
		{Amount: 250, BillType: models.BillTypeMonthly, GrantsLocker: true},
	}

	got, err := ComputeOrder(plan, 1, fees, 0, 0, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Subtotal != 250 {
		t.Fatalf("subtotal = %.2f, want 250 (plan already paid on parent)", got.Subtotal)
	}
}

func TestComputeOrder_PayableFlooredAtZero(t *testing.T) {
	got, err := ComputeOrder(monthlyPlan(100, 1), 1, nil, 80, 50, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Payable != 0 {
		t.Fatalf("payable = %.2f, want 0", got.Payable)
	}
	if got.Discount != 130 {
		t.Fatalf("discount = %.2f, want 130", got.Discount)
	}
}

func TestComputeOrder_Rejections(t *testing.T) {
	cases := []struct {
		name     string
		plan     models.Plan
		quantity int
		fees     []models.AdditionalFee
		manual   float64
		wantErr  error
	}{
		{"zero quantity", monthlyPlan(100, 1), 0, nil, 0, ErrValidation},
		{"negative plan price", monthlyPlan(-1, 1), 1, nil, 0, ErrPricing},
		{"negative fee", monthlyPlan(100, 1), 1, []models.AdditionalFee{{Amount: -5}}, 0, ErrPricing},
		{"negative discount", monthlyPlan(100, 1), 1, nil, -10, ErrPricing},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeOrder(tc.plan, tc.quantity, tc.fees, tc.manual, 0, false)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestDueAmount(t *testing.T) {
	if got := DueAmount(1000, 400); got != 600 {
		t.Fatalf("DueAmount(1000, 400) = %.2f, want 600", got)
	}
	if got := DueAmount(1000, 1200); got != 0 {
		t.Fatalf("overpayment should floor at 0, got %.2f", got)
	}
}

func TestResourceSelectionPolicy(t *testing.T) {
	plan := models.Plan{IncludesSeat: true, IncludesLocker: false}

	policy := ResourceSelectionPolicy(plan, nil)
	if !policy.SeatAllowed || policy.LockerAllowed {
		t.Fatalf("policy = %+v, want seat only", policy)
	}

	policy = ResourceSelectionPolicy(plan, []models.AdditionalFee{{Name: "Locker Fee", GrantsLocker: true}})
	if !policy.LockerAllowed {
		t.Fatal("locker fee should unlock locker selection")
	}
}
