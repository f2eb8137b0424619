package services

import (
	"fmt"
	"math"

	"github.com/studyspacehq/studyspace/models"
)

type OrderTotal struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Payable  float64 `json:"payable"`
}

// ComputeOrder composes plan price, quantity, add-on fees and discounts into
// the payable total.
//
// MONTHLY fees are billed once per month of plan duration, not per purchased
// cycle: quantity multiplies plan cycles, plan duration multiplies monthly
// fees. The two knobs are independent. When the plan is not month-based a
// MONTHLY fee falls back to the quantity multiplier.
//
// In locker add-on mode the parent subscription already paid for the plan, so
// the plan contributes nothing; only fees apply.
func ComputeOrder(plan models.Plan, quantity int, fees []models.AdditionalFee, manualDiscount, couponDiscount float64, lockerAddOn bool) (OrderTotal, error) {
	if quantity < 1 {
		return OrderTotal{}, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	if manualDiscount < 0 || couponDiscount < 0 {
		return OrderTotal{}, fmt.Errorf("%w: negative discount", ErrPricing)
	}
	if plan.Price < 0 {
		return OrderTotal{}, fmt.Errorf("%w: plan %s has negative price", ErrPricing, plan.ID)
	}

	planPrice := plan.Price
	if lockerAddOn {
		planPrice = 0
	}

	subtotal := planPrice * float64(quantity)
	for _, fee := range fees {
		if fee.Amount < 0 {
			return OrderTotal{}, fmt.Errorf("%w: fee %s has negative amount", ErrPricing, fee.ID)
		}
		multiplier := quantity
		if fee.BillType == models.BillTypeMonthly && plan.DurationUnit == models.DurationUnitMonths {
			multiplier = plan.Duration
		}
		subtotal += fee.Amount * float64(multiplier)
	}

	discount := couponDiscount + manualDiscount
	payable := subtotal - discount
	if payable < 0 {
		payable = 0
	}

	return OrderTotal{Subtotal: subtotal, Discount: discount, Payable: payable}, nil
}

// DueAmount is the shortfall between the payable total and what was actually
// received, floored at zero so overpayment never produces a negative due.
func DueAmount(payable, received float64) float64 {
	due := payable - received
	if due < 0 {
		return 0
	}
	return due
}

// Round2 rounds to 2 decimals for display; internal math keeps full precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type SelectionPolicy struct {
	SeatAllowed   bool `json:"seat_allowed"`
	LockerAllowed bool `json:"locker_allowed"`
}

// ResourceSelectionPolicy decides whether seat and locker picking are enabled
// for a plan plus the fees the student selected. Both the desk and the public
// booking flows consume this one function.
func ResourceSelectionPolicy(plan models.Plan, selectedFees []models.AdditionalFee) SelectionPolicy {
	policy := SelectionPolicy{
		SeatAllowed:   plan.IncludesSeat,
		LockerAllowed: plan.IncludesLocker,
	}
	for _, fee := range selectedFees {
		if fee.GrantsLocker {
			policy.LockerAllowed = true
		}
	}
	return policy
}
