package services

import (
	"testing"

	"github.com/studyspacehq/studyspace/models"
)

func TestInitialPaymentStatus(t *testing.T) {
	cases := []struct {
		method string
		want   string
	}{
		{models.MethodRazorpay, models.PaymentPending},
		{models.MethodCashfree, models.PaymentPending},
		{models.MethodUpiApp, models.PaymentPendingVerification},
		{models.MethodQrCode, models.PaymentPendingVerification},
		{models.MethodFrontDesk, models.PaymentPendingVerification},
		{models.MethodFreeTrial, models.PaymentPending},
	}
	for _, tc := range cases {
		if got := InitialPaymentStatus(tc.method); got != tc.want {
			t.Errorf("InitialPaymentStatus(%s) = %s, want %s", tc.method, got, tc.want)
		}
	}
}

// A payment born completed would skip CompletePayment's subscription
// activation via the idempotency no-op, leaving a free-trial subscription
// pending in the database for the stale sweep to cancel.
func TestFreeTrialPaymentIsNotBornCompleted(t *testing.T) {
	if got := InitialPaymentStatus(models.MethodFreeTrial); got == models.PaymentCompleted {
		t.Fatal("free trial payments must settle through CompletePayment, not start completed")
	}

	// The no-op path never touches storage; only an uncompleted payment
	// reaches the subscription activation.
	if err := CompletePayment(nil, &models.Payment{Status: models.PaymentCompleted}); err != nil {
		t.Fatalf("completing an already-completed payment should be a no-op, got %v", err)
	}
}

func TestSettlableSubscription(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{models.SubscriptionPending, true},
		{models.SubscriptionActive, true},
		{models.SubscriptionCancelled, false},
		{models.SubscriptionExpired, false},
	}
	for _, tc := range cases {
		if got := SettlableSubscription(tc.status); got != tc.want {
			t.Errorf("SettlableSubscription(%s) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestMethodClassification(t *testing.T) {
	for _, m := range []string{models.MethodRazorpay, models.MethodCashfree} {
		if !IsGatewayMethod(m) || IsManualMethod(m) {
			t.Errorf("%s should be gateway-only", m)
		}
	}
	for _, m := range []string{models.MethodUpiApp, models.MethodQrCode, models.MethodFrontDesk} {
		if IsGatewayMethod(m) || !IsManualMethod(m) {
			t.Errorf("%s should be manual-only", m)
		}
	}
	if IsGatewayMethod(models.MethodFreeTrial) || IsManualMethod(models.MethodFreeTrial) {
		t.Error("free_trial is neither gateway nor manual")
	}
}

func TestActorIsDesk(t *testing.T) {
	if !(Actor{Role: "owner"}).IsDesk() {
		t.Error("owner should be desk")
	}
	if !(Actor{Role: "staff"}).IsDesk() {
		t.Error("staff should be desk")
	}
	if (Actor{Role: "student"}).IsDesk() {
		t.Error("student must not be desk")
	}
}
