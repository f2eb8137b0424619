package payments

import "testing"

func TestVerifyRazorpaySignature_KnownVector(t *testing.T) {
	orderID := "order_Nxq01xyz"
	paymentID := "pay_29QQoUBi66xm2f"
	secret := "test_secret_key"
	// HMAC-SHA256("order_Nxq01xyz|pay_29QQoUBi66xm2f", "test_secret_key"), hex.
	signature := "11545967c9e9972d9d7d97fe28daeed91bc7a0d0d6a560b7a29160b3724810b5"

	if !verifyRazorpaySignatureWithSecret(orderID, paymentID, signature, secret) {
		t.Fatal("known-good signature rejected")
	}
}

func TestVerifyRazorpaySignature_Rejections(t *testing.T) {
	good := "11545967c9e9972d9d7d97fe28daeed91bc7a0d0d6a560b7a29160b3724810b5"

	cases := []struct {
		name                          string
		orderID, paymentID, sig, seed string
	}{
		{"tampered payment id", "order_Nxq01xyz", "pay_attacker", good, "test_secret_key"},
		{"tampered order id", "order_other", "pay_29QQoUBi66xm2f", good, "test_secret_key"},
		{"wrong secret", "order_Nxq01xyz", "pay_29QQoUBi66xm2f", good, "other_secret"},
		{"empty signature", "order_Nxq01xyz", "pay_29QQoUBi66xm2f", "", "test_secret_key"},
		{"empty secret", "order_Nxq01xyz", "pay_29QQoUBi66xm2f", good, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if verifyRazorpaySignatureWithSecret(tc.orderID, tc.paymentID, tc.sig, tc.seed) {
				t.Fatal("invalid signature accepted")
			}
		})
	}
}
