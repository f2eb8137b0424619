package payments

import "testing"

func TestVerifyCashfreeSignature_KnownVector(t *testing.T) {
	orderID := "ORDER123"
	referenceID := "cfref456"
	amount := 1499.50
	secret := "test_secret_key"
	// HMAC-SHA256("ORDER123cfref4561499.50", "test_secret_key"), base64.
	signature := "rqi8LRl0MATFe5P7WsV0296xYz0SvKaKTZh+3OFf2TY="

	if !verifyCashfreeSignatureWithSecret(orderID, referenceID, amount, signature, secret) {
		t.Fatal("known-good signature rejected")
	}
}

func TestVerifyCashfreeSignature_AmountIsPartOfTheSignature(t *testing.T) {
	// A signature minted for 1499.50 must not verify a different amount.
	signature := "rqi8LRl0MATFe5P7WsV0296xYz0SvKaKTZh+3OFf2TY="
	if verifyCashfreeSignatureWithSecret("ORDER123", "cfref456", 14995.0, signature, "test_secret_key") {
		t.Fatal("signature accepted for tampered amount")
	}
}

func TestVerifyCashfreeSignature_Rejections(t *testing.T) {
	signature := "rqi8LRl0MATFe5P7WsV0296xYz0SvKaKTZh+3OFf2TY="

	if verifyCashfreeSignatureWithSecret("ORDER999", "cfref456", 1499.50, signature, "test_secret_key") {
		t.Fatal("signature accepted for wrong order")
	}
	if verifyCashfreeSignatureWithSecret("ORDER123", "cfref456", 1499.50, "", "test_secret_key") {
		t.Fatal("empty signature accepted")
	}
	if verifyCashfreeSignatureWithSecret("ORDER123", "cfref456", 1499.50, signature, "") {
		t.Fatal("empty secret accepted")
	}
}
