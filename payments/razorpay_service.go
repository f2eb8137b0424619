package payments

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"time"

	config "github.com/studyspacehq/studyspace/configs"
)

const razorpayBaseURL = "https://api.razorpay.com/v1"

type RazorpayOrderRequest struct {
	Amount   int64  `json:"amount"` // paise
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type RazorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreateRazorpayOrder opens a gateway order for the payable amount. Razorpay
// bills in paise, so the amount is converted from rupees.
func CreateRazorpayOrder(amount float64, currency, receipt string) (*RazorpayOrder, error) {
	keyID := config.Config("RAZORPAY_KEY_ID")
	keySecret := config.Config("RAZORPAY_KEY_SECRET")
	if keyID == "" || keySecret == "" {
		return nil, fmt.Errorf("razorpay credentials are not configured")
	}

	payload := RazorpayOrderRequest{
		Amount:   int64(math.Round(amount * 100)),
		Currency: currency,
		Receipt:  receipt,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal razorpay order payload: %v", err)
	}

	req, err := http.NewRequest("POST", razorpayBaseURL+"/orders", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay order request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(keyID, keySecret)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach razorpay: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read razorpay response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("Razorpay API error: %s", string(respBody))
		return nil, fmt.Errorf("razorpay returned non-200 status: %d", resp.StatusCode)
	}

	var order RazorpayOrder
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal razorpay order: %v", err)
	}
	return &order, nil
}

// VerifyRazorpaySignature checks the checkout callback signature: an
// HMAC-SHA256 of "orderID|paymentID" under the key secret, hex-encoded.
func VerifyRazorpaySignature(orderID, paymentID, signature string) bool {
	secret := config.Config("RAZORPAY_KEY_SECRET")
	return verifyRazorpaySignatureWithSecret(orderID, paymentID, signature, secret)
}

func verifyRazorpaySignatureWithSecret(orderID, paymentID, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
