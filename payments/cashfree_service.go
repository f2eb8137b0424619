package payments

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	config "github.com/studyspacehq/studyspace/configs"
)

const cashfreeBaseURL = "https://api.cashfree.com/pg"

type CashfreeOrderRequest struct {
	OrderID         string               `json:"order_id"`
	OrderAmount     float64              `json:"order_amount"`
	OrderCurrency   string               `json:"order_currency"`
	CustomerDetails CashfreeCustomerInfo `json:"customer_details"`
}

type CashfreeCustomerInfo struct {
	CustomerID    string `json:"customer_id"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
}

type CashfreeOrder struct {
	OrderID          string  `json:"order_id"`
	OrderAmount      float64 `json:"order_amount"`
	OrderStatus      string  `json:"order_status"`
	PaymentSessionID string  `json:"payment_session_id"`
}

// CreateCashfreeOrder opens a hosted checkout session for the payable amount.
func CreateCashfreeOrder(orderID string, amount float64, currency string, customer CashfreeCustomerInfo) (*CashfreeOrder, error) {
	clientID := config.Config("CASHFREE_CLIENT_ID")
	clientSecret := config.Config("CASHFREE_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("cashfree credentials are not configured")
	}

	payload := CashfreeOrderRequest{
		OrderID:         orderID,
		OrderAmount:     amount,
		OrderCurrency:   currency,
		CustomerDetails: customer,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cashfree order payload: %v", err)
	}

	req, err := http.NewRequest("POST", cashfreeBaseURL+"/orders", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create cashfree order request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-version", "2023-08-01")
	req.Header.Set("x-client-id", clientID)
	req.Header.Set("x-client-secret", clientSecret)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach cashfree: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read cashfree response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("Cashfree API error: %s", string(respBody))
		return nil, fmt.Errorf("cashfree returned non-200 status: %d", resp.StatusCode)
	}

	var order CashfreeOrder
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cashfree order: %v", err)
	}
	return &order, nil
}

// VerifyCashfreeSignature checks the payment postback: an HMAC-SHA256 over
// orderID + referenceID + amount under the client secret, base64-encoded.
func VerifyCashfreeSignature(orderID, referenceID string, amount float64, signature string) bool {
	secret := config.Config("CASHFREE_CLIENT_SECRET")
	return verifyCashfreeSignatureWithSecret(orderID, referenceID, amount, signature, secret)
}

func verifyCashfreeSignatureWithSecret(orderID, referenceID string, amount float64, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}
	data := orderID + referenceID + strconv.FormatFloat(amount, 'f', 2, 64)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(data))
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
