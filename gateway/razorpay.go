package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrGateway wraps any failure talking to the payment provider. Remote order
// creation is fatal to a checkout attempt; there are no retries.
var ErrGateway = errors.New("payment gateway error")

// RemoteOrder is the gateway-side order created before collecting payment.
type RemoteOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor currency units (paise)
	Currency string `json:"currency"`
}

// Client is what the checkout pipeline needs from the payment provider.
type Client interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (RemoteOrder, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

const defaultBaseURL = "https://api.razorpay.com/v1"

// RazorpayClient talks to the Razorpay Orders API over REST with basic auth.
type RazorpayClient struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
}

func NewRazorpayClient(keyID, keySecret string) *RazorpayClient {
	return &RazorpayClient{
		keyID:      keyID,
		keySecret:  keySecret,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// WithBaseURL overrides the API endpoint. Used by tests.
func (r *RazorpayClient) WithBaseURL(u string) *RazorpayClient {
	r.baseURL = u
	return r
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
}

// CreateOrder creates a remote order for the given amount in minor units.
func (r *RazorpayClient) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (RemoteOrder, error) {
	if amountMinor <= 0 {
		return RemoteOrder{}, fmt.Errorf("%w: amount must be positive", ErrGateway)
	}

	payload, err := json.Marshal(createOrderRequest{
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return RemoteOrder{}, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/orders", bytes.NewBuffer(payload))
	if err != nil {
		return RemoteOrder{}, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	req.SetBasicAuth(r.keyID, r.keySecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return RemoteOrder{}, fmt.Errorf("%w: failed to reach razorpay: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return RemoteOrder{}, fmt.Errorf("%w: razorpay API error (%d): %s", ErrGateway, resp.StatusCode, string(body))
	}

	var order RemoteOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return RemoteOrder{}, fmt.Errorf("%w: failed to parse response: %v", ErrGateway, err)
	}
	if order.ID == "" {
		return RemoteOrder{}, fmt.Errorf("%w: razorpay returned empty order id", ErrGateway)
	}
	return order, nil
}

// VerifySignature checks the HMAC-SHA256 hex digest Razorpay computes over
// "<orderID>|<paymentID>" with the key secret. Constant-time compare so the
// check leaks nothing about the expected digest.
func (r *RazorpayClient) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(r.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
