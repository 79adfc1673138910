package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	client := NewRazorpayClient("key_id", "key_secret")

	good := sign("key_secret", "order_123", "pay_456")
	assert.True(t, client.VerifySignature("order_123", "pay_456", good))
}

func TestVerifySignatureRejectsTampering(t *testing.T) {
	client := NewRazorpayClient("key_id", "key_secret")
	good := sign("key_secret", "order_123", "pay_456")

	// Flip one character.
	bad := []byte(good)
	if bad[0] == 'a' {
		bad[0] = 'b'
	} else {
		bad[0] = 'a'
	}
	assert.False(t, client.VerifySignature("order_123", "pay_456", string(bad)))

	// Signature for a different payment id.
	assert.False(t, client.VerifySignature("order_123", "pay_789", good))

	// Signature computed with the wrong secret.
	assert.False(t, client.VerifySignature("order_123", "pay_456", sign("other_secret", "order_123", "pay_456")))

	assert.False(t, client.VerifySignature("order_123", "pay_456", ""))
}

func TestCreateOrder(t *testing.T) {
	var gotBody createOrderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key_id", user)
		assert.Equal(t, "key_secret", pass)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(RemoteOrder{
			ID:       "order_abc",
			Amount:   gotBody.Amount,
			Currency: gotBody.Currency,
		})
	}))
	defer srv.Close()

	client := NewRazorpayClient("key_id", "key_secret").WithBaseURL(srv.URL)
	order, err := client.CreateOrder(context.Background(), 405000, "INR", "receipt_order_1")
	require.NoError(t, err)

	assert.Equal(t, "order_abc", order.ID)
	assert.Equal(t, int64(405000), order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, int64(405000), gotBody.Amount)
	assert.Equal(t, "receipt_order_1", gotBody.Receipt)
}

func TestCreateOrderAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"description":"Authentication failed"}}`))
	}))
	defer srv.Close()

	client := NewRazorpayClient("bad", "creds").WithBaseURL(srv.URL)
	_, err := client.CreateOrder(context.Background(), 1000, "INR", "")
	assert.ErrorIs(t, err, ErrGateway)
}

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	client := NewRazorpayClient("key_id", "key_secret")
	_, err := client.CreateOrder(context.Background(), 0, "INR", "")
	assert.ErrorIs(t, err, ErrGateway)
}
