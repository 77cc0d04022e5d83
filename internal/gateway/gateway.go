package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Gateway defines the interface to the external payment gateway.
type Gateway interface {
	// CreateOrder registers an order with the gateway and returns its order ID
	CreateOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error)

	// VerifySignature checks the callback signature for an order/payment pair
	// using a constant-time comparison
	VerifySignature(orderID, paymentID, signature string) bool

	// KeyID returns the public key identifier handed to clients for checkout
	KeyID() string

	// Name returns the gateway name
	Name() string
}

// OrderRequest represents an order registration request
type OrderRequest struct {
	Amount   int64 // minor currency units
	Currency string
	Receipt  string
	Notes    map[string]string
}

// OrderResponse represents the gateway's created order
type OrderResponse struct {
	OrderID  string
	Amount   int64
	Currency string
	Receipt  string
	Status   string
}

// Sign computes the callback signature the gateway produces for an
// order/payment pair: hex HMAC-SHA256 over "orderID|paymentID".
func Sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// signatureEqual compares two signatures in constant time.
func signatureEqual(expected, supplied string) bool {
	return hmac.Equal([]byte(expected), []byte(supplied))
}
