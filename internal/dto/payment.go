package dto

import (
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/domain"
)

// CreateOrderRequest is the request body for registering a payment order.
// Amount is intentionally absent: order amounts are resolved server-side
// from the plan catalog or the tenant record, never trusted from clients.
type CreateOrderRequest struct {
	Purpose  domain.PaymentPurpose `json:"purpose" binding:"required"`
	Plan     string                `json:"plan,omitempty"`
	TenantID string                `json:"tenant_id,omitempty"`
}

// CreateOrderResponse carries everything the client checkout needs.
type CreateOrderResponse struct {
	OrderID  string `json:"order_id"`
	Receipt  string `json:"receipt"`
	Amount   int64  `json:"amount"` // minor currency units
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

// VerifyPaymentRequest is the gateway callback payload relayed by the client.
type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
	Mode      string `json:"mode,omitempty"`
}

// VerifyPaymentResponse reports the outcome of a verification.
// AlreadyRecorded is true when the payment ID had been recorded by an
// earlier call; the response then describes the existing record.
type VerifyPaymentResponse struct {
	RecordID        string                `json:"record_id"`
	OrderID         string                `json:"order_id"`
	Purpose         domain.PaymentPurpose `json:"purpose"`
	Amount          int64                 `json:"amount"`
	Status          domain.RecordStatus   `json:"status"`
	AlreadyRecorded bool                  `json:"already_recorded"`
}

// PlanResponse is one entry of the plan catalog.
type PlanResponse struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}
