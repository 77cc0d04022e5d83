package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentPurpose is what an order pays for.
type PaymentPurpose string

const (
	PurposeSubscription PaymentPurpose = "SUBSCRIPTION"
	PurposeRent         PaymentPurpose = "RENT"
)

// IsValid reports whether the purpose is recognized.
func (p PaymentPurpose) IsValid() bool {
	return p == PurposeSubscription || p == PurposeRent
}

// IntentStatus is the lifecycle of a gateway-facing order.
// An intent is terminal once verified or failed.
type IntentStatus string

const (
	IntentStatusCreated  IntentStatus = "created"
	IntentStatusVerified IntentStatus = "verified"
	IntentStatusFailed   IntentStatus = "failed"
)

// PaymentIntent is a pending order handed to the external payment
// gateway. Amount is server-computed and authoritative; a client
// proposed amount is echoed back for display at most.
type PaymentIntent struct {
	OrderID   string         `bson:"_id" json:"order_id"`
	Receipt   string         `bson:"receipt" json:"receipt"`
	OrgID     string         `bson:"org_id" json:"org_id"`
	ActorID   string         `bson:"actor_id" json:"actor_id"`
	TenantID  string         `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`
	Purpose   PaymentPurpose `bson:"purpose" json:"purpose"`
	Plan      string         `bson:"plan,omitempty" json:"plan,omitempty"`
	Amount    int64          `bson:"amount" json:"amount"` // minor currency units
	Currency  string         `bson:"currency" json:"currency"`
	Status    IntentStatus   `bson:"status" json:"status"`
	CreatedAt time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time      `bson:"updated_at" json:"updated_at"`
}

// RecordStatus is the settlement status of a verified payment.
type RecordStatus string

const (
	RecordStatusSuccess RecordStatus = "SUCCESS"
	RecordStatusFailed  RecordStatus = "FAILED"
	RecordStatusPending RecordStatus = "PENDING"
)

// PaymentRecord is a completed, verified payment. GatewayPaymentID is
// the idempotency key: at most one record exists per distinct id.
type PaymentRecord struct {
	ID               string         `bson:"_id" json:"id"`
	GatewayPaymentID string         `bson:"gateway_payment_id" json:"gateway_payment_id"`
	OrderID          string         `bson:"order_id" json:"order_id"`
	OrgID            string         `bson:"org_id" json:"org_id"`
	TenantID         string         `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`
	Purpose          PaymentPurpose `bson:"purpose" json:"purpose"`
	Amount           int64          `bson:"amount" json:"amount"`
	Currency         string         `bson:"currency" json:"currency"`
	Mode             string         `bson:"mode" json:"mode"`
	Status           RecordStatus   `bson:"status" json:"status"`
	TransactionDate  time.Time      `bson:"transaction_date" json:"transaction_date"`
}

// NewPaymentRecord builds a SUCCESS record from a verified intent.
func NewPaymentRecord(intent *PaymentIntent, gatewayPaymentID, mode string) *PaymentRecord {
	return &PaymentRecord{
		ID:               uuid.New().String(),
		GatewayPaymentID: gatewayPaymentID,
		OrderID:          intent.OrderID,
		OrgID:            intent.OrgID,
		TenantID:         intent.TenantID,
		Purpose:          intent.Purpose,
		Amount:           intent.Amount,
		Currency:         intent.Currency,
		Mode:             mode,
		Status:           RecordStatusSuccess,
		TransactionDate:  time.Now().UTC(),
	}
}
