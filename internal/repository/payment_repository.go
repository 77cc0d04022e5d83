package repository

import (
	"context"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/domain"
)

// PaymentRepository defines storage operations for payment intents and
// verified payment records.
type PaymentRepository interface {
	// CreateIntent inserts a new payment intent
	CreateIntent(ctx context.Context, intent *domain.PaymentIntent) error
	// GetIntent retrieves an intent by its gateway order ID
	GetIntent(ctx context.Context, orderID string) (*domain.PaymentIntent, error)
	// MarkIntentStatus updates the intent status
	MarkIntentStatus(ctx context.Context, orderID string, status domain.IntentStatus) error

	// InsertRecord inserts a verified payment record. The gateway
	// payment ID is a uniqueness constraint: a second insert for the
	// same ID returns domain.ErrDuplicatePayment.
	InsertRecord(ctx context.Context, record *domain.PaymentRecord) error
	// GetRecordByGatewayPaymentID retrieves a record by the external payment ID
	GetRecordByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*domain.PaymentRecord, error)
}

// SubscriptionRepository defines storage operations for organization subscriptions.
type SubscriptionRepository interface {
	// GetByOrgID retrieves the subscription of an organization
	GetByOrgID(ctx context.Context, orgID string) (*domain.Subscription, error)
	// Upsert creates or replaces the subscription of an organization
	Upsert(ctx context.Context, sub *domain.Subscription) error
}

// RoomRepository defines the occupancy bookkeeping this core needs.
type RoomRepository interface {
	// GetByID retrieves a room by ID
	GetByID(ctx context.Context, id string) (*domain.Room, error)
	// ReleaseBed decrements the occupancy of a room
	ReleaseBed(ctx context.Context, roomID string) error
}

// AuditRepository defines append-only storage for audit entries.
// There is deliberately no update or delete.
type AuditRepository interface {
	// InsertMany appends a batch of audit entries
	InsertMany(ctx context.Context, entries []*domain.AuditLogEntry) error
	// ListRecent returns the most recent entries, newest first
	ListRecent(ctx context.Context, limit int) ([]*domain.AuditLogEntry, error)
}
