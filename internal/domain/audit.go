package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction is a privileged action code recorded in the audit trail.
type AuditAction string

const (
	AuditActionOrderCreated    AuditAction = "payment.order_created"
	AuditActionPaymentVerified AuditAction = "payment.verified"
	AuditActionPaymentFailed   AuditAction = "payment.failed"
	AuditActionExitRequested   AuditAction = "exit.requested"
	AuditActionExitApproved    AuditAction = "exit.approved"
	AuditActionExitRejected    AuditAction = "exit.rejected"
	AuditActionExitFinalized   AuditAction = "exit.finalized"
	AuditActionFlagsReloaded   AuditAction = "features.reloaded"
)

// AuditLogEntry is an immutable record of a privileged mutation.
// Entries are appended after the primary effect commits and are never
// updated or deleted through application paths.
type AuditLogEntry struct {
	ID           string         `bson:"_id" json:"id"`
	Timestamp    time.Time      `bson:"timestamp" json:"timestamp"`
	ActorID      string         `bson:"actor_id" json:"actor_id"`
	ActorRole    string         `bson:"actor_role" json:"actor_role"`
	Action       AuditAction    `bson:"action" json:"action"`
	ResourceType string         `bson:"resource_type" json:"resource_type"`
	ResourceID   string         `bson:"resource_id" json:"resource_id"`
	Details      map[string]any `bson:"details,omitempty" json:"details,omitempty"`
}

// NewAuditLogEntry builds an entry stamped with the current time.
func NewAuditLogEntry(actorID, actorRole string, action AuditAction, resourceType, resourceID string, details map[string]any) *AuditLogEntry {
	return &AuditLogEntry{
		ID:           uuid.New().String(),
		Timestamp:    time.Now().UTC(),
		ActorID:      actorID,
		ActorRole:    actorRole,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
	}
}
