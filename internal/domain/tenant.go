package domain

import (
	"time"
)

// TenantStatus is the coarse lifecycle status of a resident.
// It is derived from the exit request sub-state, which is the
// single source of truth for the exit workflow.
type TenantStatus string

const (
	TenantStatusActive   TenantStatus = "active"
	TenantStatusOnNotice TenantStatus = "on_notice"
	TenantStatusExited   TenantStatus = "exited"
)

// ExitStatus is the exit request sub-state embedded on the tenant.
type ExitStatus string

const (
	ExitStatusNone     ExitStatus = "NONE"
	ExitStatusPending  ExitStatus = "PENDING"
	ExitStatusApproved ExitStatus = "APPROVED"
	ExitStatusRejected ExitStatus = "REJECTED"
)

// ExitDecision is an admin resolution of a pending exit request.
type ExitDecision string

const (
	ExitDecisionApproved ExitDecision = "APPROVED"
	ExitDecisionRejected ExitDecision = "REJECTED"
)

// IsValid reports whether the decision is a recognized value.
func (d ExitDecision) IsValid() bool {
	return d == ExitDecisionApproved || d == ExitDecisionRejected
}

// ExitRequest is the exit workflow sub-document embedded on a tenant.
// REJECTED is not a resting state: rejection clears the sub-state
// back to NONE, so a persisted status is NONE, PENDING or APPROVED.
type ExitRequest struct {
	Status        ExitStatus `bson:"status" json:"status"`
	Reason        string     `bson:"reason,omitempty" json:"reason,omitempty"`
	RequestedDate *time.Time `bson:"requested_date,omitempty" json:"requested_date,omitempty"`
	AdminComment  string     `bson:"admin_comment,omitempty" json:"admin_comment,omitempty"`
}

// Tenant represents a resident of a managed property (PG).
type Tenant struct {
	ID         string       `bson:"_id" json:"id"`
	OrgID      string       `bson:"org_id" json:"org_id"`
	UserID     string       `bson:"user_id" json:"user_id"`
	Name       string       `bson:"name" json:"name"`
	RoomID     string       `bson:"room_id,omitempty" json:"room_id,omitempty"`
	RentAmount int64        `bson:"rent_amount" json:"rent_amount"` // minor currency units
	RentDue    bool         `bson:"rent_due" json:"rent_due"`
	LastPaidAt *time.Time   `bson:"last_paid_at,omitempty" json:"last_paid_at,omitempty"`
	Status     TenantStatus `bson:"status" json:"status"`
	ExitReq    ExitRequest  `bson:"exit_request" json:"exit_request"`
	ExitDate   *time.Time   `bson:"exit_date,omitempty" json:"exit_date,omitempty"`
	CreatedAt  time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time    `bson:"updated_at" json:"updated_at"`
}

// ExitState is the workflow state the exit state machine operates on.
type ExitState string

const (
	ExitStateActive  ExitState = "ACTIVE"
	ExitStatePending ExitState = "EXIT_PENDING"
	ExitStateNotice  ExitState = "ON_NOTICE"
	ExitStateExited  ExitState = "EXITED"
)

// ExitState derives the workflow state from the persisted fields.
func (t *Tenant) ExitState() ExitState {
	if t.Status == TenantStatusExited {
		return ExitStateExited
	}
	switch t.ExitReq.Status {
	case ExitStatusPending:
		return ExitStatePending
	case ExitStatusApproved:
		return ExitStateNotice
	default:
		return ExitStateActive
	}
}

// CanRequestExit reports whether a new exit request may be created.
func (t *Tenant) CanRequestExit() bool {
	return t.Status == TenantStatusActive && t.ExitReq.Status != ExitStatusPending
}

// NoticeExpired reports whether an approved exit has reached its date.
func (t *Tenant) NoticeExpired(now time.Time) bool {
	return t.Status == TenantStatusOnNotice && t.ExitDate != nil && !t.ExitDate.After(now)
}
