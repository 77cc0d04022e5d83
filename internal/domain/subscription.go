package domain

import (
	"time"
)

// SubscriptionStatus is the activation status of an organization plan.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionInactive SubscriptionStatus = "inactive"
)

// SubscriptionPeriod is how long one verified subscription payment extends coverage.
const SubscriptionPeriod = 30 * 24 * time.Hour

// Subscription is the plan coverage of a tenant-owning organization.
// It is activated only as a side effect of a verified subscription payment.
type Subscription struct {
	ID          string             `bson:"_id" json:"id"`
	OrgID       string             `bson:"org_id" json:"org_id"`
	Plan        string             `bson:"plan" json:"plan"`
	Status      SubscriptionStatus `bson:"status" json:"status"`
	RenewalDate time.Time          `bson:"renewal_date" json:"renewal_date"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// Extend activates the subscription on the given plan and pushes the
// renewal date one period forward. Remaining coverage is preserved:
// the new period starts from the later of now and the current renewal.
func (s *Subscription) Extend(plan string, now time.Time) {
	base := now
	if s.Status == SubscriptionActive && s.RenewalDate.After(now) {
		base = s.RenewalDate
	}
	s.Plan = plan
	s.Status = SubscriptionActive
	s.RenewalDate = base.Add(SubscriptionPeriod)
	s.UpdatedAt = now
}

// IsActive reports whether coverage is current at the given time.
func (s *Subscription) IsActive(now time.Time) bool {
	return s.Status == SubscriptionActive && s.RenewalDate.After(now)
}
