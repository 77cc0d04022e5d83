package dto

import (
	"time"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/domain"
)

// RequestExitRequest is the body a resident submits to start an exit.
type RequestExitRequest struct {
	Reason        string     `json:"reason" binding:"required"`
	RequestedDate *time.Time `json:"requested_date,omitempty"`
}

// ResolveExitRequest is the owner/admin decision on a pending exit.
type ResolveExitRequest struct {
	Decision domain.ExitDecision `json:"decision" binding:"required"`
	ExitDate *time.Time          `json:"exit_date,omitempty"`
	Comment  string              `json:"comment,omitempty"`
}

// ExitResponse reports the tenant's workflow state after a transition.
type ExitResponse struct {
	TenantID  string              `json:"tenant_id"`
	State     domain.ExitState    `json:"state"`
	Status    domain.TenantStatus `json:"status"`
	ExitDate  *time.Time          `json:"exit_date,omitempty"`
	Reason    string              `json:"reason,omitempty"`
	Comment   string              `json:"comment,omitempty"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// NewExitResponse maps a tenant onto the workflow view.
func NewExitResponse(t *domain.Tenant) *ExitResponse {
	return &ExitResponse{
		TenantID:  t.ID,
		State:     t.ExitState(),
		Status:    t.Status,
		ExitDate:  t.ExitDate,
		Reason:    t.ExitReq.Reason,
		Comment:   t.ExitReq.AdminComment,
		UpdatedAt: t.UpdatedAt,
	}
}
