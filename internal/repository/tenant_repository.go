package repository

import (
	"context"
	"time"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/domain"
)

// TenantRepository defines storage operations for resident records.
//
// The exit transition methods are conditional writes: each one applies
// only when the tenant is in the expected workflow state, and returns
// domain.ErrExitConflict when a concurrent writer got there first.
// That compare-and-set is what serializes transitions per tenant.
type TenantRepository interface {
	// Create inserts a new tenant
	Create(ctx context.Context, tenant *domain.Tenant) error
	// GetByID retrieves a tenant by ID
	GetByID(ctx context.Context, id string) (*domain.Tenant, error)

	// RequestExit moves an active tenant with no pending request to
	// EXIT_PENDING and stores the request sub-document
	RequestExit(ctx context.Context, tenantID string, req domain.ExitRequest) (*domain.Tenant, error)
	// ApproveExit moves an EXIT_PENDING tenant to ON_NOTICE and sets the exit date
	ApproveExit(ctx context.Context, tenantID string, exitDate time.Time, comment string) (*domain.Tenant, error)
	// RejectExit moves an EXIT_PENDING tenant back to ACTIVE and clears the sub-state
	RejectExit(ctx context.Context, tenantID string, comment string) (*domain.Tenant, error)
	// FinalizeExit moves an ON_NOTICE tenant whose exit date has been
	// reached to EXITED and detaches the room assignment
	FinalizeExit(ctx context.Context, tenantID string, now time.Time) (*domain.Tenant, error)

	// ClearRentDue clears the rent-due marker and stamps the paid date
	ClearRentDue(ctx context.Context, tenantID string, paidAt time.Time) error
	// ListNoticeExpired returns ON_NOTICE tenants whose exit date has passed
	ListNoticeExpired(ctx context.Context, now time.Time, limit int) ([]*domain.Tenant, error)
}
