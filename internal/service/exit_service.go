package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/domain"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/dto"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/repository"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/txn"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/logger"
)

// DefaultNoticePeriod is how far out the exit date lands when an
// approval does not pin one explicitly.
const DefaultNoticePeriod = 30 * 24 * time.Hour

// ExitService drives the tenant exit state machine. Every transition
// is a conditional write: when two callers race, one wins and the
// other receives domain.ErrExitConflict.
type ExitService interface {
	// RequestExit moves an active tenant to EXIT_PENDING
	RequestExit(ctx context.Context, actor domain.Actor, tenantID string, req *dto.RequestExitRequest) (*dto.ExitResponse, error)
	// ResolveExit approves or rejects a pending exit request
	ResolveExit(ctx context.Context, actor domain.Actor, tenantID string, req *dto.ResolveExitRequest) (*dto.ExitResponse, error)
	// FinalizeExit moves an ON_NOTICE tenant whose exit date has
	// arrived to EXITED and releases their bed
	FinalizeExit(ctx context.Context, tenantID string, now time.Time) (*domain.Tenant, error)
	// GetExitState returns the current workflow view of a tenant
	GetExitState(ctx context.Context, actor domain.Actor, tenantID string) (*dto.ExitResponse, error)
}

// exitService implements ExitService
type exitService struct {
	tenantRepo  repository.TenantRepository
	roomRepo    repository.RoomRepository
	coordinator txn.Coordinator
	audit       *AuditRecorder
	log         *logger.Logger
}

// NewExitService creates a new ExitService
func NewExitService(
	tenantRepo repository.TenantRepository,
	roomRepo repository.RoomRepository,
	coordinator txn.Coordinator,
	audit *AuditRecorder,
	log *logger.Logger,
) ExitService {
	return &exitService{
		tenantRepo:  tenantRepo,
		roomRepo:    roomRepo,
		coordinator: coordinator,
		audit:       audit,
		log:         log,
	}
}

// RequestExit moves an active tenant to EXIT_PENDING.
func (s *exitService) RequestExit(ctx context.Context, actor domain.Actor, tenantID string, req *dto.RequestExitRequest) (*dto.ExitResponse, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !actor.CanActOn(tenant) {
		return nil, domain.ErrUnauthorizedActor
	}

	exitReq := domain.ExitRequest{
		Status:        domain.ExitStatusPending,
		Reason:        req.Reason,
		RequestedDate: req.RequestedDate,
	}
	result, err := s.coordinator.ExecuteAtomic(ctx, func(ctx context.Context) (any, error) {
		return s.tenantRepo.RequestExit(ctx, tenantID, exitReq)
	})
	if err != nil {
		return nil, err
	}
	updated := result.(*domain.Tenant)

	s.audit.Record(domain.NewAuditLogEntry(actor.UserID, actor.Role, domain.AuditActionExitRequested,
		"tenant", tenantID, map[string]any{"reason": req.Reason}))

	s.log.InfoContext(ctx, "exit requested",
		zap.String("tenant_id", tenantID),
		zap.String("state", string(updated.ExitState())))

	return dto.NewExitResponse(updated), nil
}

// ResolveExit approves or rejects a pending exit request. Approval
// pins the exit date: the request's explicit date, else the resident's
// requested date, else one notice period out. Rejection returns the
// tenant to ACTIVE with no resting rejected sub-state.
func (s *exitService) ResolveExit(ctx context.Context, actor domain.Actor, tenantID string, req *dto.ResolveExitRequest) (*dto.ExitResponse, error) {
	if !req.Decision.IsValid() {
		return nil, domain.NewValidationError("decision", "must be APPROVED or REJECTED")
	}

	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if actor.OrgID != tenant.OrgID || !actor.IsStaff() {
		return nil, domain.ErrUnauthorizedActor
	}

	var action domain.AuditAction
	result, err := s.coordinator.ExecuteAtomic(ctx, func(ctx context.Context) (any, error) {
		switch req.Decision {
		case domain.ExitDecisionApproved:
			exitDate := s.resolveExitDate(tenant, req.ExitDate)
			action = domain.AuditActionExitApproved
			return s.tenantRepo.ApproveExit(ctx, tenantID, exitDate, req.Comment)
		default:
			action = domain.AuditActionExitRejected
			return s.tenantRepo.RejectExit(ctx, tenantID, req.Comment)
		}
	})
	if err != nil {
		return nil, err
	}
	updated := result.(*domain.Tenant)

	details := map[string]any{"decision": string(req.Decision), "comment": req.Comment}
	if updated.ExitDate != nil {
		details["exit_date"] = updated.ExitDate.Format(time.RFC3339)
	}
	s.audit.Record(domain.NewAuditLogEntry(actor.UserID, actor.Role, action, "tenant", tenantID, details))

	s.log.InfoContext(ctx, "exit request resolved",
		zap.String("tenant_id", tenantID),
		zap.String("decision", string(req.Decision)),
		zap.String("state", string(updated.ExitState())))

	return dto.NewExitResponse(updated), nil
}

func (s *exitService) resolveExitDate(tenant *domain.Tenant, explicit *time.Time) time.Time {
	if explicit != nil {
		return explicit.UTC()
	}
	if tenant.ExitReq.RequestedDate != nil {
		return tenant.ExitReq.RequestedDate.UTC()
	}
	return time.Now().UTC().Add(DefaultNoticePeriod)
}

// FinalizeExit completes an exit whose notice has expired. The status
// flip and the bed release commit together.
func (s *exitService) FinalizeExit(ctx context.Context, tenantID string, now time.Time) (*domain.Tenant, error) {
	var roomID string
	result, err := s.coordinator.ExecuteAtomic(ctx, func(ctx context.Context) (any, error) {
		// The conditional update clears room_id, so the room to
		// release has to be read before the flip.
		before, err := s.tenantRepo.GetByID(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		roomID = before.RoomID

		tenant, err := s.tenantRepo.FinalizeExit(ctx, tenantID, now)
		if err != nil {
			return nil, err
		}
		if roomID != "" {
			if err := s.roomRepo.ReleaseBed(ctx, roomID); err != nil {
				return nil, err
			}
		}
		return tenant, nil
	})
	if err != nil {
		return nil, err
	}
	tenant := result.(*domain.Tenant)

	s.audit.Record(domain.NewAuditLogEntry("system", "system", domain.AuditActionExitFinalized,
		"tenant", tenantID, map[string]any{"room_id": roomID}))

	s.log.InfoContext(ctx, "exit finalized",
		zap.String("tenant_id", tenantID),
		zap.String("room_id", roomID))

	return tenant, nil
}

// GetExitState returns the workflow view of a tenant.
func (s *exitService) GetExitState(ctx context.Context, actor domain.Actor, tenantID string) (*dto.ExitResponse, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !actor.CanActOn(tenant) {
		return nil, domain.ErrUnauthorizedActor
	}
	return dto.NewExitResponse(tenant), nil
}
