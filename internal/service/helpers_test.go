package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/domain"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/gateway"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/repository"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/txn"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/logger"
)

const testGatewaySecret = "test_webhook_secret"

// fixtures wires the service layer onto in-memory repositories and the
// mock gateway, the same shape the DI container builds in production.
type fixtures struct {
	tenants  *repository.MemoryTenantRepository
	payments *repository.MemoryPaymentRepository
	subs     *repository.MemorySubscriptionRepository
	rooms    *repository.MemoryRoomRepository
	auditDB  *repository.MemoryAuditRepository
	audit    *AuditRecorder
	gw       *gateway.MockGateway
	log      *logger.Logger

	paySvc  PaymentService
	exitSvc ExitService
}

func newFixtures(t *testing.T) *fixtures {
	t.Helper()

	log, err := logger.New(&logger.Config{Level: "error", ServiceName: "service-test", Development: true})
	require.NoError(t, err)

	f := &fixtures{
		tenants:  repository.NewMemoryTenantRepository(),
		payments: repository.NewMemoryPaymentRepository(),
		subs:     repository.NewMemorySubscriptionRepository(),
		rooms:    repository.NewMemoryRoomRepository(),
		auditDB:  repository.NewMemoryAuditRepository(),
		gw:       gateway.NewMockGateway(testGatewaySecret),
		log:      log,
	}
	f.audit = NewAuditRecorder(f.auditDB, log, AuditRecorderConfig{
		BufferSize:    64,
		FlushInterval: 10 * time.Millisecond,
		BatchSize:     16,
	})
	t.Cleanup(func() { _ = f.audit.Close() })

	coord := txn.NewPassthrough()
	f.paySvc = NewPaymentService(f.payments, f.subs, f.tenants, f.gw, coord, f.audit, log)
	f.exitSvc = NewExitService(f.tenants, f.rooms, coord, f.audit, log)
	return f
}

func (f *fixtures) seedTenant(t *testing.T, tenant *domain.Tenant) *domain.Tenant {
	t.Helper()
	now := time.Now().UTC()
	if tenant.Status == "" {
		tenant.Status = domain.TenantStatusActive
	}
	tenant.CreatedAt = now
	tenant.UpdatedAt = now
	require.NoError(t, f.tenants.Create(context.Background(), tenant))
	return tenant
}

func ownerActor(orgID string) domain.Actor {
	return domain.Actor{UserID: "user-owner", Role: domain.RoleOwner, OrgID: orgID}
}

func staffActor(orgID string) domain.Actor {
	return domain.Actor{UserID: "user-admin", Role: domain.RoleAdmin, OrgID: orgID}
}

func residentActor(userID, orgID string) domain.Actor {
	return domain.Actor{UserID: userID, Role: domain.RoleTenant, OrgID: orgID}
}
