package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/domain"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/dto"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/txn"
)

func TestRequestExitMovesToPending(t *testing.T) {
	f := newFixtures(t)
	tenant := f.seedTenant(t, &domain.Tenant{ID: "ten-1", OrgID: "org-1", UserID: "user-9"})

	resp, err := f.exitSvc.RequestExit(context.Background(), residentActor("user-9", "org-1"), tenant.ID,
		&dto.RequestExitRequest{Reason: "relocating for work"})
	require.NoError(t, err)

	assert.Equal(t, domain.ExitStatePending, resp.State)
	assert.Equal(t, domain.TenantStatusActive, resp.Status)
	assert.Equal(t, "relocating for work", resp.Reason)
}

func TestRequestExitTwiceConflicts(t *testing.T) {
	f := newFixtures(t)
	tenant := f.seedTenant(t, &domain.Tenant{ID: "ten-1", OrgID: "org-1", UserID: "user-9"})
	actor := residentActor("user-9", "org-1")

	_, err := f.exitSvc.RequestExit(context.Background(), actor, tenant.ID, &dto.RequestExitRequest{Reason: "first"})
	require.NoError(t, err)

	_, err = f.exitSvc.RequestExit(context.Background(), actor, tenant.ID, &dto.RequestExitRequest{Reason: "second"})
	assert.ErrorIs(t, err, domain.ErrExitConflict)
}

func TestRequestExitCrossOrgDenied(t *testing.T) {
	f := newFixtures(t)
	tenant := f.seedTenant(t, &domain.Tenant{ID: "ten-1", OrgID: "org-1", UserID: "user-9"})

	_, err := f.exitSvc.RequestExit(context.Background(), residentActor("user-9", "org-2"), tenant.ID,
		&dto.RequestExitRequest{Reason: "nope"})
	assert.ErrorIs(t, err, domain.ErrUnauthorizedActor)
}

func TestResolveExitApprove(t *testing.T) {
	f := newFixtures(t)
	tenant := f.seedTenant(t, &domain.Tenant{ID: "ten-1", OrgID: "org-1", UserID: "user-9"})
	_, err := f.exitSvc.RequestExit(context.Background(), residentActor("user-9", "org-1"), tenant.ID,
		&dto.RequestExitRequest{Reason: "moving out"})
	require.NoError(t, err)

	exitDate := time.Now().UTC().Add(15 * 24 * time.Hour)
	resp, err := f.exitSvc.ResolveExit(context.Background(), staffActor("org-1"), tenant.ID, &dto.ResolveExitRequest{
		Decision: domain.ExitDecisionApproved,
		ExitDate: &exitDate,
		Comment:  "ok, settle dues before leaving",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ExitStateNotice, resp.State)
	assert.Equal(t, domain.TenantStatusOnNotice, resp.Status)
	require.NotNil(t, resp.ExitDate)
	assert.WithinDuration(t, exitDate, *resp.ExitDate, time.Second)
}

func TestResolveExitApproveDefaultsToRequestedDate(t *testing.T) {
	f := newFixtures(t)
	tenant := f.seedTenant(t, &domain.Tenant{ID: "ten-1", OrgID: "org-1", UserID: "user-9"})
	requested := time.Now().UTC().Add(20 * 24 * time.Hour)
	_, err := f.exitSvc.RequestExit(context.Background(), residentActor("user-9", "org-1"), tenant.ID,
		&dto.RequestExitRequest{Reason: "moving out", RequestedDate: &requested})
	require.NoError(t, err)

	resp, err := f.exitSvc.ResolveExit(context.Background(), staffActor("org-1"), tenant.ID, &dto.ResolveExitRequest{
		Decision: domain.ExitDecisionApproved,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.ExitDate)
	assert.WithinDuration(t, requested, *resp.ExitDate, time.Second)
}

func TestResolveExitRejectReturnsToActive(t *testing.T) {
	f := newFixtures(t)
	tenant := f.seedTenant(t, &domain.Tenant{ID: "ten-1", OrgID: "org-1", UserID: "user-9"})
	_, err := f.exitSvc.RequestExit(context.Background(), residentActor("user-9", "org-1"), tenant.ID,
		&dto.RequestExitRequest{Reason: "changed my mind later"})
	require.NoError(t, err)

	resp, err := f.exitSvc.ResolveExit(context.Background(), staffActor("org-1"), tenant.ID, &dto.ResolveExitRequest{
		Decision: domain.ExitDecisionRejected,
		Comment:  "lease term not met",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ExitStateActive, resp.State)
	assert.Nil(t, resp.ExitDate)

	// Rejection is not a resting state: a new request is allowed.
	_, err = f.exitSvc.RequestExit(context.Background(), residentActor("user-9", "org-1"), tenant.ID,
		&dto.RequestExitRequest{Reason: "trying again"})
	assert.NoError(t, err)
}

func TestResolveExitRequiresStaff(t *testing.T) {
	f := newFixtures(t)
	tenant := f.seedTenant(t, &domain.Tenant{ID: "ten-1", OrgID: "org-1", UserID: "user-9"})
	_, err := f.exitSvc.RequestExit(context.Background(), residentActor("user-9", "org-1"), tenant.ID,
		&dto.RequestExitRequest{Reason: "moving"})
	require.NoError(t, err)

	_, err = f.exitSvc.ResolveExit(context.Background(), residentActor("user-9", "org-1"), tenant.ID,
		&dto.ResolveExitRequest{Decision: domain.ExitDecisionApproved})
	assert.ErrorIs(t, err, domain.ErrUnauthorizedActor)
}

func TestResolveExitInvalidDecision(t *testing.T) {
	f := newFixtures(t)
	tenant := f.seedTenant(t, &domain.Tenant{ID: "ten-1", OrgID: "org-1", UserID: "user-9"})

	_, err := f.exitSvc.ResolveExit(context.Background(), staffActor("org-1"), tenant.ID,
		&dto.ResolveExitRequest{Decision: "MAYBE"})
	assert.True(t, domain.IsValidationError(err))
}

func TestResolveExitConcurrentSingleWinner(t *testing.T) {
	f := newFixtures(t)
	tenant := f.seedTenant(t, &domain.Tenant{ID: "ten-1", OrgID: "org-1", UserID: "user-9"})
	_, err := f.exitSvc.RequestExit(context.Background(), residentActor("user-9", "org-1"), tenant.ID,
		&dto.RequestExitRequest{Reason: "race"})
	require.NoError(t, err)

	decisions := []*dto.ResolveExitRequest{
		{Decision: domain.ExitDecisionApproved},
		{Decision: domain.ExitDecisionRejected},
	}

	var wg sync.WaitGroup
	errs := make([]error, len(decisions))
	for i, req := range decisions {
		wg.Add(1)
		go func(i int, req *dto.ResolveExitRequest) {
			defer wg.Done()
			_, errs[i] = f.exitSvc.ResolveExit(context.Background(), staffActor("org-1"), tenant.ID, req)
		}(i, req)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case assert.ErrorIs(t, err, domain.ErrExitConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)
}

func TestFinalizeExitReleasesBed(t *testing.T) {
	f := newFixtures(t)
	f.rooms.Seed(&domain.Room{ID: "room-7", OrgID: "org-1", Capacity: 3, Occupied: 2})
	tenant := f.seedTenant(t, &domain.Tenant{ID: "ten-1", OrgID: "org-1", UserID: "user-9", RoomID: "room-7"})

	_, err := f.exitSvc.RequestExit(context.Background(), residentActor("user-9", "org-1"), tenant.ID,
		&dto.RequestExitRequest{Reason: "done"})
	require.NoError(t, err)

	exitDate := time.Now().UTC().Add(-time.Hour)
	_, err = f.exitSvc.ResolveExit(context.Background(), staffActor("org-1"), tenant.ID, &dto.ResolveExitRequest{
		Decision: domain.ExitDecisionApproved,
		ExitDate: &exitDate,
	})
	require.NoError(t, err)

	finalized, err := f.exitSvc.FinalizeExit(context.Background(), tenant.ID, time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, domain.TenantStatusExited, finalized.Status)
	assert.Empty(t, finalized.RoomID)

	room, err := f.rooms.GetByID(context.Background(), "room-7")
	require.NoError(t, err)
	assert.Equal(t, 1, room.Occupied)
}

func TestFinalizeExitBeforeNoticeExpiry(t *testing.T) {
	f := newFixtures(t)
	tenant := f.seedTenant(t, &domain.Tenant{ID: "ten-1", OrgID: "org-1", UserID: "user-9"})

	_, err := f.exitSvc.RequestExit(context.Background(), residentActor("user-9", "org-1"), tenant.ID,
		&dto.RequestExitRequest{Reason: "soon"})
	require.NoError(t, err)

	exitDate := time.Now().UTC().Add(10 * 24 * time.Hour)
	_, err = f.exitSvc.ResolveExit(context.Background(), staffActor("org-1"), tenant.ID, &dto.ResolveExitRequest{
		Decision: domain.ExitDecisionApproved,
		ExitDate: &exitDate,
	})
	require.NoError(t, err)

	_, err = f.exitSvc.FinalizeExit(context.Background(), tenant.ID, time.Now().UTC())
	assert.ErrorIs(t, err, domain.ErrExitConflict)
}

// countingCoordinator records how many atomic units ran.
type countingCoordinator struct {
	txn.Coordinator
	units atomic.Int32
}

func (c *countingCoordinator) ExecuteAtomic(ctx context.Context, fn txn.UnitOfWork) (any, error) {
	c.units.Add(1)
	return c.Coordinator.ExecuteAtomic(ctx, fn)
}

func TestExitTransitionsRunInAtomicUnits(t *testing.T) {
	f := newFixtures(t)
	coord := &countingCoordinator{Coordinator: txn.NewPassthrough()}
	svc := NewExitService(f.tenants, f.rooms, coord, f.audit, f.log)

	tenant := f.seedTenant(t, &domain.Tenant{ID: "ten-1", OrgID: "org-1", UserID: "user-9"})

	_, err := svc.RequestExit(context.Background(), residentActor("user-9", "org-1"), tenant.ID,
		&dto.RequestExitRequest{Reason: "moving out"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), coord.units.Load())

	exitDate := time.Now().UTC().Add(-time.Hour)
	_, err = svc.ResolveExit(context.Background(), staffActor("org-1"), tenant.ID, &dto.ResolveExitRequest{
		Decision: domain.ExitDecisionApproved,
		ExitDate: &exitDate,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), coord.units.Load())

	_, err = svc.FinalizeExit(context.Background(), tenant.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int32(3), coord.units.Load())
}
