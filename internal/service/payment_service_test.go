package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/domain"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/dto"
)

func TestCreateOrderSubscriptionUsesCatalogAmount(t *testing.T) {
	f := newFixtures(t)
	actor := ownerActor("org-1")

	resp, err := f.paySvc.CreateOrder(context.Background(), actor, &dto.CreateOrderRequest{
		Purpose: domain.PurposeSubscription,
		Plan:    "Pro",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(149900), resp.Amount)
	assert.Equal(t, "INR", resp.Currency)
	assert.NotEmpty(t, resp.OrderID)
	assert.Equal(t, f.gw.KeyID(), resp.KeyID)

	intent, err := f.payments.GetIntent(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, int64(149900), intent.Amount)
	assert.Equal(t, "Pro", intent.Plan)
	assert.Equal(t, domain.IntentStatusCreated, intent.Status)
	assert.Equal(t, "org-1", intent.OrgID)
}

func TestCreateOrderSubscriptionUnknownPlan(t *testing.T) {
	f := newFixtures(t)

	_, err := f.paySvc.CreateOrder(context.Background(), ownerActor("org-1"), &dto.CreateOrderRequest{
		Purpose: domain.PurposeSubscription,
		Plan:    "Platinum",
	})
	assert.ErrorIs(t, err, domain.ErrUnknownPlan)
}

func TestCreateOrderSubscriptionRequiresOwner(t *testing.T) {
	f := newFixtures(t)

	// Admins manage tenants but cannot commit the org to a plan.
	for _, actor := range []domain.Actor{
		staffActor("org-1"),
		residentActor("user-9", "org-1"),
	} {
		_, err := f.paySvc.CreateOrder(context.Background(), actor, &dto.CreateOrderRequest{
			Purpose: domain.PurposeSubscription,
			Plan:    "Basic",
		})
		assert.ErrorIs(t, err, domain.ErrUnauthorizedActor)
	}
	assert.Zero(t, f.gw.OrderCount())
}

func TestCreateOrderRentRequiresTenantSelf(t *testing.T) {
	f := newFixtures(t)
	tenant := f.seedTenant(t, &domain.Tenant{
		ID: "ten-1", OrgID: "org-1", UserID: "user-9", RentAmount: 500000,
	})

	// Neither staff nor another resident may pay on the tenant's behalf.
	for _, actor := range []domain.Actor{
		ownerActor("org-1"),
		staffActor("org-1"),
		residentActor("user-other", "org-1"),
	} {
		_, err := f.paySvc.CreateOrder(context.Background(), actor, &dto.CreateOrderRequest{
			Purpose:  domain.PurposeRent,
			TenantID: tenant.ID,
		})
		assert.ErrorIs(t, err, domain.ErrUnauthorizedActor)
	}
	assert.Zero(t, f.gw.OrderCount())
}

func TestCreateOrderRentUsesTenantRecordAmount(t *testing.T) {
	f := newFixtures(t)
	tenant := f.seedTenant(t, &domain.Tenant{
		ID: "ten-1", OrgID: "org-1", UserID: "user-9",
		Name: "Asha", RentAmount: 700000, RentDue: true,
	})

	resp, err := f.paySvc.CreateOrder(context.Background(), residentActor("user-9", "org-1"), &dto.CreateOrderRequest{
		Purpose:  domain.PurposeRent,
		TenantID: tenant.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(700000), resp.Amount)

	intent, err := f.payments.GetIntent(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, intent.TenantID)
	assert.Equal(t, domain.PurposeRent, intent.Purpose)
}

func TestCreateOrderRentCrossOrgDenied(t *testing.T) {
	f := newFixtures(t)
	f.seedTenant(t, &domain.Tenant{ID: "ten-1", OrgID: "org-1", UserID: "user-9", RentAmount: 500000})

	_, err := f.paySvc.CreateOrder(context.Background(), staffActor("org-2"), &dto.CreateOrderRequest{
		Purpose:  domain.PurposeRent,
		TenantID: "ten-1",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorizedActor)
}

func TestVerifyAndRecordSubscription(t *testing.T) {
	f := newFixtures(t)
	actor := ownerActor("org-1")

	order, err := f.paySvc.CreateOrder(context.Background(), actor, &dto.CreateOrderRequest{
		Purpose: domain.PurposeSubscription,
		Plan:    "Basic",
	})
	require.NoError(t, err)

	before := time.Now().UTC()
	resp, err := f.paySvc.VerifyAndRecord(context.Background(), actor, &dto.VerifyPaymentRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_001",
		Signature: f.gw.SignFor(order.OrderID, "pay_001"),
		Mode:      "upi",
	})
	require.NoError(t, err)

	assert.False(t, resp.AlreadyRecorded)
	assert.Equal(t, domain.RecordStatusSuccess, resp.Status)
	assert.Equal(t, int64(49900), resp.Amount)
	assert.Equal(t, 1, f.payments.RecordCount())

	sub, err := f.subs.GetByOrgID(context.Background(), "org-1")
	require.NoError(t, err)
	assert.Equal(t, "Basic", sub.Plan)
	assert.True(t, sub.IsActive(before))
	assert.WithinDuration(t, before.Add(domain.SubscriptionPeriod), sub.RenewalDate, 5*time.Second)

	intent, err := f.payments.GetIntent(context.Background(), order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentStatusVerified, intent.Status)
}

func TestVerifyAndRecordSignatureMismatchWritesNothing(t *testing.T) {
	f := newFixtures(t)
	actor := ownerActor("org-1")

	order, err := f.paySvc.CreateOrder(context.Background(), actor, &dto.CreateOrderRequest{
		Purpose: domain.PurposeSubscription,
		Plan:    "Pro",
	})
	require.NoError(t, err)

	_, err = f.paySvc.VerifyAndRecord(context.Background(), actor, &dto.VerifyPaymentRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_002",
		Signature: "deadbeef",
	})
	assert.ErrorIs(t, err, domain.ErrSignatureMismatch)

	assert.Zero(t, f.payments.RecordCount())
	_, err = f.subs.GetByOrgID(context.Background(), "org-1")
	assert.ErrorIs(t, err, domain.ErrSubscriptionNotFound)

	intent, err := f.payments.GetIntent(context.Background(), order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentStatusFailed, intent.Status)
}

func TestVerifyAndRecordFailedOrderIsTerminal(t *testing.T) {
	f := newFixtures(t)
	actor := ownerActor("org-1")

	order, err := f.paySvc.CreateOrder(context.Background(), actor, &dto.CreateOrderRequest{
		Purpose: domain.PurposeSubscription,
		Plan:    "Pro",
	})
	require.NoError(t, err)

	_, err = f.paySvc.VerifyAndRecord(context.Background(), actor, &dto.VerifyPaymentRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_010",
		Signature: "deadbeef",
	})
	require.ErrorIs(t, err, domain.ErrSignatureMismatch)

	// A correct signature cannot resurrect a failed order.
	_, err = f.paySvc.VerifyAndRecord(context.Background(), actor, &dto.VerifyPaymentRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_010",
		Signature: f.gw.SignFor(order.OrderID, "pay_010"),
	})
	assert.ErrorIs(t, err, domain.ErrIntentClosed)
	assert.Zero(t, f.payments.RecordCount())
}

func TestVerifyAndRecordIdempotentReplay(t *testing.T) {
	f := newFixtures(t)
	actor := ownerActor("org-1")

	order, err := f.paySvc.CreateOrder(context.Background(), actor, &dto.CreateOrderRequest{
		Purpose: domain.PurposeSubscription,
		Plan:    "Elite",
	})
	require.NoError(t, err)

	req := &dto.VerifyPaymentRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_003",
		Signature: f.gw.SignFor(order.OrderID, "pay_003"),
	}

	first, err := f.paySvc.VerifyAndRecord(context.Background(), actor, req)
	require.NoError(t, err)
	sub1, err := f.subs.GetByOrgID(context.Background(), "org-1")
	require.NoError(t, err)

	second, err := f.paySvc.VerifyAndRecord(context.Background(), actor, req)
	require.NoError(t, err)

	assert.True(t, second.AlreadyRecorded)
	assert.Equal(t, first.RecordID, second.RecordID)
	assert.Equal(t, 1, f.payments.RecordCount())

	// The replay must not extend coverage a second time.
	sub2, err := f.subs.GetByOrgID(context.Background(), "org-1")
	require.NoError(t, err)
	assert.Equal(t, sub1.RenewalDate, sub2.RenewalDate)
}

func TestVerifyAndRecordRentClearsDue(t *testing.T) {
	f := newFixtures(t)
	tenant := f.seedTenant(t, &domain.Tenant{
		ID: "ten-1", OrgID: "org-1", UserID: "user-9", RentAmount: 650000, RentDue: true,
	})
	actor := residentActor("user-9", "org-1")

	order, err := f.paySvc.CreateOrder(context.Background(), actor, &dto.CreateOrderRequest{
		Purpose:  domain.PurposeRent,
		TenantID: tenant.ID,
	})
	require.NoError(t, err)

	_, err = f.paySvc.VerifyAndRecord(context.Background(), actor, &dto.VerifyPaymentRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_004",
		Signature: f.gw.SignFor(order.OrderID, "pay_004"),
	})
	require.NoError(t, err)

	updated, err := f.tenants.GetByID(context.Background(), tenant.ID)
	require.NoError(t, err)
	assert.False(t, updated.RentDue)
	require.NotNil(t, updated.LastPaidAt)
}

func TestVerifyAndRecordSettledOrderRejectsNewPayment(t *testing.T) {
	f := newFixtures(t)
	actor := ownerActor("org-1")

	order, err := f.paySvc.CreateOrder(context.Background(), actor, &dto.CreateOrderRequest{
		Purpose: domain.PurposeSubscription,
		Plan:    "Basic",
	})
	require.NoError(t, err)

	_, err = f.paySvc.VerifyAndRecord(context.Background(), actor, &dto.VerifyPaymentRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_005",
		Signature: f.gw.SignFor(order.OrderID, "pay_005"),
	})
	require.NoError(t, err)

	// Same order, different payment: the order is closed.
	_, err = f.paySvc.VerifyAndRecord(context.Background(), actor, &dto.VerifyPaymentRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_006",
		Signature: f.gw.SignFor(order.OrderID, "pay_006"),
	})
	assert.ErrorIs(t, err, domain.ErrIntentClosed)
	assert.Equal(t, 1, f.payments.RecordCount())
}

func TestVerifyAndRecordUnknownOrder(t *testing.T) {
	f := newFixtures(t)

	_, err := f.paySvc.VerifyAndRecord(context.Background(), ownerActor("org-1"), &dto.VerifyPaymentRequest{
		OrderID:   "order_missing",
		PaymentID: "pay_007",
		Signature: "whatever",
	})
	assert.ErrorIs(t, err, domain.ErrIntentNotFound)
}

func TestVerifyAndRecordConcurrentReplaySingleRecord(t *testing.T) {
	f := newFixtures(t)
	actor := ownerActor("org-1")

	order, err := f.paySvc.CreateOrder(context.Background(), actor, &dto.CreateOrderRequest{
		Purpose: domain.PurposeSubscription,
		Plan:    "Pro",
	})
	require.NoError(t, err)

	req := &dto.VerifyPaymentRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_008",
		Signature: f.gw.SignFor(order.OrderID, "pay_008"),
	}

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.paySvc.VerifyAndRecord(context.Background(), actor, req)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, f.payments.RecordCount())
}

func TestPlansCatalog(t *testing.T) {
	f := newFixtures(t)

	plans := f.paySvc.Plans()
	require.Len(t, plans, 3)

	prices := map[string]int64{}
	for _, p := range plans {
		prices[p.Name] = p.Price
	}
	assert.Equal(t, int64(49900), prices["Basic"])
	assert.Equal(t, int64(149900), prices["Pro"])
	assert.Equal(t, int64(299900), prices["Elite"])
}
