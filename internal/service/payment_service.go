package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/domain"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/dto"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/gateway"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/repository"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/txn"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/logger"
)

// PaymentService defines the payment ledger operations.
type PaymentService interface {
	// CreateOrder resolves the server-authoritative amount, registers
	// an order with the gateway and persists a payment intent
	CreateOrder(ctx context.Context, actor domain.Actor, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error)
	// VerifyAndRecord checks the callback signature and, exactly once
	// per gateway payment ID, records the payment and applies its
	// side effects atomically
	VerifyAndRecord(ctx context.Context, actor domain.Actor, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error)
	// Plans returns the purchasable plan catalog
	Plans() []dto.PlanResponse
}

// paymentService implements PaymentService
type paymentService struct {
	paymentRepo repository.PaymentRepository
	subRepo     repository.SubscriptionRepository
	tenantRepo  repository.TenantRepository
	gw          gateway.Gateway
	coordinator txn.Coordinator
	audit       *AuditRecorder
	log         *logger.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	subRepo repository.SubscriptionRepository,
	tenantRepo repository.TenantRepository,
	gw gateway.Gateway,
	coordinator txn.Coordinator,
	audit *AuditRecorder,
	log *logger.Logger,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		subRepo:     subRepo,
		tenantRepo:  tenantRepo,
		gw:          gw,
		coordinator: coordinator,
		audit:       audit,
		log:         log,
	}
}

// CreateOrder resolves the amount server-side and registers the order.
func (s *paymentService) CreateOrder(ctx context.Context, actor domain.Actor, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	if !req.Purpose.IsValid() {
		return nil, domain.NewValidationError("purpose", "must be SUBSCRIPTION or RENT")
	}

	var (
		amount   int64
		plan     string
		tenantID string
	)

	switch req.Purpose {
	case domain.PurposeSubscription:
		// Plan purchases bind the whole org; only the owner may buy.
		if actor.Role != domain.RoleOwner {
			return nil, domain.ErrUnauthorizedActor
		}
		if req.Plan == "" {
			return nil, domain.NewValidationError("plan", "required for subscription orders")
		}
		p, err := domain.PlanByName(req.Plan)
		if err != nil {
			return nil, err
		}
		amount = p.Price
		plan = p.Name

	case domain.PurposeRent:
		if req.TenantID == "" {
			return nil, domain.NewValidationError("tenant_id", "required for rent orders")
		}
		tenant, err := s.tenantRepo.GetByID(ctx, req.TenantID)
		if err != nil {
			return nil, err
		}
		// Rent is paid by the resident themselves, never on their behalf.
		if !actor.IsSelf(tenant) {
			return nil, domain.ErrUnauthorizedActor
		}
		if tenant.RentAmount <= 0 {
			return nil, domain.NewValidationError("tenant_id", "tenant has no rent amount configured")
		}
		amount = tenant.RentAmount
		tenantID = tenant.ID
	}

	receipt := "rcpt_" + uuid.New().String()
	order, err := s.gw.CreateOrder(ctx, &gateway.OrderRequest{
		Amount:   amount,
		Currency: "INR",
		Receipt:  receipt,
		Notes: map[string]string{
			"org_id":  actor.OrgID,
			"purpose": string(req.Purpose),
		},
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	intent := &domain.PaymentIntent{
		OrderID:   order.OrderID,
		Receipt:   receipt,
		OrgID:     actor.OrgID,
		ActorID:   actor.UserID,
		TenantID:  tenantID,
		Purpose:   req.Purpose,
		Plan:      plan,
		Amount:    amount,
		Currency:  order.Currency,
		Status:    domain.IntentStatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.paymentRepo.CreateIntent(ctx, intent); err != nil {
		return nil, err
	}

	s.audit.Record(domain.NewAuditLogEntry(actor.UserID, actor.Role, domain.AuditActionOrderCreated,
		"payment_intent", intent.OrderID, map[string]any{
			"purpose": string(req.Purpose),
			"amount":  amount,
			"plan":    plan,
		}))

	s.log.InfoContext(ctx, "payment order created",
		zap.String("order_id", intent.OrderID),
		zap.String("purpose", string(req.Purpose)),
		zap.Int64("amount", amount))

	return &dto.CreateOrderResponse{
		OrderID:  order.OrderID,
		Receipt:  receipt,
		Amount:   amount,
		Currency: order.Currency,
		KeyID:    s.gw.KeyID(),
	}, nil
}

// VerifyAndRecord verifies the callback signature and settles the payment.
//
// The record insert and every side effect run inside one atomic unit.
// The unique gateway payment ID makes the whole unit idempotent: a
// repeat call trips the duplicate check before any side effect runs
// and returns the prior outcome.
func (s *paymentService) VerifyAndRecord(ctx context.Context, actor domain.Actor, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error) {
	intent, err := s.paymentRepo.GetIntent(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if intent.OrgID != actor.OrgID {
		return nil, domain.ErrUnauthorizedActor
	}
	if intent.Status == domain.IntentStatusVerified {
		// A settled order only accepts a replay of the same payment.
		existing, getErr := s.paymentRepo.GetRecordByGatewayPaymentID(ctx, req.PaymentID)
		if errors.Is(getErr, domain.ErrRecordNotFound) {
			return nil, domain.ErrIntentClosed
		}
		if getErr != nil {
			return nil, getErr
		}
		return &dto.VerifyPaymentResponse{
			RecordID:        existing.ID,
			OrderID:         existing.OrderID,
			Purpose:         existing.Purpose,
			Amount:          existing.Amount,
			Status:          existing.Status,
			AlreadyRecorded: true,
		}, nil
	}

	if intent.Status == domain.IntentStatusFailed {
		// Failed is terminal. A new order has to be created to retry.
		return nil, domain.ErrIntentClosed
	}

	if !s.gw.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		// Nothing is recorded on a forged callback. Marking the
		// intent failed closes the order for good.
		if markErr := s.paymentRepo.MarkIntentStatus(ctx, req.OrderID, domain.IntentStatusFailed); markErr != nil {
			s.log.ErrorContext(ctx, "failed to mark intent failed", zap.String("order_id", req.OrderID), zap.Error(markErr))
		}
		s.audit.Record(domain.NewAuditLogEntry(actor.UserID, actor.Role, domain.AuditActionPaymentFailed,
			"payment_intent", req.OrderID, map[string]any{
				"reason":     "signature mismatch",
				"payment_id": req.PaymentID,
			}))
		s.log.WarnContext(ctx, "payment signature mismatch",
			zap.String("order_id", req.OrderID),
			zap.String("payment_id", req.PaymentID))
		return nil, domain.ErrSignatureMismatch
	}

	record := domain.NewPaymentRecord(intent, req.PaymentID, req.Mode)

	_, err = s.coordinator.ExecuteAtomic(ctx, func(ctx context.Context) (any, error) {
		if err := s.paymentRepo.InsertRecord(ctx, record); err != nil {
			return nil, err
		}
		if err := s.applySideEffects(ctx, intent, record); err != nil {
			return nil, err
		}
		return nil, s.paymentRepo.MarkIntentStatus(ctx, intent.OrderID, domain.IntentStatusVerified)
	})
	if errors.Is(err, domain.ErrDuplicatePayment) {
		existing, getErr := s.paymentRepo.GetRecordByGatewayPaymentID(ctx, req.PaymentID)
		if getErr != nil {
			return nil, getErr
		}
		s.log.InfoContext(ctx, "duplicate payment verification, returning prior record",
			zap.String("payment_id", req.PaymentID),
			zap.String("record_id", existing.ID))
		return &dto.VerifyPaymentResponse{
			RecordID:        existing.ID,
			OrderID:         existing.OrderID,
			Purpose:         existing.Purpose,
			Amount:          existing.Amount,
			Status:          existing.Status,
			AlreadyRecorded: true,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.NewAuditLogEntry(actor.UserID, actor.Role, domain.AuditActionPaymentVerified,
		"payment_record", record.ID, map[string]any{
			"order_id":   intent.OrderID,
			"payment_id": req.PaymentID,
			"purpose":    string(intent.Purpose),
			"amount":     intent.Amount,
		}))

	s.log.InfoContext(ctx, "payment verified and recorded",
		zap.String("order_id", intent.OrderID),
		zap.String("payment_id", req.PaymentID),
		zap.Int64("amount", intent.Amount))

	return &dto.VerifyPaymentResponse{
		RecordID: record.ID,
		OrderID:  intent.OrderID,
		Purpose:  intent.Purpose,
		Amount:   intent.Amount,
		Status:   record.Status,
	}, nil
}

// applySideEffects applies what the verified payment pays for.
func (s *paymentService) applySideEffects(ctx context.Context, intent *domain.PaymentIntent, record *domain.PaymentRecord) error {
	now := record.TransactionDate

	switch intent.Purpose {
	case domain.PurposeSubscription:
		sub, err := s.subRepo.GetByOrgID(ctx, intent.OrgID)
		if errors.Is(err, domain.ErrSubscriptionNotFound) {
			sub = &domain.Subscription{
				ID:        uuid.New().String(),
				OrgID:     intent.OrgID,
				CreatedAt: now,
			}
		} else if err != nil {
			return err
		}
		sub.Extend(intent.Plan, now)
		return s.subRepo.Upsert(ctx, sub)

	case domain.PurposeRent:
		return s.tenantRepo.ClearRentDue(ctx, intent.TenantID, now)
	}
	return nil
}

// Plans returns the purchasable plan catalog.
func (s *paymentService) Plans() []dto.PlanResponse {
	plans := domain.Plans()
	out := make([]dto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, dto.PlanResponse{Name: p.Name, Price: p.Price})
	}
	return out
}
