package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/domain"
)

// MemoryTenantRepository is an in-memory TenantRepository for testing.
// Conditional transitions hold the mutex across read-check-write, which
// gives the same per-tenant serialization the Mongo filter provides.
type MemoryTenantRepository struct {
	mu      sync.RWMutex
	tenants map[string]*domain.Tenant
}

// NewMemoryTenantRepository creates an in-memory tenant repository.
func NewMemoryTenantRepository() *MemoryTenantRepository {
	return &MemoryTenantRepository{tenants: make(map[string]*domain.Tenant)}
}

func (r *MemoryTenantRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tenants[tenant.ID] = copyTenant(tenant)
	return nil
}

func (r *MemoryTenantRepository) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tenants[id]
	if !ok {
		return nil, domain.ErrTenantNotFound
	}
	return copyTenant(t), nil
}

func (r *MemoryTenantRepository) RequestExit(ctx context.Context, tenantID string, req domain.ExitRequest) (*domain.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tenants[tenantID]
	if !ok {
		return nil, domain.ErrTenantNotFound
	}
	if t.Status != domain.TenantStatusActive || t.ExitReq.Status == domain.ExitStatusPending {
		return nil, domain.ErrExitConflict
	}

	t.ExitReq = req
	t.UpdatedAt = time.Now().UTC()
	return copyTenant(t), nil
}

func (r *MemoryTenantRepository) ApproveExit(ctx context.Context, tenantID string, exitDate time.Time, comment string) (*domain.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tenants[tenantID]
	if !ok {
		return nil, domain.ErrTenantNotFound
	}
	if t.ExitReq.Status != domain.ExitStatusPending {
		return nil, domain.ErrExitConflict
	}

	t.Status = domain.TenantStatusOnNotice
	t.ExitReq.Status = domain.ExitStatusApproved
	t.ExitReq.AdminComment = comment
	t.ExitDate = &exitDate
	t.UpdatedAt = time.Now().UTC()
	return copyTenant(t), nil
}

func (r *MemoryTenantRepository) RejectExit(ctx context.Context, tenantID string, comment string) (*domain.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tenants[tenantID]
	if !ok {
		return nil, domain.ErrTenantNotFound
	}
	if t.ExitReq.Status != domain.ExitStatusPending {
		return nil, domain.ErrExitConflict
	}

	t.Status = domain.TenantStatusActive
	t.ExitReq = domain.ExitRequest{
		Status:       domain.ExitStatusNone,
		AdminComment: comment,
	}
	t.ExitDate = nil
	t.UpdatedAt = time.Now().UTC()
	return copyTenant(t), nil
}

func (r *MemoryTenantRepository) FinalizeExit(ctx context.Context, tenantID string, now time.Time) (*domain.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tenants[tenantID]
	if !ok {
		return nil, domain.ErrTenantNotFound
	}
	if t.Status != domain.TenantStatusOnNotice || t.ExitDate == nil || t.ExitDate.After(now) {
		return nil, domain.ErrExitConflict
	}

	t.Status = domain.TenantStatusExited
	t.RoomID = ""
	t.UpdatedAt = time.Now().UTC()
	return copyTenant(t), nil
}

func (r *MemoryTenantRepository) ClearRentDue(ctx context.Context, tenantID string, paidAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tenants[tenantID]
	if !ok {
		return domain.ErrTenantNotFound
	}
	t.RentDue = false
	t.LastPaidAt = &paidAt
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryTenantRepository) ListNoticeExpired(ctx context.Context, now time.Time, limit int) ([]*domain.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var expired []*domain.Tenant
	for _, t := range r.tenants {
		if t.NoticeExpired(now) {
			expired = append(expired, copyTenant(t))
		}
	}
	sort.Slice(expired, func(i, j int) bool {
		return expired[i].ExitDate.Before(*expired[j].ExitDate)
	})
	if limit > 0 && len(expired) > limit {
		expired = expired[:limit]
	}
	return expired, nil
}

func copyTenant(t *domain.Tenant) *domain.Tenant {
	copied := *t
	if t.ExitDate != nil {
		d := *t.ExitDate
		copied.ExitDate = &d
	}
	if t.LastPaidAt != nil {
		d := *t.LastPaidAt
		copied.LastPaidAt = &d
	}
	return &copied
}

// MemoryPaymentRepository is an in-memory PaymentRepository for testing.
type MemoryPaymentRepository struct {
	mu      sync.RWMutex
	intents map[string]*domain.PaymentIntent
	records map[string]*domain.PaymentRecord // keyed by gateway payment ID
}

// NewMemoryPaymentRepository creates an in-memory payment repository.
func NewMemoryPaymentRepository() *MemoryPaymentRepository {
	return &MemoryPaymentRepository{
		intents: make(map[string]*domain.PaymentIntent),
		records: make(map[string]*domain.PaymentRecord),
	}
}

func (r *MemoryPaymentRepository) CreateIntent(ctx context.Context, intent *domain.PaymentIntent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *intent
	r.intents[intent.OrderID] = &copied
	return nil
}

func (r *MemoryPaymentRepository) GetIntent(ctx context.Context, orderID string) (*domain.PaymentIntent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	intent, ok := r.intents[orderID]
	if !ok {
		return nil, domain.ErrIntentNotFound
	}
	copied := *intent
	return &copied, nil
}

func (r *MemoryPaymentRepository) MarkIntentStatus(ctx context.Context, orderID string, status domain.IntentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	intent, ok := r.intents[orderID]
	if !ok {
		return domain.ErrIntentNotFound
	}
	intent.Status = status
	intent.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryPaymentRepository) InsertRecord(ctx context.Context, record *domain.PaymentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.records[record.GatewayPaymentID]; exists {
		return domain.ErrDuplicatePayment
	}
	copied := *record
	r.records[record.GatewayPaymentID] = &copied
	return nil
}

func (r *MemoryPaymentRepository) GetRecordByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*domain.PaymentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[gatewayPaymentID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	copied := *record
	return &copied, nil
}

// RecordCount returns the number of stored payment records.
func (r *MemoryPaymentRepository) RecordCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// MemorySubscriptionRepository is an in-memory SubscriptionRepository for testing.
type MemorySubscriptionRepository struct {
	mu   sync.RWMutex
	subs map[string]*domain.Subscription // keyed by org ID
}

// NewMemorySubscriptionRepository creates an in-memory subscription repository.
func NewMemorySubscriptionRepository() *MemorySubscriptionRepository {
	return &MemorySubscriptionRepository{subs: make(map[string]*domain.Subscription)}
}

func (r *MemorySubscriptionRepository) GetByOrgID(ctx context.Context, orgID string) (*domain.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.subs[orgID]
	if !ok {
		return nil, domain.ErrSubscriptionNotFound
	}
	copied := *sub
	return &copied, nil
}

func (r *MemorySubscriptionRepository) Upsert(ctx context.Context, sub *domain.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *sub
	r.subs[sub.OrgID] = &copied
	return nil
}

// MemoryRoomRepository is an in-memory RoomRepository for testing.
type MemoryRoomRepository struct {
	mu    sync.RWMutex
	rooms map[string]*domain.Room
}

// NewMemoryRoomRepository creates an in-memory room repository.
func NewMemoryRoomRepository() *MemoryRoomRepository {
	return &MemoryRoomRepository{rooms: make(map[string]*domain.Room)}
}

// Seed stores a room directly.
func (r *MemoryRoomRepository) Seed(room *domain.Room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *room
	r.rooms[room.ID] = &copied
}

func (r *MemoryRoomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	copied := *room
	return &copied, nil
}

func (r *MemoryRoomRepository) ReleaseBed(ctx context.Context, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	if room.Occupied > 0 {
		room.Occupied--
		room.UpdatedAt = time.Now().UTC()
	}
	return nil
}

// MemoryAuditRepository is an in-memory AuditRepository for testing.
type MemoryAuditRepository struct {
	mu      sync.RWMutex
	entries []*domain.AuditLogEntry
}

// NewMemoryAuditRepository creates an in-memory audit repository.
func NewMemoryAuditRepository() *MemoryAuditRepository {
	return &MemoryAuditRepository{}
}

func (r *MemoryAuditRepository) InsertMany(ctx context.Context, entries []*domain.AuditLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		copied := *e
		r.entries = append(r.entries, &copied)
	}
	return nil
}

func (r *MemoryAuditRepository) ListRecent(ctx context.Context, limit int) ([]*domain.AuditLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.AuditLogEntry, len(r.entries))
	for i, e := range r.entries {
		copied := *e
		out[len(r.entries)-1-i] = &copied
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Count returns the number of stored audit entries.
func (r *MemoryAuditRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
