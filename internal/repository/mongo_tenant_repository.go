package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/domain"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/database"
)

// mongoTenantRepository implements TenantRepository on MongoDB.
type mongoTenantRepository struct {
	col *mongo.Collection
}

// NewMongoTenantRepository creates a MongoDB-backed TenantRepository.
func NewMongoTenantRepository(db *database.MongoDB) TenantRepository {
	return &mongoTenantRepository{col: db.Collection(colTenants)}
}

func (r *mongoTenantRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	_, err := r.col.InsertOne(ctx, tenant)
	if err != nil {
		return fmt.Errorf("create tenant: %w", err)
	}
	return nil
}

func (r *mongoTenantRepository) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	var t domain.Tenant
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return &t, nil
}

func (r *mongoTenantRepository) RequestExit(ctx context.Context, tenantID string, req domain.ExitRequest) (*domain.Tenant, error) {
	filter := bson.M{
		"_id":                 tenantID,
		"status":              domain.TenantStatusActive,
		"exit_request.status": bson.M{"$ne": domain.ExitStatusPending},
	}
	update := bson.M{
		"$set": bson.M{
			"exit_request": req,
			"updated_at":   time.Now().UTC(),
		},
	}
	return r.conditionalUpdate(ctx, tenantID, filter, update)
}

func (r *mongoTenantRepository) ApproveExit(ctx context.Context, tenantID string, exitDate time.Time, comment string) (*domain.Tenant, error) {
	filter := bson.M{
		"_id":                 tenantID,
		"exit_request.status": domain.ExitStatusPending,
	}
	update := bson.M{
		"$set": bson.M{
			"status":                     domain.TenantStatusOnNotice,
			"exit_request.status":        domain.ExitStatusApproved,
			"exit_request.admin_comment": comment,
			"exit_date":                  exitDate,
			"updated_at":                 time.Now().UTC(),
		},
	}
	return r.conditionalUpdate(ctx, tenantID, filter, update)
}

func (r *mongoTenantRepository) RejectExit(ctx context.Context, tenantID string, comment string) (*domain.Tenant, error) {
	filter := bson.M{
		"_id":                 tenantID,
		"exit_request.status": domain.ExitStatusPending,
	}
	// Rejection is not a resting state: the sub-state goes back to NONE.
	update := bson.M{
		"$set": bson.M{
			"status": domain.TenantStatusActive,
			"exit_request": domain.ExitRequest{
				Status:       domain.ExitStatusNone,
				AdminComment: comment,
			},
			"updated_at": time.Now().UTC(),
		},
		"$unset": bson.M{"exit_date": ""},
	}
	return r.conditionalUpdate(ctx, tenantID, filter, update)
}

func (r *mongoTenantRepository) FinalizeExit(ctx context.Context, tenantID string, now time.Time) (*domain.Tenant, error) {
	filter := bson.M{
		"_id":       tenantID,
		"status":    domain.TenantStatusOnNotice,
		"exit_date": bson.M{"$lte": now},
	}
	update := bson.M{
		"$set": bson.M{
			"status":     domain.TenantStatusExited,
			"updated_at": time.Now().UTC(),
		},
		"$unset": bson.M{"room_id": ""},
	}
	return r.conditionalUpdate(ctx, tenantID, filter, update)
}

func (r *mongoTenantRepository) ClearRentDue(ctx context.Context, tenantID string, paidAt time.Time) error {
	result, err := r.col.UpdateOne(ctx, bson.M{"_id": tenantID}, bson.M{
		"$set": bson.M{
			"rent_due":     false,
			"last_paid_at": paidAt,
			"updated_at":   time.Now().UTC(),
		},
	})
	if err != nil {
		return fmt.Errorf("clear rent due: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrTenantNotFound
	}
	return nil
}

func (r *mongoTenantRepository) ListNoticeExpired(ctx context.Context, now time.Time, limit int) ([]*domain.Tenant, error) {
	filter := bson.M{
		"status":    domain.TenantStatusOnNotice,
		"exit_date": bson.M{"$lte": now},
	}

	opts := options.Find().SetSort(bson.D{{Key: "exit_date", Value: 1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list notice expired: %w", err)
	}

	var tenants []*domain.Tenant
	if err := cursor.All(ctx, &tenants); err != nil {
		return nil, fmt.Errorf("decode tenants: %w", err)
	}
	return tenants, nil
}

// conditionalUpdate is the compare-and-set primitive behind every exit
// transition: the filter encodes the expected current state, so of two
// concurrent transitions on the same tenant only one can match. The
// loser is told apart from a missing tenant with a follow-up read.
func (r *mongoTenantRepository) conditionalUpdate(ctx context.Context, tenantID string, filter, update bson.M) (*domain.Tenant, error) {
	var t domain.Tenant
	err := r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&t)
	if err == nil {
		return &t, nil
	}
	if !isNoDocuments(err) {
		return nil, fmt.Errorf("exit transition: %w", err)
	}

	if _, getErr := r.GetByID(ctx, tenantID); getErr != nil {
		return nil, getErr
	}
	return nil, domain.ErrExitConflict
}
