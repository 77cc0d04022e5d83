package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/domain"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/database"
)

// mongoPaymentRepository implements PaymentRepository on MongoDB.
type mongoPaymentRepository struct {
	intents *mongo.Collection
	records *mongo.Collection
}

// NewMongoPaymentRepository creates a MongoDB-backed PaymentRepository.
func NewMongoPaymentRepository(db *database.MongoDB) PaymentRepository {
	return &mongoPaymentRepository{
		intents: db.Collection(colPaymentIntents),
		records: db.Collection(colPaymentRecords),
	}
}

func (r *mongoPaymentRepository) CreateIntent(ctx context.Context, intent *domain.PaymentIntent) error {
	_, err := r.intents.InsertOne(ctx, intent)
	if err != nil {
		return fmt.Errorf("create payment intent: %w", err)
	}
	return nil
}

func (r *mongoPaymentRepository) GetIntent(ctx context.Context, orderID string) (*domain.PaymentIntent, error) {
	var intent domain.PaymentIntent
	err := r.intents.FindOne(ctx, bson.M{"_id": orderID}).Decode(&intent)
	if err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrIntentNotFound
		}
		return nil, fmt.Errorf("get payment intent: %w", err)
	}
	return &intent, nil
}

func (r *mongoPaymentRepository) MarkIntentStatus(ctx context.Context, orderID string, status domain.IntentStatus) error {
	result, err := r.intents.UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC(),
		},
	})
	if err != nil {
		return fmt.Errorf("mark intent %s: %w", status, err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrIntentNotFound
	}
	return nil
}

func (r *mongoPaymentRepository) InsertRecord(ctx context.Context, record *domain.PaymentRecord) error {
	_, err := r.records.InsertOne(ctx, record)
	if err != nil {
		// The unique index on gateway_payment_id enforces idempotency
		// even across concurrent verifications.
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicatePayment
		}
		return fmt.Errorf("insert payment record: %w", err)
	}
	return nil
}

func (r *mongoPaymentRepository) GetRecordByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*domain.PaymentRecord, error) {
	var record domain.PaymentRecord
	err := r.records.FindOne(ctx, bson.M{"gateway_payment_id": gatewayPaymentID}).Decode(&record)
	if err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("get payment record: %w", err)
	}
	return &record, nil
}

// mongoSubscriptionRepository implements SubscriptionRepository on MongoDB.
type mongoSubscriptionRepository struct {
	col *mongo.Collection
}

// NewMongoSubscriptionRepository creates a MongoDB-backed SubscriptionRepository.
func NewMongoSubscriptionRepository(db *database.MongoDB) SubscriptionRepository {
	return &mongoSubscriptionRepository{col: db.Collection(colSubscriptions)}
}

func (r *mongoSubscriptionRepository) GetByOrgID(ctx context.Context, orgID string) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := r.col.FindOne(ctx, bson.M{"org_id": orgID}).Decode(&sub)
	if err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return &sub, nil
}

func (r *mongoSubscriptionRepository) Upsert(ctx context.Context, sub *domain.Subscription) error {
	_, err := r.col.ReplaceOne(ctx, bson.M{"org_id": sub.OrgID}, sub,
		mongoReplaceUpsert(),
	)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}

// mongoRoomRepository implements RoomRepository on MongoDB.
type mongoRoomRepository struct {
	col *mongo.Collection
}

// NewMongoRoomRepository creates a MongoDB-backed RoomRepository.
func NewMongoRoomRepository(db *database.MongoDB) RoomRepository {
	return &mongoRoomRepository{col: db.Collection(colRooms)}
}

func (r *mongoRoomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	var room domain.Room
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&room)
	if err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, fmt.Errorf("get room: %w", err)
	}
	return &room, nil
}

func (r *mongoRoomRepository) ReleaseBed(ctx context.Context, roomID string) error {
	// Guard against driving occupancy below zero.
	result, err := r.col.UpdateOne(ctx,
		bson.M{"_id": roomID, "occupied": bson.M{"$gt": 0}},
		bson.M{
			"$inc": bson.M{"occupied": -1},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("release bed: %w", err)
	}
	if result.MatchedCount == 0 {
		// Already empty or missing; either way there is no bed to free.
		return nil
	}
	return nil
}
