package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/database"
)

// Collection name constants.
const (
	colTenants        = "tenants"
	colRooms          = "rooms"
	colPaymentIntents = "payment_intents"
	colPaymentRecords = "payment_records"
	colSubscriptions  = "subscriptions"
	colAuditLogs      = "audit_logs"
)

// Migrate creates the indexes all repositories rely on. The unique
// index on payment_records.gateway_payment_id is the idempotency
// constraint for payment verification.
func Migrate(ctx context.Context, db *database.MongoDB) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := db.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// mongoReplaceUpsert returns replace options with upsert enabled.
func mongoReplaceUpsert() options.Lister[options.ReplaceOptions] {
	return options.Replace().SetUpsert(true)
}

// migrationIndexes returns the index definitions for all collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colTenants: {
			{Keys: bson.D{{Key: "org_id", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "exit_date", Value: 1}}},
		},
		colPaymentIntents: {
			{Keys: bson.D{{Key: "org_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{
				Keys:    bson.D{{Key: "receipt", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		colPaymentRecords: {
			{
				Keys:    bson.D{{Key: "gateway_payment_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "org_id", Value: 1}, {Key: "transaction_date", Value: -1}}},
		},
		colSubscriptions: {
			{
				Keys:    bson.D{{Key: "org_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		colAuditLogs: {
			{Keys: bson.D{{Key: "timestamp", Value: -1}}},
			{Keys: bson.D{{Key: "actor_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		},
	}
}
