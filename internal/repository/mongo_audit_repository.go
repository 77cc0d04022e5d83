package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/domain"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/database"
)

// mongoAuditRepository implements AuditRepository on MongoDB.
// The collection is append-only: this type exposes no update or delete.
type mongoAuditRepository struct {
	col *mongo.Collection
}

// NewMongoAuditRepository creates a MongoDB-backed AuditRepository.
func NewMongoAuditRepository(db *database.MongoDB) AuditRepository {
	return &mongoAuditRepository{col: db.Collection(colAuditLogs)}
}

func (r *mongoAuditRepository) InsertMany(ctx context.Context, entries []*domain.AuditLogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	docs := make([]interface{}, len(entries))
	for i, e := range entries {
		docs[i] = e
	}

	// Unordered insert: one bad entry must not drop the rest of the batch.
	_, err := r.col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("insert audit entries: %w", err)
	}
	return nil
}

func (r *mongoAuditRepository) ListRecent(ctx context.Context, limit int) ([]*domain.AuditLogEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}

	var entries []*domain.AuditLogEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode audit entries: %w", err)
	}
	return entries, nil
}
