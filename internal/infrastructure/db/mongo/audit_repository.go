package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
)

const (
	collectionAudit = "portal_audit"
	auditRetention  = 180 * 24 * time.Hour
)

// AuditRepository appends portal audit events.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAudit)}
}

// Insert persists one audit event.
func (r *AuditRepository) Insert(ctx context.Context, e *domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, e)
	return err
}

// EnsureIndexes creates the lookup indexes and the retention TTL index.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "occurred_at", Value: 1}}},
		{Keys: bson.D{{Key: "subject", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{
			Keys:    bson.D{{Key: "occurred_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(auditRetention.Seconds())),
		},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
