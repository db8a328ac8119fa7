package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/surgassist/records-api/internal/core/domain"
)

const auditCollection = "audit_events"

// MongoAuditRepository appends to the immutable audit trail. Nothing in this
// subsystem updates or deletes documents in the collection.
type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEvent struct {
	Timestamp time.Time      `bson:"timestamp"`
	Action    string         `bson:"action"`
	Actor     string         `bson:"actor"`
	Detail    map[string]any `bson:"detail,omitempty"`
}

func (r *MongoAuditRepository) Append(ctx context.Context, event domain.AuditEvent) error {
	doc := mongoAuditEvent{
		Timestamp: event.Timestamp,
		Action:    string(event.Action),
		Actor:     event.Actor,
		Detail:    event.Detail,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}
