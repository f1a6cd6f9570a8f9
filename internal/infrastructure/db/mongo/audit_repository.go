package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spabook/portal/internal/core/domain"
)

const sessionEventsCollection = "session_events"

// AuditRepository appends session lifecycle changes to session_events.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(sessionEventsCollection)}
}

// InsertChange persists one change. The identity is reduced to id, email and
// role; permission sets are not audited.
func (r *AuditRepository) InsertChange(ctx context.Context, change domain.SessionChange) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"session_id":   change.SessionID,
		"kind":         string(change.Kind),
		"state":        string(change.Snapshot.State),
		"at":           change.At.UTC(),
		"processed_at": time.Now().UTC(),
	}
	if id := change.Snapshot.Identity; id != nil {
		doc["identity"] = bson.M{
			"id":    id.ID,
			"email": id.Email,
			"role":  string(id.Role),
		}
	}

	_, err := r.coll.InsertOne(ctx, doc)
	return err
}
