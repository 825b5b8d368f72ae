package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mentorhub/mentoring-api/internal/core/domain"
)

const collectionActivity = "reservation_activity"

// ActivityRepository implements ports.ActivityRepository using MongoDB.
type ActivityRepository struct {
	coll *mongo.Collection
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{coll: db.Collection(collectionActivity)}
}

// Insert persists an activity event to the reservation_activity audit collection.
func (r *ActivityRepository) Insert(ctx context.Context, ev *domain.ActivityEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"reservation_id": ev.ReservationID,
		"service_id":     ev.OfferingID,
		"actor_id":       ev.ActorID,
		"kind":           string(ev.Kind),
		"occurred_at":    ev.OccurredAt.UTC(),
		"processed_at":   time.Now().UTC(),
	}
	if ev.SeatsLeft >= 0 {
		doc["seats_left"] = ev.SeatsLeft
	}

	_, err := r.coll.InsertOne(ctx, doc)
	return err
}

// EnsureIndexes creates necessary indexes on the activity collection.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "reservation_id", Value: 1}, {Key: "occurred_at", Value: 1}},
	})
	return err
}
