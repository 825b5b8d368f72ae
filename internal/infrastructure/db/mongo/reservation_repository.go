package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mentorhub/mentoring-api/internal/core/domain"
)

const collectionReservations = "reservations"

type ReservationRepository struct {
	coll *mongo.Collection
}

func NewReservationRepository(db *mongo.Database) *ReservationRepository {
	return &ReservationRepository{coll: db.Collection(collectionReservations)}
}

type reservationDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	ReservationDate time.Time          `bson:"reservation_date"`
	CardHolderName  string             `bson:"card_holder_name"`
	CardNumber      string             `bson:"card_number"`
	CardExpiry      string             `bson:"card_expiry"`
	Status          string             `bson:"status"`
	UserID          string             `bson:"user_id"`
	OfferingID      string             `bson:"service_id"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func (d *reservationDoc) toDomain() *domain.Reservation {
	return &domain.Reservation{
		ID:              d.ID.Hex(),
		ReservationDate: d.ReservationDate,
		CardHolderName:  d.CardHolderName,
		CardNumber:      d.CardNumber,
		CardExpiry:      d.CardExpiry,
		Status:          domain.ReservationStatus(d.Status),
		UserID:          d.UserID,
		OfferingID:      d.OfferingID,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// Create inserts a reservation. CardNumber must already be masked.
func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := reservationDoc{
		ID:              primitive.NewObjectID(),
		ReservationDate: res.ReservationDate,
		CardHolderName:  res.CardHolderName,
		CardNumber:      res.CardNumber,
		CardExpiry:      res.CardExpiry,
		Status:          string(res.Status),
		UserID:          res.UserID,
		OfferingID:      res.OfferingID,
		CreatedAt:       res.CreatedAt,
		UpdatedAt:       res.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	res.ID = doc.ID.Hex()
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id string) (*domain.Reservation, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrReservationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc reservationDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, fmt.Errorf("find reservation: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ReservationRepository) List(ctx context.Context) ([]*domain.Reservation, error) {
	return r.find(ctx, bson.M{})
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Reservation, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *ReservationRepository) ListByOfferings(ctx context.Context, offeringIDs []string) ([]*domain.Reservation, error) {
	return r.find(ctx, bson.M{"service_id": bson.M{"$in": offeringIDs}})
}

func (r *ReservationRepository) find(ctx context.Context, filter bson.M) ([]*domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find reservations: %w", err)
	}
	var docs []reservationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reservations: %w", err)
	}

	out := make([]*domain.Reservation, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// TransitionStatus filters on the expected current status, so two racing
// transitions cannot both apply.
func (r *ReservationRepository) TransitionStatus(ctx context.Context, id string, from, to domain.ReservationStatus, at time.Time) (*domain.Reservation, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrReservationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "status": string(from)}
	update := bson.M{"$set": bson.M{"status": string(to), "updated_at": at}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc reservationDoc
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if isNoDocuments(err) {
		return nil, fmt.Errorf("%w: reservation is no longer %s", domain.ErrInvalidTransition, from)
	}
	if err != nil {
		return nil, fmt.Errorf("transition reservation: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates necessary indexes on the reservations collection.
func (r *ReservationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "service_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
