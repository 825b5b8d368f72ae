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

const collectionOfferings = "services"

// decrementSeatsPipeline takes one place and, in the same document write,
// marks the offering not-available once the count reaches zero.
var decrementSeatsPipeline = mongo.Pipeline{
	{{Key: "$set", Value: bson.D{
		{Key: "number_of_places", Value: bson.D{{Key: "$subtract", Value: bson.A{"$number_of_places", 1}}}},
		{Key: "updated_at", Value: "$$NOW"},
	}}},
	{{Key: "$set", Value: bson.D{
		{Key: "status", Value: bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$lte", Value: bson.A{"$number_of_places", 0}}},
			string(domain.OfferingNotAvailable),
			"$status",
		}}}},
	}}},
}

// restoreSeatPipeline is the inverse of decrementSeatsPipeline.
var restoreSeatPipeline = mongo.Pipeline{
	{{Key: "$set", Value: bson.D{
		{Key: "number_of_places", Value: bson.D{{Key: "$add", Value: bson.A{"$number_of_places", 1}}}},
		{Key: "updated_at", Value: "$$NOW"},
	}}},
	{{Key: "$set", Value: bson.D{
		{Key: "status", Value: bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$and", Value: bson.A{
				bson.D{{Key: "$eq", Value: bson.A{"$status", string(domain.OfferingNotAvailable)}}},
				bson.D{{Key: "$gte", Value: bson.A{"$number_of_places", 1}}},
			}}},
			string(domain.OfferingAvailable),
			"$status",
		}}}},
	}}},
}

type OfferingRepository struct {
	coll *mongo.Collection
}

func NewOfferingRepository(db *mongo.Database) *OfferingRepository {
	return &OfferingRepository{coll: db.Collection(collectionOfferings)}
}

type offeringDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Title          string             `bson:"title"`
	Description    string             `bson:"description"`
	Status         string             `bson:"status"`
	Image          string             `bson:"service_image,omitempty"`
	Price          float64            `bson:"price"`
	Duration       int                `bson:"duration"`
	NumberOfPlaces int                `bson:"number_of_places"`
	OwnerID        string             `bson:"user_id"`
	CategoryID     string             `bson:"category_id"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func newOfferingDoc(o *domain.Offering) offeringDoc {
	return offeringDoc{
		Title:          o.Title,
		Description:    o.Description,
		Status:         string(o.Status),
		Image:          o.Image,
		Price:          o.Price,
		Duration:       o.Duration,
		NumberOfPlaces: o.NumberOfPlaces,
		OwnerID:        o.OwnerID,
		CategoryID:     o.CategoryID,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

func (d *offeringDoc) toDomain() *domain.Offering {
	return &domain.Offering{
		ID:             d.ID.Hex(),
		Title:          d.Title,
		Description:    d.Description,
		Status:         domain.OfferingStatus(d.Status),
		Image:          d.Image,
		Price:          d.Price,
		Duration:       d.Duration,
		NumberOfPlaces: d.NumberOfPlaces,
		OwnerID:        d.OwnerID,
		CategoryID:     d.CategoryID,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func (r *OfferingRepository) Create(ctx context.Context, o *domain.Offering) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newOfferingDoc(o)
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	o.ID = doc.ID.Hex()
	return nil
}

func (r *OfferingRepository) FindByID(ctx context.Context, id string) (*domain.Offering, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrOfferingNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc offeringDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrOfferingNotFound
		}
		return nil, fmt.Errorf("find service: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *OfferingRepository) List(ctx context.Context) ([]*domain.Offering, error) {
	return r.find(ctx, bson.M{})
}

func (r *OfferingRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Offering, error) {
	return r.find(ctx, bson.M{"user_id": ownerID})
}

func (r *OfferingRepository) find(ctx context.Context, filter bson.M) ([]*domain.Offering, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find services: %w", err)
	}
	var docs []offeringDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode services: %w", err)
	}

	out := make([]*domain.Offering, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// Update replaces the mutable fields. The seat count follows last-writer-wins.
func (r *OfferingRepository) Update(ctx context.Context, o *domain.Offering) error {
	oid, ok := objectID(o.ID)
	if !ok {
		return domain.ErrOfferingNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"title":            o.Title,
		"description":      o.Description,
		"status":           string(o.Status),
		"service_image":    o.Image,
		"price":            o.Price,
		"duration":         o.Duration,
		"number_of_places": o.NumberOfPlaces,
		"category_id":      o.CategoryID,
		"updated_at":       o.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrOfferingNotFound
	}
	return nil
}

func (r *OfferingRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrOfferingNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrOfferingNotFound
	}
	return nil
}

// TryDecrementSeats implements the conditional decrement as one
// findOneAndUpdate: the filter only matches while places remain.
func (r *OfferingRepository) TryDecrementSeats(ctx context.Context, id string) (int, bool, error) {
	oid, ok := objectID(id)
	if !ok {
		return 0, false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":              oid,
		"number_of_places": bson.M{"$gt": 0},
		"status":           bson.M{"$ne": string(domain.OfferingArchived)},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc offeringDoc
	err := r.coll.FindOneAndUpdate(ctx, filter, decrementSeatsPipeline, opts).Decode(&doc)
	if isNoDocuments(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("decrement seats: %w", err)
	}
	return doc.NumberOfPlaces, true, nil
}

func (r *OfferingRepository) RestoreSeat(ctx context.Context, id string) (int, error) {
	oid, ok := objectID(id)
	if !ok {
		return 0, domain.ErrOfferingNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc offeringDoc
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, restoreSeatPipeline, opts).Decode(&doc)
	if isNoDocuments(err) {
		return 0, domain.ErrOfferingNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("restore seat: %w", err)
	}
	return doc.NumberOfPlaces, nil
}

// EnsureIndexes creates necessary indexes on the services collection.
func (r *OfferingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "category_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
