package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/plantnet/app/models"
)

// PlantRepository handles database operations for Plant documents.
// Stock changes go through single conditional updates so concurrent
// orders can never oversell.
type PlantRepository struct {
	col *mongo.Collection
}

func NewPlantRepository(db *mongo.Database) *PlantRepository {
	return &PlantRepository{col: db.Collection("plants")}
}

// Create inserts a new plant and fills in its generated ID.
func (r *PlantRepository) Create(ctx context.Context, plant *models.Plant) error {
	if plant.CreatedAt.IsZero() {
		plant.CreatedAt = time.Now().UTC()
	}
	res, err := r.col.InsertOne(ctx, plant)
	if err != nil {
		return err
	}
	plant.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID looks up a plant by its ObjectID hex string.
func (r *PlantRepository) FindByID(ctx context.Context, id string) (models.Plant, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Plant{}, models.ErrNotFound
	}
	var plant models.Plant
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&plant)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Plant{}, models.ErrNotFound
	}
	if err != nil {
		return models.Plant{}, err
	}
	return plant, nil
}

// All lists the whole catalogue, newest first.
func (r *PlantRepository) All(ctx context.Context) ([]models.Plant, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	plants := []models.Plant{}
	if err := cur.All(ctx, &plants); err != nil {
		return nil, err
	}
	return plants, nil
}

// BySeller lists a seller's own inventory, newest first.
func (r *PlantRepository) BySeller(ctx context.Context, email string) ([]models.Plant, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"seller.email": email}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	plants := []models.Plant{}
	if err := cur.All(ctx, &plants); err != nil {
		return nil, err
	}
	return plants, nil
}

// Update replaces the mutable fields of a seller's own plant.
func (r *PlantRepository) Update(ctx context.Context, id, sellerEmail string, set bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrNotFound
	}
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "seller.email": sellerEmail},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes a plant owned by sellerEmail.
func (r *PlantRepository) Delete(ctx context.Context, id, sellerEmail string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrNotFound
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid, "seller.email": sellerEmail})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ApplyDelta atomically adds delta to the plant's quantity. Positive
// deltas restock, negative deltas consume without the availability
// guard; use DecrementIfAvailable when overselling must be prevented.
func (r *PlantRepository) ApplyDelta(ctx context.Context, id primitive.ObjectID, delta int64) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"quantity": delta}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DecrementIfAvailable consumes n units only when at least n are in
// stock. The filter and decrement ride in one update, so two racing
// orders for the last unit cannot both succeed.
func (r *PlantRepository) DecrementIfAvailable(ctx context.Context, id primitive.ObjectID, n int64) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "quantity": bson.M{"$gte": n}},
		bson.M{"$inc": bson.M{"quantity": -n}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if err := r.exists(ctx, id); err != nil {
			return err
		}
		return models.ErrInsufficientStock
	}
	return nil
}

func (r *PlantRepository) exists(ctx context.Context, id primitive.ObjectID) error {
	err := r.col.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	return err
}
