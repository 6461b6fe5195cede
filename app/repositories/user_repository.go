package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/plantnet/app/models"
)

// UserRepository handles database operations for User documents.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection("users")}
}

// UpsertIfAbsent creates the user document on first sign-in with the
// customer role, or returns the existing document unchanged. Safe
// under concurrent sign-ins for the same email: the users collection
// carries a unique index on email and the upsert is a single op.
func (r *UserRepository) UpsertIfAbsent(ctx context.Context, email, name, image string) (models.User, error) {
	filter := bson.M{"email": email}
	update := bson.M{
		"$setOnInsert": bson.M{
			"email":     email,
			"name":      name,
			"image":     image,
			"role":      models.RoleCustomer,
			"timestamp": time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var user models.User
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// FindByEmail looks up a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, models.ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// RoleOf returns the persisted role for email. Authorization reads
// the role from here on every request, never from the token.
func (r *UserRepository) RoleOf(ctx context.Context, email string) (string, error) {
	var doc struct {
		Role string `bson:"role"`
	}
	opts := options.FindOne().SetProjection(bson.M{"role": 1})
	err := r.col.FindOne(ctx, bson.M{"email": email}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", models.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return doc.Role, nil
}

// RequestSeller marks the user as waiting for seller verification.
// Returns ErrConflict if a request is already pending or granted.
func (r *UserRepository) RequestSeller(ctx context.Context, email string) error {
	filter := bson.M{
		"email":  email,
		"status": bson.M{"$nin": bson.A{models.StatusRequested, models.StatusVerified}},
	}
	update := bson.M{"$set": bson.M{"status": models.StatusRequested}}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either the user is unknown or a request already exists.
		if _, err := r.FindByEmail(ctx, email); err != nil {
			return err
		}
		return models.ErrConflict
	}
	return nil
}

// UpdateRole sets the user's role and marks the seller request
// verified. Admin-only; role must already be validated by the caller.
func (r *UserRepository) UpdateRole(ctx context.Context, email, role string) error {
	update := bson.M{"$set": bson.M{
		"role":   role,
		"status": models.StatusVerified,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"email": email}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// AllExcept lists every user other than the caller, newest first.
func (r *UserRepository) AllExcept(ctx context.Context, email string) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"email": bson.M{"$ne": email}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
