package seeders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/plantnet/app/models"
)

func init() {
	Register("admin-user", SeedAdminUser)
	Register("catalogue", SeedCatalogue)
}

// SeedAdminUser guarantees one admin account exists for first boot.
func SeedAdminUser(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").UpdateOne(ctx,
		bson.M{"email": "admin@plantnet.app"},
		bson.M{"$setOnInsert": models.User{
			Email:     "admin@plantnet.app",
			Name:      "PlantNet Admin",
			Role:      models.RoleAdmin,
			Timestamp: time.Now().UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

// SeedCatalogue inserts a small demo catalogue when the plants
// collection is empty.
func SeedCatalogue(ctx context.Context, db *mongo.Database) error {
	col := db.Collection("plants")
	count, err := col.EstimatedDocumentCount(ctx)
	if err != nil || count > 0 {
		return err
	}

	seller := models.UserRef{Email: "admin@plantnet.app", Name: "PlantNet Admin"}
	now := time.Now().UTC()
	plants := []interface{}{
		models.Plant{Name: "Money Plant", Category: "Indoor", Price: 1500, Quantity: 40, Seller: seller, CreatedAt: now},
		models.Plant{Name: "Snake Plant", Category: "Indoor", Price: 2200, Quantity: 25, Seller: seller, CreatedAt: now},
		models.Plant{Name: "Aloe Vera", Category: "Succulent", Price: 900, Quantity: 60, Seller: seller, CreatedAt: now},
		models.Plant{Name: "Peace Lily", Category: "Flowering", Price: 2800, Quantity: 15, Seller: seller, CreatedAt: now},
	}
	_, err = col.InsertMany(ctx, plants)
	return err
}
