package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Plant is a catalogue item owned by a seller. Price is in minor
// currency units (cents) and Quantity is the live stock counter that
// order placement and cancellation adjust atomically.
type Plant struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name"        json:"name"`
	Category    string             `bson:"category"    json:"category"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Price       int64              `bson:"price"       json:"price"`
	Quantity    int64              `bson:"quantity"    json:"quantity"`
	Seller      UserRef            `bson:"seller"      json:"seller"`
	CreatedAt   time.Time          `bson:"createdAt"   json:"createdAt"`
}
