package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

// transitions lists, per current status, the statuses an order may
// move to. Delivered and Cancelled are terminal.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether an order may move from one status to
// another.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ParseStatus validates a raw status string from a request body.
func ParseStatus(raw string) (OrderStatus, error) {
	switch s := OrderStatus(raw); s {
	case StatusPending, StatusProcessing, StatusDelivered, StatusCancelled:
		return s, nil
	}
	return "", fmt.Errorf("unknown order status %q", raw)
}

// Terminal reports whether no further transitions exist from s.
func (s OrderStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// Order records a purchase of a single plant. Customer and Seller are
// snapshots taken at placement time; UnitPrice and Total are minor
// currency units. PaymentRef holds the payment-intent ID that
// authorized the charge.
type Order struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Customer   UserRef            `bson:"customer"   json:"customer"`
	Seller     UserRef            `bson:"seller"     json:"seller"`
	PlantID    primitive.ObjectID `bson:"plantId"    json:"plantId"`
	PlantName  string             `bson:"plantName,omitempty" json:"plantName,omitempty"`
	Quantity   int64              `bson:"quantity"   json:"quantity"`
	UnitPrice  int64              `bson:"unitPrice"  json:"unitPrice"`
	Total      int64              `bson:"price"      json:"price"`
	Address    string             `bson:"address,omitempty" json:"address,omitempty"`
	Status     OrderStatus        `bson:"status"     json:"status"`
	PaymentRef string             `bson:"paymentRef,omitempty" json:"paymentRef,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt"  json:"createdAt"`
}
