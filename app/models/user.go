package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user can hold. Every visitor starts as a customer; sellers
// are promoted by an admin after requesting the role.
const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	RoleAdmin    = "admin"
)

// Seller-request states stored on the user document.
const (
	StatusNone      = ""
	StatusRequested = "Requested"
	StatusVerified  = "Verified"
)

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// User is keyed by email. The document is created on first sign-in and
// the role field is the single source of truth for authorization.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email     string             `bson:"email"          json:"email"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Role      string             `bson:"role"           json:"role"`
	Status    string             `bson:"status,omitempty" json:"status,omitempty"`
	Timestamp time.Time          `bson:"timestamp"      json:"timestamp"`
}

// UserRef is the embedded customer/seller snapshot stored on plants
// and orders so list views render without an extra lookup.
type UserRef struct {
	Email string `bson:"email" json:"email"`
	Name  string `bson:"name,omitempty" json:"name,omitempty"`
}
