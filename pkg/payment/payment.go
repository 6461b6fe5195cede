// Package payment authorizes card payments before an order is persisted.
//
// The default gateway talks to Stripe. Services depend on the Gateway
// interface so tests can substitute a fake that never leaves the process.
package payment

import (
	"context"
	"errors"
)

// ErrDeclined is returned when the processor refuses the authorization.
var ErrDeclined = errors.New("payment: authorization declined")

// Intent is an authorized charge awaiting capture on the client side.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"` // minor units
}

// Gateway authorizes payments. Amounts are minor units (cents).
type Gateway interface {
	// Authorize creates a payment intent for amount on behalf of
	// customerEmail. The returned intent ID becomes the order's
	// payment reference.
	Authorize(ctx context.Context, amount int64, customerEmail string) (*Intent, error)
}
