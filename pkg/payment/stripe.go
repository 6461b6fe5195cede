package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/paymentintent"

	"github.com/shashiranjanraj/plantnet/config"
)

// StripeGateway authorizes payments through Stripe payment intents.
type StripeGateway struct {
	currency string
}

// NewStripeGateway configures the Stripe client from STRIPE_SECRET
// and returns a gateway charging in the configured currency.
func NewStripeGateway() (*StripeGateway, error) {
	key := config.StripeSecret()
	if key == "" {
		return nil, fmt.Errorf("payment: STRIPE_SECRET is not configured")
	}
	stripe.Key = key
	return &StripeGateway{currency: config.Currency()}, nil
}

func (g *StripeGateway) Authorize(ctx context.Context, amount int64, customerEmail string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:       stripe.Int64(amount),
		Currency:     stripe.String(g.currency),
		ReceiptEmail: stripe.String(customerEmail),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			return nil, fmt.Errorf("%w: %s", ErrDeclined, stripeErr.Code)
		}
		return nil, fmt.Errorf("payment: stripe intent: %w", err)
	}
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
	}, nil
}
