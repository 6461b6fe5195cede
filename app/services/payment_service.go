package services

import (
	"context"

	"github.com/shashiranjanraj/plantnet/pkg/payment"
)

// PaymentService turns a plant and a quantity into an authorized
// payment intent. The amount is always recomputed from the stored
// unit price; nothing money-shaped is accepted from the client.
type PaymentService struct {
	plants  PlantStore
	gateway payment.Gateway
}

func NewPaymentService(plants PlantStore, gateway payment.Gateway) *PaymentService {
	return &PaymentService{plants: plants, gateway: gateway}
}

// IntentInput is the validated body for creating a payment intent.
type IntentInput struct {
	PlantID  string `json:"plantId" validate:"required"`
	Quantity int64  `json:"quantity" validate:"required,gt=0"`
}

// CreateIntent loads the plant, computes quantity times the current
// unit price and authorizes that total. Returns ErrNotFound when the
// plant no longer exists.
func (s *PaymentService) CreateIntent(ctx context.Context, customerEmail string, in IntentInput) (*payment.Intent, error) {
	plant, err := s.plants.FindByID(ctx, in.PlantID)
	if err != nil {
		return nil, err
	}
	return s.gateway.Authorize(ctx, plant.Price*in.Quantity, customerEmail)
}
