package services

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/plantnet/app/models"
	"github.com/shashiranjanraj/plantnet/app/repositories"
	"github.com/shashiranjanraj/plantnet/pkg/event"
	"github.com/shashiranjanraj/plantnet/pkg/logger"
	"github.com/shashiranjanraj/plantnet/pkg/metrics"
	"github.com/shashiranjanraj/plantnet/pkg/payment"
)

// OrderStore is the persistence surface the order service needs.
type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (models.Order, error)
	DeleteIfCancellable(ctx context.Context, id, customerEmail string) (models.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) error
	SetQuantity(ctx context.Context, id string, from, to, total int64) error
	CustomerOrders(ctx context.Context, email string) ([]repositories.OrderView, error)
	SellerOrders(ctx context.Context, email string) ([]repositories.OrderView, error)
}

// OrderService places, cancels and progresses orders. Stock and
// payment move before the order document exists, so every persisted
// order is backed by reserved stock and an authorized charge.
type OrderService struct {
	orders  OrderStore
	plants  PlantStore
	gateway payment.Gateway
}

func NewOrderService(orders OrderStore, plants PlantStore, gateway payment.Gateway) *OrderService {
	return &OrderService{orders: orders, plants: plants, gateway: gateway}
}

// OrderInput is the validated body for placing an order.
type OrderInput struct {
	PlantID  string `json:"plantId" validate:"required"`
	Quantity int64  `json:"quantity" validate:"required,gt=0"`
	Address  string `json:"address" validate:"nullable,max=500"`
}

// Place creates an order for the calling customer.
//
// Sequence: authorize payment, reserve stock with a guarded decrement,
// insert the order. A failed insert restores the stock it reserved.
// An authorized intent whose order never materializes is left for the
// processor's capture window to expire.
func (s *OrderService) Place(ctx context.Context, customer models.UserRef, in OrderInput) (models.Order, error) {
	plant, err := s.plants.FindByID(ctx, in.PlantID)
	if err != nil {
		return models.Order{}, err
	}
	if customer.Email == plant.Seller.Email {
		return models.Order{}, fmt.Errorf("%w: sellers cannot order their own plants", models.ErrConflict)
	}

	total := plant.Price * in.Quantity

	intent, err := s.gateway.Authorize(ctx, total, customer.Email)
	if err != nil {
		return models.Order{}, fmt.Errorf("authorize payment: %w", err)
	}

	if err := s.plants.DecrementIfAvailable(ctx, plant.ID, in.Quantity); err != nil {
		return models.Order{}, err
	}

	order := models.Order{
		Customer:   customer,
		Seller:     plant.Seller,
		PlantID:    plant.ID,
		PlantName:  plant.Name,
		Quantity:   in.Quantity,
		UnitPrice:  plant.Price,
		Total:      total,
		Address:    in.Address,
		Status:     models.StatusPending,
		PaymentRef: intent.ID,
	}
	if err := s.orders.Insert(ctx, &order); err != nil {
		if rerr := s.plants.ApplyDelta(ctx, plant.ID, in.Quantity); rerr != nil {
			logger.Error("order: stock restore after failed insert",
				"plant", plant.ID.Hex(), "quantity", in.Quantity, "error", rerr)
		}
		return models.Order{}, fmt.Errorf("insert order: %w", err)
	}

	metrics.OrdersCreated.Inc()
	event.FireAsync("order.created", order)
	return order, nil
}

// Cancel removes the customer's order and returns its units to stock.
// Delivered orders cannot be cancelled.
func (s *OrderService) Cancel(ctx context.Context, id, customerEmail string) error {
	order, err := s.orders.DeleteIfCancellable(ctx, id, customerEmail)
	if err != nil {
		return err
	}
	if err := s.plants.ApplyDelta(ctx, order.PlantID, order.Quantity); err != nil {
		logger.Error("order: stock restore after cancel",
			"order", id, "plant", order.PlantID.Hex(), "error", err)
	}
	metrics.OrdersCancelled.Inc()
	return nil
}

// Progress moves the seller's order to the requested status, checking
// both ownership and the transition table. A transition into Cancelled
// returns the order's units to stock, same as a customer cancellation;
// the conditional status write ensures only one caller restores.
func (s *OrderService) Progress(ctx context.Context, id, sellerEmail, rawStatus string) error {
	to, err := models.ParseStatus(rawStatus)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrBadInput, err)
	}
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if order.Seller.Email != sellerEmail {
		return models.ErrNotFound
	}
	if !models.CanTransition(order.Status, to) {
		return fmt.Errorf("%w: %s to %s", models.ErrInvalidTransition, order.Status, to)
	}
	if err := s.orders.UpdateStatus(ctx, id, order.Status, to); err != nil {
		return err
	}
	if to == models.StatusCancelled {
		if err := s.plants.ApplyDelta(ctx, order.PlantID, order.Quantity); err != nil {
			logger.Error("order: stock restore after status cancel",
				"order", id, "plant", order.PlantID.Hex(), "error", err)
		}
		metrics.OrdersCancelled.Inc()
	}
	return nil
}

// AdjustQuantity applies a stock delta to the plant behind an order.
// The order's seller uses it to restock (positive delta) or write off
// units (negative delta, guarded so stock never goes below zero). The
// order's customer uses it to resize a pending order: the delta moves
// the ordered quantity, and stock moves the opposite way.
func (s *OrderService) AdjustQuantity(ctx context.Context, orderID, callerEmail string, delta int64) error {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	switch callerEmail {
	case order.Seller.Email:
		if delta < 0 {
			return s.plants.DecrementIfAvailable(ctx, order.PlantID, -delta)
		}
		return s.plants.ApplyDelta(ctx, order.PlantID, delta)
	case order.Customer.Email:
		return s.resize(ctx, order, delta)
	default:
		return models.ErrNotFound
	}
}

// resize changes the ordered quantity of a pending order. Stock is
// moved first (guarded for increases) and put back if the conditional
// order write loses to a concurrent status change or resize.
func (s *OrderService) resize(ctx context.Context, order models.Order, delta int64) error {
	if order.Status != models.StatusPending {
		return fmt.Errorf("%w: only pending orders can be resized", models.ErrConflict)
	}
	newQty := order.Quantity + delta
	if newQty < 1 {
		return fmt.Errorf("%w: order quantity must stay positive", models.ErrBadInput)
	}

	if delta > 0 {
		if err := s.plants.DecrementIfAvailable(ctx, order.PlantID, delta); err != nil {
			return err
		}
	} else if err := s.plants.ApplyDelta(ctx, order.PlantID, -delta); err != nil {
		return err
	}

	err := s.orders.SetQuantity(ctx, order.ID.Hex(), order.Quantity, newQty, newQty*order.UnitPrice)
	if err != nil {
		if rerr := s.plants.ApplyDelta(ctx, order.PlantID, delta); rerr != nil {
			logger.Error("order: stock restore after failed resize",
				"order", order.ID.Hex(), "plant", order.PlantID.Hex(), "error", rerr)
		}
		return err
	}
	return nil
}

// PlacedBy lists the customer's orders with plant details joined in.
func (s *OrderService) PlacedBy(ctx context.Context, email string) ([]repositories.OrderView, error) {
	return s.orders.CustomerOrders(ctx, email)
}

// ReceivedBy lists the orders against a seller's plants.
func (s *OrderService) ReceivedBy(ctx context.Context, email string) ([]repositories.OrderView, error) {
	return s.orders.SellerOrders(ctx, email)
}
