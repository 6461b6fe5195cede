package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/plantnet/app/models"
	"github.com/shashiranjanraj/plantnet/app/repositories"
	"github.com/shashiranjanraj/plantnet/app/services"
	"github.com/shashiranjanraj/plantnet/pkg/payment"
)

type fakePlants struct {
	mu     sync.Mutex
	plants map[primitive.ObjectID]*models.Plant
}

func newFakePlants(plants ...*models.Plant) *fakePlants {
	f := &fakePlants{plants: map[primitive.ObjectID]*models.Plant{}}
	for _, p := range plants {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		f.plants[p.ID] = p
	}
	return f
}

func (f *fakePlants) Create(_ context.Context, p *models.Plant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = primitive.NewObjectID()
	f.plants[p.ID] = p
	return nil
}

func (f *fakePlants) FindByID(_ context.Context, id string) (models.Plant, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Plant{}, models.ErrNotFound
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plants[oid]
	if !ok {
		return models.Plant{}, models.ErrNotFound
	}
	return *p, nil
}

func (f *fakePlants) All(context.Context) ([]models.Plant, error)              { return nil, nil }
func (f *fakePlants) BySeller(context.Context, string) ([]models.Plant, error) { return nil, nil }
func (f *fakePlants) Update(context.Context, string, string, bson.M) error     { return nil }
func (f *fakePlants) Delete(context.Context, string, string) error             { return nil }

func (f *fakePlants) ApplyDelta(_ context.Context, id primitive.ObjectID, delta int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plants[id]
	if !ok {
		return models.ErrNotFound
	}
	p.Quantity += delta
	return nil
}

func (f *fakePlants) DecrementIfAvailable(_ context.Context, id primitive.ObjectID, n int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plants[id]
	if !ok {
		return models.ErrNotFound
	}
	if p.Quantity < n {
		return models.ErrInsufficientStock
	}
	p.Quantity -= n
	return nil
}

func (f *fakePlants) quantity(id primitive.ObjectID) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plants[id].Quantity
}

type fakeOrders struct {
	mu        sync.Mutex
	orders    map[primitive.ObjectID]*models.Order
	insertErr error
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: map[primitive.ObjectID]*models.Order{}}
}

func (f *fakeOrders) Insert(_ context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	o.ID = primitive.NewObjectID()
	stored := *o
	f.orders[o.ID] = &stored
	return nil
}

func (f *fakeOrders) FindByID(_ context.Context, id string) (models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Order{}, models.ErrNotFound
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[oid]
	if !ok {
		return models.Order{}, models.ErrNotFound
	}
	return *o, nil
}

func (f *fakeOrders) DeleteIfCancellable(_ context.Context, id, customerEmail string) (models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Order{}, models.ErrNotFound
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[oid]
	if !ok || o.Customer.Email != customerEmail {
		return models.Order{}, models.ErrNotFound
	}
	if o.Status.Terminal() {
		return models.Order{}, models.ErrConflict
	}
	delete(f.orders, oid)
	return *o, nil
}

func (f *fakeOrders) SetQuantity(_ context.Context, id string, from, to, total int64) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrNotFound
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[oid]
	if !ok {
		return models.ErrNotFound
	}
	if o.Status != models.StatusPending || o.Quantity != from {
		return models.ErrConflict
	}
	o.Quantity = to
	o.Total = total
	return nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id string, from, to models.OrderStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrNotFound
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[oid]
	if !ok {
		return models.ErrNotFound
	}
	if o.Status != from {
		return models.ErrConflict
	}
	o.Status = to
	return nil
}

func (f *fakeOrders) CustomerOrders(context.Context, string) ([]repositories.OrderView, error) {
	return nil, nil
}

func (f *fakeOrders) SellerOrders(context.Context, string) ([]repositories.OrderView, error) {
	return nil, nil
}

type fakeGateway struct {
	mu         sync.Mutex
	declined   bool
	authorized int
}

func (g *fakeGateway) Authorize(_ context.Context, amount int64, _ string) (*payment.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.declined {
		return nil, payment.ErrDeclined
	}
	g.authorized++
	return &payment.Intent{
		ID:           fmt.Sprintf("pi_test_%d", g.authorized),
		ClientSecret: "secret",
		Amount:       amount,
	}, nil
}

var (
	buyer  = models.UserRef{Email: "buyer@example.com", Name: "Buyer"}
	grower = models.UserRef{Email: "grower@example.com", Name: "Grower"}
)

func testPlant(quantity int64) *models.Plant {
	return &models.Plant{
		ID:       primitive.NewObjectID(),
		Name:     "Monstera",
		Category: "Indoor",
		Price:    2500,
		Quantity: quantity,
		Seller:   grower,
	}
}

func TestPlaceOrder(t *testing.T) {
	plant := testPlant(10)
	plants := newFakePlants(plant)
	orders := newFakeOrders()
	gateway := &fakeGateway{}
	svc := services.NewOrderService(orders, plants, gateway)

	order, err := svc.Place(context.Background(), buyer, services.OrderInput{
		PlantID:  plant.ID.Hex(),
		Quantity: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, int64(7500), order.Total)
	assert.Equal(t, int64(2500), order.UnitPrice)
	assert.Equal(t, grower, order.Seller)
	assert.NotEmpty(t, order.PaymentRef)
	assert.Equal(t, int64(7), plants.quantity(plant.ID))
}

func TestPlaceInsufficientStock(t *testing.T) {
	plant := testPlant(2)
	plants := newFakePlants(plant)
	svc := services.NewOrderService(newFakeOrders(), plants, &fakeGateway{})

	_, err := svc.Place(context.Background(), buyer, services.OrderInput{
		PlantID:  plant.ID.Hex(),
		Quantity: 5,
	})
	require.ErrorIs(t, err, models.ErrInsufficientStock)
	assert.Equal(t, int64(2), plants.quantity(plant.ID))
}

func TestPlacePaymentDeclined(t *testing.T) {
	plant := testPlant(10)
	plants := newFakePlants(plant)
	svc := services.NewOrderService(newFakeOrders(), plants, &fakeGateway{declined: true})

	_, err := svc.Place(context.Background(), buyer, services.OrderInput{
		PlantID:  plant.ID.Hex(),
		Quantity: 1,
	})
	require.ErrorIs(t, err, payment.ErrDeclined)
	assert.Equal(t, int64(10), plants.quantity(plant.ID), "declined payment must not touch stock")
}

func TestPlaceOwnPlant(t *testing.T) {
	plant := testPlant(10)
	svc := services.NewOrderService(newFakeOrders(), newFakePlants(plant), &fakeGateway{})

	_, err := svc.Place(context.Background(), grower, services.OrderInput{
		PlantID:  plant.ID.Hex(),
		Quantity: 1,
	})
	require.ErrorIs(t, err, models.ErrConflict)
}

func TestPlaceInsertFailureRestoresStock(t *testing.T) {
	plant := testPlant(10)
	plants := newFakePlants(plant)
	orders := newFakeOrders()
	orders.insertErr = errors.New("write failed")
	svc := services.NewOrderService(orders, plants, &fakeGateway{})

	_, err := svc.Place(context.Background(), buyer, services.OrderInput{
		PlantID:  plant.ID.Hex(),
		Quantity: 4,
	})
	require.Error(t, err)
	assert.Equal(t, int64(10), plants.quantity(plant.ID), "reserved stock must be restored")
}

func TestCancelRestoresStock(t *testing.T) {
	plant := testPlant(10)
	plants := newFakePlants(plant)
	orders := newFakeOrders()
	svc := services.NewOrderService(orders, plants, &fakeGateway{})

	order, err := svc.Place(context.Background(), buyer, services.OrderInput{
		PlantID:  plant.ID.Hex(),
		Quantity: 4,
	})
	require.NoError(t, err)
	require.Equal(t, int64(6), plants.quantity(plant.ID))

	require.NoError(t, svc.Cancel(context.Background(), order.ID.Hex(), buyer.Email))
	assert.Equal(t, int64(10), plants.quantity(plant.ID))
}

func TestCancelDeliveredConflicts(t *testing.T) {
	plant := testPlant(10)
	plants := newFakePlants(plant)
	orders := newFakeOrders()
	svc := services.NewOrderService(orders, plants, &fakeGateway{})

	order, err := svc.Place(context.Background(), buyer, services.OrderInput{
		PlantID:  plant.ID.Hex(),
		Quantity: 1,
	})
	require.NoError(t, err)

	id := order.ID.Hex()
	require.NoError(t, svc.Progress(context.Background(), id, grower.Email, "Processing"))
	require.NoError(t, svc.Progress(context.Background(), id, grower.Email, "Delivered"))

	err = svc.Cancel(context.Background(), id, buyer.Email)
	require.ErrorIs(t, err, models.ErrConflict)
	assert.Equal(t, int64(9), plants.quantity(plant.ID), "delivered order must not restore stock")
}

func TestProgress(t *testing.T) {
	plant := testPlant(10)
	orders := newFakeOrders()
	svc := services.NewOrderService(orders, newFakePlants(plant), &fakeGateway{})

	order, err := svc.Place(context.Background(), buyer, services.OrderInput{
		PlantID:  plant.ID.Hex(),
		Quantity: 1,
	})
	require.NoError(t, err)
	id := order.ID.Hex()

	// Pending cannot jump straight to Delivered.
	err = svc.Progress(context.Background(), id, grower.Email, "Delivered")
	require.ErrorIs(t, err, models.ErrInvalidTransition)

	// Unknown status names are rejected before any lookup matters.
	err = svc.Progress(context.Background(), id, grower.Email, "Shipped")
	require.ErrorIs(t, err, models.ErrBadInput)

	// A different seller cannot see the order.
	err = svc.Progress(context.Background(), id, "other@example.com", "Processing")
	require.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, svc.Progress(context.Background(), id, grower.Email, "Processing"))
	require.NoError(t, svc.Progress(context.Background(), id, grower.Email, "Delivered"))

	// Delivered is terminal.
	err = svc.Progress(context.Background(), id, grower.Email, "Cancelled")
	require.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestAdjustQuantity(t *testing.T) {
	plant := testPlant(10)
	plants := newFakePlants(plant)
	orders := newFakeOrders()
	svc := services.NewOrderService(orders, plants, &fakeGateway{})

	order, err := svc.Place(context.Background(), buyer, services.OrderInput{
		PlantID:  plant.ID.Hex(),
		Quantity: 2,
	})
	require.NoError(t, err)
	id := order.ID.Hex()

	require.NoError(t, svc.AdjustQuantity(context.Background(), id, grower.Email, 5))
	assert.Equal(t, int64(13), plants.quantity(plant.ID))

	require.NoError(t, svc.AdjustQuantity(context.Background(), id, grower.Email, -3))
	assert.Equal(t, int64(10), plants.quantity(plant.ID))

	// Write-offs can never push stock below zero.
	err = svc.AdjustQuantity(context.Background(), id, grower.Email, -50)
	require.ErrorIs(t, err, models.ErrInsufficientStock)
	assert.Equal(t, int64(10), plants.quantity(plant.ID))

	// Strangers cannot see the order.
	err = svc.AdjustQuantity(context.Background(), id, "other@example.com", 1)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestResizePendingOrder(t *testing.T) {
	plant := testPlant(10)
	plants := newFakePlants(plant)
	orders := newFakeOrders()
	svc := services.NewOrderService(orders, plants, &fakeGateway{})

	order, err := svc.Place(context.Background(), buyer, services.OrderInput{
		PlantID:  plant.ID.Hex(),
		Quantity: 2,
	})
	require.NoError(t, err)
	require.Equal(t, int64(8), plants.quantity(plant.ID))
	id := order.ID.Hex()

	// The customer takes three more units; stock moves the other way.
	require.NoError(t, svc.AdjustQuantity(context.Background(), id, buyer.Email, 3))
	assert.Equal(t, int64(5), plants.quantity(plant.ID))

	resized, err := orders.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(5), resized.Quantity)
	assert.Equal(t, int64(5*2500), resized.Total)

	// Shrinking the order puts units back.
	require.NoError(t, svc.AdjustQuantity(context.Background(), id, buyer.Email, -4))
	assert.Equal(t, int64(9), plants.quantity(plant.ID))

	// The order can never shrink to nothing.
	err = svc.AdjustQuantity(context.Background(), id, buyer.Email, -1)
	require.ErrorIs(t, err, models.ErrBadInput)

	// Increases are guarded against stock.
	err = svc.AdjustQuantity(context.Background(), id, buyer.Email, 100)
	require.ErrorIs(t, err, models.ErrInsufficientStock)
	assert.Equal(t, int64(9), plants.quantity(plant.ID))

	// Once the seller starts fulfilling, the size is locked.
	require.NoError(t, svc.Progress(context.Background(), id, grower.Email, "Processing"))
	err = svc.AdjustQuantity(context.Background(), id, buyer.Email, 1)
	require.ErrorIs(t, err, models.ErrConflict)
}

func TestProgressCancelledRestoresStock(t *testing.T) {
	plant := testPlant(10)
	plants := newFakePlants(plant)
	orders := newFakeOrders()
	svc := services.NewOrderService(orders, plants, &fakeGateway{})

	order, err := svc.Place(context.Background(), buyer, services.OrderInput{
		PlantID:  plant.ID.Hex(),
		Quantity: 2,
	})
	require.NoError(t, err)
	require.Equal(t, int64(8), plants.quantity(plant.ID))
	id := order.ID.Hex()

	require.NoError(t, svc.Progress(context.Background(), id, grower.Email, "Cancelled"))
	assert.Equal(t, int64(10), plants.quantity(plant.ID), "seller cancellation must return the units")

	// The customer deleting the already-cancelled order must not
	// restore the units a second time.
	err = svc.Cancel(context.Background(), id, buyer.Email)
	require.ErrorIs(t, err, models.ErrConflict)
	assert.Equal(t, int64(10), plants.quantity(plant.ID))
}

func TestConcurrentPlacementsNeverOversell(t *testing.T) {
	plant := testPlant(5)
	plants := newFakePlants(plant)
	orders := newFakeOrders()
	svc := services.NewOrderService(orders, plants, &fakeGateway{})

	const attempts = 20
	var wg sync.WaitGroup
	errCh := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Place(context.Background(), buyer, services.OrderInput{
				PlantID:  plant.ID.Hex(),
				Quantity: 1,
			})
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	var placed, rejected int
	for err := range errCh {
		switch {
		case err == nil:
			placed++
		case errors.Is(err, models.ErrInsufficientStock):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 5, placed)
	assert.Equal(t, attempts-5, rejected)
	assert.Equal(t, int64(0), plants.quantity(plant.ID))
}
