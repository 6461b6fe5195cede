package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/plantnet/app/models"
)

// OrderRepository handles database operations for Order documents.
// Status changes are conditional single-document updates keyed on the
// current status, which keeps racing updates from skipping states.
type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection("orders")}
}

// Insert persists a new order and fills in its generated ID.
func (r *OrderRepository) Insert(ctx context.Context, order *models.Order) error {
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	res, err := r.col.InsertOne(ctx, order)
	if err != nil {
		return err
	}
	order.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID looks up an order by its ObjectID hex string.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Order{}, models.ErrNotFound
	}
	var order models.Order
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, models.ErrNotFound
	}
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// DeleteIfCancellable removes the customer's order while it is still
// Pending or Processing, returning the deleted document so stock can
// be restored. Terminal orders return ErrConflict: Delivered because
// it is immutable, Cancelled because its stock already went back.
func (r *OrderRepository) DeleteIfCancellable(ctx context.Context, id, customerEmail string) (models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Order{}, models.ErrNotFound
	}
	filter := bson.M{
		"_id":            oid,
		"customer.email": customerEmail,
		"status":         bson.M{"$in": bson.A{models.StatusPending, models.StatusProcessing}},
	}

	var order models.Order
	err = r.col.FindOneAndDelete(ctx, filter).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Distinguish missing from terminal.
		count, cerr := r.col.CountDocuments(ctx,
			bson.M{"_id": oid, "customer.email": customerEmail})
		if cerr != nil {
			return models.Order{}, cerr
		}
		if count > 0 {
			return models.Order{}, models.ErrConflict
		}
		return models.Order{}, models.ErrNotFound
	}
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// UpdateStatus moves the order from one status to another. The current
// status rides in the filter, so a concurrent transition loses cleanly
// with ErrConflict instead of overwriting.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrNotFound
	}
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "status": from},
		bson.M{"$set": bson.M{"status": to}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		count, cerr := r.col.CountDocuments(ctx, bson.M{"_id": oid})
		if cerr != nil {
			return cerr
		}
		if count > 0 {
			return models.ErrConflict
		}
		return models.ErrNotFound
	}
	return nil
}

// SetQuantity resizes a pending order. The expected current quantity
// rides in the filter alongside the Pending status, so a concurrent
// resize or transition loses with ErrConflict instead of clobbering.
func (r *OrderRepository) SetQuantity(ctx context.Context, id string, from, to, total int64) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrNotFound
	}
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "status": models.StatusPending, "quantity": from},
		bson.M{"$set": bson.M{"quantity": to, "price": total}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		count, cerr := r.col.CountDocuments(ctx, bson.M{"_id": oid})
		if cerr != nil {
			return cerr
		}
		if count > 0 {
			return models.ErrConflict
		}
		return models.ErrNotFound
	}
	return nil
}

// OrderView is an order joined with its plant document for list pages.
type OrderView struct {
	models.Order `bson:",inline"`
	Name         string `bson:"name"     json:"name"`
	Image        string `bson:"image"    json:"image"`
	Category     string `bson:"category" json:"category"`
}

// CustomerOrders returns the customer's orders with plant name, image
// and category joined in, newest first.
func (r *OrderRepository) CustomerOrders(ctx context.Context, email string) ([]OrderView, error) {
	return r.joinedOrders(ctx, bson.D{{Key: "customer.email", Value: email}})
}

// SellerOrders returns the orders placed against a seller's plants,
// newest first.
func (r *OrderRepository) SellerOrders(ctx context.Context, email string) ([]OrderView, error) {
	return r.joinedOrders(ctx, bson.D{{Key: "seller.email", Value: email}})
}

func (r *OrderRepository) joinedOrders(ctx context.Context, match bson.D) ([]OrderView, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "plants"},
			{Key: "localField", Value: "plantId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "plants"},
		}}},
		// Inner join: orders whose plant was deleted drop out of the view.
		{{Key: "$unwind", Value: "$plants"}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "name", Value: "$plants.name"},
			{Key: "image", Value: "$plants.image"},
			{Key: "category", Value: "$plants.category"},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "plants", Value: 0},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	views := []OrderView{}
	if err := cur.All(ctx, &views); err != nil {
		return nil, err
	}
	return views, nil
}

// ChartPoint is one day of order volume for the admin dashboard:
// summed quantity, summed price and order count.
type ChartPoint struct {
	Date     string `bson:"date"     json:"date"`
	Quantity int64  `bson:"quantity" json:"quantity"`
	Orders   int64  `bson:"order"    json:"order"`
	Price    int64  `bson:"price"    json:"price"`
}

// Stats aggregates marketplace totals and a per-day chart for admins.
func (r *OrderRepository) Stats(ctx context.Context, users, plants *mongo.Collection) (map[string]any, error) {
	totalUsers, err := users.EstimatedDocumentCount(ctx)
	if err != nil {
		return nil, err
	}
	totalPlants, err := plants.EstimatedDocumentCount(ctx)
	if err != nil {
		return nil, err
	}
	totalOrders, err := r.col.EstimatedDocumentCount(ctx)
	if err != nil {
		return nil, err
	}

	var totalRevenue int64
	revCur, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$price"}}},
		}}},
	})
	if err != nil {
		return nil, err
	}
	var revRows []struct {
		Revenue int64 `bson:"revenue"`
	}
	if err := revCur.All(ctx, &revRows); err != nil {
		return nil, err
	}
	if len(revRows) > 0 {
		totalRevenue = revRows[0].Revenue
	}

	chartCur, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "$dateToString", Value: bson.D{
					{Key: "format", Value: "%Y-%m-%d"},
					{Key: "date", Value: "$createdAt"},
				}},
			}},
			{Key: "quantity", Value: bson.D{{Key: "$sum", Value: "$quantity"}}},
			{Key: "order", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "price", Value: bson.D{{Key: "$sum", Value: "$price"}}},
		}}},
		{{Key: "$addFields", Value: bson.D{{Key: "date", Value: "$_id"}}}},
		{{Key: "$project", Value: bson.D{{Key: "_id", Value: 0}}}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: -1}}}},
	})
	if err != nil {
		return nil, err
	}
	chart := []ChartPoint{}
	if err := chartCur.All(ctx, &chart); err != nil {
		return nil, err
	}

	return map[string]any{
		"totalUsers":   totalUsers,
		"totalPlants":  totalPlants,
		"totalOrders":  totalOrders,
		"totalRevenue": totalRevenue,
		"chartData":    chart,
	}, nil
}
