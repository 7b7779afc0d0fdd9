package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tienda-backend/internal/models"
	"tienda-backend/internal/sales"
)

// Orders persists order documents.
type Orders struct {
	db *mongo.Database
}

func NewOrders(db *mongo.Database) *Orders {
	return &Orders{db: db}
}

func (o *Orders) collection() *mongo.Collection {
	return o.db.Collection("orders")
}

func (o *Orders) FindOrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := o.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// InsertOrder decrements stock for every line and inserts the order in
// one transaction. The conditional stock filter is what actually
// guards against concurrent purchases; the service's earlier check
// only produces a friendlier message.
func (o *Orders) InsertOrder(ctx context.Context, order *models.Order) (primitive.ObjectID, error) {
	session, err := o.db.Client().StartSession()
	if err != nil {
		return primitive.NilObjectID, err
	}
	defer session.EndSession(ctx)

	var orderID primitive.ObjectID
	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		for _, item := range order.Items {
			filter := bson.M{
				"_id":       item.ProductID,
				"isDeleted": bson.M{"$ne": true},
				"stock":     bson.M{"$gte": item.Quantity},
			}
			update := bson.M{"$inc": bson.M{"stock": -item.Quantity}}

			res, err := o.db.Collection("products").UpdateOne(sessCtx, filter, update)
			if err != nil {
				return nil, err
			}
			if res.MatchedCount == 0 {
				return nil, fmt.Errorf("product %s: %w", item.ProductID.Hex(), sales.ErrStockConflict)
			}
		}

		res, err := o.collection().InsertOne(sessCtx, order)
		if err != nil {
			return nil, err
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			orderID = id
		}
		return nil, nil
	})
	if err != nil {
		return primitive.NilObjectID, err
	}
	return orderID, nil
}

func (o *Orders) UpdateOrderStatus(ctx context.Context, id, statusID primitive.ObjectID, notes string) (*models.Order, error) {
	set := bson.M{"statusId": statusID, "updatedAt": time.Now()}
	if notes != "" {
		set["notes"] = notes
	}
	return o.findOneAndSet(ctx, id, set)
}

func (o *Orders) UpdateOrderPayment(ctx context.Context, id, statusID, paymentMethodID primitive.ObjectID, notes string) (*models.Order, error) {
	set := bson.M{
		"statusId":        statusID,
		"paymentMethodId": paymentMethodID,
		"updatedAt":       time.Now(),
	}
	if notes != "" {
		set["notes"] = notes
	}
	return o.findOneAndSet(ctx, id, set)
}

func (o *Orders) findOneAndSet(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Order, error) {
	var order models.Order
	err := o.collection().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (o *Orders) CountOrdersByStatus(ctx context.Context, statusID primitive.ObjectID) (int64, error) {
	return o.collection().CountDocuments(ctx, bson.M{"statusId": statusID})
}

// ListOrders returns a page of orders, newest first, with the total
// count for pagination.
func (o *Orders) ListOrders(ctx context.Context, filter bson.M, page, limit int64) ([]models.Order, int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	total, err := o.collection().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := o.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}
