package store

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tienda-backend/internal/models"
)

// Reference serves the read-mostly lookup data: delivery methods,
// payment methods, neighborhoods and cities.
type Reference struct {
	db *mongo.Database
}

func NewReference(db *mongo.Database) *Reference {
	return &Reference{db: db}
}

func (r *Reference) FindDeliveryByID(ctx context.Context, id primitive.ObjectID) (*models.DeliveryMethod, error) {
	var method models.DeliveryMethod
	err := r.db.Collection("delivery_methods").FindOne(ctx, bson.M{"_id": id}).Decode(&method)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &method, nil
}

func (r *Reference) FindDeliveryByCode(ctx context.Context, code string) (*models.DeliveryMethod, error) {
	var method models.DeliveryMethod
	err := r.db.Collection("delivery_methods").FindOne(ctx, bson.M{"code": strings.ToUpper(code)}).Decode(&method)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &method, nil
}

func (r *Reference) FindPaymentByCode(ctx context.Context, code string) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	err := r.db.Collection("payment_methods").FindOne(ctx, bson.M{"code": strings.ToUpper(code)}).Decode(&method)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &method, nil
}

func (r *Reference) FindNeighborhoodByName(ctx context.Context, name string) (*models.Neighborhood, error) {
	var neighborhood models.Neighborhood
	err := r.db.Collection("neighborhoods").FindOne(ctx, bson.M{
		"name":     strings.TrimSpace(name),
		"isActive": true,
	}).Decode(&neighborhood)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &neighborhood, nil
}

func (r *Reference) ListNeighborhoods(ctx context.Context) ([]models.Neighborhood, error) {
	cursor, err := r.db.Collection("neighborhoods").Find(ctx,
		bson.M{"isActive": true},
		options.Find().SetSort(bson.D{{Key: "city", Value: 1}, {Key: "name", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	neighborhoods := make([]models.Neighborhood, 0)
	if err := cursor.All(ctx, &neighborhoods); err != nil {
		return nil, err
	}
	return neighborhoods, nil
}

func (r *Reference) ListDeliveryMethods(ctx context.Context) ([]models.DeliveryMethod, error) {
	cursor, err := r.db.Collection("delivery_methods").Find(ctx, bson.M{"isActive": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	methods := make([]models.DeliveryMethod, 0)
	if err := cursor.All(ctx, &methods); err != nil {
		return nil, err
	}
	return methods, nil
}

func (r *Reference) ListPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	cursor, err := r.db.Collection("payment_methods").Find(ctx, bson.M{"isActive": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	methods := make([]models.PaymentMethod, 0)
	if err := cursor.All(ctx, &methods); err != nil {
		return nil, err
	}
	return methods, nil
}
