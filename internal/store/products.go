package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tienda-backend/internal/models"
)

// Products persists the product catalog. Deletion is soft; deleted
// products stay out of every query.
type Products struct {
	db *mongo.Database
}

func NewProducts(db *mongo.Database) *Products {
	return &Products{db: db}
}

func (p *Products) collection() *mongo.Collection {
	return p.db.Collection("products")
}

func (p *Products) FindProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := p.collection().FindOne(ctx, bson.M{
		"_id":       id,
		"isDeleted": bson.M{"$ne": true},
	}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	product.InStock = product.Stock > 0
	return &product, nil
}

func (p *Products) ListProducts(ctx context.Context, onlyActive bool, page, limit int64) ([]models.Product, int64, error) {
	filter := bson.M{"isDeleted": bson.M{"$ne": true}}
	if onlyActive {
		filter["isActive"] = true
	}

	total, err := p.collection().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := p.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	for i := range products {
		products[i].InStock = products[i].Stock > 0
	}
	return products, total, nil
}

func (p *Products) InsertProduct(ctx context.Context, product *models.Product) (primitive.ObjectID, error) {
	res, err := p.collection().InsertOne(ctx, product)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

func (p *Products) UpdateProduct(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Product, error) {
	set["updatedAt"] = time.Now()
	var product models.Product
	err := p.collection().FindOneAndUpdate(ctx,
		bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	product.InStock = product.Stock > 0
	return &product, nil
}

func (p *Products) SoftDeleteProduct(ctx context.Context, id primitive.ObjectID) (bool, error) {
	now := time.Now()
	res, err := p.collection().UpdateOne(ctx,
		bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"isDeleted": true, "isActive": false, "deletedAt": now, "updatedAt": now}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}
