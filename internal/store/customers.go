package store

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"tienda-backend/internal/models"
)

// Customers persists customer profiles with their embedded addresses.
// Addresses live inside the customer document, so the single-default
// invariant is kept by rebuilding the array in one update.
type Customers struct {
	db *mongo.Database
}

func NewCustomers(db *mongo.Database) *Customers {
	return &Customers{db: db}
}

func (c *Customers) collection() *mongo.Collection {
	return c.db.Collection("customers")
}

func (c *Customers) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error) {
	return c.findOne(ctx, bson.M{"_id": id})
}

func (c *Customers) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Customer, error) {
	return c.findOne(ctx, bson.M{"userId": userID})
}

func (c *Customers) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	return c.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (c *Customers) findOne(ctx context.Context, filter bson.M) (*models.Customer, error) {
	var customer models.Customer
	err := c.collection().FindOne(ctx, filter).Decode(&customer)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *Customers) CreateGuest(ctx context.Context, name, email, phone string) (*models.Customer, error) {
	now := time.Now()
	customer := models.Customer{
		Name:      strings.TrimSpace(name),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Phone:     strings.TrimSpace(phone),
		IsActive:  true,
		Addresses: []models.Address{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := c.collection().InsertOne(ctx, customer)
	if err != nil {
		return nil, err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		customer.ID = id
	}
	return &customer, nil
}

func (c *Customers) Insert(ctx context.Context, customer *models.Customer) (primitive.ObjectID, error) {
	res, err := c.collection().InsertOne(ctx, customer)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

func (c *Customers) FindAddress(ctx context.Context, customerID primitive.ObjectID, addressID string) (*models.Address, error) {
	customer, err := c.FindByID(ctx, customerID)
	if err != nil || customer == nil {
		return nil, err
	}
	for _, addr := range customer.Addresses {
		if addr.ID == addressID {
			address := addr
			return &address, nil
		}
	}
	return nil, nil
}

// SaveAddresses replaces the customer's address array. Callers unset
// competing defaults before handing the array in; the single write
// keeps the invariant atomic.
func (c *Customers) SaveAddresses(ctx context.Context, customerID primitive.ObjectID, addresses []models.Address) error {
	_, err := c.collection().UpdateByID(ctx, customerID, bson.M{
		"$set": bson.M{
			"addresses": addresses,
			"updatedAt": time.Now(),
		},
	})
	return err
}
