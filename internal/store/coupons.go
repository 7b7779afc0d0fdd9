package store

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"tienda-backend/internal/models"
)

// Coupons persists discount vouchers.
type Coupons struct {
	db *mongo.Database
}

func NewCoupons(db *mongo.Database) *Coupons {
	return &Coupons{db: db}
}

func (c *Coupons) collection() *mongo.Collection {
	return c.db.Collection("coupons")
}

func (c *Coupons) FindCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := c.collection().FindOne(ctx, bson.M{"code": strings.ToUpper(strings.TrimSpace(code))}).Decode(&coupon)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (c *Coupons) IncrementUsage(ctx context.Context, code string) error {
	_, err := c.collection().UpdateOne(ctx,
		bson.M{"code": strings.ToUpper(strings.TrimSpace(code))},
		bson.M{"$inc": bson.M{"usageCount": 1}, "$set": bson.M{"updatedAt": time.Now()}},
	)
	return err
}
