package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Coupon discount types.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Coupon is a discount voucher. An empty ProductIDs list means the
// coupon applies storewide.
type Coupon struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Code          string               `bson:"code" json:"code"`
	DiscountType  string               `bson:"discountType" json:"discountType"`
	DiscountValue float64              `bson:"discountValue" json:"discountValue"`
	ValidFrom     *time.Time           `bson:"validFrom,omitempty" json:"validFrom,omitempty"`
	ValidUntil    *time.Time           `bson:"validUntil,omitempty" json:"validUntil,omitempty"`
	UsageLimit    *int                 `bson:"usageLimit,omitempty" json:"usageLimit,omitempty"`
	UsageCount    int                  `bson:"usageCount" json:"usageCount"`
	ProductIDs    []primitive.ObjectID `bson:"productIds,omitempty" json:"productIds,omitempty"`
	IsActive      bool                 `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// IsValidAt reports whether the coupon is active and inside its
// validity window at the given instant.
func (c Coupon) IsValidAt(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return false
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return false
	}
	return true
}

// IsExhausted reports whether the usage limit has been reached.
func (c Coupon) IsExhausted() bool {
	return c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit
}
