package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment method types. The type decides the status an order moves to
// when the method is selected.
const (
	PaymentTypeCash     = "cash"
	PaymentTypeTransfer = "transfer"
	PaymentTypeGateway  = "gateway"
)

// DeliveryMethod describes how an order reaches the customer.
// RequiresAddress drives shipping-address resolution at checkout;
// IsLocal gates cash payment eligibility.
type DeliveryMethod struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code            string             `bson:"code" json:"code"`
	Name            string             `bson:"name" json:"name"`
	RequiresAddress bool               `bson:"requiresAddress" json:"requiresAddress"`
	IsLocal         bool               `bson:"isLocal" json:"isLocal"`
	IsActive        bool               `bson:"isActive" json:"isActive"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

// PaymentMethod is a way of paying for an order.
type PaymentMethod struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code      string             `bson:"code" json:"code"`
	Name      string             `bson:"name" json:"name"`
	Type      string             `bson:"type" json:"type"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
