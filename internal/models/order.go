package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is a priced snapshot of a product line at checkout time.
// UnitPrice is tax-inclusive and taken from the client; only product
// existence and stock are re-validated when the order is created.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	UnitPrice float64            `bson:"unitPrice" json:"unitPrice"`
	Subtotal  float64            `bson:"subtotal" json:"subtotal"`
}

// ShippingDetails is embedded on orders whose delivery method requires
// an address, either copied from a saved address or supplied inline.
type ShippingDetails struct {
	RecipientName  string `bson:"recipientName" json:"recipientName"`
	Phone          string `bson:"phone" json:"phone"`
	StreetAddress  string `bson:"streetAddress" json:"streetAddress"`
	PostalCode     string `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
	Neighborhood   string `bson:"neighborhood" json:"neighborhood"`
	City           string `bson:"city" json:"city"`
	AdditionalInfo string `bson:"additionalInfo,omitempty" json:"additionalInfo,omitempty"`
}

// Order is the persisted order document. Total is always derived from
// the items and the discount, never accepted from a caller.
type Order struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CustomerID       primitive.ObjectID  `bson:"customerId" json:"customerId"`
	Items            []OrderItem         `bson:"items" json:"items"`
	Subtotal         float64             `bson:"subtotal" json:"subtotal"`
	TaxRate          float64             `bson:"taxRate" json:"taxRate"`
	TaxAmount        float64             `bson:"taxAmount" json:"taxAmount"`
	DiscountRate     float64             `bson:"discountRate" json:"discountRate"`
	DiscountAmount   float64             `bson:"discountAmount" json:"discountAmount"`
	Total            float64             `bson:"total" json:"total"`
	StatusID         primitive.ObjectID  `bson:"statusId" json:"statusId"`
	PaymentMethodID  *primitive.ObjectID `bson:"paymentMethodId,omitempty" json:"paymentMethodId,omitempty"`
	DeliveryMethodID primitive.ObjectID  `bson:"deliveryMethodId" json:"deliveryMethodId"`
	Shipping         *ShippingDetails    `bson:"shipping,omitempty" json:"shipping,omitempty"`
	CouponCode       string              `bson:"couponCode,omitempty" json:"couponCode,omitempty"`
	Notes            string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt        time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time           `bson:"updatedAt" json:"updatedAt"`
}
