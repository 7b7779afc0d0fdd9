package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultStatusColor is used when an admin creates a status without one.
const DefaultStatusColor = "#6c757d"

// Well-known status codes seeded on startup.
const (
	StatusPending         = "PENDING"
	StatusConfirmed       = "CONFIRMED"
	StatusAwaitingPayment = "AWAITING_PAYMENT"
	StatusShipped         = "SHIPPED"
	StatusDelivered       = "DELIVERED"
	StatusCancelled       = "CANCELLED"
)

// OrderStatus is a node of the order status graph. An empty
// CanTransitionTo set means any transition out of this status is
// allowed; otherwise only the listed statuses are legal successors.
type OrderStatus struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Code            string               `bson:"code" json:"code"`
	Name            string               `bson:"name" json:"name"`
	Description     string               `bson:"description,omitempty" json:"description,omitempty"`
	Color           string               `bson:"color" json:"color"`
	Order           int                  `bson:"order" json:"order"`
	IsActive        bool                 `bson:"isActive" json:"isActive"`
	IsDefault       bool                 `bson:"isDefault" json:"isDefault"`
	CanTransitionTo []primitive.ObjectID `bson:"canTransitionTo" json:"canTransitionTo"`
	CreatedAt       time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// AllowsTransitionTo reports whether the graph permits moving from this
// status to the given one. An empty successor set keeps the graph open.
func (s OrderStatus) AllowsTransitionTo(to primitive.ObjectID) bool {
	if len(s.CanTransitionTo) == 0 {
		return true
	}
	for _, id := range s.CanTransitionTo {
		if id == to {
			return true
		}
	}
	return false
}
