package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is a shipping address owned by a customer. At most one
// address per customer has IsDefault set.
type Address struct {
	ID             string `bson:"id" json:"id"`
	RecipientName  string `bson:"recipientName" json:"recipientName"`
	Phone          string `bson:"phone" json:"phone"`
	StreetAddress  string `bson:"streetAddress" json:"streetAddress"`
	PostalCode     string `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
	Neighborhood   string `bson:"neighborhood" json:"neighborhood"`
	City           string `bson:"city" json:"city"`
	AdditionalInfo string `bson:"additionalInfo,omitempty" json:"additionalInfo,omitempty"`
	Alias          string `bson:"alias,omitempty" json:"alias,omitempty"`
	IsDefault      bool   `bson:"isDefault" json:"isDefault"`
}

// Customer is either linked to a user account (UserID set) or a guest
// created during checkout, recognizable by its synthetic email.
type Customer struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID    *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	Name      string              `bson:"name" json:"name"`
	Email     string              `bson:"email" json:"email"`
	Phone     string              `bson:"phone,omitempty" json:"phone,omitempty"`
	IsActive  bool                `bson:"isActive" json:"isActive"`
	Addresses []Address           `bson:"addresses" json:"addresses"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// IsGuest reports whether the customer has no linked user account.
func (c Customer) IsGuest() bool {
	return c.UserID == nil
}

// User is the authentication account behind a registered customer.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Name         string             `bson:"name" json:"name"`
	Role         string             `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
