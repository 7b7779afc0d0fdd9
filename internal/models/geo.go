package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// City is reference data for address resolution.
type City struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	IsActive bool               `bson:"isActive" json:"isActive"`
}

// Neighborhood belongs to a city; addresses reference neighborhoods by
// name and derive their city from it when the client omits one.
type Neighborhood struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	City     string             `bson:"city" json:"city"`
	IsActive bool               `bson:"isActive" json:"isActive"`
}
