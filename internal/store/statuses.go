package store

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tienda-backend/internal/models"
)

// Statuses persists the order status graph.
type Statuses struct {
	db *mongo.Database
}

func NewStatuses(db *mongo.Database) *Statuses {
	return &Statuses{db: db}
}

func (s *Statuses) collection() *mongo.Collection {
	return s.db.Collection("order_statuses")
}

func (s *Statuses) FindStatusByID(ctx context.Context, id primitive.ObjectID) (*models.OrderStatus, error) {
	var status models.OrderStatus
	err := s.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&status)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (s *Statuses) FindStatusByCode(ctx context.Context, code string) (*models.OrderStatus, error) {
	var status models.OrderStatus
	err := s.collection().FindOne(ctx, bson.M{"code": strings.ToUpper(code)}).Decode(&status)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (s *Statuses) FindDefaultStatus(ctx context.Context) (*models.OrderStatus, error) {
	var status models.OrderStatus
	err := s.collection().FindOne(ctx, bson.M{"isDefault": true}).Decode(&status)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (s *Statuses) ListStatuses(ctx context.Context) ([]models.OrderStatus, error) {
	cursor, err := s.collection().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	statuses := make([]models.OrderStatus, 0)
	if err := cursor.All(ctx, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

func (s *Statuses) InsertStatus(ctx context.Context, status *models.OrderStatus) (primitive.ObjectID, error) {
	res, err := s.collection().InsertOne(ctx, status)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

func (s *Statuses) UpdateStatus(ctx context.Context, id primitive.ObjectID, status *models.OrderStatus) error {
	_, err := s.collection().UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"code":            status.Code,
			"name":            status.Name,
			"description":     status.Description,
			"color":           status.Color,
			"order":           status.Order,
			"isActive":        status.IsActive,
			"canTransitionTo": status.CanTransitionTo,
			"updatedAt":       status.UpdatedAt,
		},
	})
	return err
}

func (s *Statuses) DeleteStatus(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.collection().DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// SetDefaultStatus clears the flag everywhere else and sets it on the
// given status inside one transaction, so two concurrent calls can
// never leave two defaults behind.
func (s *Statuses) SetDefaultStatus(ctx context.Context, id primitive.ObjectID) error {
	session, err := s.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		now := time.Now()
		if _, err := s.collection().UpdateMany(sessCtx,
			bson.M{"_id": bson.M{"$ne": id}, "isDefault": true},
			bson.M{"$set": bson.M{"isDefault": false, "updatedAt": now}},
		); err != nil {
			return nil, err
		}
		res, err := s.collection().UpdateByID(sessCtx, id, bson.M{
			"$set": bson.M{"isDefault": true, "updatedAt": now},
		})
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, mongo.ErrNoDocuments
		}
		return nil, nil
	})
	return err
}
