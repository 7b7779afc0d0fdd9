package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"tienda-backend/internal/models"
)

// EnsureSeedData inserts the baseline status graph and the delivery
// and payment methods when their collections are empty. Existing data
// is never touched, so admin edits survive restarts.
func EnsureSeedData(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := seedStatuses(ctx, db); err != nil {
		return err
	}
	if err := seedDeliveryMethods(ctx, db); err != nil {
		return err
	}
	return seedPaymentMethods(ctx, db)
}

func seedStatuses(ctx context.Context, db *mongo.Database) error {
	col := db.Collection("order_statuses")
	count, err := col.CountDocuments(ctx, bson.M{})
	if err != nil || count > 0 {
		return err
	}

	now := time.Now()
	statuses := []models.OrderStatus{
		{Code: models.StatusPending, Name: "Pendiente", Color: "#ffc107", Order: 0, IsActive: true, IsDefault: true},
		{Code: models.StatusConfirmed, Name: "Confirmada", Color: "#0d6efd", Order: 1, IsActive: true},
		{Code: models.StatusAwaitingPayment, Name: "Esperando pago", Color: "#fd7e14", Order: 2, IsActive: true},
		{Code: models.StatusShipped, Name: "Enviada", Color: "#6610f2", Order: 3, IsActive: true},
		{Code: models.StatusDelivered, Name: "Entregada", Color: "#198754", Order: 4, IsActive: true},
		{Code: models.StatusCancelled, Name: "Cancelada", Color: "#dc3545", Order: 5, IsActive: true},
	}

	docs := make([]interface{}, 0, len(statuses))
	for i := range statuses {
		statuses[i].CanTransitionTo = []primitive.ObjectID{}
		statuses[i].CreatedAt = now
		statuses[i].UpdatedAt = now
		docs = append(docs, statuses[i])
	}

	log.Println("EnsureSeedData: seeding order statuses")
	_, err = col.InsertMany(ctx, docs)
	return err
}

func seedDeliveryMethods(ctx context.Context, db *mongo.Database) error {
	col := db.Collection("delivery_methods")
	count, err := col.CountDocuments(ctx, bson.M{})
	if err != nil || count > 0 {
		return err
	}

	now := time.Now()
	methods := []models.DeliveryMethod{
		{Code: "PICKUP", Name: "Retiro en local", RequiresAddress: false, IsLocal: true, IsActive: true, CreatedAt: now},
		{Code: "DELIVERY", Name: "Envío a domicilio", RequiresAddress: true, IsLocal: true, IsActive: true, CreatedAt: now},
		{Code: "ENVIO_NACIONAL", Name: "Envío nacional", RequiresAddress: true, IsLocal: false, IsActive: true, CreatedAt: now},
	}

	docs := make([]interface{}, 0, len(methods))
	for _, m := range methods {
		docs = append(docs, m)
	}

	log.Println("EnsureSeedData: seeding delivery methods")
	_, err = col.InsertMany(ctx, docs)
	return err
}

func seedPaymentMethods(ctx context.Context, db *mongo.Database) error {
	col := db.Collection("payment_methods")
	count, err := col.CountDocuments(ctx, bson.M{})
	if err != nil || count > 0 {
		return err
	}

	now := time.Now()
	methods := []models.PaymentMethod{
		{Code: "CASH", Name: "Efectivo", Type: models.PaymentTypeCash, IsActive: true, CreatedAt: now},
		{Code: "TRANSFER", Name: "Transferencia bancaria", Type: models.PaymentTypeTransfer, IsActive: true, CreatedAt: now},
		{Code: "MERCADO_PAGO", Name: "Mercado Pago", Type: models.PaymentTypeGateway, IsActive: true, CreatedAt: now},
	}

	docs := make([]interface{}, 0, len(methods))
	for _, m := range methods {
		docs = append(docs, m)
	}

	log.Println("EnsureSeedData: seeding payment methods")
	_, err = col.InsertMany(ctx, docs)
	return err
}
