package sales

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tienda-backend/internal/models"
)

// Collaborator contracts consumed by the sales service. Lookups return
// (nil, nil) when the record does not exist; the service decides which
// domain error that becomes.

type ProductCatalog interface {
	FindProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
}

type CustomerDirectory interface {
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Customer, error)
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	CreateGuest(ctx context.Context, name, email, phone string) (*models.Customer, error)
	FindAddress(ctx context.Context, customerID primitive.ObjectID, addressID string) (*models.Address, error)
}

type CouponLedger interface {
	FindCouponByCode(ctx context.Context, code string) (*models.Coupon, error)
	IncrementUsage(ctx context.Context, code string) error
}

type DeliveryMethodCatalog interface {
	FindDeliveryByID(ctx context.Context, id primitive.ObjectID) (*models.DeliveryMethod, error)
	FindDeliveryByCode(ctx context.Context, code string) (*models.DeliveryMethod, error)
}

type PaymentMethodCatalog interface {
	FindPaymentByCode(ctx context.Context, code string) (*models.PaymentMethod, error)
}

type NeighborhoodCatalog interface {
	FindNeighborhoodByName(ctx context.Context, name string) (*models.Neighborhood, error)
}

type StatusStore interface {
	FindStatusByID(ctx context.Context, id primitive.ObjectID) (*models.OrderStatus, error)
	FindStatusByCode(ctx context.Context, code string) (*models.OrderStatus, error)
	FindDefaultStatus(ctx context.Context) (*models.OrderStatus, error)
	ListStatuses(ctx context.Context) ([]models.OrderStatus, error)
	InsertStatus(ctx context.Context, status *models.OrderStatus) (primitive.ObjectID, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status *models.OrderStatus) error
	DeleteStatus(ctx context.Context, id primitive.ObjectID) error
	// SetDefaultStatus atomically clears the flag on every other status
	// and sets it on the given one.
	SetDefaultStatus(ctx context.Context, id primitive.ObjectID) error
}

type OrderStore interface {
	FindOrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	// InsertOrder persists the order and decrements product stock in the
	// same transaction. Returns ErrStockConflict when stock ran out.
	InsertOrder(ctx context.Context, order *models.Order) (primitive.ObjectID, error)
	UpdateOrderStatus(ctx context.Context, id, statusID primitive.ObjectID, notes string) (*models.Order, error)
	UpdateOrderPayment(ctx context.Context, id, statusID, paymentMethodID primitive.ObjectID, notes string) (*models.Order, error)
	CountOrdersByStatus(ctx context.Context, statusID primitive.ObjectID) (int64, error)
}

type NotificationSink interface {
	SendOrderNotification(ctx context.Context, order *models.Order, customer *models.Customer) error
}
