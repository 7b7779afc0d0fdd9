package sales

// Service orchestrates the order lifecycle: creation, status
// transitions and payment method selection. All business invariants
// live here; stores only move documents.
type Service struct {
	products   ProductCatalog
	customers  CustomerDirectory
	coupons    CouponLedger
	deliveries DeliveryMethodCatalog
	payments   PaymentMethodCatalog
	barrios    NeighborhoodCatalog
	statuses   StatusStore
	orders     OrderStore
	notifier   NotificationSink

	cashCeiling float64
	gatewayMin  float64
}

// Config wires the service collaborators and payment limits.
type Config struct {
	Products   ProductCatalog
	Customers  CustomerDirectory
	Coupons    CouponLedger
	Deliveries DeliveryMethodCatalog
	Payments   PaymentMethodCatalog
	Barrios    NeighborhoodCatalog
	Statuses   StatusStore
	Orders     OrderStore
	Notifier   NotificationSink

	CashCeiling      float64
	GatewayMinAmount float64
}

func New(cfg Config) *Service {
	return &Service{
		products:    cfg.Products,
		customers:   cfg.Customers,
		coupons:     cfg.Coupons,
		deliveries:  cfg.Deliveries,
		payments:    cfg.Payments,
		barrios:     cfg.Barrios,
		statuses:    cfg.Statuses,
		orders:      cfg.Orders,
		notifier:    cfg.Notifier,
		cashCeiling: cfg.CashCeiling,
		gatewayMin:  cfg.GatewayMinAmount,
	}
}
