package sales

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tienda-backend/internal/models"
)

// In-memory fakes for the collaborator contracts. They mirror the
// store semantics closely enough for orchestrator tests, including the
// atomic clear-then-set of the default status flag.

type fakeProducts struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]models.Product
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{products: make(map[primitive.ObjectID]models.Product)}
}

func (f *fakeProducts) add(name string, price float64, taxRate float64, stock int) primitive.ObjectID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := primitive.NewObjectID()
	f.products[id] = models.Product{ID: id, Name: name, Price: price, TaxRate: taxRate, Stock: stock, IsActive: true}
	return id
}

func (f *fakeProducts) FindProductByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.products[id]; ok {
		product := p
		return &product, nil
	}
	return nil, nil
}

type fakeCustomers struct {
	mu        sync.Mutex
	customers map[primitive.ObjectID]models.Customer
}

func newFakeCustomers() *fakeCustomers {
	return &fakeCustomers{customers: make(map[primitive.ObjectID]models.Customer)}
}

func (f *fakeCustomers) add(customer models.Customer) primitive.ObjectID {
	f.mu.Lock()
	defer f.mu.Unlock()
	if customer.ID.IsZero() {
		customer.ID = primitive.NewObjectID()
	}
	f.customers[customer.ID] = customer
	return customer.ID
}

func (f *fakeCustomers) FindByUserID(_ context.Context, userID primitive.ObjectID) (*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.customers {
		if c.UserID != nil && *c.UserID == userID {
			customer := c
			return &customer, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomers) FindByEmail(_ context.Context, email string) (*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = strings.ToLower(email)
	for _, c := range f.customers {
		if c.Email == email {
			customer := c
			return &customer, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomers) CreateGuest(_ context.Context, name, email, phone string) (*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	customer := models.Customer{
		ID:       primitive.NewObjectID(),
		Name:     name,
		Email:    strings.ToLower(email),
		Phone:    phone,
		IsActive: true,
	}
	f.customers[customer.ID] = customer
	return &customer, nil
}

func (f *fakeCustomers) FindAddress(_ context.Context, customerID primitive.ObjectID, addressID string) (*models.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	customer, ok := f.customers[customerID]
	if !ok {
		return nil, nil
	}
	for _, addr := range customer.Addresses {
		if addr.ID == addressID {
			address := addr
			return &address, nil
		}
	}
	return nil, nil
}

type fakeCoupons struct {
	mu      sync.Mutex
	coupons map[string]models.Coupon
	usage   map[string]int
}

func newFakeCoupons() *fakeCoupons {
	return &fakeCoupons{coupons: make(map[string]models.Coupon), usage: make(map[string]int)}
}

func (f *fakeCoupons) add(coupon models.Coupon) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.coupons[coupon.Code] = coupon
}

func (f *fakeCoupons) FindCouponByCode(_ context.Context, code string) (*models.Coupon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.coupons[strings.ToUpper(code)]; ok {
		coupon := c
		return &coupon, nil
	}
	return nil, nil
}

func (f *fakeCoupons) IncrementUsage(_ context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.usage[strings.ToUpper(code)]++
	return nil
}

type fakeReference struct {
	deliveries    map[string]models.DeliveryMethod
	payments      map[string]models.PaymentMethod
	neighborhoods map[string]models.Neighborhood
}

func newFakeReference() *fakeReference {
	return &fakeReference{
		deliveries:    make(map[string]models.DeliveryMethod),
		payments:      make(map[string]models.PaymentMethod),
		neighborhoods: make(map[string]models.Neighborhood),
	}
}

func (f *fakeReference) addDelivery(code string, requiresAddress, isLocal bool) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.deliveries[code] = models.DeliveryMethod{
		ID: id, Code: code, Name: code,
		RequiresAddress: requiresAddress, IsLocal: isLocal, IsActive: true,
	}
	return id
}

func (f *fakeReference) addPayment(code, name, methodType string) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.payments[code] = models.PaymentMethod{ID: id, Code: code, Name: name, Type: methodType, IsActive: true}
	return id
}

func (f *fakeReference) addNeighborhood(name, city string) {
	f.neighborhoods[name] = models.Neighborhood{ID: primitive.NewObjectID(), Name: name, City: city, IsActive: true}
}

func (f *fakeReference) FindDeliveryByID(_ context.Context, id primitive.ObjectID) (*models.DeliveryMethod, error) {
	for _, m := range f.deliveries {
		if m.ID == id {
			method := m
			return &method, nil
		}
	}
	return nil, nil
}

func (f *fakeReference) FindDeliveryByCode(_ context.Context, code string) (*models.DeliveryMethod, error) {
	if m, ok := f.deliveries[strings.ToUpper(code)]; ok {
		method := m
		return &method, nil
	}
	return nil, nil
}

func (f *fakeReference) FindPaymentByCode(_ context.Context, code string) (*models.PaymentMethod, error) {
	if m, ok := f.payments[strings.ToUpper(code)]; ok {
		method := m
		return &method, nil
	}
	return nil, nil
}

func (f *fakeReference) FindNeighborhoodByName(_ context.Context, name string) (*models.Neighborhood, error) {
	if n, ok := f.neighborhoods[strings.TrimSpace(name)]; ok {
		neighborhood := n
		return &neighborhood, nil
	}
	return nil, nil
}

type fakeStatuses struct {
	mu       sync.Mutex
	statuses map[primitive.ObjectID]models.OrderStatus
}

func newFakeStatuses() *fakeStatuses {
	return &fakeStatuses{statuses: make(map[primitive.ObjectID]models.OrderStatus)}
}

func (f *fakeStatuses) add(code string, isDefault, isActive bool, canTransitionTo ...primitive.ObjectID) primitive.ObjectID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := primitive.NewObjectID()
	f.statuses[id] = models.OrderStatus{
		ID: id, Code: code, Name: code, Color: models.DefaultStatusColor,
		IsActive: isActive, IsDefault: isDefault, CanTransitionTo: canTransitionTo,
	}
	return id
}

func (f *fakeStatuses) FindStatusByID(_ context.Context, id primitive.ObjectID) (*models.OrderStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.statuses[id]; ok {
		status := s
		return &status, nil
	}
	return nil, nil
}

func (f *fakeStatuses) FindStatusByCode(_ context.Context, code string) (*models.OrderStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.statuses {
		if s.Code == strings.ToUpper(code) {
			status := s
			return &status, nil
		}
	}
	return nil, nil
}

func (f *fakeStatuses) FindDefaultStatus(_ context.Context) (*models.OrderStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.statuses {
		if s.IsDefault {
			status := s
			return &status, nil
		}
	}
	return nil, nil
}

func (f *fakeStatuses) ListStatuses(_ context.Context) ([]models.OrderStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := make([]models.OrderStatus, 0, len(f.statuses))
	for _, s := range f.statuses {
		list = append(list, s)
	}
	return list, nil
}

func (f *fakeStatuses) InsertStatus(_ context.Context, status *models.OrderStatus) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := primitive.NewObjectID()
	saved := *status
	saved.ID = id
	f.statuses[id] = saved
	return id, nil
}

func (f *fakeStatuses) UpdateStatus(_ context.Context, id primitive.ObjectID, status *models.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.statuses[id]
	if !ok {
		return nil
	}
	saved := *status
	saved.ID = id
	saved.IsDefault = current.IsDefault
	f.statuses[id] = saved
	return nil
}

func (f *fakeStatuses) DeleteStatus(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.statuses, id)
	return nil
}

func (f *fakeStatuses) SetDefaultStatus(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, s := range f.statuses {
		s.IsDefault = key == id
		f.statuses[key] = s
	}
	return nil
}

func (f *fakeStatuses) defaultCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, s := range f.statuses {
		if s.IsDefault {
			count++
		}
	}
	return count
}

type fakeOrders struct {
	mu        sync.Mutex
	orders    map[primitive.ObjectID]models.Order
	insertErr error
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: make(map[primitive.ObjectID]models.Order)}
}

func (f *fakeOrders) add(order models.Order) primitive.ObjectID {
	f.mu.Lock()
	defer f.mu.Unlock()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	f.orders[order.ID] = order
	return order.ID
}

func (f *fakeOrders) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

func (f *fakeOrders) FindOrderByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.orders[id]; ok {
		order := o
		return &order, nil
	}
	return nil, nil
}

func (f *fakeOrders) InsertOrder(_ context.Context, order *models.Order) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return primitive.NilObjectID, f.insertErr
	}
	id := primitive.NewObjectID()
	saved := *order
	saved.ID = id
	f.orders[id] = saved
	return id, nil
}

func (f *fakeOrders) UpdateOrderStatus(_ context.Context, id, statusID primitive.ObjectID, notes string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	order.StatusID = statusID
	if notes != "" {
		order.Notes = notes
	}
	order.UpdatedAt = time.Now()
	f.orders[id] = order
	result := order
	return &result, nil
}

func (f *fakeOrders) UpdateOrderPayment(_ context.Context, id, statusID, paymentMethodID primitive.ObjectID, notes string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	order.StatusID = statusID
	order.PaymentMethodID = &paymentMethodID
	if notes != "" {
		order.Notes = notes
	}
	order.UpdatedAt = time.Now()
	f.orders[id] = order
	result := order
	return &result, nil
}

func (f *fakeOrders) CountOrdersByStatus(_ context.Context, statusID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, o := range f.orders {
		if o.StatusID == statusID {
			count++
		}
	}
	return count, nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeNotifier) SendOrderNotification(_ context.Context, _ *models.Order, _ *models.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeNotifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// testEnv bundles the service and its fakes with a seeded status graph
// and reference data.
type testEnv struct {
	svc       *Service
	products  *fakeProducts
	customers *fakeCustomers
	coupons   *fakeCoupons
	reference *fakeReference
	statuses  *fakeStatuses
	orders    *fakeOrders
	notifier  *fakeNotifier

	pending   primitive.ObjectID
	confirmed primitive.ObjectID
	awaiting  primitive.ObjectID
	shipped   primitive.ObjectID
	delivered primitive.ObjectID
	cancelled primitive.ObjectID
}

func newTestEnv() *testEnv {
	env := &testEnv{
		products:  newFakeProducts(),
		customers: newFakeCustomers(),
		coupons:   newFakeCoupons(),
		reference: newFakeReference(),
		statuses:  newFakeStatuses(),
		orders:    newFakeOrders(),
		notifier:  &fakeNotifier{},
	}

	env.pending = env.statuses.add(models.StatusPending, true, true)
	env.confirmed = env.statuses.add(models.StatusConfirmed, false, true)
	env.awaiting = env.statuses.add(models.StatusAwaitingPayment, false, true)
	env.delivered = env.statuses.add(models.StatusDelivered, false, true)
	env.shipped = env.statuses.add(models.StatusShipped, false, true, env.delivered)
	env.cancelled = env.statuses.add(models.StatusCancelled, false, true)

	env.reference.addDelivery("PICKUP", false, true)
	env.reference.addDelivery("DELIVERY", true, true)
	env.reference.addDelivery("ENVIO_NACIONAL", true, false)
	env.reference.addPayment("CASH", "Efectivo", models.PaymentTypeCash)
	env.reference.addPayment("TRANSFER", "Transferencia bancaria", models.PaymentTypeTransfer)
	env.reference.addPayment("MERCADO_PAGO", "Mercado Pago", models.PaymentTypeGateway)
	env.reference.addNeighborhood("Centro", "Córdoba")

	env.svc = New(Config{
		Products:         env.products,
		Customers:        env.customers,
		Coupons:          env.coupons,
		Deliveries:       env.reference,
		Payments:         env.reference,
		Barrios:          env.reference,
		Statuses:         env.statuses,
		Orders:           env.orders,
		Notifier:         env.notifier,
		CashCeiling:      5000,
		GatewayMinAmount: 100,
	})
	return env
}
