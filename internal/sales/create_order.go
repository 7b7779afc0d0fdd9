package sales

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tienda-backend/internal/models"
)

// CreateOrderItem is one requested line. UnitPrice is tax-inclusive
// and trusted for the order snapshot; only existence and stock are
// re-validated against the catalog.
type CreateOrderItem struct {
	ProductID string
	Quantity  int
	UnitPrice float64
}

// ShippingInput is the inline address form for checkout.
type ShippingInput struct {
	RecipientName  string
	Phone          string
	StreetAddress  string
	PostalCode     string
	Neighborhood   string
	City           string
	AdditionalInfo string
}

// CreateOrderInput carries everything the creation workflow reconciles.
type CreateOrderInput struct {
	Items []CreateOrderItem

	// Guest contact, ignored when the caller is authenticated.
	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	DeliveryMethodCode string
	SelectedAddressID  string
	Shipping           *ShippingInput

	CouponCode   string
	DiscountRate float64
	Notes        string
}

// CreateOrder reconciles customer, items, delivery, coupon and pricing
// into one persisted order with the default status, then fires a
// best-effort notification.
func (s *Service) CreateOrder(ctx context.Context, input CreateOrderInput, userID *primitive.ObjectID) (*models.Order, error) {
	defaultStatus, err := s.statuses.FindDefaultStatus(ctx)
	if err != nil {
		return nil, internalErr("Error al crear la venta", err)
	}
	if defaultStatus == nil {
		return nil, internalErr("Error al crear la venta: no hay un estado por defecto configurado", nil)
	}

	identity := GuestIdentity(input.CustomerName, input.CustomerEmail, input.CustomerPhone)
	if userID != nil {
		identity = RegisteredIdentity(*userID)
	}
	customer, err := s.resolveCustomer(ctx, identity)
	if err != nil {
		return nil, err
	}

	items, productIDs, taxRate, taxAmount, err := s.validateItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	delivery, shipping, err := s.resolveShipping(ctx, input, customer, identity)
	if err != nil {
		return nil, err
	}

	discount := DiscountPolicy{}
	var coupon *models.Coupon
	couponCode := strings.ToUpper(strings.TrimSpace(input.CouponCode))
	switch {
	case couponCode != "":
		discount, coupon, err = s.validateCoupon(ctx, couponCode, productIDs)
		if err != nil {
			return nil, err
		}
	case input.DiscountRate != 0:
		if input.DiscountRate < 0 || input.DiscountRate > 100 {
			return nil, invalidInputf("El descuento debe estar entre 0 y 100")
		}
		discount.Percent = input.DiscountRate
	}

	lines := make([]PriceLine, len(items))
	for i, item := range items {
		lines[i] = PriceLine{Quantity: item.Quantity, UnitPrice: item.UnitPrice}
	}
	totals := ComputeTotals(lines, discount)

	now := time.Now()
	order := &models.Order{
		CustomerID:       customer.ID,
		Items:            items,
		Subtotal:         totals.Subtotal,
		TaxRate:          taxRate,
		TaxAmount:        taxAmount,
		DiscountRate:     discount.Percent,
		DiscountAmount:   totals.DiscountAmount,
		Total:            totals.Total,
		StatusID:         defaultStatus.ID,
		DeliveryMethodID: delivery.ID,
		Shipping:         shipping,
		CouponCode:       couponCode,
		Notes:            strings.TrimSpace(input.Notes),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	orderID, err := s.orders.InsertOrder(ctx, order)
	if err != nil {
		if errors.Is(err, ErrStockConflict) {
			return nil, invalidStatef("Stock insuficiente para completar la venta")
		}
		return nil, internalErr("Error al crear la venta", err)
	}
	order.ID = orderID

	if coupon != nil {
		// The order is already persisted; a failed usage bump is
		// logged, not unwound.
		if err := s.coupons.IncrementUsage(ctx, coupon.Code); err != nil {
			log.Println("[ORDER] [ERROR] coupon usage increment failed:", err)
		}
	}

	if s.notifier != nil {
		if err := s.notifier.SendOrderNotification(ctx, order, customer); err != nil {
			log.Println("[NOTIFY] [ERROR] order notification failed:", err)
		}
	}

	return order, nil
}

// validateItems checks every line against the catalog and builds the
// priced snapshots. Returns the order-level tax rate (uniform across
// products, 0 when mixed) and the tax contained in the subtotal.
func (s *Service) validateItems(ctx context.Context, reqItems []CreateOrderItem) ([]models.OrderItem, []primitive.ObjectID, float64, float64, error) {
	if len(reqItems) == 0 {
		return nil, nil, 0, 0, invalidInputf("La venta debe tener al menos un producto")
	}

	items := make([]models.OrderItem, 0, len(reqItems))
	productIDs := make([]primitive.ObjectID, 0, len(reqItems))
	taxRate := -1.0
	uniformTax := true
	taxAmount := 0.0

	for _, req := range reqItems {
		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.ProductID))
		if err != nil {
			return nil, nil, 0, 0, invalidInputf("Id de producto inválido: %s", req.ProductID)
		}
		if req.Quantity < 1 {
			return nil, nil, 0, 0, invalidInputf("La cantidad debe ser mayor o igual a 1")
		}
		if req.UnitPrice < 0 {
			return nil, nil, 0, 0, invalidInputf("El precio unitario no puede ser negativo")
		}

		product, err := s.products.FindProductByID(ctx, productID)
		if err != nil {
			return nil, nil, 0, 0, internalErr("Error al validar los productos", err)
		}
		if product == nil {
			return nil, nil, 0, 0, notFoundf("Producto con id %s no encontrado", productID.Hex())
		}
		if product.Stock < req.Quantity {
			return nil, nil, 0, 0, invalidStatef(
				"Stock insuficiente para '%s'. Disponible: %d, solicitado: %d",
				product.Name, product.Stock, req.Quantity,
			)
		}

		subtotal := LineSubtotal(req.Quantity, req.UnitPrice)
		items = append(items, models.OrderItem{
			ProductID: productID,
			Name:      product.Name,
			Quantity:  req.Quantity,
			UnitPrice: req.UnitPrice,
			Subtotal:  subtotal,
		})
		productIDs = append(productIDs, productID)
		taxAmount += InclusiveTax(subtotal, product.TaxRate)

		if taxRate < 0 {
			taxRate = product.TaxRate
		} else if taxRate != product.TaxRate {
			uniformTax = false
		}
	}

	if !uniformTax || taxRate < 0 {
		taxRate = 0
	}
	return items, productIDs, taxRate, taxAmount, nil
}

// resolveShipping resolves the delivery method and, when it requires
// an address, exactly one of a saved address or an inline one.
func (s *Service) resolveShipping(ctx context.Context, input CreateOrderInput, customer *models.Customer, identity CustomerIdentity) (*models.DeliveryMethod, *models.ShippingDetails, error) {
	code := strings.ToUpper(strings.TrimSpace(input.DeliveryMethodCode))
	if code == "" {
		return nil, nil, invalidInputf("El método de entrega es requerido")
	}

	delivery, err := s.deliveries.FindDeliveryByCode(ctx, code)
	if err != nil {
		return nil, nil, internalErr("Error al resolver el método de entrega", err)
	}
	if delivery == nil {
		return nil, nil, notFoundf("Método de entrega '%s' no encontrado", code)
	}
	if !delivery.IsActive {
		return nil, nil, invalidStatef("El método de entrega '%s' no está activo", code)
	}

	// Pickup-style methods ignore address fields entirely.
	if !delivery.RequiresAddress {
		return delivery, nil, nil
	}

	hasSaved := strings.TrimSpace(input.SelectedAddressID) != ""
	hasInline := input.Shipping != nil
	if hasSaved && hasInline {
		return nil, nil, invalidInputf("Envía selectedAddressId o los datos de envío, no ambos")
	}
	if !hasSaved && !hasInline {
		return nil, nil, invalidInputf("El método de entrega requiere una dirección")
	}

	if hasSaved {
		if !identity.Registered() {
			return nil, nil, invalidInputf("El checkout de invitado requiere los datos de envío explícitos")
		}
		address, err := s.customers.FindAddress(ctx, customer.ID, strings.TrimSpace(input.SelectedAddressID))
		if err != nil {
			return nil, nil, internalErr("Error al buscar la dirección", err)
		}
		if address == nil {
			return nil, nil, notFoundf("Dirección no encontrada")
		}
		return delivery, &models.ShippingDetails{
			RecipientName:  address.RecipientName,
			Phone:          address.Phone,
			StreetAddress:  address.StreetAddress,
			PostalCode:     address.PostalCode,
			Neighborhood:   address.Neighborhood,
			City:           address.City,
			AdditionalInfo: address.AdditionalInfo,
		}, nil
	}

	shipping, err := s.buildShippingDetails(ctx, *input.Shipping)
	if err != nil {
		return nil, nil, err
	}
	return delivery, shipping, nil
}

func (s *Service) buildShippingDetails(ctx context.Context, in ShippingInput) (*models.ShippingDetails, error) {
	recipient := strings.TrimSpace(in.RecipientName)
	phone := strings.TrimSpace(in.Phone)
	street := strings.TrimSpace(in.StreetAddress)
	barrio := strings.TrimSpace(in.Neighborhood)
	city := strings.TrimSpace(in.City)

	if recipient == "" || street == "" || barrio == "" {
		return nil, invalidInputf("Los datos de envío requieren destinatario, dirección y barrio")
	}
	if !phoneRe.MatchString(phone) {
		return nil, invalidInputf("El teléfono de envío no es válido")
	}

	neighborhood, err := s.barrios.FindNeighborhoodByName(ctx, barrio)
	if err != nil {
		return nil, internalErr("Error al resolver el barrio", err)
	}
	if neighborhood == nil {
		return nil, notFoundf("Barrio '%s' no encontrado", barrio)
	}
	if city == "" {
		city = neighborhood.City
	}

	return &models.ShippingDetails{
		RecipientName:  recipient,
		Phone:          phone,
		StreetAddress:  street,
		PostalCode:     strings.TrimSpace(in.PostalCode),
		Neighborhood:   neighborhood.Name,
		City:           city,
		AdditionalInfo: strings.TrimSpace(in.AdditionalInfo),
	}, nil
}
