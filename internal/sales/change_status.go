package sales

import (
	"context"
	"fmt"
	"log"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tienda-backend/internal/models"
)

// ChangeStatus is the single source of truth for order status changes.
// Admin edits, payment-method selection and webhook confirmations all
// funnel through the validation here.
func (s *Service) ChangeStatus(ctx context.Context, orderID, statusID primitive.ObjectID, notes string) (*models.Order, error) {
	_, target, err := s.validateTransition(ctx, orderID, statusID)
	if err != nil {
		return nil, err
	}

	updated, err := s.orders.UpdateOrderStatus(ctx, orderID, target.ID, strings.TrimSpace(notes))
	if err != nil {
		return nil, internalErr("Error al actualizar el estado de la orden", err)
	}
	return updated, nil
}

// validateTransition runs the shared precondition chain: order exists,
// target exists and is active, no-op rejected, graph allows the move.
func (s *Service) validateTransition(ctx context.Context, orderID, statusID primitive.ObjectID) (*models.Order, *models.OrderStatus, error) {
	order, err := s.orders.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, nil, internalErr("Error al buscar la orden", err)
	}
	if order == nil {
		return nil, nil, notFoundf("Orden no encontrada")
	}

	target, err := s.statuses.FindStatusByID(ctx, statusID)
	if err != nil {
		return nil, nil, internalErr("Error al buscar el estado", err)
	}
	if target == nil {
		return nil, nil, notFoundf("Estado no encontrado")
	}
	if !target.IsActive {
		return nil, nil, invalidStatef("El estado '%s' no está activo", target.Code)
	}

	if order.StatusID == target.ID {
		return nil, nil, invalidStatef("La orden ya tiene el estado '%s'", target.Code)
	}

	from, err := s.statuses.FindStatusByID(ctx, order.StatusID)
	if err != nil {
		return nil, nil, internalErr("Error al buscar el estado actual", err)
	}
	if from == nil {
		return nil, nil, internalErr("estado actual de la orden inexistente", nil)
	}
	if !from.AllowsTransitionTo(target.ID) {
		return nil, nil, invalidTransitionf("Transición no permitida de '%s' a '%s'", from.Code, target.Code)
	}

	return order, target, nil
}

// SelectPaymentMethod assigns a payment method to an order and moves
// it to the status the method type dictates.
func (s *Service) SelectPaymentMethod(ctx context.Context, orderID primitive.ObjectID, methodCode, notes string) (*models.Order, error) {
	order, err := s.orders.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, internalErr("Error al buscar la orden", err)
	}
	if order == nil {
		return nil, notFoundf("Orden no encontrada")
	}

	current, err := s.statuses.FindStatusByID(ctx, order.StatusID)
	if err != nil {
		return nil, internalErr("Error al buscar el estado actual", err)
	}
	if current == nil || (current.Code != models.StatusPending && current.Code != models.StatusConfirmed) {
		return nil, invalidStatef("Solo se puede seleccionar el método de pago en estado PENDING o CONFIRMED")
	}

	method, err := s.payments.FindPaymentByCode(ctx, strings.ToUpper(strings.TrimSpace(methodCode)))
	if err != nil {
		return nil, internalErr("Error al buscar el método de pago", err)
	}
	if method == nil {
		return nil, notFoundf("Método de pago '%s' no encontrado", strings.ToUpper(strings.TrimSpace(methodCode)))
	}
	if !method.IsActive {
		return nil, invalidStatef("El método de pago '%s' no está activo", method.Code)
	}

	if err := s.checkPaymentGuards(ctx, order, method); err != nil {
		return nil, err
	}

	nextCode := nextStatusForPayment(method.Type)
	next, err := s.statuses.FindStatusByCode(ctx, nextCode)
	if err != nil {
		return nil, internalErr("Error al buscar el estado destino", err)
	}
	if next == nil {
		return nil, internalErr(fmt.Sprintf("estado '%s' no configurado", nextCode), nil)
	}

	if _, _, err := s.validateTransition(ctx, orderID, next.ID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(notes) == "" {
		notes = "Método de pago seleccionado: " + method.Name
	}

	updated, err := s.orders.UpdateOrderPayment(ctx, orderID, next.ID, method.ID, notes)
	if err != nil {
		return nil, internalErr("Error al actualizar la orden", err)
	}
	return updated, nil
}

// nextStatusForPayment maps a payment method type to the status the
// order moves to on selection.
func nextStatusForPayment(methodType string) string {
	switch methodType {
	case models.PaymentTypeGateway:
		return models.StatusAwaitingPayment
	case models.PaymentTypeCash, models.PaymentTypeTransfer:
		return models.StatusConfirmed
	default:
		return models.StatusPending
	}
}

// checkPaymentGuards enforces the method-specific business rules: cash
// has a ceiling and needs local delivery, the gateway has a minimum.
func (s *Service) checkPaymentGuards(ctx context.Context, order *models.Order, method *models.PaymentMethod) error {
	switch method.Type {
	case models.PaymentTypeCash:
		if order.Total > s.cashCeiling {
			return invalidStatef("Esta orden no es elegible para pago en efectivo")
		}
		delivery, err := s.deliveries.FindDeliveryByID(ctx, order.DeliveryMethodID)
		if err != nil {
			return internalErr("Error al buscar el método de entrega", err)
		}
		if delivery != nil && !delivery.IsLocal {
			return invalidStatef("Esta orden no es elegible para pago en efectivo")
		}
	case models.PaymentTypeGateway:
		if order.Total < s.gatewayMin {
			return invalidStatef("El monto mínimo para Mercado Pago es $%.0f", s.gatewayMin)
		}
	}
	return nil
}

// ConfirmGatewayPayment handles an approved payment notification from
// the gateway, moving the order to CONFIRMED through the transition
// orchestrator. Duplicate notifications are tolerated: an order that
// already reached the status is logged and left alone.
func (s *Service) ConfirmGatewayPayment(ctx context.Context, orderID primitive.ObjectID, reference string) (*models.Order, error) {
	confirmed, err := s.statuses.FindStatusByCode(ctx, models.StatusConfirmed)
	if err != nil {
		return nil, internalErr("Error al buscar el estado destino", err)
	}
	if confirmed == nil {
		return nil, internalErr("estado CONFIRMED no configurado", nil)
	}

	notes := "Pago confirmado por la pasarela"
	if reference != "" {
		notes = fmt.Sprintf("Pago confirmado por la pasarela (ref: %s)", reference)
	}

	order, err := s.ChangeStatus(ctx, orderID, confirmed.ID, notes)
	if err != nil {
		if KindOf(err) == KindInvalidState {
			log.Println("[PAYMENT] [INFO] duplicate gateway confirmation ignored for order:", orderID.Hex())
			return s.orders.FindOrderByID(ctx, orderID)
		}
		return nil, err
	}
	return order, nil
}
