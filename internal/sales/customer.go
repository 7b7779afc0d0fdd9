package sales

import (
	"context"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tienda-backend/internal/models"
)

var (
	emailRe      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe      = regexp.MustCompile(`^[0-9+\-\s()]{8,15}$`)
	guestEmailRe = regexp.MustCompile(`^guest_\d+_[a-z0-9]+_[a-z0-9]+_[a-f0-9]+@checkout\.guest$`)
)

// CustomerIdentity is decided once at the API boundary: either a
// registered user id from the JWT or guest contact details from the
// request body. Downstream code never re-derives intent from strings.
type CustomerIdentity struct {
	registered bool
	userID     primitive.ObjectID
	name       string
	email      string
	phone      string
}

func RegisteredIdentity(userID primitive.ObjectID) CustomerIdentity {
	return CustomerIdentity{registered: true, userID: userID}
}

func GuestIdentity(name, email, phone string) CustomerIdentity {
	return CustomerIdentity{
		name:  strings.TrimSpace(name),
		email: strings.ToLower(strings.TrimSpace(email)),
		phone: strings.TrimSpace(phone),
	}
}

func (ci CustomerIdentity) Registered() bool { return ci.registered }

// IsGuestEmail recognizes the synthetic checkout emails. The strict
// form is guest_<ts>_<rand>_<rand>_<token>@checkout.guest; the looser
// suffix/prefix forms cover older clients.
func IsGuestEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if guestEmailRe.MatchString(email) {
		return true
	}
	return strings.HasSuffix(email, "@checkout.guest") || strings.HasPrefix(email, "guest_")
}

// resolveCustomer yields the canonical customer for an identity.
// Registered users must already own a customer profile; a missing one
// is data inconsistency, not a user mistake. Guest checkout reuses an
// existing customer only when its email is recognizably synthetic or
// not bound to a registered account.
func (s *Service) resolveCustomer(ctx context.Context, identity CustomerIdentity) (*models.Customer, error) {
	if identity.registered {
		customer, err := s.customers.FindByUserID(ctx, identity.userID)
		if err != nil {
			return nil, internalErr("Error al buscar el cliente", err)
		}
		if customer == nil {
			return nil, unauthorizedf("Perfil de cliente no encontrado para el usuario autenticado")
		}
		return customer, nil
	}

	if identity.name == "" {
		return nil, invalidInputf("El nombre del cliente es requerido")
	}
	if !emailRe.MatchString(identity.email) {
		return nil, invalidInputf("El email del cliente no es válido")
	}

	existing, err := s.customers.FindByEmail(ctx, identity.email)
	if err != nil {
		return nil, internalErr("Error al buscar el cliente", err)
	}
	if existing != nil {
		if !existing.IsGuest() && !IsGuestEmail(identity.email) {
			return nil, invalidStatef("Email ya registrado. Inicia sesión.")
		}
		return existing, nil
	}

	customer, err := s.customers.CreateGuest(ctx, identity.name, identity.email, identity.phone)
	if err != nil {
		return nil, internalErr("Error al crear el cliente invitado", err)
	}
	return customer, nil
}
