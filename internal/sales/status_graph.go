package sales

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tienda-backend/internal/models"
)

var (
	statusCodeRe  = regexp.MustCompile(`^[A-Z][A-Z0-9_]+$`)
	statusColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// StatusInput is the admin-facing shape for creating or updating an
// order status. CanTransitionTo accepts status codes or hex ids; they
// are resolved to ids once, here, so the persisted graph is id-based.
type StatusInput struct {
	Code            string
	Name            string
	Description     string
	Color           string
	Order           int
	IsActive        bool
	IsDefault       bool
	CanTransitionTo []string
}

func (s *Service) buildStatus(ctx context.Context, input StatusInput, selfID primitive.ObjectID) (*models.OrderStatus, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if !statusCodeRe.MatchString(code) {
		return nil, invalidInputf("El código debe ser mayúsculas, mínimo 2 caracteres")
	}

	color := strings.TrimSpace(input.Color)
	if color == "" {
		color = models.DefaultStatusColor
	}
	if !statusColorRe.MatchString(color) {
		return nil, invalidInputf("El color debe tener formato #RRGGBB")
	}

	if input.Order < 0 {
		return nil, invalidInputf("El orden debe ser mayor o igual a 0")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, invalidInputf("El nombre es requerido")
	}

	targets, err := s.resolveTransitionTargets(ctx, input.CanTransitionTo, selfID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &models.OrderStatus{
		Code:            code,
		Name:            strings.TrimSpace(input.Name),
		Description:     strings.TrimSpace(input.Description),
		Color:           color,
		Order:           input.Order,
		IsActive:        input.IsActive,
		IsDefault:       input.IsDefault,
		CanTransitionTo: targets,
		UpdatedAt:       now,
	}, nil
}

// resolveTransitionTargets turns human-entered codes or ids into status
// ids, rejecting unknown references and self-transitions.
func (s *Service) resolveTransitionTargets(ctx context.Context, refs []string, selfID primitive.ObjectID) ([]primitive.ObjectID, error) {
	targets := make([]primitive.ObjectID, 0, len(refs))
	seen := make(map[primitive.ObjectID]bool, len(refs))

	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}

		var status *models.OrderStatus
		var err error
		if id, idErr := primitive.ObjectIDFromHex(ref); idErr == nil {
			status, err = s.statuses.FindStatusByID(ctx, id)
		} else {
			status, err = s.statuses.FindStatusByCode(ctx, strings.ToUpper(ref))
		}
		if err != nil {
			return nil, internalErr("Error al resolver transiciones", err)
		}
		if status == nil {
			return nil, notFoundf("Estado de transición '%s' no encontrado", ref)
		}
		if !selfID.IsZero() && status.ID == selfID {
			return nil, invalidInputf("Un estado no puede transicionar a sí mismo")
		}
		if !seen[status.ID] {
			seen[status.ID] = true
			targets = append(targets, status.ID)
		}
	}
	return targets, nil
}

// CreateStatus adds a node to the status graph.
func (s *Service) CreateStatus(ctx context.Context, input StatusInput) (*models.OrderStatus, error) {
	status, err := s.buildStatus(ctx, input, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}

	existing, err := s.statuses.FindStatusByCode(ctx, status.Code)
	if err != nil {
		return nil, internalErr("Error al crear el estado", err)
	}
	if existing != nil {
		return nil, invalidStatef("Ya existe un estado con código '%s'", status.Code)
	}

	status.CreatedAt = status.UpdatedAt
	status.IsDefault = false
	id, err := s.statuses.InsertStatus(ctx, status)
	if err != nil {
		return nil, internalErr("Error al crear el estado", err)
	}
	status.ID = id

	if input.IsDefault {
		if err := s.statuses.SetDefaultStatus(ctx, id); err != nil {
			return nil, internalErr("Error al asignar el estado por defecto", err)
		}
		status.IsDefault = true
	}
	return status, nil
}

// EditStatus updates a node, re-resolving transition targets.
func (s *Service) EditStatus(ctx context.Context, id primitive.ObjectID, input StatusInput) (*models.OrderStatus, error) {
	current, err := s.statuses.FindStatusByID(ctx, id)
	if err != nil {
		return nil, internalErr("Error al actualizar el estado", err)
	}
	if current == nil {
		return nil, notFoundf("Estado no encontrado")
	}

	status, err := s.buildStatus(ctx, input, id)
	if err != nil {
		return nil, err
	}

	if status.Code != current.Code {
		clash, err := s.statuses.FindStatusByCode(ctx, status.Code)
		if err != nil {
			return nil, internalErr("Error al actualizar el estado", err)
		}
		if clash != nil && clash.ID != id {
			return nil, invalidStatef("Ya existe un estado con código '%s'", status.Code)
		}
	}

	status.ID = id
	status.CreatedAt = current.CreatedAt
	status.IsDefault = current.IsDefault
	if err := s.statuses.UpdateStatus(ctx, id, status); err != nil {
		return nil, internalErr("Error al actualizar el estado", err)
	}

	if input.IsDefault && !current.IsDefault {
		if err := s.statuses.SetDefaultStatus(ctx, id); err != nil {
			return nil, internalErr("Error al asignar el estado por defecto", err)
		}
		status.IsDefault = true
	}
	return status, nil
}

// SetDefaultStatus marks one status as the default for new orders,
// clearing the flag everywhere else atomically.
func (s *Service) SetDefaultStatus(ctx context.Context, id primitive.ObjectID) error {
	status, err := s.statuses.FindStatusByID(ctx, id)
	if err != nil {
		return internalErr("Error al asignar el estado por defecto", err)
	}
	if status == nil {
		return notFoundf("Estado no encontrado")
	}
	if !status.IsActive {
		return invalidStatef("El estado '%s' no está activo", status.Code)
	}
	if err := s.statuses.SetDefaultStatus(ctx, id); err != nil {
		return internalErr("Error al asignar el estado por defecto", err)
	}
	return nil
}

// RemoveStatus deletes a node. Blocked while any order references the
// status or while it is the default.
func (s *Service) RemoveStatus(ctx context.Context, id primitive.ObjectID) error {
	status, err := s.statuses.FindStatusByID(ctx, id)
	if err != nil {
		return internalErr("Error al eliminar el estado", err)
	}
	if status == nil {
		return notFoundf("Estado no encontrado")
	}
	if status.IsDefault {
		return invalidStatef("No se puede eliminar el estado por defecto")
	}

	count, err := s.orders.CountOrdersByStatus(ctx, id)
	if err != nil {
		return internalErr("Error al eliminar el estado", err)
	}
	if count > 0 {
		return invalidStatef("No se puede eliminar: %d órdenes tienen el estado '%s'", count, status.Code)
	}

	if err := s.statuses.DeleteStatus(ctx, id); err != nil {
		return internalErr("Error al eliminar el estado", err)
	}
	return nil
}

// ListStatuses returns every node of the graph, sorted by the store.
func (s *Service) ListStatuses(ctx context.Context) ([]models.OrderStatus, error) {
	statuses, err := s.statuses.ListStatuses(ctx)
	if err != nil {
		return nil, internalErr("Error al listar los estados", err)
	}
	return statuses, nil
}

// GetStatus loads one node.
func (s *Service) GetStatus(ctx context.Context, id primitive.ObjectID) (*models.OrderStatus, error) {
	status, err := s.statuses.FindStatusByID(ctx, id)
	if err != nil {
		return nil, internalErr("Error al consultar el estado", err)
	}
	if status == nil {
		return nil, notFoundf("Estado no encontrado")
	}
	return status, nil
}
