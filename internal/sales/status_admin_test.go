package sales

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tienda-backend/internal/models"
)

func TestCreateStatusNormalizesCode(t *testing.T) {
	env := newTestEnv()

	status, err := env.svc.CreateStatus(context.Background(), StatusInput{
		Code:     "en_reparto",
		Name:     "En reparto",
		IsActive: true,
	})
	require.NoError(t, err)
	require.Equal(t, "EN_REPARTO", status.Code)
	require.Equal(t, models.DefaultStatusColor, status.Color)
	require.False(t, status.IsDefault)
}

func TestCreateStatusInvalidCode(t *testing.T) {
	env := newTestEnv()

	for _, code := range []string{"", "X", "1BAD", "con espacios"} {
		_, err := env.svc.CreateStatus(context.Background(), StatusInput{Code: code, Name: "x", IsActive: true})
		require.Error(t, err, "code %q", code)
		require.Equal(t, KindInvalidInput, KindOf(err))
	}
}

func TestCreateStatusInvalidColor(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.CreateStatus(context.Background(), StatusInput{
		Code: "EN_REPARTO", Name: "En reparto", Color: "rojo", IsActive: true,
	})
	require.Error(t, err)
	require.Equal(t, KindInvalidInput, KindOf(err))
	require.Equal(t, "El color debe tener formato #RRGGBB", MessageOf(err))
}

func TestCreateStatusDuplicateCode(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.CreateStatus(context.Background(), StatusInput{
		Code: "pending", Name: "Pendiente", IsActive: true,
	})
	require.Error(t, err)
	require.Equal(t, KindInvalidState, KindOf(err))
	require.Equal(t, "Ya existe un estado con código 'PENDING'", MessageOf(err))
}

func TestCreateStatusResolvesTransitionCodes(t *testing.T) {
	env := newTestEnv()

	status, err := env.svc.CreateStatus(context.Background(), StatusInput{
		Code:     "EN_REPARTO",
		Name:     "En reparto",
		IsActive: true,
		// Mixed references: a code and a hex id, plus a duplicate.
		CanTransitionTo: []string{"delivered", env.cancelled.Hex(), "DELIVERED"},
	})
	require.NoError(t, err)
	require.Equal(t, []primitive.ObjectID{env.delivered, env.cancelled}, status.CanTransitionTo)
}

func TestCreateStatusUnknownTransitionTarget(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.CreateStatus(context.Background(), StatusInput{
		Code: "EN_REPARTO", Name: "En reparto", IsActive: true,
		CanTransitionTo: []string{"NO_EXISTE"},
	})
	require.Error(t, err)
	require.Equal(t, KindNotFound, KindOf(err))
}

func TestEditStatusRejectsSelfTransition(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.EditStatus(context.Background(), env.shipped, StatusInput{
		Code: "SHIPPED", Name: "Enviado", IsActive: true,
		CanTransitionTo: []string{"SHIPPED"},
	})
	require.Error(t, err)
	require.Equal(t, KindInvalidInput, KindOf(err))
	require.Equal(t, "Un estado no puede transicionar a sí mismo", MessageOf(err))
}

func TestEditStatusCodeClash(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.EditStatus(context.Background(), env.shipped, StatusInput{
		Code: "CONFIRMED", Name: "Enviado", IsActive: true,
	})
	require.Error(t, err)
	require.Equal(t, KindInvalidState, KindOf(err))
}

func TestEditStatusNotFound(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.EditStatus(context.Background(), primitive.NewObjectID(), StatusInput{
		Code: "WHATEVER", Name: "x", IsActive: true,
	})
	require.Error(t, err)
	require.Equal(t, KindNotFound, KindOf(err))
}

func TestSetDefaultStatusMovesFlag(t *testing.T) {
	env := newTestEnv()

	require.NoError(t, env.svc.SetDefaultStatus(context.Background(), env.confirmed))

	def, err := env.statuses.FindDefaultStatus(context.Background())
	require.NoError(t, err)
	require.NotNil(t, def)
	require.Equal(t, env.confirmed, def.ID)
	require.Equal(t, 1, env.statuses.defaultCount())
}

func TestSetDefaultStatusInactive(t *testing.T) {
	env := newTestEnv()
	inactive := env.statuses.add("ARCHIVED", false, false)

	err := env.svc.SetDefaultStatus(context.Background(), inactive)
	require.Error(t, err)
	require.Equal(t, KindInvalidState, KindOf(err))
}

func TestSetDefaultStatusConcurrent(t *testing.T) {
	env := newTestEnv()
	targets := []primitive.ObjectID{
		env.pending, env.confirmed, env.awaiting, env.shipped, env.delivered, env.cancelled,
	}

	var wg sync.WaitGroup
	for _, id := range targets {
		wg.Add(1)
		go func(id primitive.ObjectID) {
			defer wg.Done()
			_ = env.svc.SetDefaultStatus(context.Background(), id)
		}(id)
	}
	wg.Wait()

	// Whatever the interleaving, exactly one status ends up default.
	require.Equal(t, 1, env.statuses.defaultCount())
}

func TestRemoveStatusBlockedWhileDefault(t *testing.T) {
	env := newTestEnv()

	err := env.svc.RemoveStatus(context.Background(), env.pending)
	require.Error(t, err)
	require.Equal(t, KindInvalidState, KindOf(err))
	require.Equal(t, "No se puede eliminar el estado por defecto", MessageOf(err))
}

func TestRemoveStatusBlockedWhileReferenced(t *testing.T) {
	env := newTestEnv()
	env.placeOrder(env.shipped, 500, "PICKUP")

	err := env.svc.RemoveStatus(context.Background(), env.shipped)
	require.Error(t, err)
	require.Equal(t, KindInvalidState, KindOf(err))
	require.Equal(t, "No se puede eliminar: 1 órdenes tienen el estado 'SHIPPED'", MessageOf(err))
}

func TestRemoveStatus(t *testing.T) {
	env := newTestEnv()

	require.NoError(t, env.svc.RemoveStatus(context.Background(), env.cancelled))

	status, err := env.statuses.FindStatusByID(context.Background(), env.cancelled)
	require.NoError(t, err)
	require.Nil(t, status)
}

func TestCreateStatusAsDefault(t *testing.T) {
	env := newTestEnv()

	status, err := env.svc.CreateStatus(context.Background(), StatusInput{
		Code: "DRAFT", Name: "Borrador", IsActive: true, IsDefault: true,
	})
	require.NoError(t, err)
	require.True(t, status.IsDefault)
	require.Equal(t, 1, env.statuses.defaultCount())

	def, err := env.statuses.FindDefaultStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, status.ID, def.ID)
}
