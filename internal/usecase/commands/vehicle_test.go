//go:build unit

package commands_test

import (
	"context"
	"testing"

	reqdto "fleet-rental/internal/handler/dto/request"
	"fleet-rental/internal/pkg/ptr"
	"fleet-rental/internal/usecase/commands"
	"fleet-rental/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVehicleCreateType(t *testing.T) {
	ctx := context.Background()

	e := newEnv()
	id, err := e.vehicles.CreateType(ctx, reqdto.CreateVehicleTypeRequest{
		Brand:        "Skoda",
		Model:        "Octavia",
		Category:     "estate",
		Seats:        5,
		Transmission: "automatic",
	})
	require.NoError(t, err)

	stored, ok := e.store.types[id]
	require.True(t, ok)
	assert.Equal(t, "Skoda", stored.Brand())
	assert.Equal(t, "estate", stored.Category())
}

func TestVehicleCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a vehicle under an existing type", func(t *testing.T) {
		e := newEnv()
		vt := e.seedType(t)

		view, err := e.vehicles.Create(ctx, reqdto.CreateVehicleRequest{
			TypeID:         vt.ID(),
			LicensePlate:   "M-AB 1234",
			Color:          "red",
			DailyRateCents: 7500,
			DepositCents:   25000,
		})
		require.NoError(t, err)

		assert.Equal(t, "M-AB 1234", view.LicensePlate)
		assert.Equal(t, "available", view.Status)
		assert.Equal(t, vt.Brand(), view.Brand)
		assert.Contains(t, e.store.vehicles, view.ID)
	})

	t.Run("unknown vehicle type", func(t *testing.T) {
		e := newEnv()

		_, err := e.vehicles.Create(ctx, reqdto.CreateVehicleRequest{
			TypeID:         uuid.New(),
			LicensePlate:   "M-AB 1234",
			DailyRateCents: 7500,
		})
		assert.ErrorIs(t, err, commands.ErrVehicleTypeNotFound)
	})

	t.Run("invalid attributes", func(t *testing.T) {
		e := newEnv()
		vt := e.seedType(t)

		_, err := e.vehicles.Create(ctx, reqdto.CreateVehicleRequest{
			TypeID:         vt.ID(),
			LicensePlate:   "",
			DailyRateCents: 7500,
		})
		assert.ErrorIs(t, err, commands.ErrInvalidVehicle)
		assert.Empty(t, e.store.vehicles)
	})
}

func TestVehicleUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("patches only the provided fields", func(t *testing.T) {
		e := newEnv()
		v := e.seedVehicle(t, builder.NewVehicleBuilder().WithDailyRate(8900))

		view, err := e.vehicles.Update(ctx, v.ID(), reqdto.UpdateVehicleRequest{DailyRateCents: ptr.To(int64(9900))})
		require.NoError(t, err)

		assert.Equal(t, int64(9900), view.DailyRateCents)
		assert.Equal(t, v.LicensePlate(), view.LicensePlate)
	})

	t.Run("invalid patch leaves the vehicle untouched", func(t *testing.T) {
		e := newEnv()
		v := e.seedVehicle(t, builder.NewVehicleBuilder())

		_, err := e.vehicles.Update(ctx, v.ID(), reqdto.UpdateVehicleRequest{DailyRateCents: ptr.To(int64(0))})
		assert.ErrorIs(t, err, commands.ErrInvalidVehicle)
		assert.Equal(t, int64(8900), e.store.vehicles[v.ID()].DailyRateCents())
	})

	t.Run("unknown vehicle", func(t *testing.T) {
		e := newEnv()
		_, err := e.vehicles.Update(ctx, uuid.New(), reqdto.UpdateVehicleRequest{})
		assert.ErrorIs(t, err, commands.ErrVehicleNotFound)
	})
}

func TestVehicleRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("removes an idle vehicle", func(t *testing.T) {
		e := newEnv()
		v := e.seedVehicle(t, builder.NewVehicleBuilder())

		removed, err := e.vehicles.Remove(ctx, v.ID())
		require.NoError(t, err)
		assert.True(t, removed)
		assert.NotContains(t, e.store.vehicles, v.ID())
	})

	t.Run("active bookings block removal", func(t *testing.T) {
		e := newEnv()
		b := seedWiredBooking(t, e, nil)

		_, err := e.vehicles.Remove(ctx, b.VehicleID())
		assert.ErrorIs(t, err, commands.ErrVehicleInUse)
		assert.Contains(t, e.store.vehicles, b.VehicleID())
	})

	t.Run("a closed booking does not block removal", func(t *testing.T) {
		e := newEnv()
		b := seedWiredBooking(t, e, nil)
		require.NoError(t, e.bookings.Cancel(ctx, b.ID()))

		removed, err := e.vehicles.Remove(ctx, b.VehicleID())
		require.NoError(t, err)
		assert.True(t, removed)
	})

	t.Run("missing vehicle reports not removed", func(t *testing.T) {
		e := newEnv()
		removed, err := e.vehicles.Remove(ctx, uuid.New())
		require.NoError(t, err)
		assert.False(t, removed)
	})
}
