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

func TestCustomerCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a customer and queues the welcome mail", func(t *testing.T) {
		e := newEnv()

		view, err := e.customers.Create(ctx, reqdto.CreateCustomerRequest{
			Email:        "nils.ek@example.com",
			FirstName:    "Nils",
			LastName:     "Ek",
			BalanceCents: 40000,
		})
		require.NoError(t, err)

		assert.Equal(t, "nils.ek@example.com", view.Email)
		assert.Equal(t, int64(40000), view.BalanceCents)
		assert.False(t, view.Verified)

		jobs := e.store.jobsByTopic("customer_welcome")
		require.Len(t, jobs, 1)
		assert.Equal(t, "email", jobs[0].kind)
		assert.Equal(t, "nils.ek@example.com", jobs[0].payload["customer_email"])
		assert.Equal(t, "Nils Ek", jobs[0].payload["customer_name"])
		assert.Equal(t, e.clock.Now(), jobs[0].runAt)
	})

	t.Run("rejects a malformed email", func(t *testing.T) {
		e := newEnv()

		_, err := e.customers.Create(ctx, reqdto.CreateCustomerRequest{
			Email:     "not-an-email",
			FirstName: "Nils",
			LastName:  "Ek",
		})
		assert.ErrorIs(t, err, commands.ErrInvalidCustomer)
		assert.Empty(t, e.store.customers)
	})

	t.Run("duplicate email", func(t *testing.T) {
		e := newEnv()
		e.seedCustomer(t, builder.NewCustomerBuilder().WithEmail("taken@example.com"))

		_, err := e.customers.Create(ctx, reqdto.CreateCustomerRequest{
			Email:     "taken@example.com",
			FirstName: "Nils",
			LastName:  "Ek",
		})
		assert.ErrorIs(t, err, commands.ErrInvalidCustomer)
	})
}

func TestCustomerUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("patches only the provided fields", func(t *testing.T) {
		e := newEnv()
		c := e.seedCustomer(t, builder.NewCustomerBuilder().WithName("Mara", "Lindqvist"))

		view, err := e.customers.Update(ctx, c.ID(), reqdto.UpdateCustomerRequest{LastName: ptr.To("Berg")})
		require.NoError(t, err)

		assert.Equal(t, "Mara", view.FirstName)
		assert.Equal(t, "Berg", view.LastName)
		assert.Equal(t, c.Email().Value(), view.Email)
	})

	t.Run("marks the customer verified", func(t *testing.T) {
		e := newEnv()
		c := e.seedCustomer(t, builder.NewCustomerBuilder().AsUnverified())

		view, err := e.customers.Update(ctx, c.ID(), reqdto.UpdateCustomerRequest{Verified: ptr.To(true)})
		require.NoError(t, err)
		assert.True(t, view.Verified)
	})

	t.Run("verified is never revoked by the patch", func(t *testing.T) {
		e := newEnv()
		c := e.seedCustomer(t, builder.NewCustomerBuilder())

		view, err := e.customers.Update(ctx, c.ID(), reqdto.UpdateCustomerRequest{Verified: ptr.To(false)})
		require.NoError(t, err)
		assert.True(t, view.Verified)
	})

	t.Run("rejects a malformed email", func(t *testing.T) {
		e := newEnv()
		c := e.seedCustomer(t, builder.NewCustomerBuilder())

		_, err := e.customers.Update(ctx, c.ID(), reqdto.UpdateCustomerRequest{Email: ptr.To("nope")})
		assert.ErrorIs(t, err, commands.ErrInvalidCustomer)
	})

	t.Run("unknown customer", func(t *testing.T) {
		e := newEnv()
		_, err := e.customers.Update(ctx, uuid.New(), reqdto.UpdateCustomerRequest{})
		assert.ErrorIs(t, err, commands.ErrCustomerNotFound)
	})
}

func TestCustomerRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("removes a customer without active bookings", func(t *testing.T) {
		e := newEnv()
		c := e.seedCustomer(t, builder.NewCustomerBuilder())

		removed, err := e.customers.Remove(ctx, c.ID())
		require.NoError(t, err)
		assert.True(t, removed)
		assert.NotContains(t, e.store.customers, c.ID())
	})

	t.Run("active bookings block removal", func(t *testing.T) {
		e := newEnv()
		b := seedWiredBooking(t, e, nil)

		_, err := e.customers.Remove(ctx, b.CustomerID())
		assert.ErrorIs(t, err, commands.ErrCustomerInUse)
	})

	t.Run("missing customer reports not removed", func(t *testing.T) {
		e := newEnv()
		removed, err := e.customers.Remove(ctx, uuid.New())
		require.NoError(t, err)
		assert.False(t, removed)
	})
}
