//go:build unit

package customer_test

import (
	"testing"

	"fleet-rental/internal/domain/customer"
	"fleet-rental/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.CustomerBuilder)
	errIs  error
}

func TestCustomer(t *testing.T) {
	t.Run("basic construction", func(t *testing.T) {
		email, err := customer.NewEmail("renter@example.com")
		require.NoError(t, err)

		actual, err := customer.NewCustomer(email, "Mara", "Lindqvist", 50000)
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, "renter@example.com", actual.Email().Value())
		assert.Equal(t, "Mara Lindqvist", actual.FullName())
		assert.Equal(t, int64(50000), actual.BalanceCents())
		assert.False(t, actual.Verified())
	})

	t.Run("email validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "valid email",
				mutate: func(b *builder.CustomerBuilder) { b.WithEmail("valid@example.com") },
			},
			{
				name:   "surrounding whitespace is trimmed",
				mutate: func(b *builder.CustomerBuilder) { b.WithEmail("  padded@example.com  ") },
			},
			{
				name:   "empty email",
				mutate: func(b *builder.CustomerBuilder) { b.WithEmail("") },
				errIs:  customer.ErrInvalidEmail,
			},
			{
				name:   "missing at sign",
				mutate: func(b *builder.CustomerBuilder) { b.WithEmail("renter.example.com") },
				errIs:  customer.ErrInvalidEmail,
			},
			{
				name:   "missing domain",
				mutate: func(b *builder.CustomerBuilder) { b.WithEmail("renter@") },
				errIs:  customer.ErrInvalidEmail,
			},
		})
	})

	t.Run("name validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "empty first name",
				mutate: func(b *builder.CustomerBuilder) { b.WithName("", "Lindqvist") },
				errIs:  customer.ErrEmptyName,
			},
			{
				name:   "empty last name",
				mutate: func(b *builder.CustomerBuilder) { b.WithName("Mara", "") },
				errIs:  customer.ErrEmptyName,
			},
			{
				name:   "whitespace only name",
				mutate: func(b *builder.CustomerBuilder) { b.WithName("   ", "Lindqvist") },
				errIs:  customer.ErrEmptyName,
			},
		})
	})

	t.Run("balance validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "zero balance",
				mutate: func(b *builder.CustomerBuilder) { b.WithBalance(0) },
			},
			{
				name:   "negative balance",
				mutate: func(b *builder.CustomerBuilder) { b.WithBalance(-1) },
				errIs:  customer.ErrNegativeBalance,
			},
		})
	})
}

func TestCustomerApplyTransfer(t *testing.T) {
	t.Run("charge and refund", func(t *testing.T) {
		c, err := builder.NewCustomerBuilder().WithBalance(10000).BuildDomain()
		require.NoError(t, err)

		require.NoError(t, c.ApplyTransfer(-4000))
		assert.Equal(t, int64(6000), c.BalanceCents())

		require.NoError(t, c.ApplyTransfer(4000))
		assert.Equal(t, int64(10000), c.BalanceCents())
	})

	t.Run("charge to exactly zero", func(t *testing.T) {
		c, err := builder.NewCustomerBuilder().WithBalance(10000).BuildDomain()
		require.NoError(t, err)

		require.NoError(t, c.ApplyTransfer(-10000))
		assert.Equal(t, int64(0), c.BalanceCents())
	})

	t.Run("overdraw leaves the balance untouched", func(t *testing.T) {
		c, err := builder.NewCustomerBuilder().WithBalance(100).BuildDomain()
		require.NoError(t, err)

		err = c.ApplyTransfer(-101)
		assert.ErrorIs(t, err, customer.ErrNegativeBalance)
		assert.Equal(t, int64(100), c.BalanceCents())
	})
}

func TestCustomerUpdateProfile(t *testing.T) {
	t.Run("changes contact details", func(t *testing.T) {
		c, err := builder.NewCustomerBuilder().BuildDomain()
		require.NoError(t, err)
		balance := c.BalanceCents()

		email, err := customer.NewEmail("moved@example.com")
		require.NoError(t, err)

		require.NoError(t, c.UpdateProfile(email, "Jonas", "Berg"))
		assert.Equal(t, "moved@example.com", c.Email().Value())
		assert.Equal(t, "Jonas Berg", c.FullName())
		assert.Equal(t, balance, c.BalanceCents())
	})

	t.Run("rejects empty names", func(t *testing.T) {
		c, err := builder.NewCustomerBuilder().BuildDomain()
		require.NoError(t, err)

		err = c.UpdateProfile(c.Email(), "", "Berg")
		assert.ErrorIs(t, err, customer.ErrEmptyName)
		assert.Equal(t, "Mara", c.FirstName())
	})
}

func TestCustomerMarkVerified(t *testing.T) {
	c, err := builder.NewCustomerBuilder().AsUnverified().BuildDomain()
	require.NoError(t, err)
	require.False(t, c.Verified())

	c.MarkVerified()
	assert.True(t, c.Verified())
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {

			actual, err := builder.NewCustomerBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NoError(t, err)
				require.NotNil(t, actual)
			} else {
				require.Error(t, err)
				assert.ErrorIs(t, err, c.errIs)
				assert.Nil(t, actual)
			}
		})
	}
}
