//go:build unit

package infra_test

import (
	"testing"

	"fleet-rental/internal/infra"
	"fleet-rental/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassifyPgErr(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want infra.RepositoryErrorKind
	}{
		{
			name: "unique violation",
			err:  &pgconn.PgError{Code: "23505"},
			want: infra.KindDuplicateKey,
		},
		{
			name: "foreign key violation",
			err:  &pgconn.PgError{Code: "23503"},
			want: infra.KindForeignKeyViolated,
		},
		{
			name: "lock not available",
			err:  &pgconn.PgError{Code: "55P03"},
			want: infra.KindLockNotAvailable,
		},
		{
			name: "balance check violation",
			err:  &pgconn.PgError{Code: "23514", ConstraintName: "customers_balance_cents_check"},
			want: infra.KindInsufficientFunds,
		},
		{
			name: "unrelated check violation",
			err:  &pgconn.PgError{Code: "23514", ConstraintName: "bookings_end_date_check"},
			want: infra.KindDBFailure,
		},
		{
			name: "not a driver error",
			err:  errs.New("connection reset"),
			want: infra.KindDBFailure,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, infra.ClassifyPgErr(c.err))
		})
	}
}

func TestIsRetryablePgErr(t *testing.T) {
	assert.True(t, infra.IsRetryablePgErr(&pgconn.PgError{Code: "55P03"}))
	assert.True(t, infra.IsRetryablePgErr(&pgconn.PgError{Code: "40001"}))
	assert.True(t, infra.IsRetryablePgErr(&pgconn.PgError{Code: "40P01"}))
	assert.False(t, infra.IsRetryablePgErr(&pgconn.PgError{Code: "23514"}))
	assert.False(t, infra.IsRetryablePgErr(errs.New("connection reset")))
}

func TestIsKind(t *testing.T) {
	err := infra.WrapRepoErr(infra.KindNotFound, "booking missing", nil)
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
	assert.False(t, infra.IsKind(err, infra.KindDBFailure))
	assert.False(t, infra.IsKind(errs.New("plain"), infra.KindNotFound))
}
