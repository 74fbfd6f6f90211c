package infra

import (
	"errors"
	"strings"

	"fleet-rental/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

type RepositoryErrorKind string

type RepositoryError struct {
	Kind RepositoryErrorKind
	msg  string
	err  error // wrapped low-level error
}

func (e RepositoryError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

func WrapRepoErr(kind RepositoryErrorKind, msg string, err error) error {
	if err != nil {
		err = errs.Wrap(err, msg)
	}
	return RepositoryError{Kind: kind, msg: msg, err: err}
}

// WrapPgErr classifies the driver error and wraps it in one step.
func WrapPgErr(msg string, err error) error {
	return WrapRepoErr(ClassifyPgErr(err), msg, err)
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e RepositoryError
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Infrastructure-specific error kinds
const (
	KindNotFound           RepositoryErrorKind = "NOT_FOUND"
	KindDBFailure          RepositoryErrorKind = "DB_FAILURE"
	KindDuplicateKey       RepositoryErrorKind = "DUPLICATE_KEY"
	KindForeignKeyViolated RepositoryErrorKind = "FOREIGN_KEY_VIOLATED"
	KindLockNotAvailable   RepositoryErrorKind = "LOCK_NOT_AVAILABLE"
	KindInsufficientFunds  RepositoryErrorKind = "INSUFFICIENT_FUNDS"
)

// Postgres SQLSTATE codes the unit of work and repositories classify on.
const (
	pgCodeUniqueViolation     = "23505"
	pgCodeForeignKeyViolation = "23503"
	pgCodeCheckViolation      = "23514"
	pgCodeSerializationError  = "40001"
	pgCodeDeadlockDetected    = "40P01"
	pgCodeLockNotAvailable    = "55P03"
)

// ClassifyPgErr maps a driver error onto a repository error kind.
func ClassifyPgErr(err error) RepositoryErrorKind {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return KindDBFailure
	}
	switch pgErr.Code {
	case pgCodeUniqueViolation:
		return KindDuplicateKey
	case pgCodeForeignKeyViolation:
		return KindForeignKeyViolated
	case pgCodeCheckViolation:
		// only the customers balance_cents >= 0 check maps to a funds error
		if strings.Contains(pgErr.ConstraintName, "balance") {
			return KindInsufficientFunds
		}
		return KindDBFailure
	case pgCodeLockNotAvailable:
		return KindLockNotAvailable
	default:
		return KindDBFailure
	}
}

// IsRetryablePgErr reports whether the transaction can be retried from
// scratch: lock wait timeout, serialization failure, or deadlock.
func IsRetryablePgErr(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgCodeLockNotAvailable, pgCodeSerializationError, pgCodeDeadlockDetected:
		return true
	default:
		return false
	}
}
