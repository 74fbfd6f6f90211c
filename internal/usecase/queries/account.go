package queries

import (
	"context"

	"fleet-rental/internal/infra"
	"fleet-rental/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrAccountNotFound = errs.New("account not found")

type AccountQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*AccountView, error)
}

type AccountReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AccountView, error)
}

type accountQueriesImpl struct {
	store AccountReadStore
}

func NewAccountQueries(store AccountReadStore) AccountQueries {
	return &accountQueriesImpl{store: store}
}

func (q *accountQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*AccountView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return view, nil
}
