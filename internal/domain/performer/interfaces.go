package performer

import (
	"context"

	"github.com/ganot/activitylog/internal/domain/crm"
)

// UserLookup fetches users by ID. Missing users return repository.ErrNotFound.
type UserLookup interface {
	Get(ctx context.Context, id string) (*crm.User, error)
}

// CustomerLookup fetches customers by ID. Missing customers return
// repository.ErrNotFound.
type CustomerLookup interface {
	Get(ctx context.Context, id string) (*crm.Customer, error)
}
