package performer

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ganot/activitylog/internal/domain/crm"
	"github.com/ganot/activitylog/internal/repository"
)

// Resolver turns performer references into descriptors. Users are checked
// before customers.
type Resolver struct {
	users     UserLookup
	customers CustomerLookup
	logger    *slog.Logger
}

// NewResolver creates a new performer resolver.
func NewResolver(users UserLookup, customers CustomerLookup, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{users: users, customers: customers, logger: logger}
}

// Resolve never fails. An empty reference is the system performer; a
// reference that matches no user or customer, or whose lookup errors,
// degrades to a system descriptor with empty details.
func (r *Resolver) Resolve(ctx context.Context, performerID string) Descriptor {
	if strings.TrimSpace(performerID) == "" {
		return System()
	}

	if r.users != nil {
		user, err := r.users.Get(ctx, performerID)
		switch {
		case err == nil:
			return fromUser(user)
		case !errors.Is(err, repository.ErrNotFound):
			r.logger.Warn("performer user lookup failed", "performer_id", performerID, "error", err)
			return dangling(performerID)
		}
	}

	if r.customers != nil {
		customer, err := r.customers.Get(ctx, performerID)
		switch {
		case err == nil:
			return fromCustomer(customer)
		case !errors.Is(err, repository.ErrNotFound):
			r.logger.Warn("performer customer lookup failed", "performer_id", performerID, "error", err)
			return dangling(performerID)
		}
	}

	r.logger.Debug("performer not found", "performer_id", performerID)
	return dangling(performerID)
}

func dangling(id string) Descriptor {
	d := System()
	d.ID = id
	return d
}

func fromUser(u *crm.User) Descriptor {
	return Descriptor{
		ID:   u.ID,
		Kind: KindUser,
		Details: Details{
			Avatar:         u.Avatar,
			FullName:       u.FullName,
			Position:       u.Position,
			ExternalHandle: u.TwitterUsername,
		},
	}
}

func fromCustomer(c *crm.Customer) Descriptor {
	return Descriptor{
		ID:   c.ID,
		Kind: KindCustomer,
		Details: Details{
			Avatar:   c.Avatar,
			FullName: c.DisplayName(),
			Position: c.Position,
		},
	}
}
