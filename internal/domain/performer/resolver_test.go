package performer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ganot/activitylog/internal/domain/crm"
	"github.com/ganot/activitylog/internal/domain/performer"
	"github.com/ganot/activitylog/internal/repository"
	"github.com/ganot/activitylog/internal/repository/mocks"
	"github.com/stretchr/testify/require"
)

func TestResolver_Empty(t *testing.T) {
	r := performer.NewResolver(&mocks.UserStore{}, &mocks.CustomerStore{}, nil)
	require.Equal(t, performer.System(), r.Resolve(context.Background(), ""))
}

func TestResolver_User(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	users.On("Get", ctx, "u1").Return(&crm.User{ID: "u1", FullName: "Grace Hopper", Position: "Admiral", TwitterUsername: "grace"}, nil)

	d := performer.NewResolver(users, &mocks.CustomerStore{}, nil).Resolve(ctx, "u1")
	require.Equal(t, performer.KindUser, d.Kind)
	require.Equal(t, "u1", d.ID)
	require.Equal(t, "Grace Hopper", d.Details.FullName)
	require.Equal(t, "grace", d.Details.ExternalHandle)
}

func TestResolver_FallsBackToCustomer(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	users.On("Get", ctx, "c1").Return(nil, repository.ErrNotFound)
	customers := &mocks.CustomerStore{}
	customers.On("Get", ctx, "c1").Return(&crm.Customer{ID: "c1", FirstName: "Ada", LastName: "Lovelace"}, nil)

	d := performer.NewResolver(users, customers, nil).Resolve(ctx, "c1")
	require.Equal(t, performer.KindCustomer, d.Kind)
	require.Equal(t, "Ada Lovelace", d.Details.FullName)
}

func TestResolver_DanglingReference(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	users.On("Get", ctx, "gone").Return(nil, repository.ErrNotFound)
	customers := &mocks.CustomerStore{}
	customers.On("Get", ctx, "gone").Return(nil, repository.ErrNotFound)

	d := performer.NewResolver(users, customers, nil).Resolve(ctx, "gone")
	require.Equal(t, performer.KindSystem, d.Kind)
	require.Equal(t, "gone", d.ID)
	require.Equal(t, performer.Details{}, d.Details)
}

func TestResolver_LookupErrorDegrades(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserStore{}
	users.On("Get", ctx, "u1").Return(nil, errors.New("timeout"))
	customers := &mocks.CustomerStore{}

	d := performer.NewResolver(users, customers, nil).Resolve(ctx, "u1")
	require.Equal(t, performer.KindSystem, d.Kind)
	customers.AssertNotCalled(t, "Get", ctx, "u1")
}

func TestCustomerDisplayName(t *testing.T) {
	require.Equal(t, "Acme Buyer", crm.Customer{Name: " Acme Buyer "}.DisplayName())
	require.Equal(t, "Ada", crm.Customer{FirstName: "Ada"}.DisplayName())
	require.Equal(t, "a@example.com", crm.Customer{PrimaryEmail: "a@example.com"}.DisplayName())
	require.Equal(t, "555", crm.Customer{Phone: "555"}.DisplayName())
}
