package clients

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/warehouse-backend/internal/model"
	"github.com/angelmondragon/warehouse-backend/internal/store"
	"github.com/angelmondragon/warehouse-backend/pkg/docstore"
	pkgerrors "github.com/angelmondragon/warehouse-backend/pkg/errors"
	"github.com/angelmondragon/warehouse-backend/pkg/pagination"
)

func newTestService(t *testing.T) (Service, *store.Repositories) {
	t.Helper()
	repos := store.New(docstore.NewMemory())
	svc, err := NewService(repos, nil)
	require.NoError(t, err)
	return svc, repos
}

func TestDeleteClientReferencedByOrder(t *testing.T) {
	ctx := context.Background()
	svc, repos := newTestService(t)

	shipTo, err := svc.Create(ctx, model.Client{Name: "Ship"})
	require.NoError(t, err)
	billTo, err := svc.Create(ctx, model.Client{Name: "Bill"})
	require.NoError(t, err)
	_, err = repos.Orders.Add(model.Order{WarehouseID: 1, ShipTo: shipTo.ID, BillTo: billTo.ID})
	require.NoError(t, err)

	for _, id := range []int{shipTo.ID, billTo.ID} {
		err := svc.Delete(ctx, id, false)
		require.Error(t, err)
		assert.True(t, pkgerrors.Is(err, pkgerrors.CodeDependencyConflict))
		assert.Contains(t, err.Error(), "dependent data exists")

		require.NoError(t, svc.Delete(ctx, id, true))
	}
	page, err := svc.List(ctx, pagination.Params{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestClientOrders(t *testing.T) {
	ctx := context.Background()
	svc, repos := newTestService(t)
	c, err := svc.Create(ctx, model.Client{Name: "Acme"})
	require.NoError(t, err)
	_, err = repos.Orders.Add(model.Order{WarehouseID: 1, BillTo: c.ID})
	require.NoError(t, err)
	_, err = repos.Orders.Add(model.Order{WarehouseID: 1, ShipTo: c.ID + 1})
	require.NoError(t, err)

	orders, err := svc.Orders(ctx, c.ID, nil)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	_, err = svc.Orders(ctx, 99, nil)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestReplaceLeavesOtherFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	c, err := svc.Create(ctx, model.Client{Name: "Acme", City: "Zwolle", ContactEmail: "a@b.nl"})
	require.NoError(t, err)

	got, err := svc.Replace(ctx, c.ID, model.ClientPatch{ContactName: model.Some("Jo")})
	require.NoError(t, err)
	want := c
	want.ContactName = "Jo"
	want.UpdatedAt = got.UpdatedAt
	assert.Equal(t, want, got)

	_, err = svc.Search(ctx, model.ClientCriteria{})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}
