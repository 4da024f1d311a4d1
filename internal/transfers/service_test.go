package transfers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/warehouse-backend/internal/commit"
	"github.com/angelmondragon/warehouse-backend/internal/model"
	"github.com/angelmondragon/warehouse-backend/internal/notifications"
	"github.com/angelmondragon/warehouse-backend/internal/store"
	"github.com/angelmondragon/warehouse-backend/pkg/docstore"
	"github.com/angelmondragon/warehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/warehouse-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *store.Repositories, *notifications.Recorder) {
	t.Helper()
	repos := store.New(docstore.NewMemory())
	rec := &notifications.Recorder{}
	runner, err := commit.NewRunner(repos, rec, nil, nil)
	require.NoError(t, err)
	svc, err := NewService(repos, runner, nil)
	require.NoError(t, err)
	return svc, repos, rec
}

func TestTransferCommitMovesStock(t *testing.T) {
	ctx := context.Background()
	svc, repos, rec := newTestService(t)

	from, err := repos.Inventories.Add(model.Inventory{ItemID: "P000001", Locations: []int{10}, TotalOnHand: 30})
	require.NoError(t, err)
	to, err := repos.Inventories.Add(model.Inventory{ItemID: "P000001", Locations: []int{20}, TotalOnHand: 5})
	require.NoError(t, err)
	both, err := repos.Inventories.Add(model.Inventory{ItemID: "P000001", Locations: []int{20, 10}, TotalOnHand: 50})
	require.NoError(t, err)

	tr, err := svc.Create(ctx, model.Transfer{
		Reference:      "TR00001",
		TransferFrom:   10,
		TransferTo:     20,
		TransferStatus: enums.TransferStatusProcessed,
		Items:          []model.ItemAmount{{ItemID: "P000001", Amount: 8}},
	})
	require.NoError(t, err)
	assert.Equal(t, enums.TransferStatusScheduled, tr.TransferStatus)

	committed, err := svc.Commit(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.TransferStatusProcessed, committed.TransferStatus)

	for _, tc := range []struct {
		id   int
		want int
	}{
		{from.ID, 22},
		{to.ID, 13},
		{both.ID, 42},
	} {
		got, err := repos.Inventories.Get(tc.id)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got.TotalOnHand, "inventory %d", tc.id)
		assert.Equal(t, tc.want, got.TotalAvailable, "inventory %d", tc.id)
	}

	require.Len(t, rec.Messages(), 1)
	assert.Equal(t, "Processed batch transfer with id: 1", rec.Messages()[0].Text)

	_, err = svc.Commit(ctx, tr.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeStateConflict))
}

func TestReceiveOnlyTransfer(t *testing.T) {
	ctx := context.Background()
	svc, repos, _ := newTestService(t)
	inv, err := repos.Inventories.Add(model.Inventory{ItemID: "P000002", Locations: []int{4}})
	require.NoError(t, err)

	tr, err := svc.Create(ctx, model.Transfer{TransferTo: 4, Items: []model.ItemAmount{{ItemID: "P000002", Amount: 6}}})
	require.NoError(t, err)
	_, err = svc.Commit(ctx, tr.ID)
	require.NoError(t, err)

	got, err := repos.Inventories.Get(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.TotalOnHand)
}

func TestTransferItemsAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	tr, err := svc.Create(ctx, model.Transfer{TransferTo: 1})
	require.NoError(t, err)

	items, err := svc.Items(ctx, tr.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = svc.SetItems(ctx, tr.ID, []model.ItemAmount{{ItemID: "P000009", Amount: 2}})
	require.NoError(t, err)
	items, err = svc.Items(ctx, tr.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	found, err := svc.Search(ctx, model.TransferCriteria{TransferStatus: "sched"})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, svc.Delete(ctx, tr.ID))
	_, err = svc.Get(ctx, tr.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}
