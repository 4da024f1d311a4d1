package docstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/angelmondragon/warehouse-backend/pkg/config"
	"github.com/angelmondragon/warehouse-backend/pkg/db"
	"github.com/angelmondragon/warehouse-backend/pkg/migrate"
	pkgredis "github.com/angelmondragon/warehouse-backend/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	fsStore, err := NewFS(t.TempDir())
	require.NoError(t, err)

	client, err := db.New(context.Background(), config.DBConfig{
		DSN:     fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
		Dialect: config.DialectSQLite,
	}, nil)
	require.NoError(t, err)
	sqlDB, err := client.DB().DB()
	require.NoError(t, err)
	require.NoError(t, migrate.Up(context.Background(), sqlDB, config.DialectSQLite))
	sqlStore := NewSQL(client)
	t.Cleanup(func() { _ = sqlStore.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"fs":     fsStore,
		"redis":  NewRedis(pkgredis.NewWithCmdable(pkgredis.NewMemoryCmdable())),
		"sql":    sqlStore,
	}
}

func TestStoreContract(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Load(ctx, "orders")
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Save(ctx, "orders", []byte(`[{"id":1}]`)))
			got, err := store.Load(ctx, "orders")
			require.NoError(t, err)
			assert.JSONEq(t, `[{"id":1}]`, string(got))

			require.NoError(t, store.Save(ctx, "orders", []byte(`[]`)))
			got, err = store.Load(ctx, "orders")
			require.NoError(t, err)
			assert.Equal(t, "[]", string(got))

			require.NoError(t, store.Ping(ctx))
		})
	}
}

func TestStoreRejectsBadNames(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.Error(t, store.Save(context.Background(), "../escape", []byte("x")))
			_, err := store.Load(context.Background(), "")
			require.Error(t, err)
		})
	}
}

func TestFSWritesJSONFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFS(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), "clients", []byte(`[]`)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "clients.json", entries[0].Name())

	data, err := os.ReadFile(filepath.Join(dir, "clients.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestMemoryReturnsCopies(t *testing.T) {
	store := NewMemory()
	payload := []byte("abc")
	require.NoError(t, store.Save(context.Background(), "doc", payload))
	payload[0] = 'z'

	got, err := store.Load(context.Background(), "doc")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}
