package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/warehouse-backend/internal/access"
	"github.com/angelmondragon/warehouse-backend/internal/commit"
	"github.com/angelmondragon/warehouse-backend/internal/notifications"
	"github.com/angelmondragon/warehouse-backend/internal/store"
	"github.com/angelmondragon/warehouse-backend/pkg/config"
	"github.com/angelmondragon/warehouse-backend/pkg/docstore"
	"github.com/angelmondragon/warehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/warehouse-backend/pkg/errors"
	"github.com/angelmondragon/warehouse-backend/pkg/redis"
)

const (
	adminKey   = "a1b2c3d4e5"
	managerKey = "f6g7h8i9j0"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	docs := docstore.NewMemory()
	repos := store.New(docs)
	runner, err := commit.NewRunner(repos, &notifications.Recorder{}, nil, nil)
	require.NoError(t, err)
	svc, err := NewServices(repos, runner, nil)
	require.NoError(t, err)

	keys, err := access.NewKeyTable([]access.APIKey{
		{Key: adminKey, Principal: access.Principal{User: "admin", Role: enums.RoleAdmin}},
		{Key: managerKey, Principal: access.Principal{User: "manager", Role: enums.RoleWarehouseManager, Warehouses: []int{1}}},
	})
	require.NoError(t, err)

	cfg := &config.Config{App: config.AppConfig{Env: "test"}}
	return NewRouter(
		cfg,
		nil,
		Security{Policy: access.DefaultPolicy(), Keys: keys},
		docs,
		redis.NewWithCmdable(redis.NewMemoryCmdable()),
		prometheus.NewRegistry(),
		svc,
	)
}

type call struct {
	method string
	path   string
	key    string
	body   string
	header map[string]string
}

func do(t *testing.T, h http.Handler, c call) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if c.body != "" {
		body = strings.NewReader(c.body)
	}
	req := httptest.NewRequest(c.method, c.path, body)
	if c.key != "" {
		req.Header.Set("API_KEY", c.key)
	}
	for k, v := range c.header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env.Data
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env.Error.Code
}

func TestHealthRoutes(t *testing.T) {
	h := newTestRouter(t)

	live := do(t, h, call{method: http.MethodGet, path: "/health/live"})
	require.Equal(t, http.StatusOK, live.Code)
	assert.Equal(t, "test", live.Header().Get("X-Warehouse-Env"))

	ready := do(t, h, call{method: http.MethodGet, path: "/health/ready"})
	require.Equal(t, http.StatusOK, ready.Code)
	status := decodeData[map[string]string](t, ready)
	assert.Equal(t, "ok", status["storage"])
	assert.Equal(t, "ok", status["redis"])
}

func TestAPIRequiresCredentials(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, call{method: http.MethodGet, path: "/api/v1/warehouses"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, string(pkgerrors.CodeUnauthorized), errorCode(t, rec))

	rec = do(t, h, call{method: http.MethodGet, path: "/api/v1/ping", key: managerKey})
	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeData[map[string]any](t, rec)
	assert.Equal(t, "manager", payload["user"])
}

func TestWarehouseCRUD(t *testing.T) {
	h := newTestRouter(t)

	created := do(t, h, call{method: http.MethodPost, path: "/api/v1/warehouses", key: adminKey, body: `{"code":"YQZZNL56","name":"Heemskerk cargo hub","city":"Heemskerk"}`})
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	wh := decodeData[map[string]any](t, created)
	assert.EqualValues(t, 1, wh["id"])

	got := do(t, h, call{method: http.MethodGet, path: "/api/v1/warehouses/1", key: managerKey})
	require.Equal(t, http.StatusOK, got.Code)

	patched := do(t, h, call{method: http.MethodPatch, path: "/api/v1/warehouses/1", key: adminKey, body: `{"city":"Haarlem"}`})
	require.Equal(t, http.StatusOK, patched.Code, patched.Body.String())
	after := decodeData[map[string]any](t, patched)
	assert.Equal(t, "Haarlem", after["city"])
	assert.Equal(t, "YQZZNL56", after["code"])

	list := do(t, h, call{method: http.MethodGet, path: "/api/v1/warehouses?page=1&page_size=10", key: managerKey})
	require.Equal(t, http.StatusOK, list.Code)
	var page struct {
		Data []map[string]any `json:"data"`
		Meta struct {
			Total int `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &page))
	assert.Len(t, page.Data, 1)
	assert.Equal(t, 1, page.Meta.Total)

	search := do(t, h, call{method: http.MethodGet, path: "/api/v1/warehouses/search", key: managerKey})
	require.Equal(t, http.StatusBadRequest, search.Code)

	search = do(t, h, call{method: http.MethodGet, path: "/api/v1/warehouses/search?city=haar", key: managerKey})
	require.Equal(t, http.StatusOK, search.Code)
	assert.Len(t, decodeData[[]map[string]any](t, search), 1)

	forbidden := do(t, h, call{method: http.MethodDelete, path: "/api/v1/warehouses/1", key: managerKey})
	require.Equal(t, http.StatusForbidden, forbidden.Code)

	deleted := do(t, h, call{method: http.MethodDelete, path: "/api/v1/warehouses/1", key: adminKey})
	require.Equal(t, http.StatusNoContent, deleted.Code)

	missing := do(t, h, call{method: http.MethodGet, path: "/api/v1/warehouses/1", key: adminKey})
	require.Equal(t, http.StatusNotFound, missing.Code)

	bad := do(t, h, call{method: http.MethodGet, path: "/api/v1/warehouses/abc", key: adminKey})
	require.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestDeleteBlockedByDependents(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, call{method: http.MethodPost, path: "/api/v1/clients", key: adminKey, body: `{"name":"Raymond Inc"}`})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = do(t, h, call{method: http.MethodPost, path: "/api/v1/orders", key: adminKey, body: `{"warehouse_id":1,"ship_to":1}`})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	blocked := do(t, h, call{method: http.MethodDelete, path: "/api/v1/clients/1", key: adminKey})
	require.Equal(t, http.StatusConflict, blocked.Code)
	assert.Equal(t, string(pkgerrors.CodeDependencyConflict), errorCode(t, blocked))

	forced := do(t, h, call{method: http.MethodDelete, path: "/api/v1/clients/1?force=true", key: adminKey})
	require.Equal(t, http.StatusNoContent, forced.Code)
}

func TestOrderCommitFlow(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, call{method: http.MethodPost, path: "/api/v1/inventories", key: adminKey, body: `{"item_id":"P000001","locations":[7],"total_on_hand":50}`})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, call{method: http.MethodPost, path: "/api/v1/orders", key: adminKey, body: `{"source_id":7,"warehouse_id":1,"items":[{"item_id":"P000001","amount":5}]}`})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	items := do(t, h, call{method: http.MethodGet, path: "/api/v1/orders/1/items", key: managerKey})
	require.Equal(t, http.StatusOK, items.Code)
	assert.Len(t, decodeData[[]map[string]any](t, items), 1)

	noKey := do(t, h, call{method: http.MethodPost, path: "/api/v1/orders/1/commit", key: adminKey})
	require.Equal(t, http.StatusBadRequest, noKey.Code)

	idem := map[string]string{"Idempotency-Key": "commit-1"}
	first := do(t, h, call{method: http.MethodPost, path: "/api/v1/orders/1/commit", key: adminKey, header: idem})
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	order := decodeData[map[string]any](t, first)
	assert.Equal(t, enums.OrderStatusProcessed, order["order_status"])

	replay := do(t, h, call{method: http.MethodPost, path: "/api/v1/orders/1/commit", key: adminKey, header: idem})
	require.Equal(t, http.StatusOK, replay.Code)
	assert.Equal(t, first.Body.String(), replay.Body.String())

	again := do(t, h, call{method: http.MethodPost, path: "/api/v1/orders/1/commit", key: adminKey, header: map[string]string{"Idempotency-Key": "commit-2"}})
	require.Equal(t, http.StatusUnprocessableEntity, again.Code)
	assert.Equal(t, string(pkgerrors.CodeStateConflict), errorCode(t, again))

	inv := do(t, h, call{method: http.MethodGet, path: "/api/v1/inventories/1", key: adminKey})
	require.Equal(t, http.StatusOK, inv.Code)
	record := decodeData[map[string]any](t, inv)
	assert.EqualValues(t, 45, record["total_on_hand"])
}

func TestOwnWarehouseScope(t *testing.T) {
	h := newTestRouter(t)

	for _, body := range []string{`{"warehouse_id":1}`, `{"warehouse_id":2}`} {
		rec := do(t, h, call{method: http.MethodPost, path: "/api/v1/orders", key: adminKey, body: body})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	list := do(t, h, call{method: http.MethodGet, path: "/api/v1/orders", key: managerKey})
	require.Equal(t, http.StatusOK, list.Code)
	assert.Len(t, decodeData[[]map[string]any](t, list), 1)

	own := do(t, h, call{method: http.MethodGet, path: "/api/v1/orders/1", key: managerKey})
	require.Equal(t, http.StatusOK, own.Code)

	other := do(t, h, call{method: http.MethodGet, path: "/api/v1/orders/2", key: managerKey})
	require.Equal(t, http.StatusForbidden, other.Code)

	create := do(t, h, call{method: http.MethodPost, path: "/api/v1/orders", key: managerKey, body: `{"warehouse_id":2}`})
	require.Equal(t, http.StatusForbidden, create.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t)
	do(t, h, call{method: http.MethodGet, path: "/health/live"})

	rec := do(t, h, call{method: http.MethodGet, path: "/metrics"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "warehouse_http_requests_total")
}

func TestRelationRoutesApplyRelatedScope(t *testing.T) {
	h := newTestRouter(t)

	for _, c := range []call{
		{method: http.MethodPost, path: "/api/v1/warehouses", body: `{"code":"YQZZNL56","name":"Heemskerk cargo hub"}`},
		{method: http.MethodPost, path: "/api/v1/warehouses", body: `{"code":"GIOMNL90","name":"Petten distribution"}`},
		{method: http.MethodPost, path: "/api/v1/locations", body: `{"warehouse_id":1,"code":"A.1.0"}`},
		{method: http.MethodPost, path: "/api/v1/clients", body: `{"name":"Raymond Inc"}`},
		{method: http.MethodPost, path: "/api/v1/suppliers", body: `{"code":"SUP0001","name":"Lee Inc"}`},
		{method: http.MethodPost, path: "/api/v1/item_lines", body: `{"name":"Tech Gadgets"}`},
		{method: http.MethodPost, path: "/api/v1/items", body: `{"code":"sjQ23408K","supplier_id":1,"item_line":1}`},
		{method: http.MethodPost, path: "/api/v1/items", body: `{"code":"ZHd45959S","supplier_id":1,"item_line":1}`},
		{method: http.MethodPost, path: "/api/v1/inventories", body: `{"item_id":"P000001","item_reference":"sjQ23408K","locations":[1],"total_on_hand":5}`},
		{method: http.MethodPost, path: "/api/v1/shipments", body: `{"source_id":1}`},
		{method: http.MethodPost, path: "/api/v1/orders", body: `{"warehouse_id":2,"ship_to":1,"shipment_id":1}`},
	} {
		c.key = adminKey
		rec := do(t, h, c)
		require.Equal(t, http.StatusCreated, rec.Code, "%s: %s", c.path, rec.Body.String())
	}

	get := func(key, path string) *httptest.ResponseRecorder {
		return do(t, h, call{method: http.MethodGet, path: path, key: key})
	}

	rec := get(managerKey, "/api/v1/orders/1")
	require.Equal(t, http.StatusForbidden, rec.Code)

	for _, path := range []string{"/api/v1/clients/1/orders", "/api/v1/shipments/1/orders"} {
		rec = get(managerKey, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Empty(t, decodeData[[]map[string]any](t, rec), path)

		rec = get(adminKey, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Len(t, decodeData[[]map[string]any](t, rec), 1, path)
	}

	rec = get(managerKey, "/api/v1/warehouses/2/orders")
	require.Equal(t, http.StatusForbidden, rec.Code)
	rec = get(managerKey, "/api/v1/warehouses/2/locations")
	require.Equal(t, http.StatusForbidden, rec.Code)
	rec = get(managerKey, "/api/v1/warehouses/1/locations")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]map[string]any](t, rec), 1)

	for _, path := range []string{"/api/v1/suppliers/1/items", "/api/v1/item_lines/1/items"} {
		rec = get(managerKey, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		items := decodeData[[]map[string]any](t, rec)
		require.Len(t, items, 1, path)
		assert.Equal(t, "P000001", items[0]["uid"])

		rec = get(adminKey, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Len(t, decodeData[[]map[string]any](t, rec), 2, path)
	}

	rec = get(managerKey, "/api/v1/items/P000002/inventory")
	require.Equal(t, http.StatusForbidden, rec.Code)
	rec = get(managerKey, "/api/v1/items/P000001/inventory")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]map[string]any](t, rec), 1)
}
