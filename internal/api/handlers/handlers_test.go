package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"integrated-cart/internal/core/aimodel"
	"integrated-cart/internal/core/cart"
	"integrated-cart/internal/core/checkout"
	"integrated-cart/internal/core/mall"
	"integrated-cart/internal/core/recipe"
	"integrated-cart/internal/core/search"
	"integrated-cart/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(backendURL string) *config.Config {
	return &config.Config{
		Backend: config.BackendConfig{
			BaseURL: backendURL,
			Timeout: 2 * time.Second,
		},
		Cart: config.CartConfig{
			TTL:             time.Hour,
			CleanupInterval: time.Hour,
		},
	}
}

// newTestRouter 以指定後端組出完整的 handler 與路由
func newTestRouter(t *testing.T, backendURL string) (*gin.Engine, *Handler, *cart.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig(backendURL)
	store := cart.NewStore(cfg)
	t.Cleanup(func() { store.Close() })

	h := NewHandler(
		aimodel.NewCatalogClient(cfg),
		recipe.NewAnalyzer(cfg, nil),
		search.NewOrchestrator(cfg),
		search.NewTracker(),
		store,
		cart.NewRegistrar(cfg),
		checkout.NewOrchestrator(cfg),
		nil,
	)

	router := gin.New()
	api := router.Group("/api/v1")
	api.GET("/ai/models", h.HandleModels)
	api.POST("/ingredients/search", h.HandleSearch)
	api.GET("/malls/link", h.HandleMallLink)
	api.GET("/cart", h.HandleCartGet)
	api.POST("/cart/add", h.HandleCartAdd)
	api.DELETE("/cart/items/:id", h.HandleCartRemove)
	api.POST("/order/auto-cart", h.HandleAutoCart)
	api.POST("/order/checkout", h.HandleCheckout)
	return router, h, store
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleCartFlow(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	router, _, _ := newTestRouter(t, backend.URL)

	addBody := `{
		"userId": "user-1",
		"product": {"id": 10, "mallType": "COUPANG", "name": "국산 두부 300g", "price": 2500, "capacity": 300, "unit": "g"},
		"quantity": 2
	}`

	t.Run("add registers and returns the entry", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/cart/add", addBody)
		require.Equal(t, http.StatusOK, w.Code)

		var resp CartAddResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Registered)
		assert.NotEmpty(t, resp.Entry.ID)
		assert.Equal(t, 2, resp.Entry.Quantity)
	})

	t.Run("get groups entries and totals", func(t *testing.T) {
		doJSON(router, http.MethodPost, "/api/v1/cart/add", addBody)

		w := doJSON(router, http.MethodGet, "/api/v1/cart?userId=user-1", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp CartResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Entries, 2)
		assert.Equal(t, int64(10000), resp.Total)
	})

	t.Run("remove deletes exactly one entry", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/cart?userId=user-1", "")
		var before CartResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &before))
		require.Len(t, before.Entries, 2)

		w = doJSON(router, http.MethodDelete, "/api/v1/cart/items/"+before.Entries[0].ID+"?userId=user-1", "")
		require.Equal(t, http.StatusOK, w.Code)

		var after CartResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &after))
		assert.Len(t, after.Entries, 1)
		assert.Equal(t, before.Entries[1].ID, after.Entries[0].ID)
	})

	t.Run("removing an unknown entry is 404", func(t *testing.T) {
		w := doJSON(router, http.MethodDelete, "/api/v1/cart/items/missing?userId=user-1", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("quantity derived from required amount", func(t *testing.T) {
		body := `{
			"userId": "user-2",
			"product": {"id": 11, "mallType": "KURLY", "name": "양파 1kg", "price": 3000, "capacity": 1000, "unit": "g"},
			"requiredAmount": 1500
		}`
		w := doJSON(router, http.MethodPost, "/api/v1/cart/add", body)
		require.Equal(t, http.StatusOK, w.Code)

		var resp CartAddResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Entry.Quantity)
	})
}

func TestHandleCartAddBackendDown(t *testing.T) {
	// 後端登記不可用：項目仍加入本地購物車，只標示未登記
	router, _, store := newTestRouter(t, "http://127.0.0.1:1")

	body := `{
		"userId": "user-1",
		"product": {"id": 10, "mallType": "COUPANG", "name": "국산 두부 300g", "price": 2500, "capacity": 300, "unit": "g"},
		"quantity": 1
	}`
	w := doJSON(router, http.MethodPost, "/api/v1/cart/add", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp CartAddResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Registered)
	assert.Equal(t, 1, store.Get("user-1").Len())
}

func TestHandleSearchStale(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"COUPANG":[{"id":1,"mallType":"COUPANG","name":"두부","price":2500,"capacity":300,"unit":"g"}]}`))
	}))
	defer backend.Close()

	router, h, _ := newTestRouter(t, backend.URL)

	var wg sync.WaitGroup
	wg.Add(1)
	var w *httptest.ResponseRecorder
	go func() {
		defer wg.Done()
		w = doJSON(router, http.MethodPost, "/api/v1/ingredients/search",
			`{"userId":"user-1","keyword":"두부","requiredAmount":300}`)
	}()

	// 第一個搜尋還卡在後端時發出更新的搜尋，讓它失效
	<-started
	h.tracker.Begin("user-1")
	close(release)
	wg.Wait()

	require.Equal(t, http.StatusOK, w.Code)
	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Stale)
	assert.Nil(t, resp.Result)
}

func TestHandleSearchCurrent(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"COUPANG":[{"id":1,"mallType":"COUPANG","name":"국산 두부 300g","price":2500,"capacity":300,"unit":"g"}]}`))
	}))
	defer backend.Close()

	router, _, _ := newTestRouter(t, backend.URL)

	w := doJSON(router, http.MethodPost, "/api/v1/ingredients/search",
		`{"userId":"user-1","keyword":"두부","requiredAmount":300,"malls":["COUPANG","unknown-mall"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Stale)
	require.NotNil(t, resp.Result)
	assert.Equal(t, search.OutcomePopulated, resp.Result.Outcome)
}

func TestHandleSearchMallFilter(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer backend.Close()

	router, _, _ := newTestRouter(t, backend.URL)

	t.Run("all-unknown mall filter is rejected", func(t *testing.T) {
		// 指定的過濾條件全部無法辨識時不得默默改搜全商城
		w := doJSON(router, http.MethodPost, "/api/v1/ingredients/search",
			`{"userId":"user-1","keyword":"두부","requiredAmount":300,"malls":["gmarket","11st"]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("partially-unknown filter keeps the known malls", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/ingredients/search",
			`{"userId":"user-1","keyword":"두부","requiredAmount":300,"malls":["COUPANG","gmarket"]}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestHandleMallLink(t *testing.T) {
	router, _, _ := newTestRouter(t, "http://127.0.0.1:1")

	t.Run("known mall returns its search page", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/malls/link?mall=coupang&keyword=%EB%91%90%EB%B6%80", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "coupang.com")
	})

	t.Run("unknown mall is 400", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/malls/link?mall=gmarket&keyword=%EB%91%90%EB%B6%80", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing keyword is 400", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/malls/link?mall=coupang", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleOrder(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	addBody := `{
		"userId": "user-1",
		"product": {"id": 10, "mallType": "COUPANG", "name": "국산 두부 300g", "price": 2500, "capacity": 300, "unit": "g"},
		"quantity": 1
	}`

	t.Run("auto-cart keeps the session cart", func(t *testing.T) {
		router, _, store := newTestRouter(t, backend.URL)
		doJSON(router, http.MethodPost, "/api/v1/cart/add", addBody)

		w := doJSON(router, http.MethodPost, "/api/v1/order/auto-cart", `{"userId":"user-1"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, store.Get("user-1").Len())
	})

	t.Run("checkout drops the session cart and search state", func(t *testing.T) {
		router, h, store := newTestRouter(t, backend.URL)
		doJSON(router, http.MethodPost, "/api/v1/cart/add", addBody)
		h.tracker.Begin("user-1")
		h.tracker.Begin("user-1")

		w := doJSON(router, http.MethodPost, "/api/v1/order/checkout", `{"userId":"user-1"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, store.Get("user-1").Len())
		// 搜尋序號隨 session 一併清除
		assert.Equal(t, uint64(1), h.tracker.Begin("user-1"))
	})

	t.Run("failure keeps the cart for retry", func(t *testing.T) {
		router, _, store := newTestRouter(t, "http://127.0.0.1:1")
		store.Get("user-1").Add(mall.Product{ID: 10, MallType: mall.Coupang, Name: "국산 두부 300g", Price: 2500, Capacity: 300, Unit: "g"}, 1)

		w := doJSON(router, http.MethodPost, "/api/v1/order/checkout", `{"userId":"user-1"}`)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, 1, store.Get("user-1").Len())
	})

	t.Run("explicit mall list bypasses the cart grouping", func(t *testing.T) {
		router, _, _ := newTestRouter(t, backend.URL)

		w := doJSON(router, http.MethodPost, "/api/v1/order/auto-cart",
			`{"userId":"user-1","mallTypes":["NAVER"]}`)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("empty cart cannot be ordered", func(t *testing.T) {
		router, _, _ := newTestRouter(t, backend.URL)

		w := doJSON(router, http.MethodPost, "/api/v1/order/checkout", `{"userId":"nobody"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
