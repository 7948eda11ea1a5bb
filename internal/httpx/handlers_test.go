package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/glossifi/storefront/internal/auth"
	"github.com/glossifi/storefront/internal/catalog"
	"github.com/glossifi/storefront/internal/orders"
)

// ---- fakes -----------------------------------------------------------------

type memProducts struct {
	mu sync.Mutex
	m  map[string]catalog.Product
}

func (r *memProducts) Create(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.m[p.ID] = p
	return p, nil
}

func (r *memProducts) Get(ctx context.Context, id string) (catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.m[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func (r *memProducts) List(ctx context.Context, featuredOnly bool) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []catalog.Product
	for _, p := range r.m {
		if !featuredOnly || p.Featured {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProducts) Update(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[p.ID]; !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	r.m[p.ID] = p
	return p, nil
}

func (r *memProducts) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(r.m, id)
	return nil
}

func (r *memProducts) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.m), nil
}

// memOrders shares stock with memProducts so placement really decrements.
type memOrders struct {
	mu       sync.Mutex
	products *memProducts
	m        map[string]orders.Order
	seq      []string
}

func (r *memOrders) Place(ctx context.Context, o orders.Order) (orders.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products.mu.Lock()
	defer r.products.mu.Unlock()

	need := make(map[string]int)
	for _, it := range o.Items {
		need[it.ProductID] += it.Quantity
	}
	var shortages []orders.Shortage
	for id, qty := range need {
		p, ok := r.products.m[id]
		if !ok {
			return orders.Order{}, &orders.ProductNotFoundError{ProductID: id}
		}
		if p.Stock < qty {
			shortages = append(shortages, orders.Shortage{ProductID: id, Name: p.Name, Requested: qty, Available: p.Stock})
		}
	}
	if len(shortages) > 0 {
		return orders.Order{}, &orders.InsufficientStockError{Shortages: shortages}
	}
	for id, qty := range need {
		p := r.products.m[id]
		p.Stock -= qty
		r.products.m[id] = p
	}
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	r.m[o.ID] = o
	r.seq = append(r.seq, o.ID)
	return o, nil
}

func (r *memOrders) Get(ctx context.Context, id string) (orders.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.m[id]
	if !ok {
		return orders.Order{}, orders.ErrNotFound
	}
	return o, nil
}

func (r *memOrders) List(ctx context.Context, status *orders.Status) ([]orders.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []orders.Order
	for i := len(r.seq) - 1; i >= 0; i-- {
		o := r.m[r.seq[i]]
		if status == nil || o.Status == *status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memOrders) UpdateStatus(ctx context.Context, id string, to orders.Status) (orders.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.m[id]
	if !ok {
		return orders.Order{}, orders.ErrNotFound
	}
	if !orders.CanTransition(o.Status, to) {
		return orders.Order{}, &orders.InvalidTransitionError{From: o.Status, To: to}
	}
	o.Status = to
	r.m[id] = o
	return o, nil
}

func (r *memOrders) Stats(ctx context.Context, recent int) (orders.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := orders.Stats{TotalRevenue: decimal.Zero}
	for _, o := range r.m {
		st.TotalOrders++
		st.TotalRevenue = st.TotalRevenue.Add(o.TotalAmount)
		if o.Status == orders.StatusPending {
			st.PendingOrders++
		}
	}
	return st, nil
}

type memAdmins struct{ byEmail map[string]auth.Admin }

func (r *memAdmins) ByEmail(ctx context.Context, email string) (auth.Admin, error) {
	a, ok := r.byEmail[email]
	if !ok {
		return auth.Admin{}, auth.ErrInvalidCredentials
	}
	return a, nil
}

func (r *memAdmins) Create(ctx context.Context, a auth.Admin) (auth.Admin, error) {
	r.byEmail[a.Email] = a
	return a, nil
}

// ---- harness ---------------------------------------------------------------

type testAPI struct {
	router   *chi.Mux
	products *memProducts
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	products := &memProducts{m: make(map[string]catalog.Product)}
	ordersRepo := &memOrders{products: products, m: make(map[string]orders.Order)}

	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	admins := &memAdmins{byEmail: map[string]auth.Admin{
		"admin@glossifi.com": {ID: uuid.NewString(), Email: "admin@glossifi.com", Name: "Admin", PasswordHash: hash},
	}}

	authSvc := auth.NewService(admins, &auth.Sessions{RDB: rdb, TTL: time.Hour})
	catalogSvc := catalog.NewService(products, nil)
	orderSvc := orders.NewService(ordersRepo, &orders.RedisStatusCache{RDB: rdb}, nil, nil, "test")

	router := NewRouter()
	(&AuthHandler{Auth: authSvc, SessionTTL: time.Hour}).Register(router)
	(&ProductsHandler{Catalog: catalogSvc, Auth: authSvc}).Register(router)
	(&OrdersHandler{Orders: orderSvc, Auth: authSvc}).Register(router)
	(&DashboardHandler{Catalog: catalogSvc, Orders: orderSvc, Auth: authSvc}).Register(router)

	return &testAPI{router: router, products: products}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) login(t *testing.T) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/admin/login", "", map[string]string{
		"email": "admin@glossifi.com", "password": "s3cret",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body["token"])
	return body["token"]
}

func (a *testAPI) seedProduct(t *testing.T, name string, stock int) string {
	t.Helper()
	p, err := a.products.Create(context.Background(), catalog.Product{
		Name:        name,
		Description: "test product",
		Price:       decimal.RequireFromString("14.99"),
		ImageURL:    "https://example.com/p.jpg",
		Stock:       stock,
	})
	require.NoError(t, err)
	return p.ID
}

func orderBody(productID string, qty int) map[string]any {
	return map[string]any{
		"customerName":    "Ada Lovelace",
		"customerEmail":   "ada@example.com",
		"shippingAddress": "12 Analytical Way",
		"items": []map[string]any{
			{"productId": productID, "quantity": qty, "price": "14.99"},
		},
	}
}

// ---- tests -----------------------------------------------------------------

func TestAdminRoutesRequireSession(t *testing.T) {
	api := newTestAPI(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/orders"},
		{http.MethodGet, "/orders/some-id"},
		{http.MethodPut, "/orders/some-id"},
		{http.MethodPost, "/products"},
		{http.MethodPut, "/products/some-id"},
		{http.MethodDelete, "/products/some-id"},
		{http.MethodGet, "/admin/dashboard"},
	} {
		rec := api.do(t, tc.method, tc.path, "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestPlaceOrderFlow(t *testing.T) {
	api := newTestAPI(t)
	pid := api.seedProduct(t, "Mug", 5)

	rec := api.do(t, http.MethodPost, "/orders", "", orderBody(pid, 2))
	require.Equal(t, http.StatusCreated, rec.Code)

	var o orders.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	require.NotEmpty(t, o.ID)
	require.Equal(t, orders.StatusPending, o.Status)
	require.True(t, o.TotalAmount.Equal(decimal.RequireFromString("29.98")))

	// public status tracking
	rec = api.do(t, http.MethodGet, "/orders/"+o.ID+"/status", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"PENDING"}`, rec.Body.String())

	// admin sees it in the list
	token := api.login(t)
	rec = api.do(t, http.MethodGet, "/orders?status=PENDING", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []orders.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
}

func TestPlaceOrderErrors(t *testing.T) {
	api := newTestAPI(t)
	pid := api.seedProduct(t, "Mug", 1)

	t.Run("invalid json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		api.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation error", func(t *testing.T) {
		body := orderBody(pid, 1)
		body["customerEmail"] = "not-an-email"
		rec := api.do(t, http.MethodPost, "/orders", "", body)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown product", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/orders", "", orderBody("ghost", 1))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("insufficient stock", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/orders", "", orderBody(pid, 3))
		require.Equal(t, http.StatusConflict, rec.Code)
		require.Contains(t, rec.Body.String(), "insufficient stock")
	})
}

func TestOrderStatusUpdate(t *testing.T) {
	api := newTestAPI(t)
	pid := api.seedProduct(t, "Mug", 5)
	token := api.login(t)

	rec := api.do(t, http.MethodPost, "/orders", "", orderBody(pid, 1))
	require.Equal(t, http.StatusCreated, rec.Code)
	var o orders.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))

	t.Run("valid transition", func(t *testing.T) {
		rec := api.do(t, http.MethodPut, "/orders/"+o.ID, token, map[string]string{"status": "PROCESSING"})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = api.do(t, http.MethodGet, "/orders/"+o.ID, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var got orders.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Equal(t, orders.StatusProcessing, got.Status)
	})

	t.Run("unknown status value", func(t *testing.T) {
		rec := api.do(t, http.MethodPut, "/orders/"+o.ID, token, map[string]string{"status": "TELEPORTED"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("forbidden transition", func(t *testing.T) {
		rec := api.do(t, http.MethodPut, "/orders/"+o.ID, token, map[string]string{"status": "PENDING"})
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unknown order", func(t *testing.T) {
		rec := api.do(t, http.MethodPut, "/orders/"+uuid.NewString(), token, map[string]string{"status": "PROCESSING"})
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestProductEndpoints(t *testing.T) {
	api := newTestAPI(t)
	token := api.login(t)

	t.Run("public list is open", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/products", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, "[]", rec.Body.String())
	})

	var created catalog.Product
	t.Run("admin create", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/products", token, catalog.ProductInput{
			Name:        "Premium Black Matte Mug",
			Description: "Sleek black matte finish.",
			Price:       "19.99",
			ImageURL:    "https://example.com/black.jpg",
			Stock:       35,
			Featured:    true,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		require.NotEmpty(t, created.ID)
	})

	t.Run("create validation", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/products", token, catalog.ProductInput{Name: "x"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("public get", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/products/"+created.ID, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("admin delete then 404", func(t *testing.T) {
		rec := api.do(t, http.MethodDelete, "/products/"+created.ID, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		rec = api.do(t, http.MethodGet, "/products/"+created.ID, "", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDashboard(t *testing.T) {
	api := newTestAPI(t)
	pid := api.seedProduct(t, "Mug", 10)
	token := api.login(t)

	for i := 0; i < 2; i++ {
		rec := api.do(t, http.MethodPost, "/orders", "", orderBody(pid, 1))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := api.do(t, http.MethodGet, "/admin/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		TotalProducts int             `json:"totalProducts"`
		TotalOrders   int             `json:"totalOrders"`
		TotalRevenue  decimal.Decimal `json:"totalRevenue"`
		PendingOrders int             `json:"pendingOrders"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.TotalProducts)
	require.Equal(t, 2, body.TotalOrders)
	require.Equal(t, 2, body.PendingOrders)
	require.True(t, body.TotalRevenue.Equal(decimal.RequireFromString("29.98")))
}

func TestLogoutEndsSession(t *testing.T) {
	api := newTestAPI(t)
	token := api.login(t)

	rec := api.do(t, http.MethodGet, "/orders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodPost, "/admin/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/orders", token, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
