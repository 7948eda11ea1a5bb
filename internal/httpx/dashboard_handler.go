package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/glossifi/storefront/internal/auth"
	"github.com/glossifi/storefront/internal/catalog"
	"github.com/glossifi/storefront/internal/orders"
)

// recentOrderCount matches how many rows the dashboard table shows.
const recentOrderCount = 5

type DashboardHandler struct {
	Catalog *catalog.Service
	Orders  *orders.Service
	Auth    *auth.Service
}

type dashboardResp struct {
	TotalProducts int             `json:"totalProducts"`
	TotalOrders   int             `json:"totalOrders"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	PendingOrders int             `json:"pendingOrders"`
	RecentOrders  []orders.Order  `json:"recentOrders"`
}

func (h *DashboardHandler) Register(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(RequireAdmin(h.Auth))
		r.Get("/admin/dashboard", h.stats)
	})
}

func (h *DashboardHandler) stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	st, err := h.Orders.Stats(ctx, recentOrderCount)
	if err != nil {
		writeError(w, err)
		return
	}
	products, err := h.Catalog.Count(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	if st.RecentOrders == nil {
		st.RecentOrders = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, dashboardResp{
		TotalProducts: products,
		TotalOrders:   st.TotalOrders,
		TotalRevenue:  st.TotalRevenue,
		PendingOrders: st.PendingOrders,
		RecentOrders:  st.RecentOrders,
	})
}
