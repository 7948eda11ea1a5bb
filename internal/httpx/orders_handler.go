package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/glossifi/storefront/internal/auth"
	"github.com/glossifi/storefront/internal/orders"
)

type OrdersHandler struct {
	Orders *orders.Service
	Auth   *auth.Service
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.create)
	r.Get("/orders/{id}/status", h.status)
	r.Group(func(r chi.Router) {
		r.Use(RequireAdmin(h.Auth))
		r.Get("/orders", h.list)
		r.Get("/orders/{id}", h.get)
		r.Put("/orders/{id}", h.update)
	})
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var in orders.PlaceInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Orders.Place(ctx, in, middleware.GetReqID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

// status is the public order-tracking endpoint; it serves the status field
// alone and may answer from cache.
func (h *OrdersHandler) status(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	st, err := h.Orders.Status(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]orders.Status{"status": st})
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var filter *orders.Status
	if s := r.URL.Query().Get("status"); s != "" {
		st, err := orders.ParseStatus(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}
		filter = &st
	}

	out, err := h.Orders.List(ctx, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if out == nil {
		out = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Orders.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) update(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json"})
		return
	}
	to, err := orders.ParseStatus(body.Status)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Orders.UpdateStatus(ctx, chi.URLParam(r, "id"), to, middleware.GetReqID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}
