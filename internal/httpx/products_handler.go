package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/glossifi/storefront/internal/auth"
	"github.com/glossifi/storefront/internal/catalog"
)

type ProductsHandler struct {
	Catalog *catalog.Service
	Auth    *auth.Service
}

func (h *ProductsHandler) Register(r *chi.Mux) {
	r.Get("/products", h.list)
	r.Get("/products/{id}", h.get)
	r.Group(func(r chi.Router) {
		r.Use(RequireAdmin(h.Auth))
		r.Post("/products", h.create)
		r.Put("/products/{id}", h.update)
		r.Delete("/products/{id}", h.delete)
	})
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Catalog.List(ctx, r.URL.Query().Get("featured") == "true")
	if err != nil {
		writeError(w, err)
		return
	}
	if ps == nil {
		ps = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Catalog.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Catalog.Create(ctx, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	var patch catalog.ProductPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Catalog.Update(ctx, chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Catalog.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}
