package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/glossifi/storefront/internal/apperr"
	"github.com/glossifi/storefront/internal/auth"
	"github.com/glossifi/storefront/internal/catalog"
	"github.com/glossifi/storefront/internal/orders"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// writeError maps domain errors onto the API taxonomy. Anything unknown is
// an internal error: logged in full, surfaced generically.
func writeError(w http.ResponseWriter, err error) {
	var fieldErr *apperr.FieldError
	var missing *orders.ProductNotFoundError
	var short *orders.InsufficientStockError
	var badMove *orders.InvalidTransitionError

	switch {
	case errors.As(err, &fieldErr):
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:   "invalid input",
			Details: map[string]string{"field": fieldErr.Field, "reason": fieldErr.Reason},
		})
	case errors.As(err, &missing):
		writeJSON(w, http.StatusNotFound, errorBody{Error: missing.Error()})
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, orders.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.As(err, &short):
		writeJSON(w, http.StatusConflict, errorBody{Error: short.Error(), Details: short.Shortages})
	case errors.As(err, &badMove):
		writeJSON(w, http.StatusConflict, errorBody{Error: badMove.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrNoSession):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
	default:
		slog.Error("request failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}
