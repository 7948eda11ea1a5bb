package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/glossifi/storefront/internal/auth"
)

const SessionCookie = "admin_session"

type ctxKey int

const adminIDKey ctxKey = 0

// sessionToken pulls the admin token from the bearer header or the cookie.
func sessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// RequireAdmin gates a route group behind a valid admin session.
func RequireAdmin(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			adminID, err := svc.Verify(r.Context(), sessionToken(r))
			if err != nil {
				writeError(w, auth.ErrNoSession)
				return
			}
			ctx := context.WithValue(r.Context(), adminIDKey, adminID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminID returns the authenticated admin id set by RequireAdmin.
func AdminID(ctx context.Context) string {
	id, _ := ctx.Value(adminIDKey).(string)
	return id
}
