package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const (
	CtxBrokerID ctxKey = "brokerID"
	CtxIsAdmin  ctxKey = "isAdmin"
)

// BrokerID returns the authenticated broker's ID from the request context.
func BrokerID(r *http.Request) uint {
	id, _ := r.Context().Value(CtxBrokerID).(uint)
	return id
}

// IsAdmin reports whether the authenticated broker is an admin.
func IsAdmin(r *http.Request) bool {
	ok, _ := r.Context().Value(CtxIsAdmin).(bool)
	return ok
}

// Middleware validates the Bearer token and stashes the claims in context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		h := r.Header.Get("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		raw := strings.TrimPrefix(h, "Bearer ")
		claims, err := ParseAndValidate(raw)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), CtxBrokerID, claims.BrokerID)
		ctx = context.WithValue(ctx, CtxIsAdmin, claims.IsAdmin)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects non-admin callers. Must run after Middleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ok, _ := r.Context().Value(CtxIsAdmin).(bool); !ok {
			http.Error(w, "forbidden (admin only)", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
