package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	tok, err := GenerateToken(42, true)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := ParseAndValidate(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.BrokerID)
	assert.True(t, claims.IsAdmin)
}

func TestParseRejectsTamperedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	tok, err := GenerateToken(7, false)
	require.NoError(t, err)

	_, err = ParseAndValidate(tok + "x")
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "a-different-secret")
	_, err = ParseAndValidate(tok)
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	var gotID uint
	var gotAdmin bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = BrokerID(r)
		gotAdmin = IsAdmin(r)
		w.WriteHeader(http.StatusOK)
	})

	tok, err := GenerateToken(9, true)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/deals", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	Middleware(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(9), gotID)
	assert.True(t, gotAdmin)

	// no header
	rec = httptest.NewRecorder()
	Middleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/deals", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodDelete, "/brokers/1", nil)
	req = req.WithContext(context.WithValue(req.Context(), CtxIsAdmin, false))
	rec := httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = req.WithContext(context.WithValue(req.Context(), CtxIsAdmin, true))
	rec = httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
