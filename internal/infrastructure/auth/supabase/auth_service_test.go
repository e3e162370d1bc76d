package supabase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_ValidateToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":401,"msg":"invalid JWT"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"5f0c3a0e-6b1e-4a53-9d0a-3c2a9e4b7d11","email":"owner@example.com"}`))
	}))
	defer server.Close()

	service, err := NewAuthService(Config{URL: server.URL, APIKey: "anon"})
	require.NoError(t, err)

	user, err := service.ValidateToken(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, "5f0c3a0e-6b1e-4a53-9d0a-3c2a9e4b7d11", user.ID.String())
	assert.Equal(t, "owner@example.com", user.Email)

	_, err = service.ValidateToken(context.Background(), "bad-token")
	assert.Error(t, err)
}
