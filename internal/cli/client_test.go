package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSendsTokenAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/games/G1/bid", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 3, body["quantity"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"G1","round":2}`))
	}))
	defer srv.Close()

	var g Game
	err := NewClient(srv.URL+"/", "tok").Post(context.Background(), "/games/G1/bid", map[string]int{"quantity": 3, "face": 4}, &g)
	require.NoError(t, err)
	assert.Equal(t, "G1", g.ID)
	assert.Equal(t, 2, g.Round)
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":{"code":"WRONG_PHASE","message":"Not allowed in this phase"}}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "").Post(context.Background(), "/games/G1/liar", nil, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.True(t, HasCode(err, "WRONG_PHASE"))
	assert.False(t, HasCode(err, "NOT_YOUR_TURN"))
}

func TestClientNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "").Get(context.Background(), "/health", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.False(t, HasCode(err, ""))
}

func TestClientHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewClient("http://127.0.0.1:1", "").Get(ctx, "/health", nil)
	assert.ErrorIs(t, err, context.Canceled)
}
