package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/liarsdice-go/internal/api/middleware"
	"github.com/mcoot/liarsdice-go/internal/dependencies/mocks"
	"github.com/mcoot/liarsdice-go/internal/services/auth"
	"github.com/mcoot/liarsdice-go/internal/storage/memory"
)

func newAuthService(t *testing.T) (*auth.Service, *mocks.MockClock) {
	t.Helper()
	clk := mocks.NewMockClock(time.Now())
	return auth.New(memory.New(), clk, auth.Config{SessionDuration: time.Hour}), clk
}

func whoAmI(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(middleware.MustGetPlayer(r.Context()).DisplayName))
}

func TestAuthAcceptsHeaderAndQueryToken(t *testing.T) {
	svc, _ := newAuthService(t)
	session, err := svc.CreateGuestPlayer(context.Background(), "Alice")
	require.NoError(t, err)

	h := middleware.Auth(svc)(http.HandlerFunc(whoAmI))

	req := httptest.NewRequest(http.MethodGet, "/players/me", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alice", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events?token="+session.Token, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRejectsMissingAndExpiredTokens(t *testing.T) {
	svc, clk := newAuthService(t)
	session, err := svc.CreateGuestPlayer(context.Background(), "Alice")
	require.NoError(t, err)

	h := middleware.Auth(svc)(http.HandlerFunc(whoAmI))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/players/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	clk.Advance(2 * time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/players/me", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminToken(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	middleware.AdminToken("")(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/mint", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/admin/mint", nil)
	req.Header.Set("X-Admin-Token", "s3cret")
	rec = httptest.NewRecorder()
	middleware.AdminToken("s3cret")(ok).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMustGetPlayerPanicsWithoutSession(t *testing.T) {
	assert.Nil(t, middleware.GetPlayer(context.Background()))
	assert.Panics(t, func() { middleware.MustGetPlayer(context.Background()) })
}
