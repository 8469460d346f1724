package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/liarsdice-go/internal/api/apierr"
	"github.com/mcoot/liarsdice-go/internal/api/middleware"
	"github.com/mcoot/liarsdice-go/internal/metrics"
	"github.com/mcoot/liarsdice-go/internal/testutil"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestRecoveryWritesInternalError(t *testing.T) {
	logger, logs := testutil.CaptureLogger()

	r := mux.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.HandleFunc("/games/{id}/explode", func(w http.ResponseWriter, r *http.Request) {
		panic("dice fell off the table")
	})

	counter := metrics.HandlerPanics.WithLabelValues("/games/{id}/explode")
	before := counterValue(t, counter)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/games/G1/explode", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body apierr.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, apierr.CodeInternalError, body.Error.Code)

	assert.Equal(t, before+1, counterValue(t, counter))

	entry := logs.Find("handler panicked")
	require.NotNil(t, entry)
	assert.Equal(t, "dice fell off the table", entry["panic"])
	assert.Equal(t, "/games/{id}/explode", entry["route"])
	assert.NotEmpty(t, entry["stack"])
}

func TestRecoveryPassesThroughNormalResponses(t *testing.T) {
	logger, logs := testutil.CaptureLogger()
	h := middleware.Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, logs.Entries())
}
