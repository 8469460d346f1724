package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestCollectorsAreExposed(t *testing.T) {
	BidsPlaced.Inc()
	Eliminations.WithLabelValues("cheater").Inc()
	QueueSize.WithLabelValues("main").Set(3)
	HTTPRequests.WithLabelValues("GET", "/api/v1/health", "200").Inc()

	body := scrape(t)
	assert.Contains(t, body, "liarsdice_bids_total")
	assert.Contains(t, body, `liarsdice_eliminations_total{result="cheater"}`)
	assert.Contains(t, body, `liarsdice_matchmaking_queue_size{lobby="main"} 3`)
	assert.Contains(t, body, `route="/api/v1/health"`)
}
