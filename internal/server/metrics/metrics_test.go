package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesTickMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.MSPT.Set(2.5)
	m.TPS.Set(20)
	m.Players.Set(3)
	m.Ticks.Inc()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "classic_server_mspt_milliseconds 2.5")
	assert.Contains(t, body, "classic_server_ticks_per_second 20")
	assert.Contains(t, body, "classic_server_players 3")
	assert.Contains(t, body, "classic_server_ticks_total 1")
}
