package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionsByResult(t *testing.T) {
	m := NewMetrics()
	m.IncAction("click", true)
	m.IncAction("click", true)
	m.IncAction("buy_upgrade", false)
	m.IncAction("", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.actionsTotal.WithLabelValues("click", "applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.actionsTotal.WithLabelValues("buy_upgrade", "ignored")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.actionsTotal.WithLabelValues("unknown", "ignored")))
}

func TestSavesAndConnections(t *testing.T) {
	m := NewMetrics()
	m.ObserveSave(time.Millisecond, nil)
	m.ObserveSave(time.Millisecond, errors.New("locked"))
	m.IncEventWrite(nil)
	m.AddConnection(1)
	m.AddConnection(1)
	m.AddConnection(-1)
	m.IncMessage(true)
	m.IncMessage(false)
	m.IncMessage(false)
	m.IncRateLimited()
	m.ObserveTick(50 * time.Microsecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.savesTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.savesTotal.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventWritesTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.wsConnections))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.wsMessagesTotal.WithLabelValues("out")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.wsRateLimited))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ticksTotal))
}

func TestSetGame(t *testing.T) {
	m := NewMetrics()
	m.SetGame(GameStats{ProductionRate: 12.5, Commits: 3, ActiveBugs: 2, LifetimeLines: 1e6})

	assert.Equal(t, 12.5, testutil.ToFloat64(m.productionRate))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.commits))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.activeBugs))
	assert.Equal(t, 1e6, testutil.ToFloat64(m.lifetimeResources.WithLabelValues("lines")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := NewMetrics()
	m.IncAction("prestige", true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `clicker_session_actions_total{action="prestige",result="applied"} 1`)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.IncAction("click", true)
	m.ObserveTick(time.Millisecond)
	m.ObserveSave(time.Millisecond, nil)
	m.SetGame(GameStats{})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
