package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/lumina-backend/internal/domain"
	repotest "github.com/yungbote/lumina-backend/internal/data/repos/testutil"
)

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.ApiInflightInc()
	m.ApiInflightDec()
	m.ObserveJob("user_avatar", "succeeded", time.Second)
	m.ObserveOrderPlaced(100)
	m.IncRateLimited("/api/auth/token/")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestInitDisabled(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "")
	assert.Nil(t, Init(nil))
}

func TestMetricsCountersAndExposition(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("GET", "/api/shop/products/", "200", 20*time.Millisecond)
	m.ObserveAPI("GET", "/api/shop/products/", "200", 30*time.Millisecond)
	m.ObserveJob("order_confirmation_email", "succeeded", time.Second)
	m.ObserveOrderPlaced(4860)
	m.IncOrderStatus("shipped")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.apiRequests.WithLabelValues("GET", "/api/shop/products/", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobRuns.WithLabelValues("order_confirmation_email", "succeeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ordersPlaced))
	assert.InDelta(t, 48.60, testutil.ToFloat64(m.ordersRevenue), 1e-9)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "lumina_api_requests_total"))
	assert.True(t, strings.Contains(body, "lumina_order_status_transitions_total{status=\"shipped\"} 1"))
}

func TestCollectQueueDepth(t *testing.T) {
	db := repotest.DB(t)
	if repotest.IsPostgres() {
		t.Skip("queue depth counts the whole shared table")
	}
	runs := []*types.JobRun{
		{JobType: "user_avatar", Status: types.JobStatusQueued, Stage: "queued"},
		{JobType: "user_avatar", Status: types.JobStatusQueued, Stage: "queued"},
		{JobType: "order_status_email", Status: types.JobStatusFailed, Stage: "failed"},
	}
	require.NoError(t, db.Create(&runs).Error)

	m := NewMetrics()
	require.NoError(t, m.collectQueueDepth(context.Background(), db))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.queueDepth.WithLabelValues("queued")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.queueDepth.WithLabelValues("failed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.queueDepth.WithLabelValues("running")))
}
