package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/api/v1/transactions/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/transactions/7", nil))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/transactions/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestRecordTransaction(t *testing.T) {
	m := New()

	m.RecordTransaction("outgoing", true, []string{"large_amount", "foreign_country"}, 0.99)
	m.RecordTransaction("incoming", false, nil, 0)
	m.RecordRejected("outgoing")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransactionsTotal.WithLabelValues("outgoing", "flagged")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransactionsTotal.WithLabelValues("incoming", "clean")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransactionsTotal.WithLabelValues("outgoing", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FraudDetected.WithLabelValues("large_amount")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordTransaction("outgoing", true, []string{"x"}, 0.5)
		m.RecordPublish("t", errors.New("boom"))
		m.RecordCache(true)
		m.RecordAlertStatus("Resolved")
		m.RecordGRPC("/x", "OK")
		m.RecordRejected("outgoing")
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.RecordPublish("fraudguard-transactions", nil)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `fraudguard_events_published_total{result="ok",topic="fraudguard-transactions"} 1`)
}
