package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/wyfcoding/energyderivatives/pkg/metrics"
)

func TestGinMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.New("test")

	router := gin.New()
	router.Use(GinMetricsMiddleware(m))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
	}

	if got := testutil.ToFloat64(m.HTTPRequestsTotal); got != 3 {
		t.Errorf("HTTPRequestsTotal = %v, want 3", got)
	}
	if got := testutil.CollectAndCount(m.HTTPRequestDuration); got != 1 {
		t.Errorf("HTTPRequestDuration collected %d series, want 1", got)
	}
}

func TestGinMetricsMiddlewareNilMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(GinMetricsMiddleware(nil))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 with nil metrics", w.Code)
	}
}
