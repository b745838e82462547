package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/dataadapter/internal/backend"
)

func TestRoute(t *testing.T) {
	tests := map[string]string{
		"/news/article/list":             "/news/article/list",
		"/news/article/queryById/42":     "/news/article/queryById/:id",
		"/customer/case/edit/abc":        "/customer/case/edit/:id",
		"/case/config/delete/1":          "/case/config/delete/:id",
		"/sys/common/deleteFile/file-1":  "/sys/common/deleteFile/:id",
		"/form/submission/deleteBatch":   "/form/submission/deleteBatch",
		"/news/article/featured?limit=5": "/news/article/featured",
	}
	for in, want := range tests {
		assert.Equal(t, want, Route(in), in)
	}
}

func TestMetrics_ObserveCall(t *testing.T) {
	m := New()
	m.ObserveCall("article", "list", backend.BaaS, 200, 5*time.Millisecond)
	m.ObserveCall("article", "list", backend.BaaS, 200, 5*time.Millisecond)
	m.ObserveCall("article", "get", backend.LowCode, 404, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.calls.WithLabelValues("article", "list", "baas", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("article", "get", "lowcode", "404")))
}

func TestMetrics_ObserveRequestUsesRoute(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "/news/article/queryById/1", 200, time.Millisecond)
	m.ObserveRequest("GET", "/news/article/queryById/2", 200, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/news/article/queryById/:id", "200")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveProbe(backend.LowCode, true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `dataadapter_backend_up{backend="lowcode"} 1`))
}
