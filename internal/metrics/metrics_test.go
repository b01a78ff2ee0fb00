package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesServiceCollectors(t *testing.T) {
	Optimizations.WithLabelValues("optimal").Inc()
	h := Handler()
	RegisterDefault() // idempotent

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.True(t, strings.Contains(body, `tmsopt_optimizations_total{status="optimal"}`), body)
	assert.GreaterOrEqual(t, testutil.ToFloat64(Optimizations.WithLabelValues("optimal")), 1.0)
}
