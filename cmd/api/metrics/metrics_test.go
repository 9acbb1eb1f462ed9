package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsExposition(t *testing.T) {
	m := New()
	m.RequestsTotal.WithLabelValues("GET", "/api/posts", "200").Inc()
	m.RateLimited.WithLabelValues("users").Add(2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RateLimited.WithLabelValues("users")))

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `post_board_http_requests_total{method="GET",route="/api/posts",status="200"} 1`)
	assert.Contains(t, string(body), `post_board_rate_limit_denied_total{scope="users"} 2`)
}

func TestNewIsIndependentPerCall(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = New()
		_ = New()
	})
}
