package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"post-board/cmd/api/auth"
	"post-board/cmd/api/metrics"
	"post-board/cmd/api/pipeline"
	"post-board/cmd/api/ratelimit"
	"post-board/config"
)

func newTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	svc, err := auth.NewTokenService(config.AuthConfig{Secret: "test-secret"})
	require.NoError(t, err)
	return svc
}

func okHandler(c *gin.Context) {
	claims, _ := auth.IdentityFrom(c)
	username := ""
	if claims != nil {
		username = claims.Username
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": username})
}

func newEngine(m *metrics.Metrics, p pipeline.Pipeline) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestTrace(m), Recovery())
	r.Any("/resource", p.Then(okHandler))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func do(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = "192.0.2.10:5555"
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthGuard(t *testing.T) {
	tokens := newTokens(t)
	valid, err := tokens.Issue("admin", "64b7f0c2a1b2c3d4e5f60718", 0)
	require.NoError(t, err)

	r := newEngine(nil, pipeline.New(AuthGuard(tokens)))

	testCases := []struct {
		name       string
		header     string
		wantStatus int
		wantError  string
	}{
		{name: "missing header", wantStatus: http.StatusUnauthorized, wantError: MsgBearerRequired},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantError: MsgInvalidBearer},
		{name: "lowercase scheme", header: "bearer " + valid, wantStatus: http.StatusUnauthorized, wantError: MsgInvalidBearer},
		{name: "no token segment", header: "Bearer", wantStatus: http.StatusUnauthorized, wantError: MsgInvalidBearer},
		{name: "garbage token", header: "Bearer abc.def.ghi", wantStatus: http.StatusUnauthorized, wantError: MsgTokenInvalid},
		{name: "valid token", header: "Bearer " + valid, wantStatus: http.StatusOK},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			headers := map[string]string{}
			if testCase.header != "" {
				headers["Authorization"] = testCase.header
			}
			w := do(r, http.MethodGet, "/resource", headers)
			assert.Equal(t, testCase.wantStatus, w.Code)

			body := decode(t, w)
			if testCase.wantError != "" {
				assert.Equal(t, false, body["success"])
				assert.Equal(t, testCase.wantError, body["error"])
				return
			}
			assert.Equal(t, "admin", body["data"])
		})
	}
}

func TestMethodGate(t *testing.T) {
	r := newEngine(nil, pipeline.New(MethodGate(http.MethodGet, http.MethodPost)))

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/resource", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/resource", nil).Code)

	w := do(r, http.MethodPatch, "/resource", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, MsgMethodNotAllowed, decode(t, w)["error"])
}

func TestMethodAllowed(t *testing.T) {
	allowed := []string{"GET", "POST"}
	assert.True(t, MethodAllowed("GET", allowed))
	assert.False(t, MethodAllowed("get", allowed))
	assert.False(t, MethodAllowed("", allowed))
	assert.False(t, MethodAllowed("DELETE", allowed))
}

func TestRateLimitInterceptor(t *testing.T) {
	m := metrics.New()
	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore(100, time.Minute), "users", 2, time.Minute)
	r := newEngine(m, pipeline.New(RateLimit(limiter, m)))

	headers := map[string]string{"X-Forwarded-For": "10.1.1.1, 10.0.0.1"}
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/resource", headers).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/resource", headers).Code)

	w := do(r, http.MethodGet, "/resource", headers)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, MsgTooManyRequests, decode(t, w)["error"])
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimited.WithLabelValues("users")))

	// 다른 클라이언트는 영향을 받지 않는다.
	other := map[string]string{"X-Forwarded-For": "10.9.9.9"}
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/resource", other).Code)
}

func TestPipelineOrderRateLimitBeforeAuth(t *testing.T) {
	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore(100, time.Minute), "posts", 1, time.Minute)
	r := newEngine(nil, pipeline.New(
		RateLimit(limiter, nil),
		AuthGuard(newTokens(t)),
		MethodGate(http.MethodGet),
	))

	// 인증 실패 요청도 rate limit 카운트를 소모한다.
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/resource", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodGet, "/resource", nil).Code)
}

func TestPipelineOrderAuthBeforeMethodGate(t *testing.T) {
	r := newEngine(nil, pipeline.New(AuthGuard(newTokens(t)), MethodGate(http.MethodGet)))

	w := do(r, http.MethodDelete, "/resource", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestTraceSetsRequestID(t *testing.T) {
	m := metrics.New()
	r := newEngine(m, pipeline.New())

	w := do(r, http.MethodGet, "/resource", nil)
	assert.NotEmpty(t, w.Header().Get(headerRequestID))

	given := "6f1c2a4e-8b9d-4c3e-a1f2-0b7d9e5c4a31"
	w = do(r, http.MethodGet, "/resource", map[string]string{headerRequestID: given})
	assert.Equal(t, given, w.Header().Get(headerRequestID))

	// UUID 가 아닌 값은 그대로 돌려주지 않고 새로 발급한다.
	forged := "not-a-uuid-" + strings.Repeat("x", 4096)
	w = do(r, http.MethodGet, "/resource", map[string]string{headerRequestID: forged})
	issued := w.Header().Get(headerRequestID)
	assert.NotEqual(t, forged, issued)
	_, err := uuid.Parse(issued)
	assert.NoError(t, err)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues(http.MethodGet, "/resource", "200")))
}

func TestRecovery(t *testing.T) {
	r := newEngine(nil, pipeline.New())

	w := do(r, http.MethodGet, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, MsgInternalError, body["error"])
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"https://board.example.com"}))
	r.Any("/resource", okHandler)

	w := do(r, http.MethodOptions, "/resource", map[string]string{
		"Origin":                        "https://board.example.com",
		"Access-Control-Request-Method": http.MethodPost,
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://board.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Body.String())

	w = do(r, http.MethodGet, "/resource", map[string]string{"Origin": "https://board.example.com"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://board.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
