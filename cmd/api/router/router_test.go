package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"post-board/cmd/api/auth"
	"post-board/cmd/api/metrics"
	"post-board/cmd/api/ratelimit"
	"post-board/cmd/api/services"
	"post-board/config"
	"post-board/repositories/memory"
)

type testDeps struct {
	Deps
	tokens *auth.TokenService
}

func newDeps(t *testing.T, usersLimit, postsLimit int) testDeps {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewTokenService(config.AuthConfig{Secret: "router-secret"})
	require.NoError(t, err)

	store := ratelimit.NewMemoryStore(100, time.Minute)
	posts := memory.NewPostStore()
	return testDeps{
		tokens: tokens,
		Deps: Deps{
			Posts:        services.NewPostService(posts, nil),
			Users:        services.NewUserService(memory.NewUserStore(), auth.NewPasswordHasher(bcrypt.MinCost), tokens, nil),
			Tokens:       tokens,
			UsersLimiter: ratelimit.NewLimiter(store, "users", usersLimit, time.Minute),
			PostsLimiter: ratelimit.NewLimiter(store, "posts", postsLimit, time.Minute),
			Metrics:      metrics.New(),
		},
	}
}

func send(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "198.51.100.7:40000"
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	assert.False(t, body.Success)
	return body.Error
}

func TestRegisterThenUseTokenOnPosts(t *testing.T) {
	d := newDeps(t, 5, 60)
	r := New(d.Deps)

	w := send(r, http.MethodPost, "/api/users", `{"username":"writer","password":"pw","reEnterPassword":"pw"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var registered struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))
	bearer := map[string]string{"Authorization": "Bearer " + registered.Data.Token}

	w = send(r, http.MethodPost, "/api/posts", `{"title":"first","content":"hello"}`, bearer)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = send(r, http.MethodGet, "/api/posts", "", bearer)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"first"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestPostsRequireBearerToken(t *testing.T) {
	d := newDeps(t, 5, 60)
	r := New(d.Deps)

	expired, err := auth.NewTokenService(config.AuthConfig{Secret: "router-secret", TokenTTL: time.Nanosecond})
	require.NoError(t, err)
	stale, err := expired.Issue("u", "id", 0)
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	testCases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"missing header", nil, "Bearer token is required"},
		{"wrong scheme", map[string]string{"Authorization": "Basic abc"}, "Invalid bearer token"},
		{"lowercase scheme", map[string]string{"Authorization": "bearer abc"}, "Invalid bearer token"},
		{"garbage token", map[string]string{"Authorization": "Bearer abc"}, "Token is invalid"},
		{"expired token", map[string]string{"Authorization": "Bearer " + stale}, "Token is invalid"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			w := send(r, http.MethodGet, "/api/posts", "", testCase.headers)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, testCase.want, errorOf(t, w))
		})
	}
}

func TestMethodGateRunsAfterAuth(t *testing.T) {
	d := newDeps(t, 5, 60)
	r := New(d.Deps)
	token, err := d.tokens.Issue("u", "id", 0)
	require.NoError(t, err)

	w := send(r, http.MethodPatch, "/api/posts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = send(r, http.MethodPatch, "/api/posts", "", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "Method not allowed", errorOf(t, w))

	w = send(r, http.MethodGet, "/api/users/login", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestUnregisteredMethodAndPath(t *testing.T) {
	d := newDeps(t, 5, 60)
	r := New(d.Deps)

	w := send(r, http.MethodPost, "/health", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "Method not allowed", errorOf(t, w))

	w = send(r, http.MethodGet, "/api/nothing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not found", errorOf(t, w))
}

func TestUsersScopeIsRateLimited(t *testing.T) {
	d := newDeps(t, 2, 60)
	r := New(d.Deps)

	for i := 0; i < 2; i++ {
		w := send(r, http.MethodPost, "/api/users/login", `{"username":"ghost","password":"pw"}`, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	}

	w := send(r, http.MethodPost, "/api/users/login", `{"username":"ghost","password":"pw"}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "Too many requests", errorOf(t, w))
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	// 다른 클라이언트 키는 별도의 윈도우를 갖는다.
	w = send(r, http.MethodPost, "/api/users/login", `{"username":"ghost","password":"pw"}`,
		map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// posts 스코프는 users 스코프와 카운터를 공유하지 않는다.
	w = send(r, http.MethodGet, "/api/posts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSeederMountedOnlyWhenEnabled(t *testing.T) {
	d := newDeps(t, 5, 60)
	r := New(d.Deps)
	w := send(r, http.MethodGet, "/api/seeders/posts?count=2", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	d.Seeder = services.NewSeedService(memory.NewPostStore(), 10)
	r = New(d.Deps)
	w = send(r, http.MethodGet, "/api/seeders/posts?count=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"success":true,"data":{"count":2}}`, w.Body.String())

	w = send(r, http.MethodPost, "/api/seeders/posts?count=2", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestOperationalEndpoints(t *testing.T) {
	d := newDeps(t, 5, 60)
	r := New(d.Deps)

	w := send(r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","storage":"memory"}`, w.Body.String())

	w = send(r, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "post_board_http_requests_total")

	w = send(r, http.MethodGet, "/api-docs/doc.json", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Post Board API")
	assert.Contains(t, w.Body.String(), "/posts/{id}")
}

func TestCORSPreflight(t *testing.T) {
	d := newDeps(t, 5, 60)
	d.CORSOrigins = []string{"https://board.example.com"}
	r := New(d.Deps)

	w := send(r, http.MethodOptions, "/api/posts", "", map[string]string{
		"Origin":                         "https://board.example.com",
		"Access-Control-Request-Method":  http.MethodPost,
		"Access-Control-Request-Headers": "Authorization",
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://board.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
