package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"post-board/cmd/api/auth"
	"post-board/cmd/api/services"
	"post-board/config"
	"post-board/models"
	"post-board/repositories"
	"post-board/repositories/memory"
)

type brokenPostStore struct{ repositories.PostStore }

var errBroken = errors.New("connection refused")

func (brokenPostStore) List(context.Context, repositories.ListPostsOptions) ([]models.Post, error) {
	return nil, errBroken
}

func (brokenPostStore) FindByID(context.Context, primitive.ObjectID) (*models.Post, error) {
	return nil, errBroken
}

func (brokenPostStore) Insert(context.Context, *models.Post) error {
	return errBroken
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newPostsEngine(store repositories.PostStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := PostsHandler(services.NewPostService(store, nil))
	r.Any("/posts", h)
	r.Any("/posts/:id", h)
	return r
}

func newUsersEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens, err := auth.NewTokenService(config.AuthConfig{Secret: "handler-secret"})
	require.NoError(t, err)
	svc := services.NewUserService(memory.NewUserStore(), auth.NewPasswordHasher(bcrypt.MinCost), tokens, nil)

	r := gin.New()
	r.Any("/users", RegisterHandler(svc))
	r.Any("/users/login", LoginHandler(svc))
	return r
}

func request(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func createPostVia(t *testing.T, r http.Handler, title, content string) map[string]any {
	t.Helper()
	body, err := json.Marshal(map[string]string{"title": title, "content": content})
	require.NoError(t, err)
	w := request(r, http.MethodPost, "/posts", string(body))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var data map[string]any
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &data))
	return data
}

func TestPostsHandlerLifecycle(t *testing.T) {
	r := newPostsEngine(memory.NewPostStore())

	created := createPostVia(t, r, "  Hello ", "World")
	id := created["id"].(string)
	assert.Equal(t, "Hello", created["title"])
	assert.EqualValues(t, 0, created["version"])

	w := request(r, http.MethodGet, "/posts/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeEnvelope(t, w).Success)

	w = request(r, http.MethodPut, "/posts/"+id, `{"content":"Changed"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated map[string]any
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &updated))
	assert.Equal(t, "Hello", updated["title"])
	assert.Equal(t, "Changed", updated["content"])
	assert.EqualValues(t, 1, updated["version"])

	w = request(r, http.MethodDelete, "/posts/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	var deleted map[string]any
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &deleted))
	assert.Equal(t, id, deleted["id"])

	w = request(r, http.MethodGet, "/posts/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, MsgPostNotFound, decodeEnvelope(t, w).Error)
}

func TestPostsHandlerList(t *testing.T) {
	r := newPostsEngine(memory.NewPostStore())
	for _, title := range []string{"one", "two", "three"} {
		createPostVia(t, r, title, "body")
	}

	w := request(r, http.MethodGet, "/posts?limit=2&page=0", "")
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Items []struct {
			Title string `json:"title"`
		} `json:"items"`
		PrevPage *int `json:"prevPage"`
		NextPage *int `json:"nextPage"`
		CurrPage int  `json:"currPage"`
		Count    int  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &page))
	assert.Equal(t, 2, page.Count)
	assert.Nil(t, page.PrevPage)
	require.NotNil(t, page.NextPage)
	assert.Equal(t, 1, *page.NextPage)
	assert.Equal(t, "three", page.Items[0].Title)

	// 잘못된 숫자는 기본값으로 대체된다.
	w = request(r, http.MethodGet, "/posts?limit=abc&page=-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &page))
	assert.Equal(t, 3, page.Count)
	assert.Equal(t, 0, page.CurrPage)
	assert.Nil(t, page.NextPage)

	// page*limit 가 int64 를 넘는 페이지는 빈 목록이다.
	w = request(r, http.MethodGet, "/posts?limit=100&page=100000000000000000", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	page.Items = nil
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &page))
	assert.Equal(t, 0, page.Count)
	assert.Empty(t, page.Items)
	assert.Equal(t, 100000000000000000, page.CurrPage)
	assert.Nil(t, page.NextPage)
}

func TestPostsHandlerErrors(t *testing.T) {
	r := newPostsEngine(memory.NewPostStore())
	existing := createPostVia(t, r, "title", "content")["id"].(string)
	missing := primitive.NewObjectID().Hex()

	testCases := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"create without body", http.MethodPost, "/posts", "", http.StatusBadRequest, MsgPostDataRequired},
		{"create with empty object", http.MethodPost, "/posts", `{}`, http.StatusBadRequest, MsgPostDataRequired},
		{"create with malformed json", http.MethodPost, "/posts", `{"title":`, http.StatusBadRequest, MsgPostDataRequired},
		{"create with blank title", http.MethodPost, "/posts", `{"title":"  ","content":"c"}`, http.StatusBadRequest,
			"Post validation failed: title: Please provide a title for this post."},
		{"create with long title", http.MethodPost, "/posts", `{"title":"` + strings.Repeat("x", 61) + `","content":"c"}`, http.StatusBadRequest,
			"Post validation failed: title: Title cannot be more than 60 characters"},
		{"get bad id", http.MethodGet, "/posts/not-an-id", "", http.StatusBadRequest, MsgInvalidPostID},
		{"get missing", http.MethodGet, "/posts/" + missing, "", http.StatusNotFound, MsgPostNotFound},
		{"update bad id", http.MethodPut, "/posts/123", `{"title":"x"}`, http.StatusBadRequest, MsgInvalidPostID},
		{"update bad id reported before body", http.MethodPut, "/posts/123", "", http.StatusBadRequest, MsgInvalidPostID},
		{"update without body", http.MethodPut, "/posts/" + existing, "", http.StatusBadRequest, MsgPostDataRequired},
		{"update validation", http.MethodPut, "/posts/" + existing, `{"content":""}`, http.StatusBadRequest,
			"Post validation failed: content: Please provide the content for this post."},
		{"update missing", http.MethodPut, "/posts/" + missing, `{"title":"x"}`, http.StatusNotFound, MsgPostNotFound},
		{"delete bad id", http.MethodDelete, "/posts/zzz", "", http.StatusBadRequest, MsgInvalidPostID},
		{"delete missing", http.MethodDelete, "/posts/" + missing, "", http.StatusNotFound, MsgPostNotFound},
		{"collection put", http.MethodPut, "/posts", `{"title":"x"}`, http.StatusMethodNotAllowed, "Method not allowed"},
		{"item post", http.MethodPost, "/posts/" + existing, `{"title":"x"}`, http.StatusMethodNotAllowed, "Method not allowed"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			w := request(r, testCase.method, testCase.path, testCase.body)
			assert.Equal(t, testCase.wantStatus, w.Code)
			env := decodeEnvelope(t, w)
			assert.False(t, env.Success)
			assert.Equal(t, testCase.wantError, env.Error)
		})
	}
}

func TestPostsHandlerHidesStoreFailures(t *testing.T) {
	r := newPostsEngine(brokenPostStore{})

	testCases := []struct {
		method string
		path   string
		body   string
		want   string
	}{
		{http.MethodGet, "/posts", "", MsgFailedFetchPosts},
		{http.MethodPost, "/posts", `{"title":"t","content":"c"}`, MsgFailedCreatePost},
		{http.MethodGet, "/posts/" + primitive.NewObjectID().Hex(), "", MsgFailedFetchPost},
	}
	for _, testCase := range testCases {
		w := request(r, testCase.method, testCase.path, testCase.body)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, testCase.want, env.Error)
		assert.NotContains(t, w.Body.String(), errBroken.Error())
	}
}

func TestRegisterAndLogin(t *testing.T) {
	r := newUsersEngine(t)

	w := request(r, http.MethodPost, "/users", `{"username":"admin","password":"pw","reEnterPassword":"pw"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var registered map[string]any
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &registered))
	assert.Equal(t, "admin", registered["username"])
	assert.NotEmpty(t, registered["id"])
	assert.NotEmpty(t, registered["token"])
	assert.EqualValues(t, 0, registered["version"])
	assert.NotContains(t, w.Body.String(), "passwordHash")
	assert.NotContains(t, w.Body.String(), "$2a$")

	w = request(r, http.MethodPost, "/users/login", `{"username":"admin","password":"pw"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var loggedIn map[string]any
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &loggedIn))
	assert.Equal(t, registered["id"], loggedIn["id"])
	assert.NotEmpty(t, loggedIn["token"])
}

func TestUserHandlerErrors(t *testing.T) {
	r := newUsersEngine(t)
	w := request(r, http.MethodPost, "/users", `{"username":"taken","password":"pw","reEnterPassword":"pw"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	long := strings.Repeat("p", 80)

	testCases := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"register without body", http.MethodPost, "/users", "", http.StatusBadRequest, MsgUserDataRequired},
		{"register mismatch", http.MethodPost, "/users", `{"username":"a","password":"x","reEnterPassword":"y"}`,
			http.StatusBadRequest, MsgPasswordsMismatch},
		{"register empty username", http.MethodPost, "/users", `{"username":" ","password":"x","reEnterPassword":"x"}`,
			http.StatusBadRequest, "User validation failed: username: Please provide a username."},
		{"register empty password", http.MethodPost, "/users", `{"username":"a","password":"","reEnterPassword":""}`,
			http.StatusBadRequest, "User validation failed: password: Please provide a password."},
		{"register password over bcrypt limit", http.MethodPost, "/users",
			`{"username":"long","password":"` + long + `","reEnterPassword":"` + long + `"}`,
			http.StatusBadRequest, "User validation failed: password: Password cannot be more than 72 bytes"},
		{"register duplicate", http.MethodPost, "/users", `{"username":"taken","password":"pw","reEnterPassword":"pw"}`,
			http.StatusBadRequest, MsgUsernameTaken},
		{"login unknown user", http.MethodPost, "/users/login", `{"username":"ghost","password":"pw"}`,
			http.StatusNotFound, MsgUserNotFound},
		{"login wrong password", http.MethodPost, "/users/login", `{"username":"taken","password":"nope"}`,
			http.StatusUnauthorized, MsgIncorrectPassword},
		{"login without body", http.MethodPost, "/users/login", "", http.StatusBadRequest, MsgUserDataRequired},
		{"register get", http.MethodGet, "/users", "", http.StatusMethodNotAllowed, "Method not allowed"},
		{"login delete", http.MethodDelete, "/users/login", "", http.StatusMethodNotAllowed, "Method not allowed"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			w := request(r, testCase.method, testCase.path, testCase.body)
			assert.Equal(t, testCase.wantStatus, w.Code)
			assert.Equal(t, testCase.wantError, decodeEnvelope(t, w).Error)
		})
	}
}

func TestSeedPostsHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := memory.NewPostStore()
	r := gin.New()
	r.Any("/seeders/posts", SeedPostsHandler(services.NewSeedService(store, 5)))

	w := request(r, http.MethodGet, "/seeders/posts?count=3", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"success":true,"data":{"count":3}}`, w.Body.String())

	w = request(r, http.MethodGet, "/seeders/posts?count=50", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"count":5}}`, w.Body.String())

	posts, err := store.List(context.Background(), repositories.ListPostsOptions{Limit: 100})
	require.NoError(t, err)
	assert.Len(t, posts, 8)

	for _, q := range []string{"", "?count=", "?count=abc", "?count=0", "?count=-2"} {
		w = request(r, http.MethodGet, "/seeders/posts"+q, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
		assert.Equal(t, MsgCountRequired, decodeEnvelope(t, w).Error)
	}

	w = request(r, http.MethodPost, "/seeders/posts?count=1", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		name       string
		db         Pinger
		wantStatus int
		wantBody   string
	}{
		{"memory storage", nil, http.StatusOK, `{"status":"ok","storage":"memory"}`},
		{"mongo up", stubPinger{}, http.StatusOK, `{"status":"ok"}`},
		{"mongo down", stubPinger{err: errors.New("server selection timeout")}, http.StatusServiceUnavailable,
			`{"status":"degraded","mongo":"down","error":"server selection timeout"}`},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", HealthHandler(testCase.db))
			w := request(r, http.MethodGet, "/health", "")
			assert.Equal(t, testCase.wantStatus, w.Code)
			assert.JSONEq(t, testCase.wantBody, w.Body.String())
		})
	}
}
