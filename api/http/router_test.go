package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/artem13815/blog/api/http/handlers"
	"github.com/artem13815/blog/api/http/presenter"
	"github.com/artem13815/blog/pkg/auth"
	"github.com/artem13815/blog/pkg/category"
	"github.com/artem13815/blog/pkg/health"
	"github.com/artem13815/blog/pkg/health/checkers"
	"github.com/artem13815/blog/pkg/post"
	"github.com/artem13815/blog/pkg/repository/memory"
	"github.com/artem13815/blog/pkg/security/jwt"
)

const (
	testSecret = "router-test-secret"
	testIssuer = "blog-test"
)

type testEnv struct {
	app        *fiber.App
	store      *memory.Store
	validator  *jwt.Validator
	adminToken string
	userToken  string
}

type envelope struct {
	Success    bool                  `json:"success"`
	Data       json.RawMessage       `json:"data"`
	Message    string                `json:"message"`
	Error      string                `json:"error"`
	Pagination *presenter.Pagination `json:"pagination"`
	Stack      string                `json:"stack"`
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	t.Cleanup(store.Close)

	gen := jwt.NewGenerator(testSecret, testIssuer, time.Hour)
	authUC := auth.NewAuthService(store.Users(), gen, auth.NewPasswordHasher(bcrypt.MinCost, true), log)
	_, err := authUC.CreateUser(ctx, auth.NewUser{Email: "admin@example.com", Password: "secret1", Name: "Admin", Role: auth.RoleAdmin})
	require.NoError(t, err)
	_, err = authUC.CreateUser(ctx, auth.NewUser{Email: "reader@example.com", Password: "secret2", Name: "Reader"})
	require.NoError(t, err)

	app := NewApp(Options{BodyLimit: 1 << 20, CORSOrigins: []string{"http://localhost:5173"}, Log: log, AccessLog: io.Discard})
	validator := jwt.NewValidator(testSecret, testIssuer)
	Register(app, Handlers{
		Auth:       handlers.NewAuthHandler(authUC),
		Posts:      handlers.NewPostHandler(post.NewService(store.Posts(), post.DefaultLimits)),
		Categories: handlers.NewCategoryHandler(category.NewService(store.Categories())),
		Health:     handlers.NewHealthHandler(health.NewService("test", checkers.NewStoreChecker("memory", store))),
	}, validator)

	env := &testEnv{app: app, store: store, validator: validator}
	env.adminToken = env.login(t, "admin@example.com", "secret1")
	env.userToken = env.login(t, "reader@example.com", "secret2")
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	status, env := e.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": email, "password": password})
	require.Equal(t, http.StatusOK, status, env.Error)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.Token
}

func (e *testEnv) createCategory(t *testing.T, name string) category.Category {
	t.Helper()
	status, env := e.do(t, http.MethodPost, "/api/categories", e.adminToken, fiber.Map{"name": name})
	require.Equal(t, http.StatusCreated, status, env.Error)
	var c category.Category
	require.NoError(t, json.Unmarshal(env.Data, &c))
	return c
}

func (e *testEnv) createPost(t *testing.T, body fiber.Map) post.Post {
	t.Helper()
	status, env := e.do(t, http.MethodPost, "/api/posts", e.adminToken, body)
	require.Equal(t, http.StatusCreated, status, env.Error)
	var p post.Post
	require.NoError(t, json.Unmarshal(env.Data, &p))
	return p
}

func TestLogin(t *testing.T) {
	e := newTestEnv(t)

	status, env := e.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "Admin@Example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	assert.Equal(t, "Login successful", env.Message)

	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.EqualValues(t, time.Hour.Milliseconds(), data["expiresIn"])
	user := data["user"].(map[string]any)
	assert.Equal(t, "admin@example.com", user["email"])
	assert.Equal(t, "ADMIN", user["role"])
	assert.NotContains(t, user, "passwordHash")

	claims, err := e.validator.Validate(data["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.True(t, claims.IsAdmin())

	status, env = e.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "admin@example.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid email or password", env.Error)

	status, env = e.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "nobody@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid email or password", env.Error)

	status, env = e.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "not-an-email", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Please provide a valid email", env.Error)
}

func TestLogin_LegacyPasswordIsRehashed(t *testing.T) {
	e := newTestEnv(t)
	u, err := e.store.Users().Create(context.Background(), auth.User{Email: "old@example.com", PasswordHash: "plainpw1", Name: "Old", Role: auth.RoleUser})
	require.NoError(t, err)

	e.login(t, "old@example.com", "plainpw1")

	stored, err := e.store.Users().GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.False(t, auth.IsLegacyDigest(stored.PasswordHash))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("plainpw1")))

	e.login(t, "old@example.com", "plainpw1")
}

func TestAuthorizationGate(t *testing.T) {
	e := newTestEnv(t)

	status, env := e.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Access token required", env.Error)
	assert.False(t, env.Success)
	assert.Nil(t, env.Pagination)

	status, env = e.do(t, http.MethodGet, "/api/auth/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Invalid or expired token", env.Error)

	status, env = e.do(t, http.MethodGet, "/api/auth/me", e.userToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), "reader@example.com")

	status, env = e.do(t, http.MethodPost, "/api/posts", e.userToken, fiber.Map{"title": "t", "content": "c"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Admin access required", env.Error)

	status, _ = e.do(t, http.MethodPost, "/api/auth/logout", e.userToken, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestProfileAndPassword(t *testing.T) {
	e := newTestEnv(t)

	status, env := e.do(t, http.MethodPut, "/api/auth/profile", e.userToken, fiber.Map{"name": "Reader Two", "bio": "hi"})
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Contains(t, string(env.Data), "Reader Two")

	status, env = e.do(t, http.MethodPut, "/api/auth/profile", e.userToken, fiber.Map{"avatar": "not a url"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Avatar must be a valid URL", env.Error)

	status, env = e.do(t, http.MethodPut, "/api/auth/password", e.userToken, fiber.Map{"currentPassword": "nope!!", "newPassword": "secret3"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Current password is incorrect", env.Error)

	status, env = e.do(t, http.MethodPut, "/api/auth/password", e.userToken, fiber.Map{"currentPassword": "secret2", "newPassword": "secret3"})
	require.Equal(t, http.StatusOK, status, env.Error)
	e.login(t, "reader@example.com", "secret3")
}

func TestCategories(t *testing.T) {
	e := newTestEnv(t)
	tech := e.createCategory(t, "Tech")
	e.createCategory(t, "Art")

	status, env := e.do(t, http.MethodPost, "/api/categories", e.adminToken, fiber.Map{"name": "Tech"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)
	assert.Equal(t, "Category name already exists", env.Error)

	status, env = e.do(t, http.MethodPost, "/api/categories", e.adminToken, fiber.Map{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Category name is required", env.Error)

	status, env = e.do(t, http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, status)
	var list []category.Category
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Art", list[0].Name)

	status, env = e.do(t, http.MethodPut, "/api/categories/"+strconv.FormatInt(tech.ID, 10), e.adminToken, fiber.Map{"description": "Gadgets"})
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Contains(t, string(env.Data), "Gadgets")

	status, env = e.do(t, http.MethodGet, "/api/categories/999", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Category not found", env.Error)
}

func TestCreatePostWithCategoryThenFilter(t *testing.T) {
	e := newTestEnv(t)
	tech := e.createCategory(t, "Tech")

	p := e.createPost(t, fiber.Map{"title": "Hello World", "content": "Some **bold** content", "categoryIds": []int64{tech.ID}})
	assert.Equal(t, "hello-world", p.Slug)
	assert.False(t, p.Published)
	assert.NotEmpty(t, p.Excerpt)
	require.Len(t, p.Categories, 1)
	assert.Equal(t, "Tech", p.Categories[0].Name)

	status, env := e.do(t, http.MethodGet, "/api/posts?category=Tech", "", nil)
	require.Equal(t, http.StatusOK, status)
	var items []post.Post
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, p.ID, items[0].ID)

	second := e.createPost(t, fiber.Map{"title": "Hello World", "content": "again"})
	assert.Equal(t, "hello-world-1", second.Slug)

	status, env = e.do(t, http.MethodGet, "/api/posts/slug/hello-world-1", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"title":"Hello World"`)

	status, env = e.do(t, http.MethodPost, "/api/posts", e.adminToken, fiber.Map{"title": "x", "content": "y", "categoryIds": []int64{404}})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Category not found", env.Error)

	status, env = e.do(t, http.MethodPost, "/api/posts", e.adminToken, fiber.Map{"title": "", "content": "y"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Title is required", env.Error)
}

func TestListPagination(t *testing.T) {
	e := newTestEnv(t)
	for i := 0; i < 5; i++ {
		e.createPost(t, fiber.Map{"title": "Post " + strconv.Itoa(i), "content": "body", "published": i%2 == 0})
	}

	status, env := e.do(t, http.MethodGet, "/api/posts?page=999", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))
	require.NotNil(t, env.Pagination)
	assert.Equal(t, presenter.Pagination{Total: 5, Page: 999, Limit: 10, TotalPages: 1, HasNext: false, HasPrev: true}, *env.Pagination)

	for _, target := range []string{
		"/api/posts?page=9223372036854775807&limit=10",
		"/api/posts?page=922337203685477581&limit=100",
	} {
		status, env = e.do(t, http.MethodGet, target, "", nil)
		require.Equal(t, http.StatusOK, status, target)
		assert.JSONEq(t, `[]`, string(env.Data), target)
		require.NotNil(t, env.Pagination, target)
		assert.Equal(t, 5, env.Pagination.Total, target)
		assert.False(t, env.Pagination.HasNext, target)
	}

	status, env = e.do(t, http.MethodGet, "/api/posts?page=2&limit=2&sortBy=title&sortOrder=asc", "", nil)
	require.Equal(t, http.StatusOK, status)
	var items []post.Post
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 2)
	assert.Equal(t, "Post 2", items[0].Title)
	assert.Equal(t, presenter.Pagination{Total: 5, Page: 2, Limit: 2, TotalPages: 3, HasNext: true, HasPrev: true}, *env.Pagination)

	_, env = e.do(t, http.MethodGet, "/api/posts?limit=1000&published=true", "", nil)
	assert.Equal(t, 100, env.Pagination.Limit)
	assert.Equal(t, 3, env.Pagination.Total)

	status, env = e.do(t, http.MethodGet, "/api/posts?sortBy=author", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)

	status, _ = e.do(t, http.MethodGet, "/api/posts?published=maybe", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPostLifecycle(t *testing.T) {
	e := newTestEnv(t)
	tech := e.createCategory(t, "Tech")
	art := e.createCategory(t, "Art")
	p := e.createPost(t, fiber.Map{"title": "Draft", "content": "body", "categoryIds": []int64{tech.ID}})
	path := "/api/posts/" + strconv.FormatInt(p.ID, 10)

	status, env := e.do(t, http.MethodPut, path, e.adminToken, fiber.Map{"title": "Final", "categoryIds": []int64{art.ID}})
	require.Equal(t, http.StatusOK, status, env.Error)
	var updated post.Post
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "body", updated.Content)
	require.Len(t, updated.Categories, 1)
	assert.Equal(t, "Art", updated.Categories[0].Name)

	status, env = e.do(t, http.MethodPatch, path+"/publish", e.adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"published":true`)

	status, env = e.do(t, http.MethodPatch, path+"/unpublish", e.adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"published":false`)

	status, env = e.do(t, http.MethodDelete, path, e.adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"title":"Final"`)

	status, env = e.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Post not found", env.Error)
}

func TestDeleteCategoryKeepsPosts(t *testing.T) {
	e := newTestEnv(t)
	tech := e.createCategory(t, "Tech")
	p := e.createPost(t, fiber.Map{"title": "Kept", "content": "body", "categoryIds": []int64{tech.ID}})

	status, _ := e.do(t, http.MethodDelete, "/api/categories/"+strconv.FormatInt(tech.ID, 10), e.adminToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, env := e.do(t, http.MethodGet, "/api/posts/"+strconv.FormatInt(p.ID, 10), "", nil)
	require.Equal(t, http.StatusOK, status)
	var got post.Post
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Empty(t, got.Categories)

	status, env = e.do(t, http.MethodDelete, "/api/categories/"+strconv.FormatInt(tech.ID, 10), e.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Category not found", env.Error)
}

func TestHealthAndFallback(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var live map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&live))
	assert.Equal(t, "OK", live["status"])
	assert.Equal(t, "test", live["environment"])
	assert.Equal(t, true, live["success"])

	status, env := e.do(t, http.MethodGet, "/api/ready", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)

	status, env = e.do(t, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Route not found", env.Error)

	status, env = e.do(t, http.MethodGet, "/api/posts/abc", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)

	e.store.Close()
	status, _ = e.do(t, http.MethodGet, "/api/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}
