package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gobindacb/navigatebd/internal/auth"
	"github.com/gobindacb/navigatebd/internal/booking"
	"github.com/gobindacb/navigatebd/internal/config"
	"github.com/gobindacb/navigatebd/internal/packages"
	"github.com/gobindacb/navigatebd/internal/story"
	"github.com/gobindacb/navigatebd/internal/user"
	"github.com/gobindacb/navigatebd/internal/wishlist"
)

type testApp struct {
	router    http.Handler
	tokens    auth.TokenService
	userRepo  user.Repository
	storyRepo *story.MemoryRepository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	logger := zap.NewNop()
	cfg := &config.Config{
		AppConfig:   &config.AppConfig{Port: "0"},
		MongoConfig: &config.MongoConfig{Database: "navigateBdTest"},
		JWTConfig:   &config.JWTConfig{Secret: "test-secret", AccessTTL: time.Hour},
		CORSConfig:  &config.CORSConfig{AllowedOrigins: []string{"*"}},
	}

	userRepo := user.NewMemoryRepository()
	storyRepo := story.NewMemoryRepository()

	tokens := auth.NewTokenService(cfg.JWTConfig, logger)
	mw := auth.NewMiddleware(tokens, userRepo, logger)

	handlers := Handlers{
		Token:    auth.NewTokenHandler(tokens, logger),
		User:     user.NewHandler(userRepo, logger),
		Packages: packages.NewHandler(packages.NewMemoryRepository(), logger),
		Wishlist: wishlist.NewHandler(wishlist.NewMemoryRepository(), logger),
		Story:    story.NewHandler(storyRepo, logger),
		Booking:  booking.NewHandler(booking.NewMemoryRepository(), logger),
	}

	return &testApp{
		router:    NewRouter(cfg, nil, mw, handlers, logger),
		tokens:    tokens,
		userRepo:  userRepo,
		storyRepo: storyRepo,
	}
}

func (a *testApp) request(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) issueToken(t *testing.T, email string) string {
	t.Helper()
	rec := a.request(t, http.MethodPost, "/jwt", `{"email":"`+email+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (a *testApp) seedUser(t *testing.T, email string, role user.Role) {
	t.Helper()
	_, err := a.userRepo.Create(context.Background(), user.User{Email: email, Role: role})
	require.NoError(t, err)
}

func TestGreeting(t *testing.T) {
	app := newTestApp(t)

	rec := app.request(t, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello from Navigate-BD server", rec.Body.String())
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)

	rec := app.request(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminStatusEndToEnd(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "a@x.com", user.RoleAdmin)

	token := app.issueToken(t, "a@x.com")

	rec := app.request(t, http.MethodGet, "/users/admin/a@x.com", "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"admin":true}`, rec.Body.String())
}

func TestAdminStatusRoleUnset(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "a@x.com", "")

	token := app.issueToken(t, "a@x.com")

	rec := app.request(t, http.MethodGet, "/users/admin/a@x.com", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"admin":false}`, rec.Body.String())
}

func TestAdminStatusEmailMismatch(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "a@x.com", user.RoleAdmin)

	token := app.issueToken(t, "a@x.com")

	rec := app.request(t, http.MethodGet, "/users/admin/other@x.com", "", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminStatusRequiresToken(t *testing.T) {
	app := newTestApp(t)

	rec := app.request(t, http.MethodGet, "/users/admin/a@x.com", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListUsersGates(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "boss@x.com", user.RoleAdmin)
	app.seedUser(t, "tourist@x.com", "")

	// no credential
	rec := app.request(t, http.MethodGet, "/users", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// verified but not admin
	rec = app.request(t, http.MethodGet, "/users", "", app.issueToken(t, "tourist@x.com"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// admin
	rec = app.request(t, http.MethodGet, "/users", "", app.issueToken(t, "boss@x.com"))
	require.Equal(t, http.StatusOK, rec.Code)

	var users []user.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users, 2)
}

func TestPackageWritesAreAdminGated(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "boss@x.com", user.RoleAdmin)
	app.seedUser(t, "tourist@x.com", "")

	body := `{
		"title": "Srimangal Tea Trails",
		"type": "nature",
		"duration": "2 days",
		"description": "Tea gardens and rainforest walks.",
		"cost": 150,
		"day": {"day1": "Gardens", "day2": "Lawachara forest", "day3": "Departure"},
		"posted_by": {"name": "Boss", "email": "boss@x.com", "photo": "https://img.example/boss.png"}
	}`

	rec := app.request(t, http.MethodPost, "/packages", body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.request(t, http.MethodPost, "/packages", body, app.issueToken(t, "tourist@x.com"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.request(t, http.MethodPost, "/packages", body, app.issueToken(t, "boss@x.com"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// reads stay open
	rec = app.request(t, http.MethodGet, "/packages", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var out []packages.Package
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out, 1)
}

func TestRoleChangeTakesEffectNextRequest(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "boss@x.com", user.RoleAdmin)

	res, err := app.userRepo.Create(context.Background(), user.User{Email: "rising@x.com"})
	require.NoError(t, err)

	risingToken := app.issueToken(t, "rising@x.com")
	rec := app.request(t, http.MethodGet, "/users", "", risingToken)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.request(t, http.MethodPatch, "/users/admin/"+res.InsertedID, "", app.issueToken(t, "boss@x.com"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// same credential, next request sees the new role
	rec = app.request(t, http.MethodGet, "/users", "", risingToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuidePromotionIsOpen(t *testing.T) {
	app := newTestApp(t)
	res, err := app.userRepo.Create(context.Background(), user.User{Email: "g@x.com", Name: "Karim"})
	require.NoError(t, err)

	rec := app.request(t, http.MethodPatch, "/users/guide/"+res.InsertedID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.request(t, http.MethodGet, "/user/guides", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var guides []user.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &guides))
	require.Len(t, guides, 1)
	assert.Equal(t, "g@x.com", guides[0].Email)
}

func TestStoriesReadOnly(t *testing.T) {
	app := newTestApp(t)
	seeded := app.storyRepo.Put(story.Story{
		Title:   "Monsoon in the Hill Tracts",
		Content: "Three days of rain, fog and bamboo bridges.",
		Author:  story.Author{Name: "Ayesha", Email: "a@x.com"},
	})

	rec := app.request(t, http.MethodGet, "/stories", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stories []story.Story
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stories))
	require.Len(t, stories, 1)

	rec = app.request(t, http.MethodGet, "/story/"+seeded.ID.Hex(), "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var s story.Story
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, "Monsoon in the Hill Tracts", s.Title)
}

func TestBookingsFlow(t *testing.T) {
	app := newTestApp(t)

	body := `{"email":"a@x.com","package_id":"5f2a6c9e8b4d3a2f1e0c9b8a","date":"2026-10-01"}`
	rec := app.request(t, http.MethodPost, "/bookings", body, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.request(t, http.MethodGet, "/bookings?email=a@x.com", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var out []booking.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "pending", out[0].Status)
}

func TestWishlistOpenRoutes(t *testing.T) {
	app := newTestApp(t)

	body := `{"email":"a@x.com","package_id":"5f2a6c9e8b4d3a2f1e0c9b8a","title":"Srimangal Tea Trails"}`
	rec := app.request(t, http.MethodPost, "/wish", body, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.request(t, http.MethodGet, "/wish?email=a@x.com", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var items []wishlist.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Len(t, items, 1)
}

func TestTamperedTokenRejected(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "a@x.com", user.RoleAdmin)

	token := app.issueToken(t, "a@x.com")
	tampered := token[:len(token)-2] + "xx"

	rec := app.request(t, http.MethodGet, "/users", "", tampered)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
