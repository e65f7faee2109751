package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type roleLookupStub struct {
	roles map[string]string
	err   error
}

func (s *roleLookupStub) RoleByEmail(_ context.Context, email string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.roles[email], nil
}

func newGatedServer(t *testing.T, tokens TokenService, roles RoleLookup) http.Handler {
	t.Helper()
	mw := NewMiddleware(tokens, roles, zap.NewNop())
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := ClaimsFromContext(r.Context())
		require.True(t, ok, "claims must be in context past the verifier")
		w.WriteHeader(http.StatusOK)
	})
	return mw.VerifyToken(mw.RequireRole("admin")(inner))
}

func issueFor(t *testing.T, tokens TokenService, email string) string {
	t.Helper()
	token, err := tokens.Issue(map[string]any{"email": email})
	require.NoError(t, err)
	return token
}

func TestVerifyTokenMissingHeader(t *testing.T) {
	tokens := newTestService(t, time.Hour)
	h := newGatedServer(t, tokens, &roleLookupStub{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVerifyTokenMalformedHeader(t *testing.T) {
	tokens := newTestService(t, time.Hour)
	h := newGatedServer(t, tokens, &roleLookupStub{})

	for _, header := range []string{"Bearer", "Basic abc", "garbage"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestVerifyTokenExpired(t *testing.T) {
	tokens := newTestService(t, -time.Minute)
	h := newGatedServer(t, tokens, &roleLookupStub{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issueFor(t, tokens, "a@x.com"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleForbiddenForNonAdmin(t *testing.T) {
	tokens := newTestService(t, time.Hour)
	roles := &roleLookupStub{roles: map[string]string{"a@x.com": "tourist"}}
	h := newGatedServer(t, tokens, roles)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issueFor(t, tokens, "a@x.com"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleForbiddenForUnknownUser(t *testing.T) {
	tokens := newTestService(t, time.Hour)
	h := newGatedServer(t, tokens, &roleLookupStub{roles: map[string]string{}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issueFor(t, tokens, "ghost@x.com"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleAllowsAdmin(t *testing.T) {
	tokens := newTestService(t, time.Hour)
	roles := &roleLookupStub{roles: map[string]string{"boss@x.com": "admin"}}
	h := newGatedServer(t, tokens, roles)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issueFor(t, tokens, "boss@x.com"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleLookupFailure(t *testing.T) {
	tokens := newTestService(t, time.Hour)
	roles := &roleLookupStub{err: errors.New("store down")}
	h := newGatedServer(t, tokens, roles)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issueFor(t, tokens, "a@x.com"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequireRoleWithoutVerifier(t *testing.T) {
	tokens := newTestService(t, time.Hour)
	mw := NewMiddleware(tokens, &roleLookupStub{}, zap.NewNop())
	h := mw.RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
