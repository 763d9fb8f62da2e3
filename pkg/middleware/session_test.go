package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/guilddash/pkg/session"
)

func newAuthedRequest(t *testing.T, store session.Store, p *session.Principal) *http.Request {
	t.Helper()
	token, err := store.Create(context.Background(), p)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	return req
}

func TestSessionMiddlewareAttachesPrincipal(t *testing.T) {
	store := session.NewMemoryStore(session.DefaultTTL)
	defer store.Close()

	mw := NewSessionMiddleware(store)
	var got *session.Principal
	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetPrincipal(r)
	}))

	req := newAuthedRequest(t, store, &session.Principal{ID: "U1", Username: "alice"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, "U1", got.ID)
	assert.Equal(t, "alice", got.Username)
}

func TestSessionMiddlewareNoCookie(t *testing.T) {
	store := session.NewMemoryStore(session.DefaultTTL)
	defer store.Close()

	mw := NewSessionMiddleware(store)
	called := false
	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Nil(t, GetPrincipal(r))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called, "request should pass through unauthenticated")
}

func TestSessionMiddlewareBogusToken(t *testing.T) {
	store := session.NewMemoryStore(session.DefaultTTL)
	defer store.Close()

	mw := NewSessionMiddleware(store)
	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Nil(t, GetPrincipal(r))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-real-token"})
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestRequirePageRedirectsAnonymous(t *testing.T) {
	handler := RequirePage(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("protected handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))
	assert.NotContains(t, rec.Body.String(), "guild")
}

func TestRequireAPIRejectsAnonymous(t *testing.T) {
	handler := RequireAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("protected handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/G1/updateSetting", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication required")
}

func TestRequirePagePassesAuthenticated(t *testing.T) {
	store := session.NewMemoryStore(session.DefaultTTL)
	defer store.Close()

	mw := NewSessionMiddleware(store)
	handler := mw.Handler(RequirePage(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newAuthedRequest(t, store, &session.Principal{ID: "U2"}))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExpiredSessionBehavesLikeAnonymous(t *testing.T) {
	store := session.NewMemoryStore(session.DefaultTTL)
	defer store.Close()

	mw := NewSessionMiddleware(store)
	handler := mw.Handler(RequirePage(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("protected handler must not run")
	})))

	req := newAuthedRequest(t, store, &session.Principal{ID: "U3"})
	cookie, err := req.Cookie(SessionCookieName)
	require.NoError(t, err)
	require.NoError(t, store.Destroy(context.Background(), cookie.Value))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))
}
