package middleware

import (
	"net/http"

	"github.com/platinummonkey/guilddash/pkg/contextkeys"
	"github.com/platinummonkey/guilddash/pkg/httputil"
	"github.com/platinummonkey/guilddash/pkg/session"
)

// SessionCookieName is the browser cookie carrying the session token.
const SessionCookieName = "guilddash_session"

// LoginPath is where unauthenticated page requests are redirected.
const LoginPath = "/auth/login"

// SessionMiddleware resolves the session cookie into a Principal. It is
// stateless beyond the store lookup and performs no caching of its own;
// protection is enforced by RequirePage/RequireAPI downstream.
type SessionMiddleware struct {
	store session.Store
}

// NewSessionMiddleware creates session resolution middleware over a store.
func NewSessionMiddleware(store session.Store) *SessionMiddleware {
	return &SessionMiddleware{store: store}
}

// Handler attaches the resolved Principal to the request context. Requests
// without a valid session pass through unauthenticated; a malformed or
// expired token behaves exactly like no token at all.
func (m *SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		principal, ok := m.store.Resolve(r.Context(), cookie.Value)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		ctx := contextkeys.WithPrincipal(r.Context(), principal)
		ctx = contextkeys.WithPrincipalID(ctx, principal.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetPrincipal extracts the authenticated principal from the request, or nil.
func GetPrincipal(r *http.Request) *session.Principal {
	v := r.Context().Value(contextkeys.PrincipalKey)
	if v == nil {
		return nil
	}
	principal, ok := v.(*session.Principal)
	if !ok {
		return nil
	}
	return principal
}

// RequirePage guards browser-facing routes: unauthenticated callers are
// redirected to the login flow with no protected data rendered first.
func RequirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetPrincipal(r) == nil {
			http.Redirect(w, r, LoginPath, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAPI guards JSON API routes: unauthenticated callers get 401.
func RequireAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetPrincipal(r) == nil {
			httputil.WriteUnauthorized(w, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
