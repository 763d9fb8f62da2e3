package dashboard

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"github.com/platinummonkey/guilddash/pkg/httputil"
	"github.com/platinummonkey/guilddash/pkg/middleware"
)

const stateCookieName = "guilddash_oauth_state"

// index handles GET /. Authenticated visitors go straight to their guild
// list; everyone else gets a pointer at the login flow.
func (h *Handlers) index(w http.ResponseWriter, r *http.Request) {
	if middleware.GetPrincipal(r) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	httputil.WriteSuccess(w, map[string]string{
		"message": "welcome to guilddash",
		"login":   "/auth/login",
	})
}

// login handles GET /auth/login: generates a state token, pins it in a
// short-lived cookie and redirects to the platform's consent screen.
func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	stateBytes := make([]byte, 32)
	if _, err := rand.Read(stateBytes); err != nil {
		h.logger.WithError(err).Error("failed to generate oauth state")
		httputil.WriteInternalError(w)
		return
	}
	state := base64.RawURLEncoding.EncodeToString(stateBytes)

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	http.Redirect(w, r, h.authn.AuthCodeURL(state), http.StatusFound)
}

// callback handles GET /auth/callback: verifies the state parameter,
// exchanges the authorization code for an identity and guild snapshot,
// and mints a server-side session.
func (h *Handlers) callback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil {
		httputil.WriteBadRequest(w, "missing state cookie")
		return
	}
	if r.URL.Query().Get("state") != stateCookie.Value {
		httputil.WriteBadRequest(w, "invalid state parameter")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		httputil.WriteBadRequest(w, "missing authorization code")
		return
	}

	principal, err := h.authn.Exchange(r.Context(), code)
	if err != nil {
		h.logger.WithError(err).Error("oauth code exchange failed")
		httputil.WriteInternalError(w)
		return
	}

	token, err := h.sessions.Create(r.Context(), principal)
	if err != nil {
		h.logger.WithError(err).Error("failed to create session")
		httputil.WriteInternalError(w)
		return
	}
	if h.metrics != nil {
		h.metrics.SessionCreated()
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.sessionTTL.Seconds()),
	})
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, MaxAge: -1, Path: "/"})

	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// logout handles GET/POST /logout: destroys the server-side session and
// clears the cookie. A stale or missing cookie is not an error.
func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			h.logger.WithError(err).Warn("failed to destroy session")
		} else if h.metrics != nil {
			h.metrics.SessionDestroyed()
		}
	}

	http.SetCookie(w, &http.Cookie{Name: middleware.SessionCookieName, MaxAge: -1, Path: "/"})
	http.Redirect(w, r, "/", http.StatusFound)
}
