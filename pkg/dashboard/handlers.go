package dashboard

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/guilddash/pkg/access"
	"github.com/platinummonkey/guilddash/pkg/discord"
	"github.com/platinummonkey/guilddash/pkg/httputil"
	"github.com/platinummonkey/guilddash/pkg/middleware"
	"github.com/platinummonkey/guilddash/pkg/observability"
	"github.com/platinummonkey/guilddash/pkg/serverconfig"
	"github.com/platinummonkey/guilddash/pkg/session"
)

// Handlers handles dashboard HTTP requests: the login flow, the guild
// pages and the settings API.
type Handlers struct {
	sessions session.Store
	authn    *discord.Authenticator
	guilds   discord.GuildProvider
	resolver *access.Resolver
	settings serverconfig.Store
	logger   *observability.Logger
	metrics  *observability.Metrics

	// sessionTTL drives the session cookie MaxAge; it must match the TTL
	// the session store was built with.
	sessionTTL time.Duration
}

// HandlerOption configures optional collaborators.
type HandlerOption func(*Handlers)

// WithMetrics enables session and settings operation metrics.
func WithMetrics(m *observability.Metrics) HandlerOption {
	return func(h *Handlers) { h.metrics = m }
}

// WithSessionTTL overrides the session cookie lifetime.
func WithSessionTTL(ttl time.Duration) HandlerOption {
	return func(h *Handlers) {
		if ttl > 0 {
			h.sessionTTL = ttl
		}
	}
}

// NewHandlers creates a new dashboard handlers instance.
func NewHandlers(
	sessions session.Store,
	authn *discord.Authenticator,
	guilds discord.GuildProvider,
	resolver *access.Resolver,
	settings serverconfig.Store,
	logger *observability.Logger,
	opts ...HandlerOption,
) *Handlers {
	h := &Handlers{
		sessions:   sessions,
		authn:      authn,
		guilds:     guilds,
		resolver:   resolver,
		settings:   settings,
		logger:     logger,
		sessionTTL: session.DefaultTTL,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes registers dashboard routes. Session resolution middleware
// must be installed on the router before any of these run.
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.index).Methods("GET")

	// Authentication flow
	router.HandleFunc("/auth/login", h.login).Methods("GET")
	router.HandleFunc("/auth/callback", h.callback).Methods("GET")
	router.HandleFunc("/logout", h.logout).Methods("GET", "POST")

	// Browser-facing pages
	router.Handle("/dashboard", middleware.RequirePage(http.HandlerFunc(h.listGuilds))).Methods("GET")
	router.Handle("/dashboard/{guildID}", middleware.RequirePage(http.HandlerFunc(h.guildPage))).Methods("GET")

	// Settings API
	router.Handle("/api/{guildID}/updateSetting", middleware.RequireAPI(http.HandlerFunc(h.updateSetting))).Methods("POST")
	router.Handle("/api/{guildID}/premium", middleware.RequireAPI(http.HandlerFunc(h.premium))).Methods("GET")
}

// authorizeAPI runs the per-guild access check for an API route. Every
// refusal gets the same 403 body regardless of cause; upstream failures
// get a generic 500 with the detail kept in the logs.
func (h *Handlers) authorizeAPI(w http.ResponseWriter, r *http.Request, guildID string) bool {
	principal := middleware.GetPrincipal(r)
	err := h.resolver.AuthorizeGuild(r.Context(), principal, guildID)
	if err == nil {
		return true
	}
	if errors.Is(err, access.ErrDenied) || errors.Is(err, discord.ErrUnknownGuild) {
		httputil.WriteForbidden(w, "access denied")
		return false
	}
	observability.FromContext(r.Context()).WithError(err).WithField("guild_id", guildID).Error("guild authorization failed")
	httputil.WriteInternalError(w)
	return false
}

// authorizePage is the page-route counterpart: refusals bounce back to
// the guild list rather than rendering an error body.
func (h *Handlers) authorizePage(w http.ResponseWriter, r *http.Request, guildID string) bool {
	principal := middleware.GetPrincipal(r)
	err := h.resolver.AuthorizeGuild(r.Context(), principal, guildID)
	if err == nil {
		return true
	}
	if errors.Is(err, access.ErrDenied) || errors.Is(err, discord.ErrUnknownGuild) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return false
	}
	observability.FromContext(r.Context()).WithError(err).WithField("guild_id", guildID).Error("guild authorization failed")
	httputil.WriteInternalError(w)
	return false
}
