package dashboard

import (
	"errors"
	"net/http"

	"github.com/platinummonkey/guilddash/pkg/access"
	"github.com/platinummonkey/guilddash/pkg/discord"
	"github.com/platinummonkey/guilddash/pkg/httputil"
	"github.com/platinummonkey/guilddash/pkg/middleware"
	"github.com/platinummonkey/guilddash/pkg/observability"
	"github.com/platinummonkey/guilddash/pkg/permissions"
	"github.com/platinummonkey/guilddash/pkg/serverconfig"
)

// guildSummary is one row of the manageable-guild list.
type guildSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// guildView is the full management page payload for one guild.
type guildView struct {
	ID       string                `json:"id"`
	Name     string                `json:"name"`
	Channels []discord.Channel     `json:"channels"`
	Roles    []discord.Role        `json:"roles"`
	Settings serverconfig.Settings `json:"settings"`
}

// listGuilds handles GET /dashboard: the guilds the caller can manage,
// meaning the session grant carries the manage bit AND the bot is
// present right now. Presence is consulted live for every guild on
// every request. A presence lookup that fails drops that one guild from
// the list instead of failing the whole page; the per-guild routes still
// surface such failures as 500s.
func (h *Handlers) listGuilds(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)
	logger := observability.FromContext(r.Context())

	manageable := make([]guildSummary, 0, len(principal.Guilds))
	for _, grant := range principal.Guilds {
		if !grant.Permissions.Has(permissions.ManageGuild) {
			continue
		}
		if err := h.resolver.AuthorizeGuild(r.Context(), principal, grant.GuildID); err != nil {
			if !errors.Is(err, access.ErrDenied) {
				logger.WithError(err).WithField("guild_id", grant.GuildID).Warn("skipping guild, presence check failed")
			}
			continue
		}

		summary := guildSummary{ID: grant.GuildID, Name: grant.GuildID}
		if g, err := h.guilds.Guild(r.Context(), grant.GuildID); err == nil {
			summary.Name = g.Name
		}
		manageable = append(manageable, summary)
	}

	httputil.WriteSuccess(w, map[string]interface{}{
		"user":   map[string]string{"id": principal.ID, "username": principal.Username},
		"guilds": manageable,
	})
}

// guildPage handles GET /dashboard/{guildID}: the management view with
// the guild's text channels, roles and current settings.
func (h *Handlers) guildPage(w http.ResponseWriter, r *http.Request) {
	guildID, ok := httputil.ParsePathStringOrError(w, r, "guildID")
	if !ok {
		return
	}
	if !h.authorizePage(w, r, guildID) {
		return
	}

	guild, err := h.guilds.Guild(r.Context(), guildID)
	if err != nil {
		if errors.Is(err, discord.ErrUnknownGuild) {
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
		observability.FromContext(r.Context()).WithError(err).WithField("guild_id", guildID).Error("failed to fetch guild")
		httputil.WriteInternalError(w)
		return
	}

	settings, err := h.settings.GetConfig(r.Context(), guildID)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).WithField("guild_id", guildID).Error("failed to load settings")
		httputil.WriteInternalError(w)
		return
	}

	httputil.WriteSuccess(w, guildView{
		ID:       guild.ID,
		Name:     guild.Name,
		Channels: guild.TextChannels(),
		Roles:    guild.Roles,
		Settings: settings,
	})
}
