package dashboard

import (
	"net/http"

	"github.com/platinummonkey/guilddash/pkg/httputil"
	"github.com/platinummonkey/guilddash/pkg/observability"
	"github.com/platinummonkey/guilddash/pkg/serverconfig"
)

// updateSettingRequest carries exactly one setting change.
type updateSettingRequest struct {
	Setting string      `json:"setting"`
	Value   interface{} `json:"value"`
}

// updateSetting handles POST /api/{guildID}/updateSetting. One setting key
// per request; the write merges into the stored record, leaving every other
// key untouched.
func (h *Handlers) updateSetting(w http.ResponseWriter, r *http.Request) {
	guildID, ok := httputil.ParsePathStringOrError(w, r, "guildID")
	if !ok {
		return
	}
	if !h.authorizeAPI(w, r, guildID) {
		return
	}

	var req updateSettingRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if req.Setting == "" {
		httputil.WriteBadRequest(w, "setting name is required")
		return
	}
	if req.Value == nil {
		httputil.WriteBadRequest(w, "setting value is required")
		return
	}
	if err := serverconfig.ValidateSetting(req.Setting, req.Value); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err)
		return
	}

	changes := serverconfig.Settings{req.Setting: req.Value}
	if err := h.settings.MergeUpdate(r.Context(), guildID, changes); err != nil {
		observability.FromContext(r.Context()).WithError(err).WithField("guild_id", guildID).Error("settings update failed")
		h.recordSettingsOp("update", "error")
		httputil.WriteInternalError(w)
		return
	}
	h.recordSettingsOp("update", "ok")

	settings, err := h.settings.GetConfig(r.Context(), guildID)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).WithField("guild_id", guildID).Error("settings readback failed")
		httputil.WriteInternalError(w)
		return
	}

	httputil.WriteSuccess(w, map[string]interface{}{
		"guildId":  guildID,
		"settings": settings,
	})
}

func (h *Handlers) recordSettingsOp(operation, status string) {
	if h.metrics != nil {
		h.metrics.RecordSettingsOp(operation, status)
	}
}

// premium handles GET /api/{guildID}/premium. Guilds with no premium
// record report the tier disabled with no features.
func (h *Handlers) premium(w http.ResponseWriter, r *http.Request) {
	guildID, ok := httputil.ParsePathStringOrError(w, r, "guildID")
	if !ok {
		return
	}
	if !h.authorizeAPI(w, r, guildID) {
		return
	}

	settings, err := h.settings.GetConfig(r.Context(), guildID)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).WithField("guild_id", guildID).Error("settings lookup failed")
		httputil.WriteInternalError(w)
		return
	}

	httputil.WriteSuccess(w, map[string]interface{}{
		"premium":         settings.Premium(),
		"premiumFeatures": settings.PremiumFeatures(),
	})
}
