package serverconfig

import (
	"context"
	"fmt"
)

// Recognized setting keys. Unknown keys are stored opaquely; these are the
// ones the dashboard validates and the bot interprets.
const (
	KeyUpdateFrequencyMinutes = "updateFrequencyMinutes"
	KeyLogChannelID           = "logChannelId"
	KeyNotifyRoleID           = "notifyRoleId"
	KeyPremium                = "premium"
	KeyPremiumFeatures        = "premiumFeatures"
)

// Settings is one guild's persisted settings record: an open mapping with a
// small set of recognized keys.
type Settings map[string]interface{}

// Store is the persistence collaborator contract. MergeUpdate performs a
// partial merge: keys absent from changes are left untouched, and the record
// is created if it does not exist. Two concurrent updates to the same guild
// resolve last-write-wins; the store does not serialize per-guild writers.
type Store interface {
	// GetConfig returns the guild's settings, or an empty Settings when
	// nothing is stored. Absence is not an error.
	GetConfig(ctx context.Context, guildID string) (Settings, error)

	// MergeUpdate merges changes into the guild's settings record.
	MergeUpdate(ctx context.Context, guildID string, changes Settings) error
}

// Premium returns the premium flag, defaulting to false when absent or
// malformed.
func (s Settings) Premium() bool {
	v, ok := s[KeyPremium].(bool)
	return ok && v
}

// PremiumFeatures returns the enabled feature list, defaulting to empty.
// Values survive a JSON round trip as []interface{}; both shapes are handled.
func (s Settings) PremiumFeatures() []string {
	switch v := s[KeyPremiumFeatures].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return []string{}
	}
}

// ValidateSetting checks a recognized key's value type at the API boundary.
// Unknown keys pass through untouched; the persisted shape is never trusted,
// only what arrives over the API.
func ValidateSetting(name string, value interface{}) error {
	switch name {
	case KeyUpdateFrequencyMinutes:
		n, ok := toFloat(value)
		if !ok {
			return fmt.Errorf("%s must be a number", name)
		}
		if n < 1 {
			return fmt.Errorf("%s must be at least 1", name)
		}
	case KeyLogChannelID, KeyNotifyRoleID:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("%s must be a string", name)
		}
	case KeyPremium:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%s must be a boolean", name)
		}
	case KeyPremiumFeatures:
		switch v := value.(type) {
		case []string:
		case []interface{}:
			for _, item := range v {
				if _, ok := item.(string); !ok {
					return fmt.Errorf("%s must be a list of strings", name)
				}
			}
		default:
			return fmt.Errorf("%s must be a list of strings", name)
		}
	}
	return nil
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// clone deep-copies a Settings map so callers cannot mutate stored state.
func clone(s Settings) Settings {
	out := make(Settings, len(s))
	for k, v := range s {
		if list, ok := v.([]interface{}); ok {
			copied := make([]interface{}, len(list))
			copy(copied, list)
			out[k] = copied
			continue
		}
		if list, ok := v.([]string); ok {
			copied := make([]string, len(list))
			copy(copied, list)
			out[k] = copied
			continue
		}
		out[k] = v
	}
	return out
}
