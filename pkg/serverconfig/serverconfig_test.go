package serverconfig

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSetting(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   interface{}
		wantErr bool
	}{
		{"frequency as float", KeyUpdateFrequencyMinutes, 30.0, false},
		{"frequency as int", KeyUpdateFrequencyMinutes, 30, false},
		{"frequency below one", KeyUpdateFrequencyMinutes, 0.5, true},
		{"frequency as string", KeyUpdateFrequencyMinutes, "30", true},
		{"log channel string", KeyLogChannelID, "C1", false},
		{"log channel number", KeyLogChannelID, 42, true},
		{"notify role string", KeyNotifyRoleID, "R1", false},
		{"premium bool", KeyPremium, true, false},
		{"premium string", KeyPremium, "yes", true},
		{"features string slice", KeyPremiumFeatures, []string{"a", "b"}, false},
		{"features json slice", KeyPremiumFeatures, []interface{}{"a", "b"}, false},
		{"features mixed slice", KeyPremiumFeatures, []interface{}{"a", 1}, true},
		{"features scalar", KeyPremiumFeatures, "a", true},
		{"unknown key passes through", "someFutureKey", map[string]interface{}{"x": 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSetting(tt.key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSettings_PremiumDefaults(t *testing.T) {
	empty := Settings{}
	assert.False(t, empty.Premium(), "premium defaults to false")
	assert.Empty(t, empty.PremiumFeatures(), "features default to empty")
	assert.NotNil(t, empty.PremiumFeatures())

	set := Settings{
		KeyPremium:         true,
		KeyPremiumFeatures: []interface{}{"autoroles", "webhooks"},
	}
	assert.True(t, set.Premium())
	assert.Equal(t, []string{"autoroles", "webhooks"}, set.PremiumFeatures())

	malformed := Settings{KeyPremium: "yes", KeyPremiumFeatures: 42}
	assert.False(t, malformed.Premium())
	assert.Empty(t, malformed.PremiumFeatures())
}

// storeLaws exercises the merge contract shared by every backend.
func storeLaws(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty config for unknown guild", func(t *testing.T) {
		settings, err := store.GetConfig(ctx, "G-NEW")
		require.NoError(t, err)
		assert.Empty(t, settings)
	})

	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, store.MergeUpdate(ctx, "G1", Settings{KeyUpdateFrequencyMinutes: 30.0}))

		settings, err := store.GetConfig(ctx, "G1")
		require.NoError(t, err)
		assert.EqualValues(t, 30, settings[KeyUpdateFrequencyMinutes])
	})

	t.Run("partial merge leaves other keys untouched", func(t *testing.T) {
		require.NoError(t, store.MergeUpdate(ctx, "G1", Settings{KeyLogChannelID: "C9"}))

		settings, err := store.GetConfig(ctx, "G1")
		require.NoError(t, err)
		assert.EqualValues(t, 30, settings[KeyUpdateFrequencyMinutes], "earlier key must survive")
		assert.Equal(t, "C9", settings[KeyLogChannelID])
	})

	t.Run("update is idempotent", func(t *testing.T) {
		require.NoError(t, store.MergeUpdate(ctx, "G1", Settings{KeyLogChannelID: "C9"}))

		settings, err := store.GetConfig(ctx, "G1")
		require.NoError(t, err)
		assert.Equal(t, "C9", settings[KeyLogChannelID])
		assert.EqualValues(t, 30, settings[KeyUpdateFrequencyMinutes])
	})

	t.Run("guilds are independent", func(t *testing.T) {
		require.NoError(t, store.MergeUpdate(ctx, "G2", Settings{KeyPremium: true}))

		g1, err := store.GetConfig(ctx, "G1")
		require.NoError(t, err)
		assert.False(t, g1.Premium())

		g2, err := store.GetConfig(ctx, "G2")
		require.NoError(t, err)
		assert.True(t, g2.Premium())
	})
}

func TestMemoryStore_Laws(t *testing.T) {
	storeLaws(t, NewMemoryStore())
}

func TestMemoryStore_ReadIsolation(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.MergeUpdate(ctx, "G1", Settings{KeyPremiumFeatures: []interface{}{"a"}}))

	settings, err := store.GetConfig(ctx, "G1")
	require.NoError(t, err)
	settings[KeyPremium] = true
	settings[KeyPremiumFeatures].([]interface{})[0] = "mutated"

	fresh, err := store.GetConfig(ctx, "G1")
	require.NoError(t, err)
	assert.False(t, fresh.Premium(), "caller mutation must not leak into the store")
	assert.Equal(t, []string{"a"}, fresh.PremiumFeatures())
}
