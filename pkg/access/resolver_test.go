package access

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/guilddash/pkg/discord"
	"github.com/platinummonkey/guilddash/pkg/permissions"
	"github.com/platinummonkey/guilddash/pkg/session"
)

// fakeProvider is an in-memory GuildProvider.
type fakeProvider struct {
	present map[string]bool
	err     error
	calls   int
}

func (f *fakeProvider) BotInGuild(ctx context.Context, guildID string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.present[guildID], nil
}

func (f *fakeProvider) Guild(ctx context.Context, guildID string) (*discord.Guild, error) {
	if !f.present[guildID] {
		return nil, discord.ErrUnknownGuild
	}
	return &discord.Guild{ID: guildID, Name: "guild " + guildID}, nil
}

func permBitmask(mask uint64) permissions.Bitmask {
	return permissions.Bitmask(mask)
}

func TestAuthorizeGuild(t *testing.T) {
	tests := []struct {
		name    string
		mask    uint64
		guild   string
		present map[string]bool
		want    error
	}{
		{"manage bit and bot present", 0x20, "G1", map[string]bool{"G1": true}, nil},
		{"manage bit but bot absent", 0x20, "G2", map[string]bool{"G2": false}, ErrDenied},
		{"member without manage bit", 0x00, "G1", map[string]bool{"G1": true}, ErrDenied},
		{"not a member at all", 0x20, "G1", map[string]bool{"OTHER": true}, ErrDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{present: tt.present}
			resolver := NewResolver(provider)

			p := &session.Principal{
				ID: "user-1",
				Guilds: []session.GuildGrant{
					{GuildID: tt.guild, Permissions: permBitmask(tt.mask)},
				},
			}
			// "not a member": authorize against a guild missing from the grant list
			target := tt.guild
			if tt.name == "not a member at all" {
				target = "G-ABSENT"
			}

			err := resolver.AuthorizeGuild(context.Background(), p, target)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestAuthorizeGuild_NonMemberSkipsPresenceLookup(t *testing.T) {
	provider := &fakeProvider{present: map[string]bool{"G1": true}}
	resolver := NewResolver(provider)

	p := &session.Principal{ID: "user-1"}
	err := resolver.AuthorizeGuild(context.Background(), p, "G1")

	assert.ErrorIs(t, err, ErrDenied)
	assert.Zero(t, provider.calls, "membership miss must deny without touching the collaborator")
}

func TestAuthorizeGuild_UpstreamErrorIsNotDenied(t *testing.T) {
	provider := &fakeProvider{err: errors.New("collaborator down")}
	resolver := NewResolver(provider)

	p := &session.Principal{
		ID:     "user-1",
		Guilds: []session.GuildGrant{{GuildID: "G1", Permissions: permBitmask(0x20)}},
	}

	err := resolver.AuthorizeGuild(context.Background(), p, "G1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDenied, "upstream failure is a 500-class outcome, not a verdict")
}

func TestAuthorizeGuild_NeverCachesVerdict(t *testing.T) {
	provider := &fakeProvider{present: map[string]bool{"G1": true}}
	resolver := NewResolver(provider)

	p := &session.Principal{
		ID:     "user-1",
		Guilds: []session.GuildGrant{{GuildID: "G1", Permissions: permBitmask(0x20)}},
	}

	require.NoError(t, resolver.AuthorizeGuild(context.Background(), p, "G1"))
	require.NoError(t, resolver.AuthorizeGuild(context.Background(), p, "G1"))
	assert.Equal(t, 2, provider.calls, "every request re-checks live presence")

	// Presence flips between requests; the next verdict must see it.
	provider.present["G1"] = false
	assert.ErrorIs(t, resolver.AuthorizeGuild(context.Background(), p, "G1"), ErrDenied)
}

func TestAuthorizeGuild_LookupIsTimeBounded(t *testing.T) {
	provider := &slowProvider{delay: 200 * time.Millisecond}
	resolver := NewResolver(provider, WithLookupTimeout(10*time.Millisecond))

	p := &session.Principal{
		ID:     "user-1",
		Guilds: []session.GuildGrant{{GuildID: "G1", Permissions: permBitmask(0x20)}},
	}

	start := time.Now()
	err := resolver.AuthorizeGuild(context.Background(), p, "G1")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 150*time.Millisecond, "lookup must be cut off by the timeout")
}

type slowProvider struct {
	delay time.Duration
}

func (s *slowProvider) BotInGuild(ctx context.Context, guildID string) (bool, error) {
	select {
	case <-time.After(s.delay):
		return true, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (s *slowProvider) Guild(ctx context.Context, guildID string) (*discord.Guild, error) {
	return nil, discord.ErrUnknownGuild
}
