package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/platinummonkey/guilddash/pkg/permissions"
)

// DefaultTTL is how long a session lives without an explicit logout.
const DefaultTTL = 24 * time.Hour

// GuildGrant is one guild membership with the permission bitmask the identity
// provider reported for the principal at login time.
type GuildGrant struct {
	GuildID     string              `json:"guild_id"`
	Permissions permissions.Bitmask `json:"permissions"`
}

// Principal is the authenticated user. It is immutable for the lifetime of a
// session; refreshing membership or permissions requires a fresh login. That
// staleness window is deliberate.
type Principal struct {
	ID       string       `json:"id"`
	Username string       `json:"username"`
	Guilds   []GuildGrant `json:"guilds"`
}

// Grant returns the permission bitmask the principal holds in the given
// guild, and whether the guild appears in the membership list at all.
func (p *Principal) Grant(guildID string) (permissions.Bitmask, bool) {
	for _, g := range p.Guilds {
		if g.GuildID == guildID {
			return g.Permissions, true
		}
	}
	return 0, false
}

// Store binds unguessable session tokens to principals for a bounded time.
//
// Resolve treats unknown, malformed, and expired tokens identically: it
// reports absent and never surfaces which case occurred. Destroy is
// idempotent. Implementations must support concurrent use; sessions are
// independent, so per-key atomicity is sufficient.
type Store interface {
	// Create issues a fresh token for the principal and starts the TTL clock.
	Create(ctx context.Context, p *Principal) (string, error)

	// Resolve returns the principal for a valid, unexpired token.
	Resolve(ctx context.Context, token string) (*Principal, bool)

	// Destroy removes the session. Destroying an unknown token is not an error.
	Destroy(ctx context.Context, token string) error
}

// newToken returns a 32-byte random token, base64url encoded.
func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
