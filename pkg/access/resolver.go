// Package access combines a principal's session-scoped permission grant with
// live bot presence to produce a per-guild authorization verdict.
package access

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/platinummonkey/guilddash/pkg/discord"
	"github.com/platinummonkey/guilddash/pkg/observability"
	"github.com/platinummonkey/guilddash/pkg/permissions"
	"github.com/platinummonkey/guilddash/pkg/session"
)

// ErrDenied is the single denial verdict. It deliberately does not say
// whether the principal is not a member, lacks the manage bit, or the bot is
// absent: distinguishable denials would let callers enumerate which guilds
// the bot is in.
var ErrDenied = errors.New("access denied")

const defaultLookupTimeout = 5 * time.Second

// Resolver authorizes principals for individual guilds. It is invoked on
// every protected per-guild request and never caches a verdict: presence and
// standing membership can change between requests within a session.
type Resolver struct {
	provider discord.GuildProvider
	timeout  time.Duration
	metrics  *observability.Metrics
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLookupTimeout bounds the presence lookup.
func WithLookupTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) { r.timeout = d }
}

// WithMetrics enables verdict metrics.
func WithMetrics(m *observability.Metrics) ResolverOption {
	return func(r *Resolver) { r.metrics = m }
}

// NewResolver creates a resolver over the membership collaborator.
func NewResolver(provider discord.GuildProvider, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		provider: provider,
		timeout:  defaultLookupTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AuthorizeGuild returns nil when the principal may manage the guild,
// ErrDenied on a definitive refusal, and a wrapped upstream error when the
// presence lookup fails. The permission bitmask and the presence flag are
// both evaluated within this one call; nothing is memoized across requests.
func (r *Resolver) AuthorizeGuild(ctx context.Context, p *session.Principal, guildID string) error {
	mask, member := p.Grant(guildID)
	if !member {
		r.record("denied")
		return ErrDenied
	}

	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	botPresent, err := r.provider.BotInGuild(lookupCtx, guildID)
	if err != nil {
		r.record("error")
		return fmt.Errorf("presence lookup for guild %s: %w", guildID, err)
	}

	if !permissions.CanManage(mask, botPresent) {
		r.record("denied")
		return ErrDenied
	}

	r.record("authorized")
	return nil
}

func (r *Resolver) record(verdict string) {
	if r.metrics != nil {
		r.metrics.RecordVerdict(verdict)
	}
}
