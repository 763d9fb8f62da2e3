package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/platinummonkey/guilddash/pkg/observability"
)

const (
	defaultRequestTimeout = 5 * time.Second
	metadataCacheSize     = 512
	metadataCacheTTL      = 30 * time.Second
)

// RESTClient implements GuildProvider against the platform REST API using the
// bot token. Guild metadata (name, channels, roles) is held in a short-TTL
// LRU; bot presence is always checked live so authorization never sees a
// stale presence flag.
type RESTClient struct {
	baseURL    string
	botToken   string
	httpClient *http.Client
	metadata   *lru.LRU[string, *Guild]
	metrics    *observability.Metrics
}

// RESTClientOption configures a RESTClient.
type RESTClientOption func(*RESTClient)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(c *http.Client) RESTClientOption {
	return func(r *RESTClient) { r.httpClient = c }
}

// WithMetrics enables upstream request metrics.
func WithMetrics(m *observability.Metrics) RESTClientOption {
	return func(r *RESTClient) { r.metrics = m }
}

// NewRESTClient creates a platform REST client.
func NewRESTClient(baseURL, botToken string, opts ...RESTClientOption) (*RESTClient, error) {
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}
	if botToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	c := &RESTClient{
		baseURL:  baseURL,
		botToken: botToken,
		httpClient: &http.Client{
			Timeout: defaultRequestTimeout,
		},
		metadata: lru.NewLRU[string, *Guild](metadataCacheSize, nil, metadataCacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BotInGuild reports whether the bot is currently a member of the guild.
// Never cached.
func (c *RESTClient) BotInGuild(ctx context.Context, guildID string) (bool, error) {
	start := time.Now()
	status, body, err := c.get(ctx, "/guilds/"+guildID)
	c.observe("bot_in_guild", status, err, time.Since(start))
	if err != nil {
		return false, fmt.Errorf("presence check failed: %w", err)
	}
	switch status {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound, http.StatusForbidden:
		// The bot cannot see the guild: not present.
		return false, nil
	default:
		return false, fmt.Errorf("presence check failed with status %d: %s", status, string(body))
	}
}

// Guild returns guild metadata, served from the short-TTL cache when warm.
func (c *RESTClient) Guild(ctx context.Context, guildID string) (*Guild, error) {
	if g, ok := c.metadata.Get(guildID); ok {
		return g, nil
	}

	start := time.Now()
	status, body, err := c.get(ctx, "/guilds/"+guildID)
	c.observe("guild", status, err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("guild fetch failed: %w", err)
	}
	if status == http.StatusNotFound || status == http.StatusForbidden {
		return nil, ErrUnknownGuild
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("guild fetch failed with status %d: %s", status, string(body))
	}

	var guild Guild
	if err := json.Unmarshal(body, &guild); err != nil {
		return nil, fmt.Errorf("failed to decode guild: %w", err)
	}

	start = time.Now()
	status, body, err = c.get(ctx, "/guilds/"+guildID+"/channels")
	c.observe("guild_channels", status, err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("channel fetch failed: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("channel fetch failed with status %d: %s", status, string(body))
	}
	if err := json.Unmarshal(body, &guild.Channels); err != nil {
		return nil, fmt.Errorf("failed to decode channels: %w", err)
	}

	c.metadata.Add(guildID, &guild)
	return &guild, nil
}

// get performs a bot-authenticated GET and returns status and body. A nil
// error with a non-2xx status lets callers map statuses themselves.
func (c *RESTClient) get(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bot "+c.botToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

func (c *RESTClient) observe(operation string, status int, err error, duration time.Duration) {
	if c.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil || status >= 500 {
		outcome = "error"
	}
	c.metrics.ObserveUpstream("discord", operation, outcome, duration)
}
