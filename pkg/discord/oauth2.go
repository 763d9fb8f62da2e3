package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/platinummonkey/guilddash/pkg/permissions"
	"github.com/platinummonkey/guilddash/pkg/session"
)

// Default platform endpoints; overridable in config for tests.
const (
	DefaultAuthURL    = "https://discord.com/oauth2/authorize"
	DefaultTokenURL   = "https://discord.com/api/oauth2/token"
	DefaultAPIBaseURL = "https://discord.com/api/v10"
)

// OAuth2Config holds the identity provider's OAuth2 settings.
type OAuth2Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	APIBaseURL   string
}

// Authenticator runs the authorization-code exchange against the identity
// provider and maps the result to a session Principal. It consumes exactly
// (id, username, guild list with permissions) and nothing more.
type Authenticator struct {
	oauth2Config *oauth2.Config
	apiBaseURL   string
}

// NewAuthenticator creates an authenticator for the identity provider.
func NewAuthenticator(config OAuth2Config) (*Authenticator, error) {
	if config.ClientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	if config.ClientSecret == "" {
		return nil, fmt.Errorf("client_secret is required")
	}
	if config.RedirectURL == "" {
		return nil, fmt.Errorf("redirect_url is required")
	}
	if config.AuthURL == "" {
		config.AuthURL = DefaultAuthURL
	}
	if config.TokenURL == "" {
		config.TokenURL = DefaultTokenURL
	}
	if config.APIBaseURL == "" {
		config.APIBaseURL = DefaultAPIBaseURL
	}

	return &Authenticator{
		oauth2Config: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  config.AuthURL,
				TokenURL: config.TokenURL,
			},
			RedirectURL: config.RedirectURL,
			Scopes:      []string{"identify", "guilds"},
		},
		apiBaseURL: config.APIBaseURL,
	}, nil
}

// AuthCodeURL returns the provider authorization URL for the given state.
func (a *Authenticator) AuthCodeURL(state string) string {
	return a.oauth2Config.AuthCodeURL(state)
}

// Exchange trades the authorization code for a token and fetches the
// principal's identity and guild membership snapshot.
func (a *Authenticator) Exchange(ctx context.Context, code string) (*session.Principal, error) {
	token, err := a.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	client := a.oauth2Config.Client(ctx, token)

	var identity struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	if err := a.getJSON(client, "/users/@me", &identity); err != nil {
		return nil, fmt.Errorf("failed to fetch identity: %w", err)
	}
	if identity.ID == "" {
		return nil, fmt.Errorf("missing user id in identity response")
	}

	var guilds []struct {
		ID          string     `json:"id"`
		Permissions flexUint64 `json:"permissions"`
	}
	if err := a.getJSON(client, "/users/@me/guilds", &guilds); err != nil {
		return nil, fmt.Errorf("failed to fetch guild list: %w", err)
	}

	grants := make([]session.GuildGrant, 0, len(guilds))
	for _, g := range guilds {
		grants = append(grants, session.GuildGrant{
			GuildID:     g.ID,
			Permissions: permissions.Bitmask(g.Permissions),
		})
	}

	return &session.Principal{
		ID:       identity.ID,
		Username: identity.Username,
		Guilds:   grants,
	}, nil
}

func (a *Authenticator) getJSON(client *http.Client, path string, dest interface{}) error {
	resp, err := client.Get(a.apiBaseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(dest)
}

// BotInviteURL builds the URL that adds the bot to a guild with the given
// permission set.
func BotInviteURL(clientID string, perms permissions.Bitmask) string {
	return fmt.Sprintf("%s?client_id=%s&scope=bot&permissions=%d", DefaultAuthURL, clientID, uint64(perms))
}
