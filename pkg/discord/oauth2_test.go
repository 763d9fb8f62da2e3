package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/guilddash/pkg/permissions"
)

// fakeProvider serves the token endpoint and the identity API.
func fakeProvider(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "tok",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/users/@me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "user-1", "username": "tester"})
	})
	mux.HandleFunc("/users/@me/guilds", func(w http.ResponseWriter, r *http.Request) {
		// One numeric and one string-typed permissions field; both shapes
		// occur in the wild.
		w.Write([]byte(`[
			{"id": "G1", "permissions": 32},
			{"id": "G2", "permissions": "2147483647"}
		]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestAuthenticator(t *testing.T, srv *httptest.Server) *Authenticator {
	t.Helper()
	auth, err := NewAuthenticator(OAuth2Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost/auth/callback",
		AuthURL:      srv.URL + "/oauth2/authorize",
		TokenURL:     srv.URL + "/oauth2/token",
		APIBaseURL:   srv.URL,
	})
	require.NoError(t, err)
	return auth
}

func TestNewAuthenticator_Validation(t *testing.T) {
	_, err := NewAuthenticator(OAuth2Config{ClientSecret: "s", RedirectURL: "r"})
	assert.Error(t, err, "missing client id")

	_, err = NewAuthenticator(OAuth2Config{ClientID: "c", RedirectURL: "r"})
	assert.Error(t, err, "missing client secret")

	_, err = NewAuthenticator(OAuth2Config{ClientID: "c", ClientSecret: "s"})
	assert.Error(t, err, "missing redirect URL")
}

func TestAuthenticator_AuthCodeURL(t *testing.T) {
	srv := fakeProvider(t)
	auth := newTestAuthenticator(t, srv)

	url := auth.AuthCodeURL("state-123")
	assert.Contains(t, url, "state=state-123")
	assert.Contains(t, url, "client_id=client-id")
	assert.Contains(t, url, "scope=identify+guilds")
}

func TestAuthenticator_Exchange(t *testing.T) {
	srv := fakeProvider(t)
	auth := newTestAuthenticator(t, srv)

	principal, err := auth.Exchange(context.Background(), "good-code")
	require.NoError(t, err)

	assert.Equal(t, "user-1", principal.ID)
	assert.Equal(t, "tester", principal.Username)
	require.Len(t, principal.Guilds, 2)

	mask, ok := principal.Grant("G1")
	require.True(t, ok)
	assert.True(t, permissions.CanManage(mask, true))

	mask, ok = principal.Grant("G2")
	require.True(t, ok)
	assert.Equal(t, uint64(2147483647), uint64(mask))
}

func TestAuthenticator_Exchange_BadCode(t *testing.T) {
	srv := fakeProvider(t)
	auth := newTestAuthenticator(t, srv)

	_, err := auth.Exchange(context.Background(), "bad-code")
	assert.Error(t, err)
}

func TestBotInviteURL(t *testing.T) {
	url := BotInviteURL("client-id", permissions.ManageGuild)
	assert.Contains(t, url, "client_id=client-id")
	assert.Contains(t, url, "scope=bot")
	assert.Contains(t, url, "permissions=32")
}

func TestFlexUint64(t *testing.T) {
	var v struct {
		P flexUint64 `json:"p"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"p": 32}`), &v))
	assert.Equal(t, flexUint64(32), v.P)

	require.NoError(t, json.Unmarshal([]byte(`{"p": "2147483647"}`), &v))
	assert.Equal(t, flexUint64(2147483647), v.P)

	assert.Error(t, json.Unmarshal([]byte(`{"p": "abc"}`), &v))
}
