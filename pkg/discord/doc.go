// Package discord integrates the two external collaborators the dashboard
// consumes: the identity provider's OAuth2 flow and the guild membership API.
//
// # Overview
//
// Authenticator runs the authorization-code exchange and returns a
// session.Principal carrying the guild list with permission bitmasks:
//
//	auth, _ := discord.NewAuthenticator(cfg)
//	http.Redirect(w, r, auth.AuthCodeURL(state), http.StatusFound)
//	// at the callback:
//	principal, err := auth.Exchange(ctx, code)
//
// RESTClient implements GuildProvider with the bot token. Guild metadata is
// cached briefly; bot presence is never cached, so every authorization check
// observes current presence.
package discord
