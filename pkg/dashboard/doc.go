// Package dashboard wires the HTTP surface of the management console.
//
// # Overview
//
// Handlers covers three route groups: the OAuth2 login flow under /auth,
// the browser-facing pages under /dashboard, and the settings API under
// /api/{guildID}. Pages and API routes differ only in how they refuse:
// pages redirect, the API answers JSON error bodies. Per-guild
// authorization is delegated to the access resolver on every request, so
// a guild that loses the bot disappears from the console immediately.
package dashboard
