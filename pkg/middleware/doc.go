// Package middleware provides HTTP middleware for session resolution and
// route protection.
//
// # Overview
//
// SessionMiddleware turns the session cookie into a Principal on the request
// context. RequirePage and RequireAPI enforce authentication with the
// appropriate failure mode for their surface: a redirect to the login flow
// for pages, a 401 JSON body for API routes. Authorization for a specific
// guild is a separate concern handled by the access package.
package middleware
