// Package config provides application configuration management from environment variables.
//
// # Overview
//
// Configuration is read once at process start and never revisited per
// request. All settings have defaults except the identity provider
// credentials and the bot token.
//
// # Configuration Structure
//
// Server settings:
//
//	GUILDDASH_HOST="0.0.0.0"
//	GUILDDASH_PORT="8080"
//	GUILDDASH_HEALTH_PORT="9090"
//	GUILDDASH_READ_TIMEOUT="15s"
//	GUILDDASH_WRITE_TIMEOUT="15s"
//
// Identity provider and membership API:
//
//	GUILDDASH_OAUTH_CLIENT_ID="..."
//	GUILDDASH_OAUTH_CLIENT_SECRET="..."
//	GUILDDASH_OAUTH_REDIRECT_URL="https://dash.example.com/auth/callback"
//	GUILDDASH_BOT_TOKEN="..."
//	GUILDDASH_API_BASE_URL=""            # defaults to the platform API
//
// Storage backends:
//
//	GUILDDASH_SESSION_BACKEND="memory"   # memory, redis
//	GUILDDASH_SESSION_TTL="24h"
//	GUILDDASH_SETTINGS_BACKEND="memory"  # memory, redis, postgres
//	GUILDDASH_REDIS_URL="redis://localhost:6379/0"
//	GUILDDASH_POSTGRES_URL="postgres://localhost/guilddash"
package config
