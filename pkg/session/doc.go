// Package session binds server-issued tokens to authenticated principals.
//
// # Overview
//
// A Session is created at a successful OAuth2 callback and lives until logout
// or TTL expiry (24 hours by default). The Principal snapshot inside it —
// identity plus per-guild permission bitmasks — is immutable for the session's
// lifetime; a fresh login is the only refresh path.
//
// # Backends
//
// MemoryStore: mutex-guarded map with a cron janitor sweeping expired entries.
//
//	store := session.NewMemoryStore(24 * time.Hour)
//	defer store.Close()
//
// RedisStore: JSON values with native Redis TTLs; survives restarts.
//
//	store := session.NewRedisStore(redisClient, 24*time.Hour)
//
// Resolve never distinguishes unknown from expired from malformed tokens: all
// report absent, so callers cannot leak session-validity information.
package session
