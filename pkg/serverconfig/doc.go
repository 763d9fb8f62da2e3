// Package serverconfig is the per-guild settings persistence layer.
//
// # Overview
//
// A guild's settings record is an open key/value mapping. A handful of keys
// are recognized and type-validated at the API boundary
// (updateFrequencyMinutes, logChannelId, notifyRoleId, premium,
// premiumFeatures); anything else is stored opaquely for forward
// compatibility with bot-side features the dashboard does not know about.
//
// Updates are partial merges, never wholesale replacement:
//
//	store.MergeUpdate(ctx, guildID, serverconfig.Settings{
//	    serverconfig.KeyUpdateFrequencyMinutes: 30,
//	})
//
// # Backends
//
// MemoryStore for development and tests, RedisStore (one JSON document per
// guild), and PostgresStore (JSONB column merged server-side with ||).
// Concurrent updates to the same guild are last-write-wins in every backend;
// the store does not serialize per-guild writers.
package serverconfig
