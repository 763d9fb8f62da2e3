// Package permissions evaluates per-guild permission bitmasks.
//
// # Overview
//
// Every route that gates guild management calls through CanManage; no caller
// re-derives the bit test inline. The bit values mirror the identity
// provider's documented permission flags.
package permissions

// Bitmask is a guild permission bitmask as reported by the identity provider.
type Bitmask uint64

const (
	// ManageGuild grants settings administration within a guild. The value
	// matches the provider's documented MANAGE_GUILD flag (1 << 5); a wrong
	// bit here silently grants or denies access to every protected route.
	ManageGuild Bitmask = 1 << 5
)

// Has reports whether all bits of perm are set in m.
func (m Bitmask) Has(perm Bitmask) bool {
	return m&perm == perm
}

// CanManage reports whether a principal holding mask may manage a guild the
// bot is (or is not) present in. Pure: no I/O, no side effects.
func CanManage(mask Bitmask, botPresent bool) bool {
	return mask.Has(ManageGuild) && botPresent
}
