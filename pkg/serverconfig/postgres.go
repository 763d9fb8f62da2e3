package serverconfig

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	// PostgreSQL driver registration.
	_ "github.com/lib/pq"
)

// PostgresStore persists settings as one JSONB document per guild. The merge
// happens server-side with the || operator, so untouched keys are preserved
// without a read-modify-write cycle.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed settings store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the settings table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS guild_settings (
			guild_id   TEXT PRIMARY KEY,
			settings   JSONB NOT NULL DEFAULT '{}'::jsonb,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create guild_settings table: %w", err)
	}
	return nil
}

// GetConfig returns the guild's settings, empty when no row exists.
func (s *PostgresStore) GetConfig(ctx context.Context, guildID string) (Settings, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT settings FROM guild_settings WHERE guild_id = $1`, guildID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return Settings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("settings read failed: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return settings, nil
}

// MergeUpdate merges changes into the guild's row, creating it if absent.
func (s *PostgresStore) MergeUpdate(ctx context.Context, guildID string, changes Settings) error {
	data, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO guild_settings (guild_id, settings, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (guild_id) DO UPDATE
		SET settings = guild_settings.settings || EXCLUDED.settings,
		    updated_at = now()
	`, guildID, data)
	if err != nil {
		return fmt.Errorf("settings write failed: %w", err)
	}
	return nil
}
