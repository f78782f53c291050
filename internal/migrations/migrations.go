package migrations

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Run creates the schema backing the console's session store.
func Run(db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS session_values (
            session_id TEXT NOT NULL,
            item_key TEXT NOT NULL,
            item_value TEXT NOT NULL,
            updated_at BIGINT NOT NULL,
            PRIMARY KEY (session_id, item_key)
        );`,
		`CREATE INDEX IF NOT EXISTS idx_session_values_updated ON session_values (updated_at);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
