package database

import "database/sql"

type migration struct {
	version int
	up      []string
}

var migrations = []migration{
	{
		version: 1,
		up: []string{
			`CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY,
				applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE TABLE IF NOT EXISTS operations_log (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				mode TEXT NOT NULL,
				kind TEXT NOT NULL,
				series_key TEXT,
				source_path TEXT NOT NULL,
				requested_path TEXT NOT NULL,
				final_path TEXT,
				bytes INTEGER DEFAULT 0,
				success INTEGER NOT NULL,
				error TEXT,
				executed_by TEXT NOT NULL,
				executed_at DATETIME NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_operations_source ON operations_log(source_path)`,
			`CREATE INDEX IF NOT EXISTS idx_operations_executed_at ON operations_log(executed_at)`,
			`INSERT INTO schema_version (version) VALUES (1)`,
		},
	},
}

// applyMigrations runs every migration newer than the recorded version, each
// in its own transaction.
func applyMigrations(db *sql.DB) error {
	var currentVersion int
	err := db.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&currentVersion)
	if err != nil {
		// fresh database
		currentVersion = 0
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		for _, stmt := range m.up {
			if _, err := tx.Exec(stmt); err != nil {
				tx.Rollback()
				return err
			}
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// SchemaVersion returns the highest applied migration.
func (h *HistoryDB) SchemaVersion() (int, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var v int
	err := h.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&v)
	return v, err
}
