package cache

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var sqliteDialect = dialect{
	name: "sqlite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS verdict_cache (
			content_digest TEXT PRIMARY KEY,
			safe BOOLEAN NOT NULL,
			score INTEGER NOT NULL,
			explanation TEXT NOT NULL,
			checks TEXT NOT NULL,
			model_used TEXT NOT NULL,
			last_seen INTEGER NOT NULL,
			expires_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_verdict_expires_at ON verdict_cache(expires_at)`,
	},
	get: `SELECT content_digest, safe, score, explanation, checks, model_used, last_seen, expires_at
		FROM verdict_cache WHERE content_digest = ? AND expires_at > ?`,
	upsert: `INSERT OR REPLACE INTO verdict_cache
		(content_digest, safe, score, explanation, checks, model_used, last_seen, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	delete:  `DELETE FROM verdict_cache WHERE content_digest = ?`,
	cleanup: `DELETE FROM verdict_cache WHERE expires_at <= ?`,
}

// NewSQLiteCache creates a new SQLite cache
func NewSQLiteCache(dbPath string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLCache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	return newSQLCache(db, sqliteDialect, logger, cleanupFreq)
}
