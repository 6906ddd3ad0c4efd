package cache

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

var postgresDialect = dialect{
	name: "postgres",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS verdict_cache (
			content_digest CHAR(64) PRIMARY KEY,
			safe BOOLEAN NOT NULL,
			score INTEGER NOT NULL,
			explanation TEXT NOT NULL,
			checks TEXT NOT NULL,
			model_used TEXT NOT NULL,
			last_seen BIGINT NOT NULL,
			expires_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_verdict_expires_at ON verdict_cache(expires_at)`,
	},
	get: `SELECT content_digest, safe, score, explanation, checks, model_used, last_seen, expires_at
		FROM verdict_cache WHERE content_digest = $1 AND expires_at > $2`,
	upsert: `INSERT INTO verdict_cache
		(content_digest, safe, score, explanation, checks, model_used, last_seen, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (content_digest) DO UPDATE SET
			safe = EXCLUDED.safe,
			score = EXCLUDED.score,
			explanation = EXCLUDED.explanation,
			checks = EXCLUDED.checks,
			model_used = EXCLUDED.model_used,
			last_seen = EXCLUDED.last_seen,
			expires_at = EXCLUDED.expires_at`,
	delete:  `DELETE FROM verdict_cache WHERE content_digest = $1`,
	cleanup: `DELETE FROM verdict_cache WHERE expires_at <= $1`,
}

// NewPostgresCache creates a new PostgreSQL cache using the pgx driver
func NewPostgresCache(dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLCache, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	return newSQLCache(db, postgresDialect, logger, cleanupFreq)
}
