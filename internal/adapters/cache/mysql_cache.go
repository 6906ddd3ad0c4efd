package cache

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

var mysqlDialect = dialect{
	name: "mysql",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS verdict_cache (
			content_digest CHAR(64) PRIMARY KEY,
			safe BOOLEAN NOT NULL,
			score INT NOT NULL,
			explanation TEXT NOT NULL,
			checks TEXT NOT NULL,
			model_used VARCHAR(255) NOT NULL,
			last_seen BIGINT NOT NULL,
			expires_at BIGINT NOT NULL,
			INDEX idx_verdict_expires_at (expires_at)
		)`,
	},
	get: `SELECT content_digest, safe, score, explanation, checks, model_used, last_seen, expires_at
		FROM verdict_cache WHERE content_digest = ? AND expires_at > ?`,
	upsert: `INSERT INTO verdict_cache
		(content_digest, safe, score, explanation, checks, model_used, last_seen, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			safe = VALUES(safe),
			score = VALUES(score),
			explanation = VALUES(explanation),
			checks = VALUES(checks),
			model_used = VALUES(model_used),
			last_seen = VALUES(last_seen),
			expires_at = VALUES(expires_at)`,
	delete:  `DELETE FROM verdict_cache WHERE content_digest = ?`,
	cleanup: `DELETE FROM verdict_cache WHERE expires_at <= ?`,
}

// NewMySQLCache creates a new MySQL cache
func NewMySQLCache(dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLCache, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	return newSQLCache(db, mysqlDialect, logger, cleanupFreq)
}
