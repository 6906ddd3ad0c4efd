package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mikey/legitim/internal/core"
	"go.uber.org/zap"
)

// dialect holds the statements that differ between SQL backends
type dialect struct {
	name    string
	schema  []string
	get     string
	upsert  string
	delete  string
	cleanup string
}

// SQLCache is a database/sql implementation of the CacheRepository interface.
// Timestamps are stored as unix seconds so every driver compares them the same way.
type SQLCache struct {
	db          *sql.DB
	dialect     dialect
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
	stopOnce    sync.Once
}

func newSQLCache(db *sql.DB, d dialect, logger *zap.Logger, cleanupFreq time.Duration) (*SQLCache, error) {
	for _, stmt := range d.schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create %s schema: %w", d.name, err)
		}
	}

	cache := &SQLCache{
		db:          db,
		dialect:     d,
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	if cleanupFreq > 0 {
		go runCleanup(cache, logger, cleanupFreq, cache.stopCh)
	}

	return cache, nil
}

// Get retrieves a cached entry for a content digest
func (c *SQLCache) Get(ctx context.Context, digest string) (*core.CacheEntry, error) {
	var entry core.CacheEntry
	var checks string
	var lastSeen, expiresAt int64

	err := c.db.QueryRowContext(ctx, c.dialect.get, digest, time.Now().Unix()).
		Scan(&entry.ContentDigest, &entry.Safe, &entry.Score, &entry.Explanation, &checks, &entry.ModelUsed, &lastSeen, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}

	if err := json.Unmarshal([]byte(checks), &entry.Checks); err != nil {
		return nil, fmt.Errorf("failed to decode cached checks: %w", err)
	}
	entry.LastSeen = time.Unix(lastSeen, 0)
	entry.ExpiresAt = time.Unix(expiresAt, 0)

	return &entry, nil
}

// Set stores a cache entry
func (c *SQLCache) Set(ctx context.Context, entry *core.CacheEntry) error {
	checks, err := json.Marshal(entry.Checks)
	if err != nil {
		return fmt.Errorf("failed to encode checks: %w", err)
	}

	_, err = c.db.ExecContext(ctx, c.dialect.upsert,
		entry.ContentDigest, entry.Safe, entry.Score, entry.Explanation, string(checks),
		entry.ModelUsed, entry.LastSeen.Unix(), entry.ExpiresAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}
	return nil
}

// Delete removes a cache entry
func (c *SQLCache) Delete(ctx context.Context, digest string) error {
	if _, err := c.db.ExecContext(ctx, c.dialect.delete, digest); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Cleanup removes expired entries
func (c *SQLCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, c.dialect.cleanup, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		c.logger.Debug("Cleaned up expired cache entries",
			zap.String("backend", c.dialect.name),
			zap.Int64("expired_count", rowsAffected))
	}
	return nil
}

// Stop stops the background cleanup task and closes the database connection
func (c *SQLCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
		if err := c.db.Close(); err != nil {
			c.logger.Error("Failed to close cache database", zap.String("backend", c.dialect.name), zap.Error(err))
		}
	})
}
