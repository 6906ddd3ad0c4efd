package core

import (
	"context"
)

// Classifier defines the interface for anything that can judge an email
type Classifier interface {
	// Classify analyzes an email and returns a verdict
	Classify(ctx context.Context, email *Email) (*AnalysisResult, error)
}

// EmailParser turns pasted email text into an Email
type EmailParser interface {
	Parse(content string) (*Email, error)
}

// CacheRepository defines the interface for caching verdicts
type CacheRepository interface {
	// Get retrieves a cached entry for a content digest
	Get(ctx context.Context, digest string) (*CacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, digest string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}
