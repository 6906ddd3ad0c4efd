package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/mikey/legitim/internal/whitelist"
	"go.uber.org/zap"
)

// ServiceOptions tunes the analysis service
type ServiceOptions struct {
	CacheEnabled    bool
	CacheTTL        time.Duration
	Timeout         time.Duration
	MaxContentBytes int
}

// AnalysisService is the core service behind every analysis front end
type AnalysisService struct {
	classifier Classifier
	parser     EmailParser
	cache      CacheRepository
	trusted    *whitelist.Checker
	logger     *zap.Logger
	opts       ServiceOptions
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(
	classifier Classifier,
	parser EmailParser,
	cache CacheRepository,
	trusted *whitelist.Checker,
	logger *zap.Logger,
	opts ServiceOptions,
) *AnalysisService {
	return &AnalysisService{
		classifier: classifier,
		parser:     parser,
		cache:      cache,
		trusted:    trusted,
		logger:     logger,
		opts:       opts,
	}
}

// ContentDigest returns the cache key for a piece of email content
func ContentDigest(content string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(content)))
	return hex.EncodeToString(sum[:])
}

// Validate reports whether content would be accepted by Analyze
func (s *AnalysisService) Validate(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyInput
	}
	if s.opts.MaxContentBytes > 0 && len(content) > s.opts.MaxContentBytes {
		return NewContentTooLargeError(len(content), s.opts.MaxContentBytes)
	}
	return nil
}

// Analyze checks pasted email content and returns a verdict
func (s *AnalysisService) Analyze(ctx context.Context, content string) (*AnalysisResult, error) {
	if err := s.Validate(content); err != nil {
		return nil, err
	}
	return s.analyzeRaw(ctx, content)
}

// AnalyzeMessage checks a delivered message. The paste size limit does not
// apply; classifiers truncate the body they send upstream.
func (s *AnalysisService) AnalyzeMessage(ctx context.Context, raw string) (*AnalysisResult, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyInput
	}
	return s.analyzeRaw(ctx, raw)
}

func (s *AnalysisService) analyzeRaw(ctx context.Context, content string) (*AnalysisResult, error) {
	email, err := s.parser.Parse(content)
	if err != nil {
		s.logger.Debug("Content is not a parseable message, analyzing as plain text", zap.Error(err))
		email = &Email{Body: content}
	} else if strings.TrimSpace(email.Body) == "" {
		// Header-only content: the classifier still needs to see the text
		email.Body = content
	}

	return s.AnalyzeEmail(ctx, email, ContentDigest(content))
}

// AnalyzeEmail runs the trust, cache and classifier stages for an already parsed email
func (s *AnalysisService) AnalyzeEmail(ctx context.Context, email *Email, digest string) (*AnalysisResult, error) {
	if s.trusted != nil && s.trusted.IsWhitelisted(email.From) {
		s.logger.Info("Skipping analysis for trusted sender domain",
			zap.String("sender", email.From),
			zap.String("action", "trusted_bypass"))
		return trustedResult(), nil
	}

	if s.opts.CacheEnabled && s.cache != nil {
		if entry, err := s.cache.Get(ctx, digest); err == nil {
			s.logger.Debug("Cache hit for content", zap.String("digest", digest))
			return &AnalysisResult{
				Safe:        entry.Safe,
				Score:       entry.Score,
				Explanation: entry.Explanation,
				Checks:      NormalizeChecks(entry.Checks),
				AnalyzedAt:  time.Now(),
				ModelUsed:   "cache",
			}, nil
		}
	}

	cctx := ctx
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := s.classifier.Classify(cctx, email)
	if err != nil {
		err = classifyError(cctx, err)
		s.logger.Error("Analysis failed",
			zap.Error(err),
			zap.String("kind", KindOf(err).String()),
			zap.String("sender", email.From))
		return nil, err
	}

	result.Score = ClampScore(result.Score)
	result.Checks = NormalizeChecks(result.Checks)
	if result.AnalyzedAt.IsZero() {
		result.AnalyzedAt = time.Now()
	}

	if s.opts.CacheEnabled && s.cache != nil {
		entry := &CacheEntry{
			ContentDigest: digest,
			Safe:          result.Safe,
			Score:         result.Score,
			Explanation:   result.Explanation,
			Checks:        result.Checks,
			ModelUsed:     result.ModelUsed,
			LastSeen:      time.Now(),
			ExpiresAt:     time.Now().Add(s.opts.CacheTTL),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to update cache", zap.Error(err))
		}
	}

	s.logger.Info("Analysis complete",
		zap.String("sender", email.From),
		zap.String("verdict", result.Verdict()),
		zap.Int("score", result.Score),
		zap.String("model", result.ModelUsed),
		zap.Duration("duration", time.Since(start)))

	return result, nil
}

func classifyError(ctx context.Context, err error) error {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return NewTimeoutError(err)
	}
	return NewServiceError(err)
}

func trustedResult() *AnalysisResult {
	checks := make([]CheckItem, 0, len(CheckNames))
	for _, name := range CheckNames {
		checks = append(checks, CheckItem{
			Name:        name,
			Passed:      true,
			Description: "Skipped for trusted sender domain",
		})
	}
	return &AnalysisResult{
		Safe:        true,
		Score:       100,
		Explanation: "Sender domain is trusted",
		Checks:      checks,
		AnalyzedAt:  time.Now(),
		ModelUsed:   "trusted-domain",
	}
}
