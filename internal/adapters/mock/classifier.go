package mock

import (
	"context"
	"math/rand"
	"time"

	"github.com/mikey/legitim/internal/core"
	"go.uber.org/zap"
)

// ModelName is reported as ModelUsed on every mock verdict
const ModelName = "mock"

// DefaultScore is the fixed safety score of every mock verdict
const DefaultScore = 92

// Explanation is the canned explanation of every mock verdict
const Explanation = "Based on our comprehensive analysis, this email demonstrates characteristics consistent with legitimate business communication. The sender's domain is properly configured with valid SPF and DKIM records, and the content analysis reveals no suspicious patterns or urgent calls to action typically associated with phishing attempts."

// Classifier is a stand-in for a real classifier. It waits for a fixed
// delay and then returns a random verdict; the email is never inspected.
type Classifier struct {
	delay  time.Duration
	score  int
	coin   func() bool
	logger *zap.Logger
}

// NewClassifier creates a new mock classifier
func NewClassifier(delay time.Duration, score int, logger *zap.Logger) *Classifier {
	logger.Warn("Mock classifier in use: verdicts are random and do not inspect the email",
		zap.Duration("delay", delay),
		zap.Int("score", score))

	return &Classifier{
		delay:  delay,
		score:  score,
		coin:   func() bool { return rand.Float64() > 0.5 },
		logger: logger,
	}
}

// WithCoin replaces the random source deciding the safe flag
func (c *Classifier) WithCoin(coin func() bool) *Classifier {
	c.coin = coin
	return c
}

// Classify waits for the configured delay and returns a random verdict
func (c *Classifier) Classify(ctx context.Context, email *core.Email) (*core.AnalysisResult, error) {
	if c.delay > 0 {
		timer := time.NewTimer(c.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	safe := c.coin()
	c.logger.Debug("Mock verdict generated", zap.Bool("safe", safe))

	return &core.AnalysisResult{
		Safe:        safe,
		Explanation: Explanation,
		Score:       c.score,
		Checks:      fixedChecks(),
		AnalyzedAt:  time.Now(),
		ModelUsed:   ModelName,
	}, nil
}

// fixedChecks always reports every check as passed, even on Suspicious
// verdicts. The checks are not derived from the email; only real classifiers
// report per-check findings.
func fixedChecks() []core.CheckItem {
	return []core.CheckItem{
		{
			Name:        core.CheckSPF,
			Passed:      true,
			Description: "Sender Policy Framework records are valid and authorized",
		},
		{
			Name:        core.CheckDKIM,
			Passed:      true,
			Description: "Digital signature is authentic and unmodified",
		},
		{
			Name:        core.CheckContent,
			Passed:      true,
			Description: "No suspicious patterns or urgent action requests detected",
		},
		{
			Name:        core.CheckLinks,
			Passed:      true,
			Description: "All URLs point to legitimate domains",
		},
	}
}
