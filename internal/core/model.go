package core

import (
	"time"
)

// Canonical security check names, in display order.
const (
	CheckSPF     = "SPF Verification"
	CheckDKIM    = "DKIM Signature"
	CheckContent = "Content Analysis"
	CheckLinks   = "Link Safety"
)

// CheckNames lists the canonical checks in the order they are rendered
var CheckNames = []string{CheckSPF, CheckDKIM, CheckContent, CheckLinks}

// Email represents an email message submitted for analysis
type Email struct {
	From    string
	To      []string
	Subject string
	Body    string
	Headers map[string][]string
}

// CheckItem is one named security sub-check
type CheckItem struct {
	Name        string `json:"name"`
	Passed      bool   `json:"passed"`
	Description string `json:"description"`
}

// AnalysisResult represents the outcome of analyzing an email
type AnalysisResult struct {
	Safe         bool        `json:"safe"`
	Explanation  string      `json:"explanation"`
	Score        int         `json:"score"`
	Checks       []CheckItem `json:"checks"`
	AnalyzedAt   time.Time   `json:"analyzed_at"`
	ModelUsed    string      `json:"model_used"`
	ProcessingID string      `json:"processing_id,omitempty"`
}

// Verdict returns the badge label for the result
func (r *AnalysisResult) Verdict() string {
	if r.Safe {
		return "Safe"
	}
	return "Suspicious"
}

// CacheEntry is a cached verdict keyed by content digest
type CacheEntry struct {
	ContentDigest string
	Safe          bool
	Score         int
	Explanation   string
	Checks        []CheckItem
	ModelUsed     string
	LastSeen      time.Time
	ExpiresAt     time.Time
}

// ClampScore bounds a score to the 0-100 range
func ClampScore(score int) int {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}

// NormalizeChecks maps arbitrary checks onto the canonical four, in order.
// Checks with unknown names are dropped; missing ones are reported as failed.
func NormalizeChecks(checks []CheckItem) []CheckItem {
	byName := make(map[string]CheckItem, len(checks))
	for _, c := range checks {
		byName[c.Name] = c
	}

	normalized := make([]CheckItem, 0, len(CheckNames))
	for _, name := range CheckNames {
		c, ok := byName[name]
		if !ok {
			c = CheckItem{Name: name, Passed: false, Description: "No finding reported"}
		}
		normalized = append(normalized, c)
	}
	return normalized
}
