package prompt

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mikey/legitim/internal/core"
)

// SystemMessage is sent as the system role where the provider supports one
const SystemMessage = "You are an email security analyst. Respond only with JSON."

const format = `You are an email security analyst. Decide whether the following email is safe or a phishing attempt.
Respond with a JSON object containing:
- safe: boolean (true if the email is legitimate, false if it is suspicious)
- score: integer between 0 and 100 (higher means safer)
- explanation: string (two or three sentences explaining the verdict)
- checks: array of exactly four objects with fields name, passed (boolean) and description (string),
  one for each of: %s

Email:
From: %s
To: %s
Subject: %s
Headers:
%s
Body:
%s

Respond only with the JSON object and nothing else.`

// Verdict is the structured response expected from a model
type Verdict struct {
	Safe        bool             `json:"safe"`
	Score       float64          `json:"score"`
	Explanation string           `json:"explanation"`
	Checks      []core.CheckItem `json:"checks"`
}

// Build formats the analysis prompt for an email whose body has already been
// truncated and sanitized
func Build(email *core.Email, body string) string {
	to := ""
	if len(email.To) > 0 {
		to = email.To[0]
		if len(email.To) > 1 {
			to += fmt.Sprintf(" and %d others", len(email.To)-1)
		}
	}

	return fmt.Sprintf(format,
		strings.Join(core.CheckNames, ", "),
		email.From, to, email.Subject,
		authHeaders(email.Headers),
		body)
}

// authHeaders keeps the headers relevant to SPF and DKIM checks
func authHeaders(headers map[string][]string) string {
	var sb strings.Builder
	for _, key := range []string{"Return-Path", "Received-SPF", "Authentication-Results", "DKIM-Signature", "Reply-To"} {
		for k, values := range headers {
			if !strings.EqualFold(k, key) {
				continue
			}
			for _, v := range values {
				fmt.Fprintf(&sb, "%s: %s\n", key, v)
			}
		}
	}
	if sb.Len() == 0 {
		return "(none)"
	}
	return sb.String()
}

// ParseVerdict parses a model response, tolerating prose around the JSON object
func ParseVerdict(responseText string) (*Verdict, error) {
	var verdict Verdict
	if err := json.Unmarshal([]byte(responseText), &verdict); err == nil {
		return &verdict, nil
	}

	start := strings.Index(responseText, "{")
	end := strings.LastIndex(responseText, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("failed to extract JSON from LLM response")
	}

	if err := json.Unmarshal([]byte(responseText[start:end+1]), &verdict); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
	}
	return &verdict, nil
}

// Result converts a verdict into an AnalysisResult
func (v *Verdict) Result(model, processingID string) *core.AnalysisResult {
	return &core.AnalysisResult{
		Safe:         v.Safe,
		Explanation:  v.Explanation,
		Score:        core.ClampScore(int(math.Round(v.Score))),
		Checks:       core.NormalizeChecks(v.Checks),
		AnalyzedAt:   time.Now(),
		ModelUsed:    model,
		ProcessingID: processingID,
	}
}
