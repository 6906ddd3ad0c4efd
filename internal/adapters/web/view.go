package web

import (
	"errors"
	"strconv"
	"time"

	"github.com/mikey/legitim/internal/core"
	"github.com/mikey/legitim/internal/site"
	"github.com/mikey/legitim/internal/tool"
)

// Icon classes for the security check list
const (
	IconPassed = "check-passed"
	IconFailed = "check-failed"
)

type pageData struct {
	Site   *site.Content
	Title  string
	Active string
	Year   int
	Tool   *ToolView
}

// ToolView is what the Tool page renders for one form
type ToolView struct {
	State          string
	Pending        bool
	Content        string
	Error          string
	Result         *ResultView
	RefreshSeconds int
}

// ResultView is a resolved analysis as the result panel shows it
type ResultView struct {
	Safe        bool
	Badge       string
	Score       int
	ScoreLabel  string
	Explanation string
	Checks      []CheckView
}

// CheckView is one row of the security check list
type CheckView struct {
	Name        string
	Description string
	Passed      bool
	Icon        string
}

// NewResultView maps an analysis result to its rendered form
func NewResultView(r *core.AnalysisResult) *ResultView {
	if r == nil {
		return nil
	}
	score := core.ClampScore(r.Score)
	v := &ResultView{
		Safe:        r.Safe,
		Badge:       r.Verdict(),
		Score:       score,
		ScoreLabel:  strconv.Itoa(score) + "%",
		Explanation: r.Explanation,
		Checks:      make([]CheckView, 0, len(r.Checks)),
	}
	for _, c := range r.Checks {
		icon := IconFailed
		if c.Passed {
			icon = IconPassed
		}
		v.Checks = append(v.Checks, CheckView{
			Name:        c.Name,
			Description: c.Description,
			Passed:      c.Passed,
			Icon:        icon,
		})
	}
	return v
}

// NewToolView maps a form snapshot to the Tool page view
func NewToolView(s tool.Snapshot, refresh time.Duration) *ToolView {
	v := &ToolView{
		State:          s.State.String(),
		Pending:        s.State == tool.Pending,
		Content:        s.Content,
		RefreshSeconds: refreshSeconds(refresh),
	}
	if s.State == tool.Resolved {
		v.Result = NewResultView(s.Result)
	}
	if s.Err != nil {
		v.Error = userMessage(s.Err)
	}
	return v
}

func refreshSeconds(d time.Duration) int {
	secs := int(d.Round(time.Second) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}

// userMessage hides internal error detail from page visitors
func userMessage(err error) string {
	var ae *core.AnalysisError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "The analysis service is unavailable right now."
}
