// Package tool implements the Tool page form: one analysis at a time per
// form, moving through Idle, Pending and Resolved.
package tool

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/mikey/legitim/internal/core"
	"go.uber.org/zap"
)

// State is the lifecycle state of a form
type State int

const (
	// Idle means no result and nothing loading
	Idle State = iota
	// Pending means an analysis is running and submission is disabled
	Pending
	// Resolved means a result is available
	Resolved
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Resolved:
		return "resolved"
	default:
		return "idle"
	}
}

// ErrAlreadyPending is returned when a form is submitted while an analysis is running
var ErrAlreadyPending = errors.New("an analysis is already pending")

// Analyzer is the operation a form submits to. Validate rejects content
// Analyze would refuse, so a form can turn it away without leaving its state.
type Analyzer interface {
	Validate(content string) error
	Analyze(ctx context.Context, content string) (*core.AnalysisResult, error)
}

// Snapshot is a consistent copy of a form's state
type Snapshot struct {
	State   State
	Content string
	Result  *core.AnalysisResult
	// Err is the failure of the last analysis; the form is Idle when it is set
	Err error
}

// Form holds the state of one Tool page form instance
type Form struct {
	id       string
	analyzer Analyzer
	logger   *zap.Logger

	mu       sync.Mutex
	content  string
	state    State
	result   *core.AnalysisResult
	err      error
	done     chan struct{}
	lastSeen time.Time
}

// NewForm creates an Idle form
func NewForm(id string, analyzer Analyzer, logger *zap.Logger) *Form {
	return &Form{
		id:       id,
		analyzer: analyzer,
		logger:   logger,
		lastSeen: time.Now(),
	}
}

// ID returns the form identifier
func (f *Form) ID() string {
	return f.id
}

// Submit starts an analysis of content. It returns ErrAlreadyPending while an
// analysis runs and the analyzer's validation error (core.ErrEmptyInput for
// blank content, a too-large error past the size limit) for rejected input;
// in those cases the form is left untouched. On success the form is Pending
// when Submit returns.
func (f *Form) Submit(content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastSeen = time.Now()
	if f.state == Pending {
		return ErrAlreadyPending
	}
	if strings.TrimSpace(content) == "" {
		return core.ErrEmptyInput
	}
	if err := f.analyzer.Validate(content); err != nil {
		return err
	}

	f.content = content
	f.state = Pending
	f.result = nil
	f.err = nil
	done := make(chan struct{})
	f.done = done

	// Detached from the submitting request: leaving the page does not cancel it
	go f.run(content, done)

	return nil
}

func (f *Form) run(content string, done chan struct{}) {
	defer close(done)

	result, err := f.analyzer.Analyze(context.Background(), content)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.logger.Warn("Form analysis failed", zap.String("form_id", f.id), zap.Error(err))
		f.state = Idle
		f.err = err
		return
	}
	f.state = Resolved
	f.result = result
}

// Snapshot returns the current state
func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastSeen = time.Now()
	return Snapshot{
		State:   f.state,
		Content: f.content,
		Result:  f.result,
		Err:     f.err,
	}
}

// Wait blocks until the form is not Pending or ctx is done
func (f *Form) Wait(ctx context.Context) Snapshot {
	f.mu.Lock()
	done := f.done
	pending := f.state == Pending
	f.mu.Unlock()

	if pending {
		select {
		case <-done:
		case <-ctx.Done():
		}
	}
	return f.Snapshot()
}

// expired reports whether the form has been left alone since before cutoff
func (f *Form) expired(cutoff time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.state != Pending && f.lastSeen.Before(cutoff)
}
