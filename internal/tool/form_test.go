package tool

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mikey/legitim/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// gatedAnalyzer blocks every analysis until release is closed
type gatedAnalyzer struct {
	release  chan struct{}
	err      error
	maxBytes int
	calls    atomic.Int32
}

func (a *gatedAnalyzer) Validate(content string) error {
	if a.maxBytes > 0 && len(content) > a.maxBytes {
		return core.NewContentTooLargeError(len(content), a.maxBytes)
	}
	return nil
}

func newGatedAnalyzer() *gatedAnalyzer {
	return &gatedAnalyzer{release: make(chan struct{})}
}

func (a *gatedAnalyzer) Analyze(_ context.Context, _ string) (*core.AnalysisResult, error) {
	a.calls.Add(1)
	<-a.release
	if a.err != nil {
		return nil, a.err
	}
	return &core.AnalysisResult{Safe: true, Score: 92}, nil
}

func waitResolved(t *testing.T, f *Form) Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s := f.Wait(ctx)
	require.NotEqual(t, Pending, s.State, "analysis did not finish")
	return s
}

func TestFormStartsIdle(t *testing.T) {
	f := NewForm("id", newGatedAnalyzer(), zap.NewNop())

	s := f.Snapshot()
	assert.Equal(t, Idle, s.State)
	assert.Nil(t, s.Result)
	assert.NoError(t, s.Err)
}

func TestFormEmptySubmissionIsNoOp(t *testing.T) {
	a := newGatedAnalyzer()
	f := NewForm("id", a, zap.NewNop())

	for _, content := range []string{"", "   ", "\n\t"} {
		assert.ErrorIs(t, f.Submit(content), core.ErrEmptyInput)
		assert.Equal(t, Idle, f.Snapshot().State)
	}
	assert.Zero(t, a.calls.Load())
}

func TestFormLifecycle(t *testing.T) {
	a := newGatedAnalyzer()
	f := NewForm("id", a, zap.NewNop())

	require.NoError(t, f.Submit("From: a@b.c\n\nhello"))
	s := f.Snapshot()
	assert.Equal(t, Pending, s.State)
	assert.Nil(t, s.Result)
	assert.Equal(t, "From: a@b.c\n\nhello", s.Content)

	assert.ErrorIs(t, f.Submit("again"), ErrAlreadyPending)

	close(a.release)
	s = waitResolved(t, f)
	assert.Equal(t, Resolved, s.State)
	require.NotNil(t, s.Result)
	assert.Equal(t, 92, s.Result.Score)
	assert.Equal(t, int32(1), a.calls.Load())
}

func TestFormResubmitAfterResolved(t *testing.T) {
	a := newGatedAnalyzer()
	close(a.release)
	f := NewForm("id", a, zap.NewNop())

	require.NoError(t, f.Submit("one"))
	waitResolved(t, f)

	require.NoError(t, f.Submit("two"))
	s := waitResolved(t, f)
	assert.Equal(t, Resolved, s.State)
	assert.Equal(t, "two", s.Content)
	assert.Equal(t, int32(2), a.calls.Load())
}

func TestFormFailureReturnsToIdle(t *testing.T) {
	a := newGatedAnalyzer()
	a.err = core.NewServiceError(errors.New("down"))
	close(a.release)
	f := NewForm("id", a, zap.NewNop())

	require.NoError(t, f.Submit("hello"))
	s := waitResolved(t, f)

	assert.Equal(t, Idle, s.State)
	assert.Nil(t, s.Result)
	assert.Equal(t, core.KindServiceFailure, core.KindOf(s.Err))

	// The form can be retried
	a.err = nil
	require.NoError(t, f.Submit("hello"))
	assert.Equal(t, Resolved, waitResolved(t, f).State)
}

func TestFormOversizedSubmissionKeepsResult(t *testing.T) {
	a := newGatedAnalyzer()
	a.maxBytes = 10
	close(a.release)
	f := NewForm("id", a, zap.NewNop())

	require.NoError(t, f.Submit("short"))
	waitResolved(t, f)

	err := f.Submit(strings.Repeat("x", 100))
	require.Error(t, err)
	assert.Equal(t, core.KindInvalidInput, core.KindOf(err))

	s := f.Snapshot()
	assert.Equal(t, Resolved, s.State)
	assert.Equal(t, "short", s.Content)
	require.NotNil(t, s.Result)
	assert.NoError(t, s.Err)
	assert.Equal(t, int32(1), a.calls.Load())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "resolved", Resolved.String())
}
