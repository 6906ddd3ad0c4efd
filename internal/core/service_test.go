package core_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mikey/legitim/internal/adapters/cache"
	"github.com/mikey/legitim/internal/adapters/mailparse"
	"github.com/mikey/legitim/internal/core"
	"github.com/mikey/legitim/internal/mocks"
	"github.com/mikey/legitim/internal/utils"
	"github.com/mikey/legitim/internal/whitelist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// plainParser treats every input as a bare body and optionally fails
type plainParser struct {
	from string
	err  error
}

func (p plainParser) Parse(content string) (*core.Email, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &core.Email{From: p.from, Body: content}, nil
}

type AnalysisServiceSuite struct {
	suite.Suite
	classifier *mocks.Classifier
	cache      *mocks.CacheRepository
	service    *core.AnalysisService
}

func TestAnalysisService(t *testing.T) {
	suite.Run(t, new(AnalysisServiceSuite))
}

func (suite *AnalysisServiceSuite) SetupTest() {
	suite.classifier = &mocks.Classifier{}
	suite.cache = &mocks.CacheRepository{}
	suite.service = core.NewAnalysisService(
		suite.classifier,
		plainParser{},
		suite.cache,
		whitelist.NewChecker(nil, zap.NewNop()),
		zap.NewNop(),
		core.ServiceOptions{CacheEnabled: true, CacheTTL: time.Hour, Timeout: time.Second, MaxContentBytes: 64},
	)
}

func (suite *AnalysisServiceSuite) TearDownTest() {
	suite.classifier.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
}

func (suite *AnalysisServiceSuite) TestAnalyze_EmptyInput() {
	for _, content := range []string{"", "   ", "\n\t "} {
		result, err := suite.service.Analyze(context.Background(), content)

		assert.Nil(suite.T(), result)
		assert.ErrorIs(suite.T(), err, core.ErrEmptyInput)
		assert.Equal(suite.T(), core.KindInvalidInput, core.KindOf(err))
	}
	suite.classifier.AssertNotCalled(suite.T(), "Classify", mock.Anything, mock.Anything)
}

func (suite *AnalysisServiceSuite) TestAnalyze_TooLarge() {
	_, err := suite.service.Analyze(context.Background(), strings.Repeat("x", 65))

	require.Error(suite.T(), err)
	assert.Equal(suite.T(), core.KindInvalidInput, core.KindOf(err))
}

func (suite *AnalysisServiceSuite) TestAnalyze_NormalizesAndCaches() {
	content := "urgent: verify your account"
	digest := core.ContentDigest(content)

	suite.cache.On("Get", mock.Anything, digest).Return(nil, cache.ErrNotFound)
	suite.classifier.On("Classify", mock.Anything, mock.MatchedBy(func(e *core.Email) bool {
		return e.Body == content
	})).Return(&core.AnalysisResult{
		Safe:   false,
		Score:  140,
		Checks: []core.CheckItem{{Name: core.CheckLinks, Passed: false, Description: "bad link"}},
	}, nil)
	suite.cache.On("Set", mock.Anything, mock.MatchedBy(func(e *core.CacheEntry) bool {
		return e.ContentDigest == digest && e.Score == 100 && len(e.Checks) == 4
	})).Return(nil)

	result, err := suite.service.Analyze(context.Background(), content)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 100, result.Score)
	assert.Equal(suite.T(), "Suspicious", result.Verdict())
	require.Len(suite.T(), result.Checks, 4)
	for i, name := range core.CheckNames {
		assert.Equal(suite.T(), name, result.Checks[i].Name)
	}
	assert.Equal(suite.T(), "bad link", result.Checks[3].Description)
	assert.False(suite.T(), result.AnalyzedAt.IsZero())
}

func (suite *AnalysisServiceSuite) TestAnalyze_CacheHit() {
	content := "hello"
	suite.cache.On("Get", mock.Anything, core.ContentDigest(content)).Return(&core.CacheEntry{
		Safe:        true,
		Score:       92,
		Explanation: "cached",
	}, nil)

	result, err := suite.service.Analyze(context.Background(), content)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "cache", result.ModelUsed)
	assert.Equal(suite.T(), 92, result.Score)
	assert.Len(suite.T(), result.Checks, 4)
}

func (suite *AnalysisServiceSuite) TestAnalyze_ServiceFailure() {
	suite.cache.On("Get", mock.Anything, mock.Anything).Return(nil, cache.ErrNotFound)
	suite.classifier.On("Classify", mock.Anything, mock.Anything).Return(nil, errors.New("upstream 500"))

	result, err := suite.service.Analyze(context.Background(), "hello")

	assert.Nil(suite.T(), result)
	assert.Equal(suite.T(), core.KindServiceFailure, core.KindOf(err))
}

func (suite *AnalysisServiceSuite) TestAnalyze_Timeout() {
	suite.cache.On("Get", mock.Anything, mock.Anything).Return(nil, cache.ErrNotFound)
	suite.classifier.On("Classify", mock.Anything, mock.Anything).Return(nil, context.DeadlineExceeded)

	_, err := suite.service.Analyze(context.Background(), "hello")

	assert.Equal(suite.T(), core.KindTimeout, core.KindOf(err))
	assert.ErrorIs(suite.T(), err, context.DeadlineExceeded)
}

func TestAnalyze_TrustedSenderSkipsClassifier(t *testing.T) {
	classifier := &mocks.Classifier{}
	service := core.NewAnalysisService(
		classifier,
		plainParser{from: "Bob <bob@partner.example>"},
		nil,
		whitelist.NewChecker([]string{"partner.example"}, zap.NewNop()),
		zap.NewNop(),
		core.ServiceOptions{},
	)

	result, err := service.Analyze(context.Background(), "hi")

	require.NoError(t, err)
	assert.True(t, result.Safe)
	assert.Equal(t, 100, result.Score)
	assert.Equal(t, "trusted-domain", result.ModelUsed)
	classifier.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything)
}

func TestAnalyze_UnparseableContentIsAnalyzedAsBody(t *testing.T) {
	classifier := &mocks.Classifier{}
	classifier.On("Classify", mock.Anything, mock.MatchedBy(func(e *core.Email) bool {
		return e.Body == "just some text" && e.From == ""
	})).Return(&core.AnalysisResult{Safe: true, Score: 80}, nil)

	service := core.NewAnalysisService(classifier, plainParser{err: errors.New("no header")}, nil, nil, zap.NewNop(), core.ServiceOptions{})

	result, err := service.Analyze(context.Background(), "just some text")

	require.NoError(t, err)
	assert.Equal(t, 80, result.Score)
	classifier.AssertExpectations(t)
}

// headerOnlyParser mimics a parse that recognised headers but found no body
type headerOnlyParser struct{}

func (headerOnlyParser) Parse(content string) (*core.Email, error) {
	return &core.Email{
		Subject: "Account notice",
		Headers: map[string][]string{"Subject": {"Account notice"}},
	}, nil
}

func TestAnalyze_EmptyParsedBodyFallsBackToContent(t *testing.T) {
	content := "Subject: Account notice\nverify now at http://evil.example"

	classifier := &mocks.Classifier{}
	classifier.On("Classify", mock.Anything, mock.MatchedBy(func(e *core.Email) bool {
		return e.Body == content && e.Subject == "Account notice"
	})).Return(&core.AnalysisResult{Safe: false, Score: 10}, nil)

	service := core.NewAnalysisService(classifier, headerOnlyParser{}, nil, nil, zap.NewNop(), core.ServiceOptions{})

	result, err := service.Analyze(context.Background(), content)

	require.NoError(t, err)
	assert.Equal(t, 10, result.Score)
	classifier.AssertExpectations(t)
}

func TestAnalyze_ProseWithLeadingLabelReachesClassifier(t *testing.T) {
	content := "Urgent: verify your account now at http://evil.example"
	logger := zap.NewNop()

	classifier := &mocks.Classifier{}
	classifier.On("Classify", mock.Anything, mock.MatchedBy(func(e *core.Email) bool {
		return strings.Contains(e.Body, "http://evil.example")
	})).Return(&core.AnalysisResult{Safe: false, Score: 5}, nil)

	parser := mailparse.NewParser(logger, utils.NewTextProcessor(logger))
	service := core.NewAnalysisService(classifier, parser, nil, nil, logger, core.ServiceOptions{})

	_, err := service.Analyze(context.Background(), content)

	require.NoError(t, err)
	classifier.AssertExpectations(t)
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		err  error
		kind core.ErrorKind
		name string
	}{
		{core.ErrEmptyInput, core.KindInvalidInput, "invalid_input"},
		{core.NewContentTooLargeError(10, 5), core.KindInvalidInput, "invalid_input"},
		{core.NewTimeoutError(context.DeadlineExceeded), core.KindTimeout, "timeout"},
		{core.NewServiceError(errors.New("x")), core.KindServiceFailure, "service_failure"},
		{errors.New("x"), core.KindUnknown, "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.kind, core.KindOf(tt.err))
		assert.Equal(t, tt.name, core.KindOf(tt.err).String())
	}
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, core.ClampScore(-5))
	assert.Equal(t, 92, core.ClampScore(92))
	assert.Equal(t, 100, core.ClampScore(101))
}

func TestContentDigestIgnoresSurroundingWhitespace(t *testing.T) {
	assert.Equal(t, core.ContentDigest("hello"), core.ContentDigest("  hello\n"))
	assert.NotEqual(t, core.ContentDigest("hello"), core.ContentDigest("hello!"))
}
