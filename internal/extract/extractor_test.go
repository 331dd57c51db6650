package extract

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"

	"social_watcher/internal/domain"
)

// scriptedCompleter returns canned responses in order and records the
// prompts it was called with.
type scriptedCompleter struct {
	responses []string
	err       error
	prompts   []string
}

func (c *scriptedCompleter) Complete(_ context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return "", c.err
	}
	i := len(c.prompts) - 1
	if i >= len(c.responses) {
		return "", errors.New("no scripted response left")
	}
	return c.responses[i], nil
}

type ExtractorTestSuite struct {
	suite.Suite
	ctx    context.Context
	logger *slog.Logger
	post   domain.Post
}

func (s *ExtractorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.post = domain.Post{Content: "X launches Y"}
}

func TestExtractorTestSuite(t *testing.T) {
	suite.Run(t, new(ExtractorTestSuite))
}

func (s *ExtractorTestSuite) TestExtract_FirstAttemptSucceeds() {
	llm := &scriptedCompleter{responses: []string{
		`{"is_relevant":"1","analytical_briefing":"X launched Y today."}`,
	}}
	extractor := New(llm, 3, s.logger)

	result, err := extractor.Extract(s.ctx, s.post, "Summarize: {content}")

	s.NoError(err)
	s.Len(llm.prompts, 1)
	s.Equal("Summarize: X launches Y", llm.prompts[0])
	s.Equal("1", result.IsRelevant)
	s.Equal("X launched Y today.", result.AnalyticalBriefing)
}

func (s *ExtractorTestSuite) TestExtract_NormalizesNewlinesInsideStrings() {
	llm := &scriptedCompleter{responses: []string{
		"{\"is_relevant\":\"1\",\"analytical_briefing\":\"line one\nline two\"}",
	}}
	extractor := New(llm, 3, s.logger)

	result, err := extractor.Extract(s.ctx, s.post, "{content}")

	s.NoError(err)
	s.Equal("line one\nline two", result.AnalyticalBriefing)
}

func (s *ExtractorTestSuite) TestExtract_RetriesWithPreviousResponseEmbedded() {
	llm := &scriptedCompleter{responses: []string{
		"not json at all",
		"{broken",
		`{"is_relevant":"1","analytical_briefing":"ok"}`,
	}}
	extractor := New(llm, 3, s.logger)

	result, err := extractor.Extract(s.ctx, s.post, "Summarize: {content}")

	s.NoError(err)
	s.Require().Len(llm.prompts, 3)
	s.Contains(llm.prompts[1], "not json at all")
	s.Contains(llm.prompts[2], "not json at all")
	s.Contains(llm.prompts[2], "{broken")
	s.Equal("ok", result.AnalyticalBriefing)
}

func (s *ExtractorTestSuite) TestExtract_SuccessConsumesNoFurtherRetries() {
	llm := &scriptedCompleter{responses: []string{
		"garbage",
		`{"is_relevant":"0","analytical_briefing":""}`,
		"should never be requested",
	}}
	extractor := New(llm, 3, s.logger)

	result, err := extractor.Extract(s.ctx, s.post, "{content}")

	s.NoError(err)
	s.Len(llm.prompts, 2)
	s.False(result.Relevant())
}

func (s *ExtractorTestSuite) TestExtract_ExhaustedRetriesReportParseFailure() {
	llm := &scriptedCompleter{responses: []string{"bad", "worse", "worst"}}
	extractor := New(llm, 3, s.logger)

	result, err := extractor.Extract(s.ctx, s.post, "{content}")

	s.Nil(result)
	var parseFailure *domain.ParseFailure
	s.Require().ErrorAs(err, &parseFailure)
	s.Equal(3, parseFailure.Attempts)
	s.Equal("worst", parseFailure.LastRaw)
	s.Len(llm.prompts, 3)
}

func (s *ExtractorTestSuite) TestExtract_CompleterErrorIsNotParseFailure() {
	llm := &scriptedCompleter{err: errors.New("connection refused")}
	extractor := New(llm, 3, s.logger)

	_, err := extractor.Extract(s.ctx, s.post, "{content}")

	s.Error(err)
	var parseFailure *domain.ParseFailure
	s.False(errors.As(err, &parseFailure))
	s.Len(llm.prompts, 1)
}

func (s *ExtractorTestSuite) TestExtract_EmptyContentStillQueriesModel() {
	llm := &scriptedCompleter{responses: []string{
		`{"is_relevant":"0","analytical_briefing":""}`,
	}}
	extractor := New(llm, 3, s.logger)

	result, err := extractor.Extract(s.ctx, domain.Post{Content: ""}, "Summarize: {content}")

	s.NoError(err)
	s.Equal("Summarize: ", llm.prompts[0])
	s.False(result.Relevant())
}

func (s *ExtractorTestSuite) TestExtract_ExtraFieldsSurvive() {
	llm := &scriptedCompleter{responses: []string{
		`{"is_relevant":"1","analytical_briefing":"b","impact":"high"}`,
	}}
	extractor := New(llm, 3, s.logger)

	result, err := extractor.Extract(s.ctx, s.post, "{content}")

	s.NoError(err)
	s.Equal("high", result.Fields["impact"])
}
