package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"social_watcher/internal/domain"
)

// contentPlaceholder is the single designated slot in an account's prompt
// template that receives the post text.
const contentPlaceholder = "{content}"

// retryInstruction is appended to the prompt after a failed parse. It quotes
// the previous malformed response so the model corrects against its own
// mistake instead of regenerating blind.
const retryInstruction = `
The JSON you previously returned based on the content above was %s, but it
contains syntax errors and could not be parsed. Re-check my requirements and
answer again, following the requested format exactly.
`

// Completer turns a prompt into raw model text. The extractor owns all
// validation of the response.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Extractor drives one post's text through the prompt template and parses
// the model response as a structured mapping, retrying with a corrective
// prompt on malformed output.
type Extractor struct {
	llm        Completer
	maxRetries int
	logger     *slog.Logger
}

func New(llm Completer, maxRetries int, logger *slog.Logger) *Extractor {
	return &Extractor{
		llm:        llm,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// Extract returns the parsed result, a *domain.ParseFailure when the retry
// bound is exhausted, or a wrapped transport error from the model client.
func (e *Extractor) Extract(ctx context.Context, post domain.Post, template string) (*domain.ExtractionResult, error) {
	prompt := strings.ReplaceAll(template, contentPlaceholder, post.Content)

	var lastRaw string
	var lastErr error

	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		raw, err := e.llm.Complete(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("complete prompt: %w", err)
		}

		// The model may emit literal line breaks inside a payload meant
		// to be one line; escape them so the text is a single-line
		// structured-data candidate.
		normalized := strings.ReplaceAll(raw, "\n", `\n`)

		var fields map[string]any
		if err := json.Unmarshal([]byte(normalized), &fields); err != nil {
			e.logger.Warn("model response not parsable",
				"attempt", attempt,
				"error", err,
				"raw", normalized,
			)
			lastRaw = normalized
			lastErr = err
			if attempt < e.maxRetries {
				prompt += fmt.Sprintf(retryInstruction, normalized)
			}
			continue
		}

		return domain.NewExtractionResult(fields), nil
	}

	return nil, &domain.ParseFailure{
		Attempts: e.maxRetries,
		LastRaw:  lastRaw,
		Err:      lastErr,
	}
}
