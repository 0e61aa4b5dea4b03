package parse

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/jobsieve/jobsieve/internal/ai"
	"github.com/jobsieve/jobsieve/internal/model"
)

// Completer is the slice of the chat-completions client the pipeline needs.
type Completer interface {
	Complete(ctx context.Context, req ai.Request) (*ai.Completion, error)
}

const (
	extractTemperature = 0.15

	// Responses shorter than this after trimming carry no usable record.
	minResponseChars = 10
)

// Extractor sends a job posting to the completion service and returns the
// decoded raw payload. Transient failures are retried with exponential
// backoff and jitter; a Retry-After duration from the service takes
// precedence over the computed delay.
type Extractor struct {
	completer  Completer
	prompts    *promptCache
	maxRetries int
	baseDelay  time.Duration
	maxJDChars int
	maxTokens  int
	logger     *slog.Logger
}

func NewExtractor(completer Completer, maxRetries int, baseDelay time.Duration, maxJDChars, maxTokens int, logger *slog.Logger) *Extractor {
	return &Extractor{
		completer:  completer,
		prompts:    newPromptCache(time.Now),
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		maxJDChars: maxJDChars,
		maxTokens:  maxTokens,
		logger:     logger,
	}
}

// Extract runs the completion call for a posting and decodes the JSON object
// from the response. The returned warnings record input and output
// truncation; both outlive any salvage the decoder had to do.
func (e *Extractor) Extract(ctx context.Context, text string) (map[string]any, model.Warnings, error) {
	var warnings model.Warnings

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, warnings, inputErr("empty job description")
	}
	if len(text) > e.maxJDChars {
		text = cutAtRune(text, e.maxJDChars)
		warnings.JDTruncated = true
		e.logger.Warn("job description truncated", "max_chars", e.maxJDChars)
	}

	req := ai.Request{
		System:      e.prompts.SystemPrompt(),
		User:        text,
		Temperature: extractTemperature,
		MaxTokens:   e.maxTokens,
		JSONObject:  true,
	}

	payload, truncated, err := e.complete(ctx, req)
	if err != nil {
		return nil, warnings, err
	}
	if truncated {
		warnings.ResponseTruncated = true
	}
	return payload, warnings, nil
}

// complete runs the request and decodes the payload, retrying transient
// failures up to maxRetries additional attempts. Decoding is part of the
// attempt: a response that cannot be salvaged into JSON is re-requested the
// same way a 5xx is.
func (e *Extractor) complete(ctx context.Context, req ai.Request) (map[string]any, bool, error) {
	payload, truncated, err := e.attempt(ctx, req)
	if err == nil {
		return payload, truncated, nil
	}

	lastErr := classify(err)
	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		if !lastErr.Retryable() {
			return nil, false, lastErr
		}

		delay := e.backoffDelay(attempt, lastErr)
		e.logger.Warn("retrying after transient error",
			"attempt", attempt,
			"max_retries", e.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return nil, false, transientErr("retry cancelled", ctx.Err())
		case <-time.After(delay):
		}

		payload, truncated, err = e.attempt(ctx, req)
		if err == nil {
			return payload, truncated, nil
		}
		lastErr = classify(err)
	}

	return nil, false, lastErr
}

// attempt is one full extraction try: completion call, finish-reason checks,
// payload decode. The truncated result reports a token-limit finish for the
// attempt that actually produced the payload.
func (e *Extractor) attempt(ctx context.Context, req ai.Request) (map[string]any, bool, error) {
	comp, err := e.completer.Complete(ctx, req)
	if err != nil {
		return nil, false, err
	}

	truncated := false
	switch comp.FinishReason {
	case ai.FinishContentFilter:
		return nil, false, rejectedErr("response blocked by content filter", nil)
	case ai.FinishLength:
		truncated = true
		e.logger.Warn("completion hit the token limit, payload may be partial")
	}

	content := strings.TrimSpace(comp.Content)
	if comp.FinishReason == ai.FinishStop && len(content) < minResponseChars {
		return nil, false, rejectedErr("response too short to contain a record", nil)
	}

	payload, err := decodePayload(content)
	if err != nil {
		return nil, false, err
	}
	return payload, truncated, nil
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// A Retry-After duration from the service takes precedence.
func (e *Extractor) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	delay := e.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

// decodePayload extracts the JSON object from a completion response.
// Responses wrapped in markdown fences or surrounded by prose are salvaged
// by slicing from the first opening brace to the last closing one.
func decodePayload(content string) (map[string]any, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.IndexByte(content, '{')
	end := strings.LastIndexByte(content, '}')
	if start < 0 || end <= start {
		return nil, transientErr("no JSON object in response", nil)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(content[start:end+1]), &payload); err != nil {
		return nil, transientErr("malformed JSON in response", err)
	}
	return payload, nil
}
