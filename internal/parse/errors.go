package parse

import (
	"context"
	"errors"
	"fmt"

	"github.com/jobsieve/jobsieve/internal/ai"
	"github.com/jobsieve/jobsieve/internal/model"
)

// Kind classifies pipeline failures for callers and for the retry loop.
type Kind int

const (
	// KindInput: empty or unusable input text. Fails fast, never retried.
	KindInput Kind = iota
	// KindConfig: missing extraction-service credentials. Fails fast.
	KindConfig
	// KindRejected: the service refused or produced an unusable response
	// (content policy, response too short, empty response). Never retried.
	KindRejected
	// KindTransient: timeout, rate limit, 5xx, network failure, or a JSON
	// parse failure that salvage could not fix. Retried per policy.
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindConfig:
		return "config"
	case KindRejected:
		return "rejected"
	case KindTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Error is the typed failure returned by the pipeline. Only input, config,
// rejected, and exhausted transient errors ever reach the caller; estimation
// and rate-fetch failures are absorbed inside the salary subsystem.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether the retry loop may attempt the call again.
func (e *Error) Retryable() bool { return e.Kind == KindTransient }

func inputErr(msg string) *Error  { return &Error{Kind: KindInput, Msg: msg} }
func configErr(msg string) *Error { return &Error{Kind: KindConfig, Msg: msg} }

func rejectedErr(msg string, err error) *Error {
	return &Error{Kind: KindRejected, Msg: msg, Err: err}
}

func transientErr(msg string, err error) *Error {
	return &Error{Kind: KindTransient, Msg: msg, Err: err}
}

// classify maps an arbitrary provider failure onto the error taxonomy.
// HTTP 429 and 5xx are transient; other HTTP statuses are rejected; plain
// transport errors and deadline expiry are transient.
func classify(err error) *Error {
	var perr *Error
	if errors.As(err, &perr) {
		return perr
	}

	if errors.Is(err, ai.ErrNoAPIKey) {
		return configErr("extraction service credentials not configured")
	}

	var respErr *ai.ResponseError
	if errors.As(err, &respErr) {
		return rejectedErr("extraction service returned an unusable response", err)
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == 429 || httpErr.StatusCode >= 500 {
			return transientErr("extraction service unavailable", err)
		}
		return &Error{Kind: KindRejected, Msg: "extraction service rejected request", Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return transientErr("extraction request timed out", err)
	}

	// Network errors, DNS failures, connection resets.
	return transientErr("extraction request failed", err)
}
