package parse

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jobsieve/jobsieve/internal/ai"
)

// Estimator asks the extraction service for a realistic market salary range
// when the posting states none. Estimation is advisory: every failure path
// returns (nil, nil) and the pipeline proceeds without a salary.
type Estimator struct {
	completer Completer
	timeout   time.Duration
	logger    *slog.Logger
}

// NewEstimator builds a salary estimator with the given per-request timeout.
func NewEstimator(completer Completer, timeout time.Duration, logger *slog.Logger) *Estimator {
	return &Estimator{completer: completer, timeout: timeout, logger: logger}
}

const estimatorSystemPrompt = `You are a salary research assistant. Research current market salary ranges for the given role, experience level, and location. Return ONLY valid JSON with salary range in INR (yearly). Format: {"min": number, "max": number} or {"min": number, "max": null} or {"min": null, "max": number}. Use realistic market rates based on current data. If you cannot find reliable data, return {"min": null, "max": null}.`

// Estimate returns an INR yearly range for the role, or (nil, nil) when the
// service cannot provide one.
func (e *Estimator) Estimate(ctx context.Context, role, experience, location string) (min, max *int64) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.completer.Complete(ctx, ai.Request{
		System: estimatorSystemPrompt,
		User: fmt.Sprintf(
			"What is the typical salary range (in INR yearly) for a %s position requiring %s of experience in %s? Research current market rates and provide a realistic range.",
			role, experience, location,
		),
		Temperature: 0.3,
		MaxTokens:   150,
		JSONObject:  true,
	})
	if err != nil {
		e.logger.Warn("salary estimation failed", "role", role, "error", err)
		return nil, nil
	}
	if resp.Content == "" {
		return nil, nil
	}

	var result struct {
		Min any `json:"min"`
		Max any `json:"max"`
	}
	if err := json.Unmarshal([]byte(resp.Content), &result); err != nil {
		e.logger.Warn("salary estimate unparseable", "role", role, "error", err)
		return nil, nil
	}

	min = cleanNumber(result.Min)
	max = cleanNumber(result.Max)
	if min != nil && max != nil && *max < *min {
		min, max = max, min
	}
	return min, max
}
