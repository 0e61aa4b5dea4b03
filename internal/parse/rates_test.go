package parse

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jobsieve/jobsieve/internal/ai"
)

func TestRateCache_FallsBackToDefaultsOnError(t *testing.T) {
	mock := &mockCompleter{fn: func(_ int, _ ai.Request) (*ai.Completion, error) {
		return nil, errors.New("boom")
	}}
	c := NewRateCache(mock, time.Hour, time.Second, nil, discardLogger(), nil)

	rates := c.Rates(context.Background())
	if rates["USD"] != defaultRates["USD"] {
		t.Fatalf("expected default USD rate, got %v", rates["USD"])
	}
}

func TestRateCache_CachesWithinTTL(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	mock := &mockCompleter{fn: func(_ int, _ ai.Request) (*ai.Completion, error) {
		return &ai.Completion{Content: `{"USD": 84.1}`, FinishReason: ai.FinishStop}, nil
	}}
	c := NewRateCache(mock, time.Hour, time.Second, clock, discardLogger(), nil)

	c.Rates(context.Background())
	now = now.Add(30 * time.Minute)
	rates := c.Rates(context.Background())

	if mock.calls != 1 {
		t.Fatalf("expected 1 fetch within TTL, got %d", mock.calls)
	}
	if rates["USD"] != 84.1 {
		t.Fatalf("USD = %v, want 84.1", rates["USD"])
	}
}

func TestRateCache_RefetchesAfterTTL(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	mock := &mockCompleter{fn: func(attempt int, _ ai.Request) (*ai.Completion, error) {
		if attempt == 1 {
			return &ai.Completion{Content: `{"USD": 84.1}`, FinishReason: ai.FinishStop}, nil
		}
		return &ai.Completion{Content: `{"USD": 85.0}`, FinishReason: ai.FinishStop}, nil
	}}
	c := NewRateCache(mock, time.Hour, time.Second, clock, discardLogger(), nil)

	c.Rates(context.Background())
	now = now.Add(2 * time.Hour)
	rates := c.Rates(context.Background())

	if mock.calls != 2 {
		t.Fatalf("expected refetch after TTL, got %d calls", mock.calls)
	}
	if rates["USD"] != 85.0 {
		t.Fatalf("USD = %v, want 85.0", rates["USD"])
	}
}

func TestRateCache_RejectsGarbageRates(t *testing.T) {
	mock := &mockCompleter{fn: func(_ int, _ ai.Request) (*ai.Completion, error) {
		return &ai.Completion{Content: `{"USD": -3, "EUR": 99999, "gbp": 105.3}`, FinishReason: ai.FinishStop}, nil
	}}
	c := NewRateCache(mock, time.Hour, time.Second, nil, discardLogger(), nil)

	rates := c.Rates(context.Background())
	if _, ok := rates["USD"]; ok {
		t.Error("negative rate should be dropped")
	}
	if _, ok := rates["EUR"]; ok {
		t.Error("rate above sanity ceiling should be dropped")
	}
	if rates["GBP"] != 105.3 {
		t.Errorf("lowercase currency should be uppercased, got %v", rates)
	}
}

func TestRateCache_AllGarbageFallsBack(t *testing.T) {
	mock := &mockCompleter{fn: func(_ int, _ ai.Request) (*ai.Completion, error) {
		return &ai.Completion{Content: `{"USD": 0}`, FinishReason: ai.FinishStop}, nil
	}}
	c := NewRateCache(mock, time.Hour, time.Second, nil, discardLogger(), nil)

	rates := c.Rates(context.Background())
	if rates["USD"] != defaultRates["USD"] {
		t.Fatalf("expected defaults when nothing validates, got %v", rates["USD"])
	}
}
