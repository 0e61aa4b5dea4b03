package parse

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/jobsieve/jobsieve/internal/ai"
	"github.com/jobsieve/jobsieve/internal/metrics"
)

// defaultRates is the static fallback table of currency→INR rates, used
// whenever a live fetch fails or returns nothing usable.
var defaultRates = map[string]float64{
	"USD": 83.5,
	"EUR": 90.2,
	"GBP": 105.3,
	"CAD": 61.5,
	"AUD": 54.8,
	"SGD": 61.2,
	"JPY": 0.56,
	"CHF": 93.5,
}

// Rates above this are assumed to be garbage from the service.
const rateSanityCeiling = 10_000

// RateCache is a read-through cache of exchange rates to the reference
// currency. Rates never fails: a fetch problem degrades to the static table.
// Concurrent refreshes are allowed; the last writer wins, which is fine
// because staleness within the TTL is tolerated anyway.
type RateCache struct {
	completer Completer
	ttl       time.Duration
	timeout   time.Duration
	now       func() time.Time
	logger    *slog.Logger
	obs       *metrics.Metrics

	mu        sync.Mutex
	rates     map[string]float64
	fetchedAt time.Time
}

// NewRateCache builds a cache backed by the extraction service. A nil now
// defaults to time.Now.
func NewRateCache(completer Completer, ttl, timeout time.Duration, now func() time.Time, logger *slog.Logger, obs *metrics.Metrics) *RateCache {
	if now == nil {
		now = time.Now
	}
	return &RateCache{
		completer: completer,
		ttl:       ttl,
		timeout:   timeout,
		now:       now,
		logger:    logger,
		obs:       obs,
	}
}

// Rates returns the current currency→INR table. Fresh cached rates are
// returned as-is; otherwise one bounded fetch is attempted and any failure
// falls back to the static defaults.
func (c *RateCache) Rates(ctx context.Context) map[string]float64 {
	now := c.now()

	c.mu.Lock()
	if c.rates != nil && now.Sub(c.fetchedAt) < c.ttl {
		rates := c.rates
		c.mu.Unlock()
		return rates
	}
	c.mu.Unlock()

	fetched, err := c.fetch(ctx)
	if err != nil {
		c.logger.Warn("exchange rate fetch failed, using defaults", "error", err)
		c.obs.ObserveRateRefresh("fallback")
		return defaultRates
	}
	c.obs.ObserveRateRefresh("ok")

	c.mu.Lock()
	c.rates = fetched
	c.fetchedAt = now
	c.mu.Unlock()
	return fetched
}

type rateFetchError string

func (e rateFetchError) Error() string { return string(e) }

func (c *RateCache) fetch(ctx context.Context) (map[string]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	today := c.now().UTC().Format("2006-01-02")
	resp, err := c.completer.Complete(ctx, ai.Request{
		System:      `Return ONLY valid JSON with current exchange rates to INR. Format: {"USD": 83.5, "EUR": 90.2, ...}`,
		User:        "Current exchange rates to INR as of " + today + "?",
		Temperature: 0.1,
		MaxTokens:   200,
		JSONObject:  true,
	})
	if err != nil {
		return nil, err
	}
	if resp.Content == "" {
		return nil, rateFetchError("empty exchange rate response")
	}

	var raw map[string]json.Number
	if err := json.Unmarshal([]byte(resp.Content), &raw); err != nil {
		return nil, err
	}

	validated := make(map[string]float64, len(raw))
	for currency, num := range raw {
		rate, err := num.Float64()
		if err != nil {
			continue
		}
		if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 || rate >= rateSanityCeiling {
			continue
		}
		validated[strings.ToUpper(currency)] = rate
	}
	if len(validated) == 0 {
		return nil, rateFetchError("no valid rates in response")
	}
	return validated, nil
}
