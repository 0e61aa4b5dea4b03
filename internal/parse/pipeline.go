package parse

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jobsieve/jobsieve/internal/metrics"
	"github.com/jobsieve/jobsieve/internal/model"
)

// Pipeline turns raw job-posting text into a normalized Record. It owns the
// whole sequence: extraction with retries, field sanitization, salary
// normalization to yearly INR, and technology-stack canonicalization.
type Pipeline struct {
	extractor *Extractor
	rates     *RateCache
	estimator *Estimator
	logger    *slog.Logger
	obs       *metrics.Metrics
}

func NewPipeline(extractor *Extractor, rates *RateCache, estimator *Estimator, logger *slog.Logger, obs *metrics.Metrics) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		rates:     rates,
		estimator: estimator,
		logger:    logger,
		obs:       obs,
	}
}

// ExtractJob runs the full pipeline over one posting. Errors always carry a
// Kind; salary estimation and rate-fetch problems never surface here, they
// degrade to a record without salary or with default rates.
func (p *Pipeline) ExtractJob(ctx context.Context, text string) (*model.Record, error) {
	start := time.Now()

	rec, err := p.run(ctx, text)
	if err != nil {
		outcome := "unknown"
		var perr *Error
		if errors.As(err, &perr) {
			outcome = perr.Kind.String()
		}
		p.obs.ObserveExtraction(outcome, time.Since(start))
		return nil, err
	}

	p.obs.ObserveExtraction("ok", time.Since(start))
	return rec, nil
}

func (p *Pipeline) run(ctx context.Context, text string) (*model.Record, error) {
	payload, warnings, err := p.extractor.Extract(ctx, text)
	if err != nil {
		return nil, err
	}

	rec := recordFromPayload(payload)
	rec.Experience = resolveExperience(rec.Experience, text)
	p.normalizeSalary(ctx, rec)
	canonicalizeTech(rec, text)

	if warnings.JDTruncated || warnings.ResponseTruncated {
		w := warnings
		rec.Warnings = &w
	}

	p.logger.Info("extracted job posting",
		"title", rec.Title,
		"company", rec.Company,
		"tech_count", len(rec.TechStack),
		"salary_estimated", rec.SalaryEstimated,
	)
	return rec, nil
}

// normalizeSalary settles the record on the reference currency and a yearly
// period. Three paths: a stated salary in INR needs only annualization, a
// foreign-currency salary goes through the exchange-rate table, and a record
// with no salary at all falls back to the market estimator. Estimation needs
// a role, a location, and a stated experience level; without all three the
// estimator has nothing to anchor a market range on and the salary fields
// stay empty.
func (p *Pipeline) normalizeSalary(ctx context.Context, rec *model.Record) {
	if rec.SalaryMin == nil && rec.SalaryMax == nil {
		if !canEstimate(rec) {
			rec.SalaryCurrency, rec.SalaryPeriod = nil, nil
			return
		}
		min, max := p.estimator.Estimate(ctx, rec.Role, rec.Experience, rec.Location)
		if min == nil && max == nil {
			p.obs.ObserveEstimate("miss")
			rec.SalaryCurrency, rec.SalaryPeriod = nil, nil
			return
		}
		p.obs.ObserveEstimate("ok")
		rec.SalaryMin, rec.SalaryMax = min, max
		rec.SalaryEstimated = true
	} else {
		currency := model.ReferenceCurrency
		if rec.SalaryCurrency != nil {
			currency = *rec.SalaryCurrency
		}
		period := model.PeriodYearly
		if rec.SalaryPeriod != nil {
			period = *rec.SalaryPeriod
		}

		var rates map[string]float64
		if !strings.EqualFold(currency, model.ReferenceCurrency) {
			rates = p.rates.Rates(ctx)
		}
		rec.SalaryMin, rec.SalaryMax = convertToINRYearly(rec.SalaryMin, rec.SalaryMax, currency, period, rates)
	}

	if rec.SalaryMin == nil && rec.SalaryMax == nil {
		rec.SalaryCurrency, rec.SalaryPeriod = nil, nil
		return
	}
	currency, period := model.ReferenceCurrency, model.PeriodYearly
	rec.SalaryCurrency, rec.SalaryPeriod = &currency, &period
}

// canEstimate reports whether the record carries enough context for a market
// salary estimate.
func canEstimate(rec *model.Record) bool {
	return rec.Role != "" &&
		rec.Location != "" &&
		rec.Experience != "" &&
		!strings.EqualFold(rec.Experience, "Not specified")
}
