package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jobsieve/jobsieve/internal/ai"
	"github.com/jobsieve/jobsieve/internal/config"
	"github.com/jobsieve/jobsieve/internal/httpapi"
	"github.com/jobsieve/jobsieve/internal/metrics"
	"github.com/jobsieve/jobsieve/internal/parse"
	"github.com/jobsieve/jobsieve/internal/ratelimit"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobsieve",
	Short: "Job posting extraction and normalization service",
	Long:  "JobSieve turns raw job-description text into structured, normalized records: salary in yearly INR, a canonicalized technology stack, and cleaned fields.",
	// Default to `serve` so the binary can be invoked directly from a unit file.
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBSIEVE_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBSIEVE_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	// A .env file is optional; environment variables already set win.
	_ = godotenv.Load()

	if path == "" {
		if env := os.Getenv("JOBSIEVE_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func buildPipeline(cfg *config.Config, logger *slog.Logger, obs *metrics.Metrics) *parse.Pipeline {
	httpClient := &http.Client{Timeout: cfg.AI.Timeout}
	client := ai.NewOpenAIClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, httpClient)

	// One limiter shared across call purposes keeps the total request rate
	// against the completion service bounded.
	extractClient, ratesClient, estimateClient := parse.Completer(client), parse.Completer(client), parse.Completer(client)
	if cfg.AI.MinDelay > 0 {
		limiter := ratelimit.NewLimiter(cfg.AI.MinDelay)
		extractClient = ratelimit.NewLimitedCompleter(client, limiter, "extract")
		ratesClient = ratelimit.NewLimitedCompleter(client, limiter, "rates")
		estimateClient = ratelimit.NewLimitedCompleter(client, limiter, "estimate")
	}

	extractor := parse.NewExtractor(extractClient, cfg.Parse.MaxRetries, cfg.Parse.BaseRetryDelay, cfg.Parse.MaxJDChars, cfg.Parse.MaxResponseTokens, logger)
	rates := parse.NewRateCache(ratesClient, cfg.Rates.CacheTTL, cfg.Rates.Timeout, nil, logger, obs)
	estimator := parse.NewEstimator(estimateClient, cfg.Parse.EstimateTimeout, logger)

	return parse.NewPipeline(extractor, rates, estimator, logger, obs)
}

func buildServer(cfg *config.Config, logger *slog.Logger) *httpapi.Server {
	obs := metrics.New()
	pipeline := buildPipeline(cfg, logger, obs)
	return httpapi.NewServer(pipeline, logger, obs)
}
