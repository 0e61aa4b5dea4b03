package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jobsieve/jobsieve/internal/metrics"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file...]",
	Short: "Extract a structured record from job description text",
	Long:  "Read job description text from the given files (or stdin when none are given) and print the normalized records as JSON.",
	RunE:  runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

// Concurrent file workers; the completion service is the bottleneck anyway.
const extractConcurrency = 4

func runExtract(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	pipeline := buildPipeline(cfg, logger, metrics.New())
	ctx := cmd.Context()

	if len(args) == 0 {
		text, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		rec, err := pipeline.ExtractJob(ctx, string(text))
		if err != nil {
			return err
		}
		return printJSON(os.Stdout, rec)
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(extractConcurrency)

	for _, path := range args {
		path := path
		g.Go(func() error {
			text, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			rec, err := pipeline.ExtractJob(ctx, string(text))
			if err != nil {
				return fmt.Errorf("extract %s: %w", path, err)
			}

			mu.Lock()
			defer mu.Unlock()
			if len(args) > 1 {
				fmt.Fprintf(os.Stdout, "// %s\n", path)
			}
			return printJSON(os.Stdout, rec)
		})
	}
	return g.Wait()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
