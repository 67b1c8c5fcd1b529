package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/huangzhongping/AIProjectCrawler/internal/classify"
	"github.com/huangzhongping/AIProjectCrawler/internal/cleaner"
	"github.com/huangzhongping/AIProjectCrawler/internal/cli"
	"github.com/huangzhongping/AIProjectCrawler/internal/crawler"
	"github.com/huangzhongping/AIProjectCrawler/internal/globaltime"
	"github.com/huangzhongping/AIProjectCrawler/internal/storage"
	"github.com/huangzhongping/AIProjectCrawler/schema"
)

// runPipeline executes the full daily cycle: crawl, validate, clean,
// analyze, store, report, retention cleanup.
func runPipeline(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Minute, "Pipeline timeout")
	skipReport := fs.Bool("skip-report", false, "Skip report generation")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, logger, ok := bootstrap(envLoader)
	if !ok {
		return 1
	}

	date := globaltime.Date()
	started := globaltime.UTC()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	sources := []crawler.Source{
		crawler.NewGitHub(cfg, logger),
		crawler.NewProductHunt(cfg, logger),
	}
	records := crawler.CrawlAll(ctx, sources, logger)
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "No projects crawled")
		return 1
	}
	if _, err := storage.WriteSnapshot(cfg.DataDir, storage.StageRaw, date, records); err != nil {
		logger.Error().Err(err).Msg("raw snapshot write failed")
		fmt.Fprintf(os.Stderr, "Failed to write raw snapshot: %v\n", err)
		return 1
	}

	rawJSON, err := json.Marshal(records)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode raw batch: %v\n", err)
		return 1
	}
	if _, err := schema.ValidateRawProjects(rawJSON); err != nil {
		logger.Error().Err(err).Msg("raw batch failed validation")
		fmt.Fprintf(os.Stderr, "Raw batch failed validation: %v\n", err)
		return 2
	}

	c := cleaner.New(cleaner.Config{
		SimilarityThreshold: cfg.SimilarityThreshold,
		CompareFields:       cfg.CompareFieldsList(),
	}, logger)
	projects := c.CleanAndDeduplicate(records)
	if len(projects) == 0 {
		fmt.Fprintln(os.Stderr, "No valid projects after cleaning")
		return 1
	}

	analyzer := classify.NewAnalyzer(cfg, logger)
	projects = analyzer.Analyze(ctx, projects)

	if _, err := storage.WriteSnapshot(cfg.DataDir, storage.StageProcessed, date, projects); err != nil {
		logger.Error().Err(err).Msg("processed snapshot write failed")
		fmt.Fprintf(os.Stderr, "Failed to write processed snapshot: %v\n", err)
		return 1
	}

	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("database open failed")
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		return 1
	}
	defer store.Close()

	batchID, err := store.SaveDaily(ctx, date, projects)
	if err != nil {
		logger.Error().Err(err).Msg("daily batch save failed")
		fmt.Fprintf(os.Stderr, "Failed to store daily batch: %v\n", err)
		return 1
	}

	removed, err := store.CleanupOlderThan(ctx, cfg.KeepDays)
	if err != nil {
		logger.Warn().Err(err).Msg("retention cleanup failed")
	}

	if !*skipReport {
		if _, err := generateReport(ctx, cfg, logger, store, date); err != nil {
			logger.Error().Err(err).Msg("report generation failed")
			fmt.Fprintf(os.Stderr, "Failed to generate report: %v\n", err)
			return 1
		}
	}

	aiCount := len(classify.FilterAI(projects))
	fmt.Printf("date=%s crawled=%d cleaned=%d ai_related=%d removed=%d batch_id=%s elapsed=%s\n",
		date, len(records), len(projects), aiCount, removed, batchID,
		globaltime.UTC().Sub(started).Round(time.Millisecond))
	return 0
}
