package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/huangzhongping/AIProjectCrawler/internal/cli"
	"github.com/huangzhongping/AIProjectCrawler/internal/crawler"
	"github.com/huangzhongping/AIProjectCrawler/internal/globaltime"
	"github.com/huangzhongping/AIProjectCrawler/internal/storage"
)

func runCrawl(args []string) int {
	fs := flag.NewFlagSet("crawl", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 5*time.Minute, "Command timeout")
	date := fs.String("date", "", "Snapshot date (YYYY-MM-DD, default today)")
	sourceFilter := fs.String("source", "", "Crawl a single source (github or producthunt)")

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

	snapshotDate := *date
	if snapshotDate == "" {
		snapshotDate = globaltime.Date()
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var sources []crawler.Source
	switch *sourceFilter {
	case "":
		sources = []crawler.Source{
			crawler.NewGitHub(cfg, logger),
			crawler.NewProductHunt(cfg, logger),
		}
	case "github":
		sources = []crawler.Source{crawler.NewGitHub(cfg, logger)}
	case "producthunt":
		sources = []crawler.Source{crawler.NewProductHunt(cfg, logger)}
	default:
		fmt.Fprintf(os.Stderr, "unknown source: %s\n", *sourceFilter)
		return 2
	}

	records := crawler.CrawlAll(ctx, sources, logger)
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "No projects crawled")
		return 1
	}

	path, err := storage.WriteSnapshot(cfg.DataDir, storage.StageRaw, snapshotDate, records)
	if err != nil {
		logger.Error().Err(err).Msg("raw snapshot write failed")
		fmt.Fprintf(os.Stderr, "Failed to write raw snapshot: %v\n", err)
		return 1
	}

	fmt.Printf("date=%s crawled=%d snapshot=%s\n", snapshotDate, len(records), path)
	return 0
}
