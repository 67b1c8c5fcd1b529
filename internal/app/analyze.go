package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/huangzhongping/AIProjectCrawler/internal/classify"
	"github.com/huangzhongping/AIProjectCrawler/internal/cli"
	"github.com/huangzhongping/AIProjectCrawler/internal/globaltime"
	"github.com/huangzhongping/AIProjectCrawler/internal/model"
	"github.com/huangzhongping/AIProjectCrawler/internal/storage"
)

func runAnalyze(args []string) int {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 10*time.Minute, "Command timeout")
	date := fs.String("date", "", "Snapshot date (YYYY-MM-DD, default today)")

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

	var projects []model.Project
	if err := storage.ReadSnapshot(cfg.DataDir, storage.StageProcessed, snapshotDate, &projects); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read processed snapshot: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	analyzer := classify.NewAnalyzer(cfg, logger)
	projects = analyzer.Analyze(ctx, projects)

	if _, err := storage.WriteSnapshot(cfg.DataDir, storage.StageProcessed, snapshotDate, projects); err != nil {
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

	batchID, err := store.SaveDaily(ctx, snapshotDate, projects)
	if err != nil {
		logger.Error().Err(err).Msg("daily batch save failed")
		fmt.Fprintf(os.Stderr, "Failed to store daily batch: %v\n", err)
		return 1
	}

	aiCount := len(classify.FilterAI(projects))
	fmt.Printf("date=%s analyzed=%d ai_related=%d batch_id=%s\n", snapshotDate, len(projects), aiCount, batchID)
	return 0
}
