package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/huangzhongping/AIProjectCrawler/internal/cli"
	"github.com/huangzhongping/AIProjectCrawler/internal/config"
	"github.com/huangzhongping/AIProjectCrawler/internal/globaltime"
	"github.com/huangzhongping/AIProjectCrawler/internal/report"
	"github.com/huangzhongping/AIProjectCrawler/internal/storage"
)

func runReport(args []string) int {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", time.Minute, "Command timeout")
	date := fs.String("date", "", "Report date (YYYY-MM-DD, default today)")

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

	reportDate := *date
	if reportDate == "" {
		reportDate = globaltime.Date()
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("database open failed")
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		return 1
	}
	defer store.Close()

	paths, err := generateReport(ctx, cfg, logger, store, reportDate)
	if err != nil {
		logger.Error().Err(err).Str("date", reportDate).Msg("report generation failed")
		fmt.Fprintf(os.Stderr, "Failed to generate report: %v\n", err)
		return 1
	}

	fmt.Printf("date=%s html=%s markdown=%s charts=%s\n", reportDate, paths.HTML, paths.Markdown, paths.Charts)
	return 0
}

// generateReport renders one day's report plus the refreshed history index.
func generateReport(ctx context.Context, cfg *config.Config, logger zerolog.Logger, store *storage.Store, date string) (report.Paths, error) {
	projects, err := store.ProjectsByDate(ctx, date)
	if err != nil {
		return report.Paths{}, err
	}
	if len(projects) == 0 {
		return report.Paths{}, fmt.Errorf("no projects stored for %s", date)
	}

	g := report.NewGenerator(cfg.OutputDir, logger)
	paths, err := g.GenerateDaily(date, projects)
	if err != nil {
		return report.Paths{}, err
	}

	stats, err := store.StatsRange(ctx, cfg.KeepDays)
	if err != nil {
		return report.Paths{}, err
	}
	if _, err := g.WriteHistoryIndex(daySummaries(stats)); err != nil {
		return report.Paths{}, err
	}

	return paths, nil
}

// daySummaries folds per-source stats into one row per day, newest first.
func daySummaries(stats []storage.DailyStat) []report.DaySummary {
	byDate := make(map[string]*report.DaySummary)
	order := make([]string, 0)
	for _, stat := range stats {
		day := byDate[stat.Date]
		if day == nil {
			day = &report.DaySummary{Date: stat.Date}
			byDate[stat.Date] = day
			order = append(order, stat.Date)
		}
		day.ProjectCount += stat.ProjectCount
		day.AICount += stat.AICount
	}

	// StatsRange returns oldest first; the index wants newest first.
	out := make([]report.DaySummary, 0, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		out = append(out, *byDate[order[i]])
	}
	return out
}
