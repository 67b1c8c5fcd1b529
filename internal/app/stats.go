package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/huangzhongping/AIProjectCrawler/internal/cli"
	"github.com/huangzhongping/AIProjectCrawler/internal/storage"
)

func runStats(args []string) int {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 20*time.Second, "Command timeout")
	days := fs.Int("days", 30, "How many days back to include")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *days < 1 {
		fmt.Fprintln(os.Stderr, "--days must be >= 1")
		return 2
	}

	cfg, logger, ok := bootstrap(envLoader)
	if !ok {
		return 1
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

	stats, err := store.StatsRange(ctx, *days)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load stats: %v\n", err)
		return 1
	}
	if len(stats) == 0 {
		fmt.Printf("days=%d rows=0\n", *days)
		return 0
	}

	for _, stat := range stats {
		fmt.Printf("date=%s source=%s projects=%d ai_related=%d stars=%d\n",
			stat.Date, stat.Source, stat.ProjectCount, stat.AICount, stat.TotalStars)
	}
	return 0
}
