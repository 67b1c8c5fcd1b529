// Package app wires the CLI commands: each subcommand parses its own flags,
// loads config and the logger, and drives one stage of the radar pipeline.
package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/huangzhongping/AIProjectCrawler/internal/cli"
	"github.com/huangzhongping/AIProjectCrawler/internal/config"
	"github.com/huangzhongping/AIProjectCrawler/internal/logging"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "crawl":
		return runCrawl(args[1:])
	case "clean":
		return runClean(args[1:])
	case "analyze":
		return runAnalyze(args[1:])
	case "report":
		return runReport(args[1:])
	case "run", "run-once":
		return runPipeline(args[1:])
	case "validate":
		return runValidate(args[1:])
	case "stats":
		return runStats(args[1:])
	case "cleanup":
		return runCleanup(args[1:])
	case "serve":
		return runServe(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "radar CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  radar <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  crawl     Fetch trending projects and write the raw snapshot")
	fmt.Fprintln(os.Stderr, "  clean     Normalize and deduplicate a raw snapshot")
	fmt.Fprintln(os.Stderr, "  analyze   Classify cleaned projects and store the daily batch")
	fmt.Fprintln(os.Stderr, "  report    Render the daily report and chart dashboard")
	fmt.Fprintln(os.Stderr, "  run       Run crawl + clean + analyze + report in sequence")
	fmt.Fprintln(os.Stderr, "  validate  Validate raw project JSON against the schema")
	fmt.Fprintln(os.Stderr, "  stats     Print stored per-day statistics")
	fmt.Fprintln(os.Stderr, "  cleanup   Delete stored batches older than the retention window")
	fmt.Fprintln(os.Stderr, "  serve     Start the report and JSON API server")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"radar <command> -h\" for command-specific flags.")
}

// bootstrap loads the .env file, the config and the logger shared by every
// subcommand. A false third return means the command should exit with 1.
func bootstrap(envLoader *cli.EnvLoader) (*config.Config, zerolog.Logger, bool) {
	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, zerolog.Nop(), false
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return nil, zerolog.Nop(), false
	}

	return cfg, logger, true
}
