package app

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/huangzhongping/AIProjectCrawler/internal/cli"
	"github.com/huangzhongping/AIProjectCrawler/internal/globaltime"
	"github.com/huangzhongping/AIProjectCrawler/schema"
)

func runValidate(args []string) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	date := fs.String("date", "", "Snapshot date to validate (YYYY-MM-DD, default today)")
	file := fs.String("file", "", "Raw JSON file to validate (overrides the dated snapshot)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, _, ok := bootstrap(envLoader)
	if !ok {
		return 1
	}

	path := *file
	if path == "" {
		snapshotDate := *date
		if snapshotDate == "" {
			snapshotDate = globaltime.Date()
		}
		path = fmt.Sprintf("%s/raw/raw_projects_%s.json", cfg.DataDir, snapshotDate)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read %s: %v\n", path, err)
		return 1
	}

	records, err := schema.ValidateRawProjects(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		return 2
	}

	fmt.Printf("file=%s records=%d valid=true\n", path, len(records))
	return 0
}
