package app

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/huangzhongping/AIProjectCrawler/internal/cleaner"
	"github.com/huangzhongping/AIProjectCrawler/internal/cli"
	"github.com/huangzhongping/AIProjectCrawler/internal/globaltime"
	"github.com/huangzhongping/AIProjectCrawler/internal/storage"
	"github.com/huangzhongping/AIProjectCrawler/schema"
)

func runClean(args []string) int {
	fs := flag.NewFlagSet("clean", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	date := fs.String("date", "", "Snapshot date (YYYY-MM-DD, default today)")
	input := fs.String("input", "", "Raw JSON file to clean (overrides the dated snapshot)")
	skipValidation := fs.Bool("skip-validation", false, "Skip schema validation of the raw batch")

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

	var records []map[string]any
	if *input != "" {
		raw, err := os.ReadFile(*input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read input: %v\n", err)
			return 1
		}
		if err := json.Unmarshal(raw, &records); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid input JSON: %v\n", err)
			return 2
		}
	} else if err := storage.ReadSnapshot(cfg.DataDir, storage.StageRaw, snapshotDate, &records); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read raw snapshot: %v\n", err)
		return 1
	}

	if !*skipValidation {
		raw, err := json.Marshal(records)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode raw batch: %v\n", err)
			return 1
		}
		if _, err := schema.ValidateRawProjects(raw); err != nil {
			fmt.Fprintf(os.Stderr, "Raw batch failed validation: %v\n", err)
			return 2
		}
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

	path, err := storage.WriteSnapshot(cfg.DataDir, storage.StageProcessed, snapshotDate, projects)
	if err != nil {
		logger.Error().Err(err).Msg("processed snapshot write failed")
		fmt.Fprintf(os.Stderr, "Failed to write processed snapshot: %v\n", err)
		return 1
	}

	fmt.Printf("date=%s raw=%d cleaned=%d snapshot=%s\n", snapshotDate, len(records), len(projects), path)
	return 0
}
