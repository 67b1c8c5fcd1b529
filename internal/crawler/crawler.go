package crawler

import (
	"context"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"
	"github.com/rs/zerolog"

	"github.com/huangzhongping/AIProjectCrawler/internal/config"
)

// Source crawls one trending listing into raw records. Records are loose
// maps on purpose: pages are inconsistent and the cleaner owns coercion.
type Source interface {
	Name() string
	Crawl(ctx context.Context) ([]map[string]any, error)
}

// CrawlAll runs every source in order and concatenates the raw batches.
// A failing source is logged and skipped; one broken listing must not
// lose the others' results.
func CrawlAll(ctx context.Context, sources []Source, logger zerolog.Logger) []map[string]any {
	var all []map[string]any
	for _, source := range sources {
		records, err := source.Crawl(ctx)
		if err != nil {
			logger.Error().Err(err).Str("source", source.Name()).Msg("source crawl failed")
			continue
		}
		logger.Info().Str("source", source.Name()).Int("records", len(records)).Msg("source crawl completed")
		all = append(all, records...)
	}
	return all
}

func newCollector(cfg *config.Config, logger zerolog.Logger) *colly.Collector {
	col := colly.NewCollector()
	extensions.RandomUserAgent(col)

	col.SetRequestTimeout(time.Duration(cfg.CrawlTimeoutSec) * time.Second)
	_ = col.Limit(&colly.LimitRule{
		DomainGlob: "*",
		Delay:      time.Duration(cfg.CrawlDelayMS) * time.Millisecond,
	})

	col.OnError(func(r *colly.Response, err error) {
		logger.Warn().Err(err).Str("url", r.Request.URL.String()).Msg("request failed")
	})

	return col
}

// dedupeByURL drops records repeating an already-seen URL, the per-source
// pre-dedup each crawler applies before the cleaner sees the batch.
func dedupeByURL(records []map[string]any) []map[string]any {
	seen := make(map[string]struct{}, len(records))
	out := make([]map[string]any, 0, len(records))
	for _, record := range records {
		url, _ := record["url"].(string)
		if url != "" {
			if _, dup := seen[url]; dup {
				continue
			}
			seen[url] = struct{}{}
		}
		out = append(out, record)
	}
	return out
}
