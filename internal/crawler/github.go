package crawler

import (
	"context"
	"fmt"
	"strings"

	"github.com/gocolly/colly/v2"
	"github.com/rs/zerolog"

	"github.com/huangzhongping/AIProjectCrawler/internal/config"
	"github.com/huangzhongping/AIProjectCrawler/internal/globaltime"
)

// GitHub crawls github.com/trending listing pages for each configured
// language and time range combination.
type GitHub struct {
	baseURL    string
	languages  []string
	timeRanges []string
	maxPages   int
	cfg        *config.Config
	logger     zerolog.Logger
}

func NewGitHub(cfg *config.Config, logger zerolog.Logger) *GitHub {
	return &GitHub{
		baseURL:    strings.TrimRight(cfg.GithubBaseURL, "/"),
		languages:  cfg.GithubLanguagesList(),
		timeRanges: cfg.GithubTimeRangesList(),
		maxPages:   cfg.GithubMaxPages,
		cfg:        cfg,
		logger:     logger,
	}
}

func (g *GitHub) Name() string { return "github" }

func (g *GitHub) Crawl(ctx context.Context) ([]map[string]any, error) {
	languages := g.languages
	if len(languages) == 0 {
		languages = []string{"all"}
	}
	timeRanges := g.timeRanges
	if len(timeRanges) == 0 {
		timeRanges = []string{"daily"}
	}

	var all []map[string]any
	for _, language := range languages {
		for _, timeRange := range timeRanges {
			if err := ctx.Err(); err != nil {
				return all, fmt.Errorf("github crawl canceled: %w", err)
			}

			records, err := g.crawlListing(language, timeRange)
			if err != nil {
				g.logger.Warn().
					Err(err).
					Str("language", language).
					Str("time_range", timeRange).
					Msg("github listing failed")
				continue
			}
			all = append(all, records...)
		}
	}

	return dedupeByURL(all), nil
}

func (g *GitHub) crawlListing(language, timeRange string) ([]map[string]any, error) {
	var records []map[string]any

	col := newCollector(g.cfg, g.logger)
	col.OnHTML("article.Box-row", func(e *colly.HTMLElement) {
		record := g.parseRow(e)
		if record == nil {
			return
		}
		record["language_filter"] = language
		record["time_range"] = timeRange
		records = append(records, record)
	})

	for page := 1; page <= g.maxPages; page++ {
		before := len(records)
		if err := col.Visit(g.listingURL(language, timeRange, page)); err != nil {
			return records, fmt.Errorf("visit github trending %s/%s page %d: %w", language, timeRange, page, err)
		}
		if len(records) == before {
			break
		}
	}

	return records, nil
}

func (g *GitHub) listingURL(language, timeRange string, page int) string {
	url := g.baseURL
	if language != "" && language != "all" {
		url += "/" + language
	}
	url += "?since=" + timeRange
	if page > 1 {
		url += fmt.Sprintf("&p=%d", page)
	}
	return url
}

func (g *GitHub) parseRow(e *colly.HTMLElement) map[string]any {
	href := strings.TrimSpace(e.ChildAttr("h2 a", "href"))
	if href == "" {
		return nil
	}

	author, name := splitRepoPath(href)
	if name == "" {
		return nil
	}

	return map[string]any{
		"name":        name,
		"author":      author,
		"url":         e.Request.AbsoluteURL(href),
		"description": strings.TrimSpace(e.ChildText("p")),
		"language":    strings.TrimSpace(e.ChildText("span[itemprop=programmingLanguage]")),
		"stars":       strings.TrimSpace(e.ChildText(`a[href$="/stargazers"]`)),
		"forks":       strings.TrimSpace(e.ChildText(`a[href$="/forks"]`)),
		"source":      "github",
		"crawled_at":  globaltime.Stamp(),
	}
}

func splitRepoPath(href string) (author, name string) {
	parts := strings.Split(strings.Trim(href, "/"), "/")
	if len(parts) < 2 {
		return "", ""
	}
	return parts[0], parts[1]
}
