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

// ProductHunt crawls the Product Hunt front page for today's launches.
// The markup shifts often, so selectors come in fallback chains and rows
// missing a name are skipped rather than guessed at.
type ProductHunt struct {
	baseURL string
	cfg     *config.Config
	logger  zerolog.Logger
}

func NewProductHunt(cfg *config.Config, logger zerolog.Logger) *ProductHunt {
	return &ProductHunt{
		baseURL: strings.TrimRight(cfg.ProductHuntBaseURL, "/"),
		cfg:     cfg,
		logger:  logger,
	}
}

func (p *ProductHunt) Name() string { return "producthunt" }

func (p *ProductHunt) Crawl(ctx context.Context) ([]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("producthunt crawl canceled: %w", err)
	}

	var records []map[string]any

	col := newCollector(p.cfg, p.logger)
	col.OnHTML(`[data-test^="post-item"], section[class*="post"]`, func(e *colly.HTMLElement) {
		record := p.parsePost(e)
		if record == nil {
			return
		}
		records = append(records, record)
	})

	if err := col.Visit(p.baseURL); err != nil {
		return nil, fmt.Errorf("visit producthunt: %w", err)
	}

	return dedupeByURL(records), nil
}

func (p *ProductHunt) parsePost(e *colly.HTMLElement) map[string]any {
	name := firstChildText(e,
		`[data-test="post-name"]`,
		"strong",
		"h3",
	)
	if name == "" {
		return nil
	}

	href := firstChildAttr(e, "href",
		`a[data-test="post-name"]`,
		`a[href^="/posts/"]`,
	)

	description := firstChildText(e,
		`[data-test="post-description"]`,
		`a[href^="/posts/"] + div`,
		"p",
	)

	votes := firstChildText(e,
		`[data-test="vote-button"]`,
		"button",
	)

	record := map[string]any{
		"name":        name,
		"description": description,
		"votes":       votes,
		"tags":        p.parseTopics(e),
		"source":      "producthunt",
		"crawled_at":  globaltime.Stamp(),
	}
	if href != "" {
		record["url"] = e.Request.AbsoluteURL(href)
	}
	return record
}

func (p *ProductHunt) parseTopics(e *colly.HTMLElement) []string {
	var topics []string
	e.ForEach(`a[href^="/topics/"]`, func(_ int, el *colly.HTMLElement) {
		topic := strings.TrimSpace(el.Text)
		if topic != "" {
			topics = append(topics, topic)
		}
	})
	return topics
}

func firstChildText(e *colly.HTMLElement, selectors ...string) string {
	for _, selector := range selectors {
		if text := strings.TrimSpace(e.ChildText(selector)); text != "" {
			return text
		}
	}
	return ""
}

func firstChildAttr(e *colly.HTMLElement, attr string, selectors ...string) string {
	for _, selector := range selectors {
		if value := strings.TrimSpace(e.ChildAttr(selector, attr)); value != "" {
			return value
		}
	}
	return ""
}
