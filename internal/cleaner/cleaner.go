package cleaner

import (
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/huangzhongping/AIProjectCrawler/internal/globaltime"
	"github.com/huangzhongping/AIProjectCrawler/internal/model"
)

const (
	DefaultSimilarityThreshold = 0.9

	minNameLength = 2
	maxNameLength = 200
)

// DefaultCompareFields are the record fields used for the pairwise
// similarity decision unless the configuration overrides them.
var DefaultCompareFields = []string{"name", "description", "url"}

// Config holds the read-only deduplication knobs. A Cleaner never mutates
// its config, so one instance is safe to share across goroutines.
type Config struct {
	SimilarityThreshold float64
	CompareFields       []string
}

type Cleaner struct {
	threshold     float64
	compareFields []string
	logger        zerolog.Logger
}

func New(cfg Config, logger zerolog.Logger) *Cleaner {
	threshold := cfg.SimilarityThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultSimilarityThreshold
	}

	fields := make([]string, 0, len(cfg.CompareFields))
	for _, f := range cfg.CompareFields {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		fields = append(fields, f)
	}
	if len(fields) == 0 {
		fields = append(fields, DefaultCompareFields...)
	}

	return &Cleaner{
		threshold:     threshold,
		compareFields: fields,
		logger:        logger,
	}
}

// CleanAndDeduplicate normalizes raw crawled records, drops invalid ones and
// merges near-duplicates. Malformed individual records are dropped, never
// fatal; the result is always non-nil.
func (c *Cleaner) CleanAndDeduplicate(raw []map[string]any) []model.Project {
	cleaned := make([]model.Project, 0, len(raw))
	for _, item := range raw {
		project, ok := c.CleanOne(item)
		if !ok {
			continue
		}
		cleaned = append(cleaned, project)
	}

	result := c.deduplicate(cleaned)

	c.logger.Info().
		Int("raw", len(raw)).
		Int("valid", len(cleaned)).
		Int("deduplicated", len(result)).
		Msg("cleaning completed")

	return result
}

// CleanOne normalizes a single raw record. The second return value is false
// when the record fails the validity invariants and must be dropped.
func (c *Cleaner) CleanOne(item map[string]any) (model.Project, bool) {
	if item == nil {
		return model.Project{}, false
	}

	project := model.Project{
		Name:        CleanText(asString(item["name"])),
		Description: CleanText(asString(item["description"])),
		URL:         CleanURL(asString(item["url"])),
		Stars:       CleanNumber(item["stars"]),
		Forks:       CleanNumber(item["forks"]),
		Votes:       CleanNumber(item["votes"]),
		Language:    CleanLanguage(asString(item["language"])),
		Tags:        CleanTags(asStringSlice(item["tags"])),
		Author:      CleanText(asString(item["author"])),

		Source:         strings.TrimSpace(asString(item["source"])),
		LanguageFilter: strings.TrimSpace(asString(item["language_filter"])),
		TimeRange:      strings.TrimSpace(asString(item["time_range"])),

		CreatedAt: strings.TrimSpace(asString(item["created_at"])),
		UpdatedAt: strings.TrimSpace(asString(item["updated_at"])),
		CrawledAt: strings.TrimSpace(asString(item["crawled_at"])),

		CleanedAt: globaltime.Stamp(),
	}

	if !IsValid(project) {
		return model.Project{}, false
	}
	return project, true
}

// IsValid reports whether a cleaned record satisfies the minimal
// completeness invariants: a 2..200 character name plus a URL or a
// description.
func IsValid(p model.Project) bool {
	nameLen := utf8.RuneCountInString(p.Name)
	if nameLen < minNameLength || nameLen > maxNameLength {
		return false
	}
	return p.URL != "" || p.Description != ""
}

// deduplicate walks cleaned records in arrival order. The identity hash is
// only a fast first-candidate lookup; the merge decision is always the
// similarity rule against records already placed in the output.
func (c *Cleaner) deduplicate(items []model.Project) []model.Project {
	if len(items) == 0 {
		return []model.Project{}
	}

	out := make([]model.Project, 0, len(items))
	indexByHash := make(map[string]int, len(items))

	for _, item := range items {
		hash := ItemHash(item)

		merged := false
		if idx, ok := indexByHash[hash]; ok && c.IsSimilar(item, out[idx]) {
			out[idx] = c.Merge(out[idx], item)
			merged = true
		}
		if !merged {
			for i := range out {
				if c.IsSimilar(item, out[i]) {
					out[i] = c.Merge(out[i], item)
					merged = true
					break
				}
			}
		}
		if !merged {
			indexByHash[hash] = len(out)
			out = append(out, item)
		}
	}

	return out
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asStringSlice(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
