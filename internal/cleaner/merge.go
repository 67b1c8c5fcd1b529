package cleaner

import "github.com/huangzhongping/AIProjectCrawler/internal/model"

// Merge combines a near-duplicate pair into one record. The existing record
// wins on non-empty text fields, counters take the maximum, tags take the
// union, and empty fields are filled from the newcomer. MergedFrom records
// the source tags of this pair; a chained merge overwrites the previous
// pair rather than accumulating lineage.
func (c *Cleaner) Merge(existing, newcomer model.Project) model.Project {
	merged := existing

	merged.Name = firstNonEmpty(merged.Name, newcomer.Name)
	merged.Description = firstNonEmpty(merged.Description, newcomer.Description)
	merged.URL = firstNonEmpty(merged.URL, newcomer.URL)
	merged.Author = firstNonEmpty(merged.Author, newcomer.Author)
	merged.Language = firstNonEmpty(merged.Language, newcomer.Language)
	merged.LanguageFilter = firstNonEmpty(merged.LanguageFilter, newcomer.LanguageFilter)
	merged.TimeRange = firstNonEmpty(merged.TimeRange, newcomer.TimeRange)
	merged.CreatedAt = firstNonEmpty(merged.CreatedAt, newcomer.CreatedAt)
	merged.UpdatedAt = firstNonEmpty(merged.UpdatedAt, newcomer.UpdatedAt)
	merged.CrawledAt = firstNonEmpty(merged.CrawledAt, newcomer.CrawledAt)
	merged.CleanedAt = firstNonEmpty(merged.CleanedAt, newcomer.CleanedAt)
	merged.Source = firstNonEmpty(merged.Source, newcomer.Source)

	merged.Stars = maxInt(existing.Stars, newcomer.Stars)
	merged.Forks = maxInt(existing.Forks, newcomer.Forks)
	merged.Votes = maxInt(existing.Votes, newcomer.Votes)

	merged.Tags = unionTags(existing.Tags, newcomer.Tags)

	merged.MergedFrom = []string{existing.Source, newcomer.Source}

	return merged
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func unionTags(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, tags := range [][]string{a, b} {
		for _, tag := range tags {
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}
