package model

// Project is a normalized trending-project record. Crawlers emit loose
// map[string]any payloads; the cleaner coerces them into this shape, so every
// field carries an explicit zero default and the struct stays safe for JSON
// serialization and SQLite persistence.
type Project struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url,omitempty"`
	Stars       int      `json:"stars"`
	Forks       int      `json:"forks"`
	Votes       int      `json:"votes"`
	Language    string   `json:"language,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Author      string   `json:"author,omitempty"`

	Source         string `json:"source,omitempty"`
	LanguageFilter string `json:"language_filter,omitempty"`
	TimeRange      string `json:"time_range,omitempty"`

	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
	CrawledAt string `json:"crawled_at,omitempty"`
	CleanedAt string `json:"cleaned_at,omitempty"`

	// MergedFrom is set only when this record is the result of merging two
	// near-duplicates. It holds the source tags of the last merged pair.
	MergedFrom []string `json:"merged_from,omitempty"`

	Classification *Classification `json:"ai_classification,omitempty"`
	Keywords       []string        `json:"keywords,omitempty"`
	Summary        string          `json:"summary,omitempty"`
	DescLanguage   string          `json:"description_language,omitempty"`
}

// Classification is the AI-relevance verdict for a project.
type Classification struct {
	IsAIRelated bool     `json:"is_ai_related"`
	Confidence  float64  `json:"confidence_score"`
	Reasoning   string   `json:"reasoning,omitempty"`
	Categories  []string `json:"ai_categories,omitempty"`
	TechStack   []string `json:"tech_stack,omitempty"`
	Method      string   `json:"method,omitempty"`
}

// HasTag reports whether the project carries the given normalized tag.
func (p *Project) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
