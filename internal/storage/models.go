package storage

import (
	"encoding/json"
	"time"

	"github.com/huangzhongping/AIProjectCrawler/internal/model"
)

// ProjectRow maps the projects table. One row per (url, date): reruns on the
// same day upsert instead of stacking duplicates.
type ProjectRow struct {
	ID             int64           `gorm:"column:id;primaryKey;autoIncrement"`
	BatchID        string          `gorm:"column:batch_id;type:text;not null;index"`
	Date           string          `gorm:"column:date;type:text;not null;uniqueIndex:idx_projects_url_date"`
	URL            string          `gorm:"column:url;type:text;not null;uniqueIndex:idx_projects_url_date"`
	Name           string          `gorm:"column:name;type:text;not null"`
	Description    string          `gorm:"column:description;type:text"`
	Stars          int             `gorm:"column:stars;not null;default:0"`
	Forks          int             `gorm:"column:forks;not null;default:0"`
	Votes          int             `gorm:"column:votes;not null;default:0"`
	Language       string          `gorm:"column:language;type:text"`
	Author         string          `gorm:"column:author;type:text"`
	Source         string          `gorm:"column:source;type:text;not null"`
	TimeRange      string          `gorm:"column:time_range;type:text"`
	Tags           string          `gorm:"column:tags;type:text"`
	Keywords       string          `gorm:"column:keywords;type:text"`
	Summary        string          `gorm:"column:summary;type:text"`
	DescLanguage   string          `gorm:"column:description_language;type:text"`
	IsAIRelated    bool            `gorm:"column:is_ai_related;not null;default:false;index"`
	Confidence     float64         `gorm:"column:ai_confidence;not null;default:0"`
	Classification json.RawMessage `gorm:"column:ai_classification;type:text"`
	CrawledAt      string          `gorm:"column:crawled_at;type:text"`
	CleanedAt      string          `gorm:"column:cleaned_at;type:text"`
	CreatedAt      time.Time       `gorm:"column:created_at;not null"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;not null"`
}

func (ProjectRow) TableName() string { return "projects" }

// DailyStat maps the daily_stats table, one row per source per day.
type DailyStat struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Date         string    `gorm:"column:date;type:text;not null;uniqueIndex:idx_daily_stats_date_source"`
	Source       string    `gorm:"column:source;type:text;not null;uniqueIndex:idx_daily_stats_date_source"`
	ProjectCount int       `gorm:"column:project_count;not null;default:0"`
	AICount      int       `gorm:"column:ai_count;not null;default:0"`
	TotalStars   int       `gorm:"column:total_stars;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null"`
}

func (DailyStat) TableName() string { return "daily_stats" }

func autoMigrateModels() []any {
	return []any{
		&ProjectRow{},
		&DailyStat{},
	}
}

func rowFromProject(p model.Project, batchID, date string) ProjectRow {
	row := ProjectRow{
		BatchID:      batchID,
		Date:         date,
		URL:          p.URL,
		Name:         p.Name,
		Description:  p.Description,
		Stars:        p.Stars,
		Forks:        p.Forks,
		Votes:        p.Votes,
		Language:     p.Language,
		Author:       p.Author,
		Source:       p.Source,
		TimeRange:    p.TimeRange,
		Tags:         encodeJSONList(p.Tags),
		Keywords:     encodeJSONList(p.Keywords),
		Summary:      p.Summary,
		DescLanguage: p.DescLanguage,
		CrawledAt:    p.CrawledAt,
		CleanedAt:    p.CleanedAt,
	}
	if row.URL == "" {
		// Rows without a URL still need a stable upsert key.
		row.URL = "name:" + p.Name
	}
	if p.Classification != nil {
		row.IsAIRelated = p.Classification.IsAIRelated
		row.Confidence = p.Classification.Confidence
		if raw, err := json.Marshal(p.Classification); err == nil {
			row.Classification = raw
		}
	}
	return row
}

func (r ProjectRow) toProject() model.Project {
	p := model.Project{
		Name:         r.Name,
		Description:  r.Description,
		URL:          r.URL,
		Stars:        r.Stars,
		Forks:        r.Forks,
		Votes:        r.Votes,
		Language:     r.Language,
		Author:       r.Author,
		Source:       r.Source,
		TimeRange:    r.TimeRange,
		Tags:         decodeJSONList(r.Tags),
		Keywords:     decodeJSONList(r.Keywords),
		Summary:      r.Summary,
		DescLanguage: r.DescLanguage,
		CrawledAt:    r.CrawledAt,
		CleanedAt:    r.CleanedAt,
	}
	if len(r.Classification) > 0 {
		var c model.Classification
		if err := json.Unmarshal(r.Classification, &c); err == nil {
			p.Classification = &c
		}
	}
	return p
}

func encodeJSONList(values []string) string {
	if len(values) == 0 {
		return ""
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return ""
	}
	return string(raw)
}

func decodeJSONList(raw string) []string {
	if raw == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	return values
}
