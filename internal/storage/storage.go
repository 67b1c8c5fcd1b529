package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/huangzhongping/AIProjectCrawler/internal/config"
	"github.com/huangzhongping/AIProjectCrawler/internal/globaltime"
	"github.com/huangzhongping/AIProjectCrawler/internal/model"
)

// Store persists cleaned projects and per-day aggregates in SQLite.
type Store struct {
	gdb    *gorm.DB
	logger zerolog.Logger
}

// Open opens (creating if needed) the SQLite database at cfg.DatabasePath
// and migrates the schema.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	gdb, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		Logger: logger.Default.LogMode(resolveGormLogLevel(cfg.LogLevel, cfg.Environment)),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := gdb.WithContext(ctx).AutoMigrate(autoMigrateModels()...); err != nil {
		return nil, fmt.Errorf("auto-migrate schema: %w", err)
	}

	return &Store{gdb: gdb, logger: log}, nil
}

func (s *Store) Close() error {
	if s == nil || s.gdb == nil {
		return nil
	}
	sqlDB, err := s.gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveDaily upserts a batch of projects under the given date (YYYY-MM-DD)
// and refreshes the per-source daily stats. It returns the batch ID shared
// by all rows written in this call.
func (s *Store) SaveDaily(ctx context.Context, date string, projects []model.Project) (string, error) {
	if s == nil || s.gdb == nil {
		return "", fmt.Errorf("store is not initialized")
	}
	if strings.TrimSpace(date) == "" {
		return "", fmt.Errorf("date is required")
	}

	batchID := uuid.NewString()
	if len(projects) == 0 {
		return batchID, nil
	}

	rows := make([]ProjectRow, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, rowFromProject(p, batchID, date))
	}

	err := s.gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "url"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"batch_id", "name", "description", "stars", "forks", "votes",
				"language", "author", "source", "time_range", "tags", "keywords",
				"summary", "description_language", "is_ai_related",
				"ai_confidence", "ai_classification", "crawled_at", "cleaned_at",
				"updated_at",
			}),
		}).Create(&rows)
		if res.Error != nil {
			return fmt.Errorf("upsert projects: %w", res.Error)
		}
		return s.refreshDailyStats(tx, date, projects)
	})
	if err != nil {
		return "", err
	}

	s.logger.Info().
		Str("date", date).
		Str("batch_id", batchID).
		Int("projects", len(projects)).
		Msg("daily batch saved")

	return batchID, nil
}

func (s *Store) refreshDailyStats(tx *gorm.DB, date string, projects []model.Project) error {
	type agg struct {
		count int
		ai    int
		stars int
	}
	bySource := make(map[string]*agg)
	for _, p := range projects {
		source := p.Source
		if source == "" {
			source = "unknown"
		}
		a := bySource[source]
		if a == nil {
			a = &agg{}
			bySource[source] = a
		}
		a.count++
		a.stars += p.Stars
		if p.Classification != nil && p.Classification.IsAIRelated {
			a.ai++
		}
	}

	for source, a := range bySource {
		stat := DailyStat{
			Date:         date,
			Source:       source,
			ProjectCount: a.count,
			AICount:      a.ai,
			TotalStars:   a.stars,
		}
		res := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "date"}, {Name: "source"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"project_count", "ai_count", "total_stars", "updated_at",
			}),
		}).Create(&stat)
		if res.Error != nil {
			return fmt.Errorf("upsert daily stats for %s: %w", source, res.Error)
		}
	}
	return nil
}

// ProjectsByDate returns all projects stored for one date, most-starred
// first.
func (s *Store) ProjectsByDate(ctx context.Context, date string) ([]model.Project, error) {
	var rows []ProjectRow
	res := s.gdb.WithContext(ctx).
		Where("date = ?", date).
		Order("stars DESC, name ASC").
		Find(&rows)
	if res.Error != nil {
		return nil, fmt.Errorf("query projects by date: %w", res.Error)
	}
	return rowsToProjects(rows), nil
}

// AIProjectsByDate returns only the AI-classified projects for one date.
func (s *Store) AIProjectsByDate(ctx context.Context, date string) ([]model.Project, error) {
	var rows []ProjectRow
	res := s.gdb.WithContext(ctx).
		Where("date = ? AND is_ai_related = ?", date, true).
		Order("ai_confidence DESC, stars DESC").
		Find(&rows)
	if res.Error != nil {
		return nil, fmt.Errorf("query AI projects by date: %w", res.Error)
	}
	return rowsToProjects(rows), nil
}

// RecentProjects returns projects stored on or after the cutoff date,
// newest date first.
func (s *Store) RecentProjects(ctx context.Context, days int, limit int) ([]model.Project, error) {
	if days < 1 {
		days = 1
	}
	cutoff := globaltime.UTC().AddDate(0, 0, -days).Format("2006-01-02")

	q := s.gdb.WithContext(ctx).
		Where("date >= ?", cutoff).
		Order("date DESC, stars DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []ProjectRow
	if res := q.Find(&rows); res.Error != nil {
		return nil, fmt.Errorf("query recent projects: %w", res.Error)
	}
	return rowsToProjects(rows), nil
}

// StatsRange returns the per-source daily stats for the last N days,
// oldest first.
func (s *Store) StatsRange(ctx context.Context, days int) ([]DailyStat, error) {
	if days < 1 {
		days = 1
	}
	cutoff := globaltime.UTC().AddDate(0, 0, -days).Format("2006-01-02")

	var stats []DailyStat
	res := s.gdb.WithContext(ctx).
		Where("date >= ?", cutoff).
		Order("date ASC, source ASC").
		Find(&stats)
	if res.Error != nil {
		return nil, fmt.Errorf("query daily stats: %w", res.Error)
	}
	return stats, nil
}

// Dates returns the distinct dates with stored projects, newest first.
func (s *Store) Dates(ctx context.Context) ([]string, error) {
	var dates []string
	res := s.gdb.WithContext(ctx).
		Model(&ProjectRow{}).
		Distinct("date").
		Order("date DESC").
		Pluck("date", &dates)
	if res.Error != nil {
		return nil, fmt.Errorf("query stored dates: %w", res.Error)
	}
	return dates, nil
}

// CleanupOlderThan deletes project rows and stats older than keepDays and
// returns how many project rows went away.
func (s *Store) CleanupOlderThan(ctx context.Context, keepDays int) (int64, error) {
	if keepDays < 1 {
		return 0, fmt.Errorf("keepDays must be >= 1, got %d", keepDays)
	}
	cutoff := globaltime.UTC().AddDate(0, 0, -keepDays).Format("2006-01-02")

	var removed int64
	err := s.gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("date < ?", cutoff).Delete(&ProjectRow{})
		if res.Error != nil {
			return fmt.Errorf("delete old projects: %w", res.Error)
		}
		removed = res.RowsAffected

		if res := tx.Where("date < ?", cutoff).Delete(&DailyStat{}); res.Error != nil {
			return fmt.Errorf("delete old stats: %w", res.Error)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		s.logger.Info().
			Str("cutoff", cutoff).
			Int64("removed", removed).
			Msg("old project rows removed")
	}
	return removed, nil
}

func rowsToProjects(rows []ProjectRow) []model.Project {
	out := make([]model.Project, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toProject())
	}
	return out
}

func resolveGormLogLevel(appLogLevel, environment string) logger.LogLevel {
	level := strings.ToLower(strings.TrimSpace(appLogLevel))
	switch level {
	case "trace", "debug":
		return logger.Info
	case "warn", "warning", "info", "":
		return logger.Warn
	case "error":
		return logger.Error
	case "silent":
		return logger.Silent
	default:
		if strings.EqualFold(strings.TrimSpace(environment), "local") {
			return logger.Warn
		}
		return logger.Error
	}
}
