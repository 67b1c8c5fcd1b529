package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/huangzhongping/AIProjectCrawler/internal/config"
	"github.com/huangzhongping/AIProjectCrawler/internal/globaltime"
	"github.com/huangzhongping/AIProjectCrawler/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	cfg := &config.Config{
		Environment:  "local",
		LogLevel:     "silent",
		DatabasePath: filepath.Join(t.TempDir(), "radar.db"),
	}
	store, err := Open(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleProjects() []model.Project {
	return []model.Project{
		{
			Name:        "llm-kit",
			Description: "toolkit for language models",
			URL:         "https://github.com/widgets/llm-kit",
			Stars:       420,
			Language:    "python",
			Tags:        []string{"ai", "llm"},
			Source:      "github",
			Classification: &model.Classification{
				IsAIRelated: true,
				Confidence:  0.95,
				Method:      "keywords",
			},
		},
		{
			Name:   "dotfiles",
			URL:    "https://github.com/acme/dotfiles",
			Stars:  15,
			Source: "github",
			Classification: &model.Classification{
				IsAIRelated: false,
				Method:      "keywords",
			},
		},
		{
			Name:        "AgentFlow",
			Description: "visual agent builder",
			URL:         "https://www.producthunt.com/posts/agentflow",
			Votes:       300,
			Source:      "producthunt",
			Classification: &model.Classification{
				IsAIRelated: true,
				Confidence:  0.8,
				Method:      "llm",
			},
		},
	}
}

func TestStore_SaveDailyAndQuery(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	batchID, err := store.SaveDaily(ctx, "2026-08-30", sampleProjects())
	if err != nil {
		t.Fatalf("save daily: %v", err)
	}
	if batchID == "" {
		t.Fatal("expected a batch ID")
	}

	projects, err := store.ProjectsByDate(ctx, "2026-08-30")
	if err != nil {
		t.Fatalf("projects by date: %v", err)
	}
	if len(projects) != 3 {
		t.Fatalf("unexpected project count: got %d want 3", len(projects))
	}
	if projects[0].Name != "llm-kit" {
		t.Fatalf("expected most-starred first, got %q", projects[0].Name)
	}
	if projects[0].Classification == nil || !projects[0].Classification.IsAIRelated {
		t.Fatalf("classification did not round-trip: %+v", projects[0].Classification)
	}
	if len(projects[0].Tags) != 2 || projects[0].Tags[0] != "ai" {
		t.Fatalf("tags did not round-trip: %v", projects[0].Tags)
	}
}

func TestStore_SaveDailyUpsertsByURLAndDate(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.SaveDaily(ctx, "2026-08-30", sampleProjects()); err != nil {
		t.Fatalf("first save: %v", err)
	}

	updated := sampleProjects()
	updated[0].Stars = 500
	if _, err := store.SaveDaily(ctx, "2026-08-30", updated); err != nil {
		t.Fatalf("second save: %v", err)
	}

	projects, err := store.ProjectsByDate(ctx, "2026-08-30")
	if err != nil {
		t.Fatalf("projects by date: %v", err)
	}
	if len(projects) != 3 {
		t.Fatalf("rerun duplicated rows: got %d want 3", len(projects))
	}
	if projects[0].Stars != 500 {
		t.Fatalf("upsert did not refresh stars: got %d want 500", projects[0].Stars)
	}
}

func TestStore_AIProjectsByDate(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.SaveDaily(ctx, "2026-08-30", sampleProjects()); err != nil {
		t.Fatalf("save daily: %v", err)
	}

	ai, err := store.AIProjectsByDate(ctx, "2026-08-30")
	if err != nil {
		t.Fatalf("AI projects by date: %v", err)
	}
	if len(ai) != 2 {
		t.Fatalf("unexpected AI project count: got %d want 2", len(ai))
	}
	if ai[0].Name != "llm-kit" {
		t.Fatalf("expected highest confidence first, got %q", ai[0].Name)
	}
}

func TestStore_DailyStats(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.SaveDaily(ctx, globaltime.Date(), sampleProjects()); err != nil {
		t.Fatalf("save daily: %v", err)
	}

	stats, err := store.StatsRange(ctx, 7)
	if err != nil {
		t.Fatalf("stats range: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("unexpected stat rows: got %d want 2 (github, producthunt)", len(stats))
	}

	bySource := make(map[string]DailyStat, len(stats))
	for _, stat := range stats {
		bySource[stat.Source] = stat
	}
	github := bySource["github"]
	if github.ProjectCount != 2 || github.AICount != 1 || github.TotalStars != 435 {
		t.Fatalf("unexpected github stats: %+v", github)
	}
	if bySource["producthunt"].ProjectCount != 1 {
		t.Fatalf("unexpected producthunt stats: %+v", bySource["producthunt"])
	}
}

func TestStore_CleanupOlderThan(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	stale := globaltime.UTC().AddDate(0, 0, -365).Format("2006-01-02")
	today := globaltime.Date()

	if _, err := store.SaveDaily(ctx, stale, sampleProjects()[:1]); err != nil {
		t.Fatalf("save old batch: %v", err)
	}
	if _, err := store.SaveDaily(ctx, today, sampleProjects()); err != nil {
		t.Fatalf("save fresh batch: %v", err)
	}

	removed, err := store.CleanupOlderThan(ctx, 90)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if removed != 1 {
		t.Fatalf("unexpected removed count: got %d want 1", removed)
	}

	dates, err := store.Dates(ctx)
	if err != nil {
		t.Fatalf("dates: %v", err)
	}
	if len(dates) != 1 || dates[0] != today {
		t.Fatalf("unexpected remaining dates: %v", dates)
	}
}

func TestStore_EmptyBatch(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	batchID, err := store.SaveDaily(context.Background(), "2026-08-30", nil)
	if err != nil {
		t.Fatalf("save empty batch: %v", err)
	}
	if batchID == "" {
		t.Fatal("expected a batch ID even for an empty batch")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := sampleProjects()

	path, err := WriteSnapshot(dir, StageProcessed, "2026-08-30", in)
	if err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	if filepath.Base(path) != "processed_projects_2026-08-30.json" {
		t.Fatalf("unexpected snapshot file name: %s", path)
	}

	var out []model.Project
	if err := ReadSnapshot(dir, StageProcessed, "2026-08-30", &out); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if len(out) != len(in) || out[0].Name != in[0].Name {
		t.Fatalf("snapshot did not round-trip: %+v", out)
	}

	if _, err := WriteSnapshot(dir, "bogus", "2026-08-30", in); err == nil {
		t.Fatal("expected error for unknown stage")
	}
}
