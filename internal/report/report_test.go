package report

import (
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/huangzhongping/AIProjectCrawler/internal/model"
)

func sampleProjects() []model.Project {
	return []model.Project{
		{
			Name:        "llm-kit",
			Description: "toolkit for language models",
			URL:         "https://github.com/widgets/llm-kit",
			Stars:       420,
			Language:    "Python",
			Tags:        []string{"ai", "llm"},
			Keywords:    []string{"llm", "toolkit"},
			Source:      "github",
			Summary:     "llm-kit: toolkit for language models (Python, 420 stars)",
			Classification: &model.Classification{
				IsAIRelated: true,
				Confidence:  0.95,
				Categories:  []string{"natural language processing"},
			},
		},
		{
			Name:     "radar",
			URL:      "https://github.com/acme/radar",
			Stars:    120,
			Language: "Go",
			Keywords: []string{"trending"},
			Source:   "github",
		},
		{
			Name:   "AgentFlow",
			URL:    "https://www.producthunt.com/posts/agentflow",
			Votes:  300,
			Source: "producthunt",
			Classification: &model.Classification{
				IsAIRelated: true,
				Confidence:  0.8,
				Categories:  []string{"ai agents"},
			},
		},
	}
}

func TestGenerator_GenerateDaily(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	g := NewGenerator(dir, zerolog.Nop())

	paths, err := g.GenerateDaily("2026-08-30", sampleProjects())
	if err != nil {
		t.Fatalf("generate daily: %v", err)
	}

	html, err := os.ReadFile(paths.HTML)
	if err != nil {
		t.Fatalf("read HTML report: %v", err)
	}
	for _, want := range []string{"2026-08-30", "llm-kit", "AgentFlow", "charts_2026-08-30.html"} {
		if !strings.Contains(string(html), want) {
			t.Fatalf("HTML report missing %q", want)
		}
	}

	md, err := os.ReadFile(paths.Markdown)
	if err != nil {
		t.Fatalf("read Markdown report: %v", err)
	}
	if !strings.Contains(string(md), "1. [llm-kit](https://github.com/widgets/llm-kit)") {
		t.Fatalf("Markdown missing ranked project line:\n%s", md)
	}
	if !strings.Contains(string(md), "- AI-related: 2") {
		t.Fatalf("Markdown missing AI count:\n%s", md)
	}

	charts, err := os.ReadFile(paths.Charts)
	if err != nil {
		t.Fatalf("read charts page: %v", err)
	}
	for _, want := range []string{"Language distribution", "Top projects by stars", "Keyword frequency"} {
		if !strings.Contains(string(charts), want) {
			t.Fatalf("charts page missing %q", want)
		}
	}
}

func TestBuildReportData(t *testing.T) {
	t.Parallel()

	data := buildReportData("2026-08-30", sampleProjects())

	if data.Total != 3 || data.AICount != 2 || data.TotalStars != 540 {
		t.Fatalf("unexpected totals: %+v", data)
	}
	if len(data.TopLanguages) != 2 {
		t.Fatalf("unexpected language count: %v", data.TopLanguages)
	}
	// Counts tie at 1; alphabetical order breaks the tie.
	if data.TopLanguages[0].Name != "Go" {
		t.Fatalf("unexpected language order: %v", data.TopLanguages)
	}
	if data.Projects[0].Name != "llm-kit" {
		t.Fatalf("expected most-starred project first, got %q", data.Projects[0].Name)
	}
}

func TestGenerator_WriteHistoryIndex(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	g := NewGenerator(dir, zerolog.Nop())

	path, err := g.WriteHistoryIndex([]DaySummary{
		{Date: "2026-08-30", ProjectCount: 3, AICount: 2},
		{Date: "2026-08-29", ProjectCount: 5, AICount: 1},
	})
	if err != nil {
		t.Fatalf("write history index: %v", err)
	}

	html, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read history index: %v", err)
	}
	for _, want := range []string{"2026-08-30", "2026-08-29", "reports/daily_report_2026-08-30.html"} {
		if !strings.Contains(string(html), want) {
			t.Fatalf("history index missing %q", want)
		}
	}
}

func TestRankedNames(t *testing.T) {
	t.Parallel()

	counts := map[string]int{"python": 4, "go": 4, "rust": 1, "zig": 2}
	got := rankedNames(counts, 3)
	want := []string{"go", "python", "zig"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected ranking: got %v want %v", got, want)
		}
	}
}
