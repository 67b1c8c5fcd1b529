// Package report renders the daily HTML/Markdown reports and the chart
// dashboard for a cleaned, analyzed project batch.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/huangzhongping/AIProjectCrawler/internal/globaltime"
	"github.com/huangzhongping/AIProjectCrawler/internal/model"
)

//go:embed templates/daily.html.tmpl
var templateFS embed.FS

var dailyTemplate = template.Must(
	template.New("daily.html.tmpl").
		Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
		ParseFS(templateFS, "templates/daily.html.tmpl"),
)

const (
	maxReportProjects  = 20
	maxReportLanguages = 5
	maxReportKeywords  = 10
)

// Paths points at the artifacts one daily run produced.
type Paths struct {
	HTML     string
	Markdown string
	Charts   string
}

type nameCount struct {
	Name  string
	Count int
}

type reportData struct {
	Date         string
	GeneratedAt  string
	Total        int
	AICount      int
	TotalStars   int
	TopLanguages []nameCount
	TopKeywords  []nameCount
	Projects     []model.Project
	ChartsFile   string
}

// Generator writes daily reports under outputDir.
type Generator struct {
	outputDir string
	logger    zerolog.Logger
}

func NewGenerator(outputDir string, logger zerolog.Logger) *Generator {
	return &Generator{outputDir: outputDir, logger: logger}
}

// GenerateDaily renders the chart dashboard plus the HTML and Markdown
// reports for one day of projects.
func (g *Generator) GenerateDaily(date string, projects []model.Project) (Paths, error) {
	var paths Paths

	chartsPath, err := RenderCharts(g.outputDir, date, projects)
	if err != nil {
		return paths, err
	}
	paths.Charts = chartsPath

	data := buildReportData(date, projects)
	data.ChartsFile = filepath.Base(chartsPath)

	dir := filepath.Join(g.outputDir, "reports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return paths, fmt.Errorf("create reports directory: %w", err)
	}

	var buf bytes.Buffer
	if err := dailyTemplate.Execute(&buf, data); err != nil {
		return paths, fmt.Errorf("render HTML report: %w", err)
	}
	paths.HTML = filepath.Join(dir, fmt.Sprintf("daily_report_%s.html", date))
	if err := os.WriteFile(paths.HTML, buf.Bytes(), 0o644); err != nil {
		return paths, fmt.Errorf("write HTML report: %w", err)
	}

	paths.Markdown = filepath.Join(dir, fmt.Sprintf("daily_report_%s.md", date))
	if err := os.WriteFile(paths.Markdown, []byte(renderMarkdown(data)), 0o644); err != nil {
		return paths, fmt.Errorf("write Markdown report: %w", err)
	}

	g.logger.Info().
		Str("date", date).
		Int("projects", data.Total).
		Str("html", paths.HTML).
		Msg("daily report generated")

	return paths, nil
}

func buildReportData(date string, projects []model.Project) reportData {
	data := reportData{
		Date:        date,
		GeneratedAt: globaltime.Stamp(),
		Total:       len(projects),
	}

	languages := make(map[string]int)
	keywords := make(map[string]int)
	for _, p := range projects {
		data.TotalStars += p.Stars
		if p.Classification != nil && p.Classification.IsAIRelated {
			data.AICount++
		}
		if p.Language != "" {
			languages[p.Language]++
		}
		for _, keyword := range p.Keywords {
			keywords[keyword]++
		}
	}
	data.TopLanguages = topCounts(languages, maxReportLanguages)
	data.TopKeywords = topCounts(keywords, maxReportKeywords)

	ranked := make([]model.Project, len(projects))
	copy(ranked, projects)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Stars > ranked[j].Stars })
	if len(ranked) > maxReportProjects {
		ranked = ranked[:maxReportProjects]
	}
	data.Projects = ranked

	return data
}

func renderMarkdown(data reportData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# AI project radar — %s\n\n", data.Date)
	fmt.Fprintf(&b, "Generated %s\n\n", data.GeneratedAt)
	fmt.Fprintf(&b, "- Projects: %d\n", data.Total)
	fmt.Fprintf(&b, "- AI-related: %d\n", data.AICount)
	fmt.Fprintf(&b, "- Total stars: %d\n\n", data.TotalStars)

	if len(data.TopLanguages) > 0 {
		b.WriteString("## Top languages\n\n")
		for _, lang := range data.TopLanguages {
			fmt.Fprintf(&b, "- %s (%d)\n", lang.Name, lang.Count)
		}
		b.WriteString("\n")
	}

	if len(data.TopKeywords) > 0 {
		b.WriteString("## Top keywords\n\n")
		for _, keyword := range data.TopKeywords {
			fmt.Fprintf(&b, "- %s (%d)\n", keyword.Name, keyword.Count)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Top projects\n\n")
	for i, p := range data.Projects {
		if p.URL != "" {
			fmt.Fprintf(&b, "%d. [%s](%s)", i+1, p.Name, p.URL)
		} else {
			fmt.Fprintf(&b, "%d. %s", i+1, p.Name)
		}
		var facts []string
		if p.Language != "" {
			facts = append(facts, p.Language)
		}
		facts = append(facts, fmt.Sprintf("%d stars", p.Stars))
		if p.Votes > 0 {
			facts = append(facts, fmt.Sprintf("%d votes", p.Votes))
		}
		fmt.Fprintf(&b, " — %s\n", strings.Join(facts, ", "))
		if p.Summary != "" {
			fmt.Fprintf(&b, "   %s\n", p.Summary)
		} else if p.Description != "" {
			fmt.Fprintf(&b, "   %s\n", p.Description)
		}
	}

	return b.String()
}

func topCounts(counts map[string]int, top int) []nameCount {
	out := make([]nameCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, nameCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if top > 0 && len(out) > top {
		out = out[:top]
	}
	return out
}
