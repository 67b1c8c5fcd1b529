package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/huangzhongping/AIProjectCrawler/internal/model"
)

const (
	maxChartLanguages = 10
	maxChartKeywords  = 15
	maxChartProjects  = 20
)

// RenderCharts writes the per-day chart dashboard (language and source
// distribution, top projects by stars, keyword frequency, AI categories)
// as a single HTML page and returns its path.
func RenderCharts(outputDir, date string, projects []model.Project) (string, error) {
	dir := filepath.Join(outputDir, "charts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create charts directory: %w", err)
	}

	page := components.NewPage()
	page.PageTitle = "AI project radar " + date
	page.AddCharts(
		languagePie(date, projects),
		starsBar(date, projects),
		keywordBar(date, projects),
		categoryBar(date, projects),
		sourcePie(date, projects),
	)

	path := filepath.Join(dir, fmt.Sprintf("charts_%s.html", date))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create charts file: %w", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return "", fmt.Errorf("render charts: %w", err)
	}
	return path, nil
}

func languagePie(date string, projects []model.Project) *charts.Pie {
	counts := make(map[string]int)
	for _, p := range projects {
		if p.Language != "" {
			counts[p.Language]++
		}
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{Title: "Language distribution", Subtitle: date}),
	)
	pie.AddSeries("languages", pieData(counts, maxChartLanguages))
	return pie
}

func sourcePie(date string, projects []model.Project) *charts.Pie {
	counts := make(map[string]int)
	for _, p := range projects {
		source := p.Source
		if source == "" {
			source = "unknown"
		}
		counts[source]++
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{Title: "Source distribution", Subtitle: date}),
	)
	pie.AddSeries("sources", pieData(counts, len(counts)))
	return pie
}

func starsBar(date string, projects []model.Project) *charts.Bar {
	ranked := make([]model.Project, len(projects))
	copy(ranked, projects)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Stars > ranked[j].Stars })
	if len(ranked) > maxChartProjects {
		ranked = ranked[:maxChartProjects]
	}

	names := make([]string, 0, len(ranked))
	values := make([]opts.BarData, 0, len(ranked))
	for _, p := range ranked {
		names = append(names, p.Name)
		values = append(values, opts.BarData{Value: p.Stars})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{Title: "Top projects by stars", Subtitle: date}),
	)
	bar.SetXAxis(names).AddSeries("stars", values)
	return bar
}

func keywordBar(date string, projects []model.Project) *charts.Bar {
	counts := make(map[string]int)
	for _, p := range projects {
		for _, keyword := range p.Keywords {
			counts[keyword]++
		}
	}
	names, values := rankedBarData(counts, maxChartKeywords)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{Title: "Keyword frequency", Subtitle: date}),
	)
	bar.SetXAxis(names).AddSeries("keywords", values)
	return bar
}

func categoryBar(date string, projects []model.Project) *charts.Bar {
	counts := make(map[string]int)
	for _, p := range projects {
		if p.Classification == nil {
			continue
		}
		for _, category := range p.Classification.Categories {
			counts[category]++
		}
	}
	names, values := rankedBarData(counts, len(counts))

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{Title: "AI categories", Subtitle: date}),
	)
	bar.SetXAxis(names).AddSeries("categories", values)
	return bar
}

func pieData(counts map[string]int, top int) []opts.PieData {
	names := rankedNames(counts, top)
	data := make([]opts.PieData, 0, len(names))
	for _, name := range names {
		data = append(data, opts.PieData{Name: name, Value: counts[name]})
	}
	return data
}

func rankedBarData(counts map[string]int, top int) ([]string, []opts.BarData) {
	names := rankedNames(counts, top)
	values := make([]opts.BarData, 0, len(names))
	for _, name := range names {
		values = append(values, opts.BarData{Value: counts[name]})
	}
	return names, values
}

// rankedNames orders map keys by count descending, name ascending on ties.
func rankedNames(counts map[string]int, top int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if top > 0 && len(names) > top {
		names = names[:top]
	}
	return names
}
