package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
)

// DaySummary is one row on the history index page.
type DaySummary struct {
	Date         string
	ProjectCount int
	AICount      int
}

var historyTemplate = template.Must(template.New("history").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>AI project radar — history</title>
<style>
  body { font-family: -apple-system, "Segoe UI", sans-serif; background: #f5f6f8; color: #222; }
  .wrap { max-width: 720px; margin: 0 auto; padding: 24px; }
  h1 { color: #1f2a44; }
  table { width: 100%; border-collapse: collapse; background: #fff; border-radius: 8px; overflow: hidden; }
  th, td { text-align: left; padding: 10px 14px; border-bottom: 1px solid #eee; }
  th { background: #1f2a44; color: #fff; }
  a { color: #3b4d8f; }
</style>
</head>
<body>
<div class="wrap">
  <h1>Report history</h1>
  <table>
    <tr><th>Date</th><th>Projects</th><th>AI-related</th><th></th></tr>
    {{range .}}
    <tr>
      <td>{{.Date}}</td>
      <td>{{.ProjectCount}}</td>
      <td>{{.AICount}}</td>
      <td><a href="reports/daily_report_{{.Date}}.html">report</a> &middot; <a href="charts/charts_{{.Date}}.html">charts</a></td>
    </tr>
    {{end}}
  </table>
</div>
</body>
</html>
`))

// WriteHistoryIndex writes the index page linking every stored day's report
// and returns its path. Days are expected newest first.
func (g *Generator) WriteHistoryIndex(days []DaySummary) (string, error) {
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	var buf bytes.Buffer
	if err := historyTemplate.Execute(&buf, days); err != nil {
		return "", fmt.Errorf("render history index: %w", err)
	}

	path := filepath.Join(g.outputDir, "index.html")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write history index: %w", err)
	}
	return path, nil
}
