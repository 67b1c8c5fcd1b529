package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/huangzhongping/AIProjectCrawler/internal/model"
)

const summarySystemPrompt = "You summarize software projects in one plain sentence. Reply with the sentence only, no JSON."

// Summarize produces a one-line summary. The LLM path is best-effort; the
// assembled fallback is always available and used when no LLM is
// configured or the call fails.
func (a *Analyzer) Summarize(ctx context.Context, p model.Project) string {
	if a.llm != nil {
		prompt := fmt.Sprintf("Summarize this project in one sentence.\nname: %s\ndescription: %s\nlanguage: %s",
			p.Name, emptyDash(p.Description), emptyDash(p.Language))
		if content, err := a.llm.Complete(ctx, summarySystemPrompt, prompt); err == nil {
			if summary := strings.TrimSpace(content); summary != "" {
				return firstLine(summary)
			}
		} else {
			a.logger.Debug().Err(err).Str("project", p.Name).Msg("llm summary failed; using fallback")
		}
	}

	return BasicSummary(p)
}

// BasicSummary assembles a summary from the record itself.
func BasicSummary(p model.Project) string {
	var b strings.Builder
	b.WriteString(p.Name)

	if p.Description != "" {
		b.WriteString(": ")
		b.WriteString(p.Description)
	}

	var facts []string
	if p.Language != "" {
		facts = append(facts, p.Language)
	}
	if p.Stars > 0 {
		facts = append(facts, fmt.Sprintf("%d stars", p.Stars))
	}
	if p.Votes > 0 {
		facts = append(facts, fmt.Sprintf("%d votes", p.Votes))
	}
	if len(facts) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(facts, ", "))
		b.WriteString(")")
	}

	return b.String()
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return s
}
