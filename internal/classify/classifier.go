package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/huangzhongping/AIProjectCrawler/internal/config"
	"github.com/huangzhongping/AIProjectCrawler/internal/langdetect"
	"github.com/huangzhongping/AIProjectCrawler/internal/model"
)

const classificationSystemPrompt = "You are an analyst who decides whether a software project is AI-related. Reply with JSON only."

const classificationPromptTemplate = `Analyze the following project and decide whether it is AI-related.

Project:
- name: %s
- description: %s
- tags: %s
- language: %s

Respond with a JSON object:
{"is_ai_related": true|false, "confidence_score": 0.0-1.0, "reasoning": "...", "ai_categories": ["..."], "tech_stack": ["..."]}`

// Analyzer enriches cleaned projects with AI classification, extracted
// keywords, summaries and the detected description language.
type Analyzer struct {
	threshold float64
	llm       *LLMClient
	logger    zerolog.Logger
}

func NewAnalyzer(cfg *config.Config, logger zerolog.Logger) *Analyzer {
	return &Analyzer{
		threshold: cfg.AIRelevanceThreshold,
		llm: NewLLMClient(
			cfg.LLMEndpoint,
			cfg.LLMAPIKey,
			cfg.LLMModel,
			time.Duration(cfg.LLMTimeoutSec)*time.Second,
		),
		logger: logger,
	}
}

// Analyze classifies every project in place and returns the batch. Each
// project gets a classification, keywords, a summary and a description
// language tag; LLM failures degrade per project to the keyword path.
func (a *Analyzer) Analyze(ctx context.Context, projects []model.Project) []model.Project {
	aiCount := 0
	for i := range projects {
		classification := a.Classify(ctx, projects[i])
		projects[i].Classification = &classification
		projects[i].Keywords = ExtractKeywords(projects[i])
		projects[i].Summary = a.Summarize(ctx, projects[i])
		projects[i].DescLanguage = langdetect.DescriptionLanguage(projects[i].Description)
		if classification.IsAIRelated {
			aiCount++
		}
	}

	a.logger.Info().
		Int("projects", len(projects)).
		Int("ai_related", aiCount).
		Msg("analysis completed")

	return projects
}

// Classify returns the AI-relevance verdict for one project, via the LLM
// when configured, falling back to keyword scoring on any failure.
func (a *Analyzer) Classify(ctx context.Context, p model.Project) model.Classification {
	if a.llm == nil {
		return ClassifyByKeywords(p, a.threshold)
	}

	verdict, err := a.classifyWithLLM(ctx, p)
	if err != nil {
		a.logger.Warn().Err(err).Str("project", p.Name).Msg("llm classification failed; using keywords")
		return ClassifyByKeywords(p, a.threshold)
	}
	return verdict
}

func (a *Analyzer) classifyWithLLM(ctx context.Context, p model.Project) (model.Classification, error) {
	prompt := fmt.Sprintf(classificationPromptTemplate,
		p.Name,
		emptyDash(p.Description),
		emptyDash(strings.Join(p.Tags, ", ")),
		emptyDash(p.Language),
	)

	content, err := a.llm.Complete(ctx, classificationSystemPrompt, prompt)
	if err != nil {
		return model.Classification{}, err
	}

	raw, err := ExtractJSON(content)
	if err != nil {
		return model.Classification{}, err
	}

	var verdict model.Classification
	if err := json.Unmarshal(raw, &verdict); err != nil {
		return model.Classification{}, fmt.Errorf("decode classification JSON: %w", err)
	}
	if verdict.Confidence < 0 || verdict.Confidence > 1 {
		return model.Classification{}, fmt.Errorf("confidence %f out of range", verdict.Confidence)
	}

	verdict.Method = "llm"
	return verdict, nil
}

// FilterAI returns only the projects classified as AI-related.
func FilterAI(projects []model.Project) []model.Project {
	out := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if p.Classification != nil && p.Classification.IsAIRelated {
			out = append(out, p)
		}
	}
	return out
}

func emptyDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
