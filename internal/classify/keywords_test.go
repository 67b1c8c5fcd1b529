package classify

import (
	"reflect"
	"testing"

	"github.com/huangzhongping/AIProjectCrawler/internal/model"
)

func TestClassifyByKeywords_ObviousAIProject(t *testing.T) {
	t.Parallel()

	p := model.Project{
		Name:        "llm-agent-toolkit",
		Description: "Build autonomous agents on top of large language models with pytorch",
		Tags:        []string{"ai", "machine learning"},
	}
	got := ClassifyByKeywords(p, 0.7)

	if !got.IsAIRelated {
		t.Fatalf("expected AI-related verdict, got %+v", got)
	}
	if got.Confidence < 0.7 || got.Confidence > 1 {
		t.Fatalf("unexpected confidence: %f", got.Confidence)
	}
	if got.Method != "keywords" {
		t.Fatalf("unexpected method: %q", got.Method)
	}
	if len(got.TechStack) == 0 {
		t.Fatalf("expected pytorch in tech stack, got %v", got.TechStack)
	}
}

func TestClassifyByKeywords_NonAIProject(t *testing.T) {
	t.Parallel()

	p := model.Project{
		Name:        "dotfiles",
		Description: "My personal shell configuration and editor setup",
		Tags:        []string{"shell", "productivity"},
	}
	got := ClassifyByKeywords(p, 0.7)

	if got.IsAIRelated {
		t.Fatalf("expected non-AI verdict, got %+v", got)
	}
	if got.Confidence != 0 {
		t.Fatalf("expected zero confidence, got %f", got.Confidence)
	}
}

func TestClassifyByKeywords_ShortKeywordNeedsWordBoundary(t *testing.T) {
	t.Parallel()

	// "maintain" contains "ai" but must not match it.
	p := model.Project{
		Name:        "repo-maintainer",
		Description: "Maintain repositories without maintenance pain",
	}
	got := ClassifyByKeywords(p, 0.7)
	if got.Confidence != 0 {
		t.Fatalf("expected no keyword hits, got confidence %f (%s)", got.Confidence, got.Reasoning)
	}
}

func TestClassifyByKeywords_Categories(t *testing.T) {
	t.Parallel()

	p := model.Project{
		Name:        "vision-kit",
		Description: "computer vision models for image segmentation",
	}
	got := ClassifyByKeywords(p, 0.7)

	found := false
	for _, category := range got.Categories {
		if category == "computer vision" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected computer vision category, got %v", got.Categories)
	}
}

func TestExtractKeywords_TagsFirstThenTech(t *testing.T) {
	t.Parallel()

	p := model.Project{
		Name:        "diffusion-studio",
		Description: "Run stable diffusion pipelines with pytorch acceleration",
		Tags:        []string{"image-generation", "tools"},
	}
	got := ExtractKeywords(p)

	if len(got) == 0 || got[0] != "image-generation" {
		t.Fatalf("expected tags first, got %v", got)
	}
	if len(got) > maxKeywords {
		t.Fatalf("keyword list exceeds cap: %d", len(got))
	}

	hasTech := false
	for _, k := range got {
		if k == "pytorch" || k == "stable diffusion" {
			hasTech = true
		}
	}
	if !hasTech {
		t.Fatalf("expected tech terms in keywords, got %v", got)
	}
}

func TestExtractKeywords_EmptyProject(t *testing.T) {
	t.Parallel()

	if got := ExtractKeywords(model.Project{}); got != nil {
		t.Fatalf("expected nil keywords for empty project, got %v", got)
	}
}

func TestBasicSummary(t *testing.T) {
	t.Parallel()

	p := model.Project{
		Name:        "radar",
		Description: "trending project radar",
		Language:    "python",
		Stars:       120,
	}
	got := BasicSummary(p)
	want := "radar: trending project radar (python, 120 stars)"
	if got != want {
		t.Fatalf("unexpected summary: got %q want %q", got, want)
	}

	bare := BasicSummary(model.Project{Name: "radar"})
	if bare != "radar" {
		t.Fatalf("unexpected bare summary: %q", bare)
	}
}

func TestFilterAI(t *testing.T) {
	t.Parallel()

	projects := []model.Project{
		{Name: "a", Classification: &model.Classification{IsAIRelated: true}},
		{Name: "b", Classification: &model.Classification{IsAIRelated: false}},
		{Name: "c"},
		{Name: "d", Classification: &model.Classification{IsAIRelated: true}},
	}
	got := FilterAI(projects)

	names := make([]string, 0, len(got))
	for _, p := range got {
		names = append(names, p.Name)
	}
	if !reflect.DeepEqual(names, []string{"a", "d"}) {
		t.Fatalf("unexpected filtered names: %v", names)
	}
}
