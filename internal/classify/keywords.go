package classify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/huangzhongping/AIProjectCrawler/internal/model"
)

const (
	nameWeight        = 2.0
	tagWeight         = 1.5
	descriptionWeight = 1.0

	// Weighted hits normalize against this to yield a confidence in [0,1].
	confidenceScale = 5.0
)

// Keywords that mark a project as AI-related. Matching is substring-based
// over lower-cased text, so "llms" and "chatgpt-like" still hit.
var defaultAIKeywords = []string{
	"ai", "artificial intelligence", "machine learning", "deep learning",
	"neural network", "llm", "large language model", "gpt", "chatgpt",
	"transformer", "diffusion", "stable diffusion", "generative",
	"computer vision", "nlp", "natural language", "speech recognition",
	"reinforcement learning", "embedding", "rag", "retrieval augmented",
	"agent", "copilot", "openai", "anthropic", "huggingface", "pytorch",
	"tensorflow", "langchain", "ollama", "fine-tuning", "inference",
}

var aiCategoryKeywords = map[string][]string{
	"machine learning":            {"machine learning", "ml", "scikit", "xgboost", "reinforcement learning"},
	"natural language processing": {"nlp", "natural language", "llm", "gpt", "chatgpt", "language model", "langchain", "rag"},
	"computer vision":             {"computer vision", "image", "detection", "segmentation", "ocr", "diffusion"},
	"speech":                      {"speech", "voice", "whisper", "tts", "asr"},
	"generative ai":               {"generative", "diffusion", "gan", "image generation", "text-to-image"},
	"ai agents":                   {"agent", "autonomous", "copilot", "assistant"},
}

var techStackKeywords = []string{
	"pytorch", "tensorflow", "keras", "jax", "onnx", "huggingface",
	"transformers", "langchain", "llamaindex", "openai", "ollama",
	"cuda", "scikit-learn", "opencv", "whisper", "stable diffusion",
}

// ClassifyByKeywords scores AI relevance from keyword hits: name hits count
// double, tag hits 1.5x, description hits once. It is the always-available
// fallback when no LLM endpoint is configured or the call fails.
func ClassifyByKeywords(p model.Project, threshold float64) model.Classification {
	name := strings.ToLower(p.Name)
	description := strings.ToLower(p.Description)
	tags := strings.ToLower(strings.Join(p.Tags, " "))

	var score float64
	var matched []string
	for _, keyword := range defaultAIKeywords {
		hit := false
		if containsWordish(name, keyword) {
			score += nameWeight
			hit = true
		}
		if containsWordish(tags, keyword) {
			score += tagWeight
			hit = true
		}
		if containsWordish(description, keyword) {
			score += descriptionWeight
			hit = true
		}
		if hit {
			matched = append(matched, keyword)
		}
	}

	confidence := score / confidenceScale
	if confidence > 1 {
		confidence = 1
	}

	result := model.Classification{
		IsAIRelated: confidence >= threshold,
		Confidence:  confidence,
		Method:      "keywords",
		Categories:  matchCategories(name + " " + description + " " + tags),
		TechStack:   matchTechStack(name + " " + description + " " + tags),
	}
	if len(matched) > 0 {
		sort.Strings(matched)
		result.Reasoning = fmt.Sprintf("matched keywords: %s", strings.Join(matched, ", "))
	} else {
		result.Reasoning = "no AI keywords matched"
	}
	return result
}

// containsWordish matches a keyword as a whole word for short keywords
// (substring matching on "ai" would hit "maintain") and as a substring
// otherwise.
func containsWordish(text, keyword string) bool {
	if len(keyword) > 3 {
		return strings.Contains(text, keyword)
	}
	for _, field := range strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		if field == keyword {
			return true
		}
	}
	return false
}

func matchCategories(text string) []string {
	var categories []string
	for _, category := range sortedCategoryNames() {
		for _, keyword := range aiCategoryKeywords[category] {
			if containsWordish(text, keyword) {
				categories = append(categories, category)
				break
			}
		}
	}
	return categories
}

func matchTechStack(text string) []string {
	var stack []string
	for _, tech := range techStackKeywords {
		if strings.Contains(text, tech) {
			stack = append(stack, tech)
		}
	}
	return stack
}

func sortedCategoryNames() []string {
	names := make([]string, 0, len(aiCategoryKeywords))
	for name := range aiCategoryKeywords {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
