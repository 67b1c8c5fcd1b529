package classify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/huangzhongping/AIProjectCrawler/internal/config"
	"github.com/huangzhongping/AIProjectCrawler/internal/model"
)

func TestExtractJSON_FencedBlock(t *testing.T) {
	t.Parallel()

	content := "Here is my verdict:\n```json\n{\"is_ai_related\": true, \"confidence_score\": 0.95}\n```\nLet me know if you need more."
	raw, err := ExtractJSON(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded struct {
		IsAIRelated bool    `json:"is_ai_related"`
		Confidence  float64 `json:"confidence_score"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("extracted JSON does not decode: %v", err)
	}
	if !decoded.IsAIRelated || decoded.Confidence != 0.95 {
		t.Fatalf("unexpected decoded payload: %+v", decoded)
	}
}

func TestExtractJSON_BareObjectInProse(t *testing.T) {
	t.Parallel()

	content := `Sure! {"is_ai_related": false, "confidence_score": 0.1, "reasoning": "a CLI for dotfiles"} Hope that helps.`
	raw, err := ExtractJSON(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var probe map[string]any
	if err := json.Unmarshal(raw, &probe); err != nil {
		t.Fatalf("extracted JSON does not decode: %v", err)
	}
	if probe["reasoning"] != "a CLI for dotfiles" {
		t.Fatalf("unexpected reasoning: %v", probe["reasoning"])
	}
}

func TestExtractJSON_NoObject(t *testing.T) {
	t.Parallel()

	if _, err := ExtractJSON("I cannot answer that."); err == nil {
		t.Fatal("expected error for reply without JSON")
	}
}

func TestLLMClient_Complete(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"is_ai_related\": true}"}}]}`))
	}))
	defer server.Close()

	client := NewLLMClient(server.URL, "secret", "gpt-4o-mini", 5*time.Second)
	content, err := client.Complete(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content != `{"is_ai_related": true}` {
		t.Fatalf("unexpected content: %q", content)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotReq.Model != "gpt-4o-mini" || len(gotReq.Messages) != 2 {
		t.Fatalf("unexpected request: %+v", gotReq)
	}
}

func TestLLMClient_CompleteErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewLLMClient(server.URL, "", "gpt-4o-mini", 5*time.Second)
	if _, err := client.Complete(context.Background(), "s", "u"); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestNewLLMClient_EmptyEndpoint(t *testing.T) {
	t.Parallel()

	if client := NewLLMClient("", "key", "model", time.Second); client != nil {
		t.Fatal("expected nil client for empty endpoint")
	}
}

func TestAnalyzer_ClassifyFallsBackOnLLMFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := &config.Config{
		AIRelevanceThreshold: 0.7,
		LLMEndpoint:          server.URL,
		LLMModel:             "gpt-4o-mini",
		LLMTimeoutSec:        5,
	}
	analyzer := NewAnalyzer(cfg, zerolog.Nop())

	p := model.Project{
		Name:        "llm-agent-toolkit",
		Description: "Build autonomous agents on large language models",
		Tags:        []string{"ai"},
	}
	verdict := analyzer.Classify(context.Background(), p)
	if verdict.Method != "keywords" {
		t.Fatalf("expected keyword fallback, got method %q", verdict.Method)
	}
	if !verdict.IsAIRelated {
		t.Fatalf("expected AI verdict from keyword fallback: %+v", verdict)
	}
}

func TestAnalyzer_ClassifyWithLLM(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		reply := `{"is_ai_related": true, "confidence_score": 0.92, "reasoning": "LLM orchestration framework", "ai_categories": ["ai agents"], "tech_stack": ["langchain"]}`
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":` + mustQuote(reply) + `}}]}`))
	}))
	defer server.Close()

	cfg := &config.Config{
		AIRelevanceThreshold: 0.7,
		LLMEndpoint:          server.URL,
		LLMModel:             "gpt-4o-mini",
		LLMTimeoutSec:        5,
	}
	analyzer := NewAnalyzer(cfg, zerolog.Nop())

	verdict := analyzer.Classify(context.Background(), model.Project{Name: "agentflow"})
	if verdict.Method != "llm" {
		t.Fatalf("expected llm method, got %q", verdict.Method)
	}
	if !verdict.IsAIRelated || verdict.Confidence != 0.92 {
		t.Fatalf("unexpected verdict: %+v", verdict)
	}
	if len(verdict.Categories) != 1 || verdict.Categories[0] != "ai agents" {
		t.Fatalf("unexpected categories: %v", verdict.Categories)
	}
}

func mustQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
