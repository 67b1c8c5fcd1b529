package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/huangzhongping/AIProjectCrawler/internal/config"
)

const frontPageFixture = `<!DOCTYPE html>
<html><body>
<div data-test="post-item-1">
  <a data-test="post-name" href="/posts/agentflow">AgentFlow</a>
  <div data-test="post-description">Visual builder for AI agents</div>
  <button data-test="vote-button">312</button>
  <a href="/topics/artificial-intelligence">Artificial Intelligence</a>
  <a href="/topics/developer-tools">Developer Tools</a>
</div>
<div data-test="post-item-2">
  <a data-test="post-name" href="/posts/notely">Notely</a>
  <div data-test="post-description">Minimal note taking</div>
  <button data-test="vote-button">87</button>
</div>
<div data-test="post-item-3">
  <button data-test="vote-button">5</button>
</div>
</body></html>`

func TestProductHunt_CrawlParsesFrontPage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(frontPageFixture))
	}))
	defer srv.Close()

	ph := NewProductHunt(&config.Config{
		ProductHuntBaseURL: srv.URL,
		CrawlTimeoutSec:    5,
	}, zerolog.Nop())

	records, err := ph.Crawl(context.Background())
	if err != nil {
		t.Fatalf("unexpected crawl error: %v", err)
	}
	// The third item has no name and must be skipped.
	if len(records) != 2 {
		t.Fatalf("unexpected record count: got %d want 2", len(records))
	}

	first := records[0]
	if first["name"] != "AgentFlow" {
		t.Fatalf("unexpected name: %v", first["name"])
	}
	if first["description"] != "Visual builder for AI agents" {
		t.Fatalf("unexpected description: %v", first["description"])
	}
	if first["votes"] != "312" {
		t.Fatalf("unexpected raw votes: %v", first["votes"])
	}
	if first["source"] != "producthunt" {
		t.Fatalf("unexpected source: %v", first["source"])
	}

	tags, _ := first["tags"].([]string)
	if len(tags) != 2 || tags[0] != "Artificial Intelligence" {
		t.Fatalf("unexpected topics: %v", first["tags"])
	}

	url, _ := first["url"].(string)
	if url != srv.URL+"/posts/agentflow" {
		t.Fatalf("unexpected url: %q", url)
	}
}

func TestProductHunt_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ph := NewProductHunt(&config.Config{ProductHuntBaseURL: "https://www.producthunt.com"}, zerolog.Nop())
	if _, err := ph.Crawl(ctx); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
