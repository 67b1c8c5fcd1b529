package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Deduplication knobs consumed by the cleaner.
	SimilarityThreshold float64 `envconfig:"RADAR_SIMILARITY_THRESHOLD" default:"0.9"`
	CompareFields       string  `envconfig:"RADAR_COMPARE_FIELDS" default:"name,description,url"`

	// Crawling.
	GithubBaseURL      string `envconfig:"RADAR_GITHUB_BASE_URL" default:"https://github.com/trending"`
	GithubLanguages    string `envconfig:"RADAR_GITHUB_LANGUAGES" default:"python,javascript,typescript,go,rust"`
	GithubTimeRanges   string `envconfig:"RADAR_GITHUB_TIME_RANGES" default:"daily"`
	GithubMaxPages     int    `envconfig:"RADAR_GITHUB_MAX_PAGES" default:"1"`
	ProductHuntBaseURL string `envconfig:"RADAR_PRODUCTHUNT_BASE_URL" default:"https://www.producthunt.com"`
	CrawlDelayMS       int    `envconfig:"RADAR_CRAWL_DELAY_MS" default:"1000"`
	CrawlTimeoutSec    int    `envconfig:"RADAR_CRAWL_TIMEOUT_SEC" default:"30"`

	// AI analysis. With no API key the keyword classifier runs alone.
	LLMEndpoint          string  `envconfig:"RADAR_LLM_ENDPOINT" default:""`
	LLMAPIKey            string  `envconfig:"RADAR_LLM_API_KEY" default:""`
	LLMModel             string  `envconfig:"RADAR_LLM_MODEL" default:"gpt-4o-mini"`
	LLMTimeoutSec        int     `envconfig:"RADAR_LLM_TIMEOUT_SEC" default:"30"`
	AIRelevanceThreshold float64 `envconfig:"RADAR_AI_RELEVANCE_THRESHOLD" default:"0.7"`

	// Storage and output.
	DatabasePath string `envconfig:"RADAR_DB_PATH" default:"data/radar.db"`
	DataDir      string `envconfig:"RADAR_DATA_DIR" default:"data"`
	OutputDir    string `envconfig:"RADAR_OUTPUT_DIR" default:"output"`
	KeepDays     int    `envconfig:"RADAR_KEEP_DAYS" default:"90"`

	// Report server.
	ServerHost string `envconfig:"RADAR_SERVER_HOST" default:"0.0.0.0"`
	ServerPort int    `envconfig:"RADAR_SERVER_PORT" default:"8080"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("RADAR_SIMILARITY_THRESHOLD must be in (0,1], got %f", c.SimilarityThreshold)
	}
	if len(c.CompareFieldsList()) == 0 {
		return fmt.Errorf("RADAR_COMPARE_FIELDS must name at least one field")
	}
	if c.GithubMaxPages < 1 {
		return fmt.Errorf("RADAR_GITHUB_MAX_PAGES must be >= 1")
	}
	if c.CrawlDelayMS < 0 {
		return fmt.Errorf("RADAR_CRAWL_DELAY_MS must be >= 0")
	}
	if c.AIRelevanceThreshold <= 0 || c.AIRelevanceThreshold > 1 {
		return fmt.Errorf("RADAR_AI_RELEVANCE_THRESHOLD must be in (0,1], got %f", c.AIRelevanceThreshold)
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("RADAR_DB_PATH is required")
	}
	if c.KeepDays < 1 {
		return fmt.Errorf("RADAR_KEEP_DAYS must be >= 1")
	}
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("RADAR_SERVER_PORT must be a valid port, got %d", c.ServerPort)
	}
	return nil
}

func (c *Config) CompareFieldsList() []string {
	return splitCSV(c.CompareFields)
}

func (c *Config) GithubLanguagesList() []string {
	return splitCSV(c.GithubLanguages)
}

func (c *Config) GithubTimeRangesList() []string {
	return splitCSV(c.GithubTimeRanges)
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		value := strings.ToLower(strings.TrimSpace(part))
		if value == "" {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
