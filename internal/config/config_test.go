package config

import "testing"

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 5000 {
		t.Errorf("expected Port=5000, got %d", cfg.HTTP.Port)
	}
	if cfg.Bundle.Dir != "safe_resources" {
		t.Errorf("expected Bundle.Dir=safe_resources, got %q", cfg.Bundle.Dir)
	}
	if cfg.Corpus.SourcePath != "data.txt" {
		t.Errorf("expected Corpus.SourcePath=data.txt, got %q", cfg.Corpus.SourcePath)
	}
	if len(cfg.Corpus.SearchFields) != 4 {
		t.Fatalf("expected 4 default search fields, got %d", len(cfg.Corpus.SearchFields))
	}
	if cfg.Corpus.SearchFields[0] != "隐患描述" {
		t.Errorf("unexpected first search field %q", cfg.Corpus.SearchFields[0])
	}
	if cfg.Embedding.BatchSize != 64 {
		t.Errorf("expected BatchSize=64, got %d", cfg.Embedding.BatchSize)
	}
}

func TestApplyDefaults_PortEnvOverride(t *testing.T) {
	t.Setenv("SAFESEARCH_PORT", "8080")

	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 8080 {
		t.Errorf("expected SAFESEARCH_PORT override to 8080, got %d", cfg.HTTP.Port)
	}
}

func TestApplyDefaults_PortEnvIgnoredWhenInvalid(t *testing.T) {
	t.Setenv("SAFESEARCH_PORT", "not-a-port")

	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 5000 {
		t.Errorf("expected default port 5000 for invalid override, got %d", cfg.HTTP.Port)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{Port: 70000},
		Embedding: EmbeddingConfig{Model: "text-embedding-3-small"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingModel(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 5000},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing embedding model")
	}
}

func TestValidate_EmptySearchField(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{Port: 5000},
		Embedding: EmbeddingConfig{Model: "text-embedding-3-small"},
		Corpus:    CorpusConfig{SearchFields: []string{"隐患描述", "  "}},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for blank search field")
	}
}

func TestCacheEnabled(t *testing.T) {
	cfg := Config{}
	if cfg.CacheEnabled() {
		t.Error("expected cache disabled without addrs")
	}

	cfg.Cache.Addrs = []string{"localhost:6379"}
	if !cfg.CacheEnabled() {
		t.Error("expected cache enabled with addrs")
	}
}
