package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 0},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
	}
	cfg.ApplyDefaults()
	disableVectorStore(&cfg)

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatabaseAddrs(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{},
		},
	}
	disableVectorStore(&cfg)

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_VectorStoreRequiresEmbedding(t *testing.T) {
	cfg := Config{
		HTTP:        HTTPConfig{Port: 8080},
		Database:    DatabaseConfig{Addrs: []string{"localhost:6379"}},
		VectorStore: VectorStoreConfig{URL: "http://localhost:6333"},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error: vector store enabled without embedding settings")
	}

	cfg.Embedding = EmbeddingConfig{
		BaseURL: "http://localhost:11434/v1",
		Model:   "all-minilm",
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_DisabledVectorStoreSkipsEmbedding(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
	disableVectorStore(&cfg)

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 30 {
		t.Errorf("expected WriteTimeoutSec=30, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.VectorStore.Collection != "products" {
		t.Errorf("expected Collection='products', got %q", cfg.VectorStore.Collection)
	}
	if cfg.VectorStore.TimeoutSec != 5 {
		t.Errorf("expected TimeoutSec=5, got %d", cfg.VectorStore.TimeoutSec)
	}
	if cfg.Retrieval.TopK != 10 {
		t.Errorf("expected TopK=10, got %d", cfg.Retrieval.TopK)
	}
	if cfg.Generation.MaxTokens != 150 {
		t.Errorf("expected MaxTokens=150, got %d", cfg.Generation.MaxTokens)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:        HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database:    DatabaseConfig{ReadinessTimeout: 15},
		VectorStore: VectorStoreConfig{Collection: "items", TimeoutSec: 2},
		Retrieval:   RetrievalConfig{TopK: 3},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.VectorStore.Collection != "items" {
		t.Errorf("expected Collection='items', got %q", cfg.VectorStore.Collection)
	}
	if cfg.Retrieval.TopK != 3 {
		t.Errorf("expected TopK=3, got %d", cfg.Retrieval.TopK)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("PRODEX_TEST_KEY", "secret")

	got := string(expandEnvVars([]byte("api_key: ${PRODEX_TEST_KEY}\nurl: ${PRODEX_TEST_URL:-http://localhost:6333}")))
	want := "api_key: secret\nurl: http://localhost:6333"
	if got != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "config")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := `
http:
  port: 9090
database:
  addrs: ["localhost:6379"]
vector_store:
  enabled: false
retrieval:
  lexical_filters: ["price", "category"]
`
	if err := os.WriteFile(filepath.Join(cfgDir, "test.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.HTTP.Port)
	}
	if cfg.VectorStoreEnabled() {
		t.Error("expected vector store disabled")
	}
	if len(cfg.Retrieval.LexicalFilters) != 2 {
		t.Errorf("lexical_filters = %v", cfg.Retrieval.LexicalFilters)
	}
}

func disableVectorStore(cfg *Config) {
	off := false
	cfg.VectorStore.Enabled = &off
}
