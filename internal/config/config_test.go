package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:      HTTPConfig{Port: 8080},
		Database:  DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Embedding: EmbeddingConfig{APIKey: "test-key"},
		Catalog:   CatalogConfig{MetadataPath: "data/products.json", VectorsPath: "data/vectors.json"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()

	if cfg.Database.Driver != DriverRedis {
		t.Errorf("driver: got %q", cfg.Database.Driver)
	}
	if cfg.Embedding.Provider != ProviderOpenAI || cfg.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("embedding defaults: %+v", cfg.Embedding)
	}
	if cfg.Search.DefaultTopN != 5 || cfg.Search.ResultTTLSec != 3600 ||
		cfg.Search.HistoryLimit != 10 || cfg.Search.FuzzyThreshold != 80 {
		t.Errorf("search defaults: %+v", cfg.Search)
	}
	if cfg.Storage.KeyPrefix != "shopsearch:" {
		t.Errorf("key prefix: got %q", cfg.Storage.KeyPrefix)
	}
	if cfg.Embedding.CacheTTLSec != 0 {
		t.Errorf("term cache should stay disabled unless configured")
	}
}

func TestApplyDefaults_HashingDimensions(t *testing.T) {
	cfg := Config{Embedding: EmbeddingConfig{Provider: ProviderHashing}}
	cfg.ApplyDefaults()
	if cfg.Embedding.Dimensions != 256 {
		t.Errorf("expected 256 dimensions, got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Embedding.Model != "" {
		t.Errorf("hashing provider should not get a model, got %q", cfg.Embedding.Model)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.HTTP.Port = 0 }, wantErr: "http.port"},
		{name: "no addrs", mutate: func(c *Config) { c.Database.Addrs = nil }, wantErr: "database.addrs"},
		{name: "memory needs no addrs", mutate: func(c *Config) {
			c.Database.Driver = DriverMemory
			c.Database.Addrs = nil
		}},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: "database.driver"},
		{name: "openai needs key", mutate: func(c *Config) { c.Embedding.APIKey = "" }, wantErr: "embedding.api_key"},
		{name: "hashing needs no key", mutate: func(c *Config) {
			c.Embedding.Provider = ProviderHashing
			c.Embedding.APIKey = ""
		}},
		{name: "unknown provider", mutate: func(c *Config) { c.Embedding.Provider = "cohere" }, wantErr: "embedding.provider"},
		{name: "negative cache ttl", mutate: func(c *Config) { c.Embedding.CacheTTLSec = -1 }, wantErr: "cache_ttl_sec"},
		{name: "missing catalog", mutate: func(c *Config) { c.Catalog.VectorsPath = "" }, wantErr: "catalog"},
		{name: "threshold too high", mutate: func(c *Config) { c.Search.FuzzyThreshold = 101 }, wantErr: "fuzzy_threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("SHOPSEARCH_TEST_KEY", "secret")

	got := string(expandEnvVars([]byte("a: ${SHOPSEARCH_TEST_KEY}\nb: ${SHOPSEARCH_UNSET_VAR:-fallback}\nc: ${SHOPSEARCH_UNSET_VAR}")))
	want := "a: secret\nb: fallback\nc: "
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParse(t *testing.T) {
	t.Setenv("SHOPSEARCH_TEST_PORT", "9090")
	data := []byte(`
http:
  port: ${SHOPSEARCH_TEST_PORT}
database:
  driver: memory
embedding:
  provider: hashing
  cache_ttl_sec: 600
catalog:
  metadata_path: data/products.json
  vectors_path: data/vectors.json
search:
  default_top_n: 3
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port: got %d", cfg.HTTP.Port)
	}
	if cfg.Search.DefaultTopN != 3 || cfg.Search.ResultTTLSec != 3600 {
		t.Errorf("search: %+v", cfg.Search)
	}
	if cfg.Embedding.CacheTTLSec != 600 {
		t.Errorf("cache ttl: got %d", cfg.Embedding.CacheTTLSec)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Error("expected YAML error")
	}
	if _, err := Parse([]byte("http:\n  port: 80\n")); err == nil {
		t.Error("expected validation error")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	content := "http:\n  port: 8081\ndatabase:\n  driver: memory\nembedding:\n  provider: hashing\n" +
		"catalog:\n  metadata_path: m.json\n  vectors_path: v.json\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.HTTP.Port != 8081 {
		t.Errorf("port: got %d", cfg.HTTP.Port)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_LocalConfig(t *testing.T) {
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("Load(local): %v", err)
	}
	if cfg.Database.Driver != DriverMemory || cfg.Embedding.Provider != ProviderHashing {
		t.Errorf("local config should run without external services: %+v %+v", cfg.Database, cfg.Embedding)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if GetEnv() != "local" {
		t.Errorf("expected local default")
	}
	t.Setenv("ENV", "prod")
	if GetEnv() != "prod" {
		t.Errorf("expected prod")
	}
}
