package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  port: 9090
storage:
  documents_path: ./documents
chat:
  chunk_size: 100
  chunk_overlap: 20
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port: got %d", cfg.Server.Port)
	}
	if cfg.Chat.ChunkSize != 100 || cfg.Chat.ChunkOverlap != 20 {
		t.Errorf("chunking: got %d/%d", cfg.Chat.ChunkSize, cfg.Chat.ChunkOverlap)
	}
	// Relative "./" paths resolve against the config directory.
	if cfg.Storage.DocumentsPath != filepath.Join(dir, "documents") {
		t.Errorf("documents path: got %s", cfg.Storage.DocumentsPath)
	}
	// Unset values get defaults.
	if cfg.Chat.MaxResults != 10 {
		t.Errorf("max results default: got %d", cfg.Chat.MaxResults)
	}
	if cfg.Provider.LLM.Model == "" {
		t.Error("llm model default should be set")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	ApplyDefaults(&cfg)
	if cfg.Chat.ChunkSize != 2000 || cfg.Chat.ChunkOverlap != 400 {
		t.Errorf("chunking defaults: got %d/%d", cfg.Chat.ChunkSize, cfg.Chat.ChunkOverlap)
	}
	if cfg.Chat.VectorTopK != 10 || cfg.Chat.KeywordTopK != 5 {
		t.Errorf("retrieval defaults: got %d/%d", cfg.Chat.VectorTopK, cfg.Chat.KeywordTopK)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port default: got %d", cfg.Server.Port)
	}
}
