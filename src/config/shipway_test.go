package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if !cfg.Guard.AutoCommit {
		t.Errorf("autocommit should default on")
	}
	if got := cfg.Guard.Branches; len(got) != 2 || got[0] != "main" || got[1] != "master" {
		t.Errorf("branches = %v, want [main master]", got)
	}
	if cfg.Checks.Format[0] != "cargo" {
		t.Errorf("format command = %v", cfg.Checks.Format)
	}
	if cfg.Release.Tool != "cargo-release" {
		t.Errorf("release tool = %q", cfg.Release.Tool)
	}
	if len(cfg.Examples) != 1 || cfg.Examples[0].Name != "web" {
		t.Errorf("examples = %v", cfg.Examples)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Guard.AutoCommit {
		t.Errorf("missing file should yield defaults")
	}
}

func TestLoad_OverridesMergeOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".shipway.yml")
	content := `
guard:
  autocommit: false
  branches: [trunk]
release:
  command: [cargo, publish]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Guard.AutoCommit {
		t.Errorf("autocommit override lost")
	}
	if len(cfg.Guard.Branches) != 1 || cfg.Guard.Branches[0] != "trunk" {
		t.Errorf("branches = %v", cfg.Guard.Branches)
	}
	if got := cfg.Release.Command; len(got) != 2 || got[1] != "publish" {
		t.Errorf("release command = %v", got)
	}

	// Untouched sections keep their defaults.
	if cfg.Test.Native[0] != "cargo" {
		t.Errorf("native test default lost: %v", cfg.Test.Native)
	}
	if cfg.Guard.CommitMessage == "" {
		t.Errorf("commit message default lost")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".shipway.yml")
	if err := os.WriteFile(path, []byte("guard: [not a map"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
