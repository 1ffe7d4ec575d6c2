package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewConfigDefaultsWhenMissing(t *testing.T) {
	projectDir := t.TempDir()
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if c.Project.Version != 1 {
		t.Fatalf("expected default version == 1, got %d", c.Project.Version)
	}
	wantExperiments := filepath.Join(projectDir, "reference_information", "dr-1.2.2.2_all.json")
	if c.ExperimentsPath() != wantExperiments {
		t.Fatalf("wrong experiments path: %s", c.ExperimentsPath())
	}
	if c.MaxParallel() != 1 {
		t.Fatalf("expected default max_parallel == 1, got %d", c.MaxParallel())
	}
	if c.MetadataRulesPath() != "" {
		t.Fatalf("expected no rules override, got %s", c.MetadataRulesPath())
	}
}

func TestNewConfigParsesYaml(t *testing.T) {
	projectDir := t.TempDir()
	configYAML := strings.TrimSpace(`
version: 1
reference:
  experiments: exports/dr-9.9_all.json
output:
  variables: lists
metadata:
  rules: rules/site.yaml
generate:
  max_parallel: 4
`)
	if err := os.WriteFile(filepath.Join(projectDir, ConfigFileName), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if !strings.HasPrefix(c.ExperimentsPath(), projectDir) {
		t.Fatalf("expected experiments path to be resolved, got %s", c.ExperimentsPath())
	}
	if filepath.Base(c.ExperimentsPath()) != "dr-9.9_all.json" {
		t.Fatalf("wrong experiments path: %s", c.ExperimentsPath())
	}
	// Unset keys still fall back to the defaults.
	if filepath.Base(c.MappingsPath()) != "mappings.json" {
		t.Fatalf("wrong mappings path: %s", c.MappingsPath())
	}
	if c.VersionDir("1.2.2.2") != filepath.Join(projectDir, "lists", "1.2.2.2") {
		t.Fatalf("wrong version dir: %s", c.VersionDir("1.2.2.2"))
	}
	if c.MetadataRulesPath() != filepath.Join(projectDir, "rules", "site.yaml") {
		t.Fatalf("wrong rules path: %s", c.MetadataRulesPath())
	}
	if c.MaxParallel() != 4 {
		t.Fatalf("expected max_parallel == 4, got %d", c.MaxParallel())
	}
}

func TestNewConfigValidation(t *testing.T) {
	projectDir := t.TempDir()
	configYAML := strings.TrimSpace(`
version: 1
generate:
  max_parallel: -2
`)
	if err := os.WriteFile(filepath.Join(projectDir, ConfigFileName), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewConfig(projectDir); err == nil {
		t.Fatalf("expected validation error but got none")
	}
}

func TestNewConfigRejectsMalformedYaml(t *testing.T) {
	projectDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(projectDir, ConfigFileName), []byte("version: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewConfig(projectDir); err == nil {
		t.Fatalf("expected parse error but got none")
	}
}

func TestInitCreatesLayout(t *testing.T) {
	projectDir := t.TempDir()
	if err := Init(projectDir); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	for _, dir := range []string{"reference_information", "variables", "workflow_metadata", "logs"} {
		info, err := os.Stat(filepath.Join(projectDir, dir))
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s to exist", dir)
		}
	}
	data, err := os.ReadFile(filepath.Join(projectDir, ConfigFileName))
	if err != nil {
		t.Fatalf("expected default config to be written: %v", err)
	}
	if !strings.Contains(string(data), "max_parallel: 1") {
		t.Fatalf("default config missing generate settings:\n%s", data)
	}

	// A second Init must leave an edited config alone.
	if err := os.WriteFile(filepath.Join(projectDir, ConfigFileName), []byte("version: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Init(projectDir); err != nil {
		t.Fatalf("repeat Init returned error: %v", err)
	}
	data, _ = os.ReadFile(filepath.Join(projectDir, ConfigFileName))
	if string(data) != "version: 1\n" {
		t.Fatalf("Init overwrote existing config:\n%s", data)
	}
}
