// internal/config/config.go
//
// This package handles the dreqgen run configuration. A project keeps an
// optional dreqgen.yaml in its root; anything not set there falls back to
// the conventional workflow layout (reference_information/, variables/,
// workflow_metadata/, logs/).

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the project configuration file dreqgen looks for in
// the project directory.
const ConfigFileName = "dreqgen.yaml"

const defaultConfigYAML = `# dreqgen project configuration
version: 1

# Source files exported from the data request and the mapping repository.
reference:
  experiments: reference_information/dr-1.2.2.2_all.json
  mappings: reference_information/mappings.json

output:
  # Variable lists are written to <variables>/<dreq content version>/.
  variables: variables
  minimal_mappings: reference_information/minimal_mappings.json

metadata:
  dir: workflow_metadata
  # rules: custom-rules.yaml

logs:
  dir: logs

generate:
  max_parallel: 1
`

// ReferenceConfig locates the source files generation reads.
type ReferenceConfig struct {
	Experiments string `yaml:"experiments"`
	Mappings    string `yaml:"mappings"`
}

// OutputConfig locates everything the tools write.
type OutputConfig struct {
	Variables       string `yaml:"variables"`
	MinimalMappings string `yaml:"minimal_mappings"`
}

// MetadataConfig locates the workflow metadata files and an optional
// validation rules override.
type MetadataConfig struct {
	Dir   string `yaml:"dir"`
	Rules string `yaml:"rules,omitempty"`
}

// LogsConfig locates the run logs.
type LogsConfig struct {
	Dir string `yaml:"dir"`
}

// GenerateConfig tunes the generation run.
type GenerateConfig struct {
	MaxParallel int `yaml:"max_parallel"`
}

// ProjectConfig models dreqgen.yaml.
type ProjectConfig struct {
	Version   int             `yaml:"version"`
	Reference ReferenceConfig `yaml:"reference"`
	Output    OutputConfig    `yaml:"output"`
	Metadata  MetadataConfig  `yaml:"metadata"`
	Logs      LogsConfig      `yaml:"logs"`
	Generate  GenerateConfig  `yaml:"generate"`
}

// Config holds the runtime configuration for the dreqgen tools.
type Config struct {
	// ProjectDir is the directory the tool was pointed at (usually the
	// working directory). Relative paths in dreqgen.yaml resolve against
	// it.
	ProjectDir string

	Project ProjectConfig
}

// NewConfig loads the configuration for projectDir. A missing dreqgen.yaml
// is not an error; the defaults describe the conventional layout.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir: projectDir,
		Project:    defaultProjectConfig(),
	}
	cfg.Project.normalize(projectDir)

	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init creates the conventional project layout under projectDir and writes
// a default dreqgen.yaml if none exists yet.
func Init(projectDir string) error {
	dirs := []string{
		filepath.Join(projectDir, "reference_information"),
		filepath.Join(projectDir, "variables"),
		filepath.Join(projectDir, "workflow_metadata"),
		filepath.Join(projectDir, "logs"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create %s: %w", dir, err)
		}
	}
	return ensureProjectConfig(filepath.Join(projectDir, ConfigFileName))
}

// ConfigPath returns the on-disk location of the project config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.ProjectDir, ConfigFileName)
}

// ExperimentsPath returns the data request export to load.
func (c *Config) ExperimentsPath() string {
	return c.Project.Reference.Experiments
}

// MappingsPath returns the mapping dataset to load.
func (c *Config) MappingsPath() string {
	return c.Project.Reference.Mappings
}

// VariablesDir returns the root directory for generated variable lists.
func (c *Config) VariablesDir() string {
	return c.Project.Output.Variables
}

// VersionDir returns the output directory for one data request version.
func (c *Config) VersionDir(version string) string {
	return filepath.Join(c.VariablesDir(), version)
}

// MinimalMappingsPath returns where the minimised mapping dataset goes.
func (c *Config) MinimalMappingsPath() string {
	return c.Project.Output.MinimalMappings
}

// MetadataDir returns the directory holding workflow metadata .cfg files.
func (c *Config) MetadataDir() string {
	return c.Project.Metadata.Dir
}

// MetadataRulesPath returns the rules override, or "" for the built-in
// rules.
func (c *Config) MetadataRulesPath() string {
	return c.Project.Metadata.Rules
}

// LogsDir returns the directory run logs are written to.
func (c *Config) LogsDir() string {
	return c.Project.Logs.Dir
}

// LogFilePath returns the log file for one of the tools.
func (c *Config) LogFilePath(tool string) string {
	return filepath.Join(c.LogsDir(), tool+".log")
}

// MaxParallel returns the experiment fan-out limit, always >= 1.
func (c *Config) MaxParallel() int {
	return c.Project.Generate.MaxParallel
}

func (c *Config) loadProjectConfig() error {
	path := c.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize(c.ProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	var pc ProjectConfig
	if err := yaml.Unmarshal([]byte(defaultConfigYAML), &pc); err != nil {
		// The embedded document is part of the build; decoding it can
		// only fail when it has been edited incorrectly.
		panic(fmt.Sprintf("config: built-in defaults are invalid: %v", err))
	}
	return pc
}

func (pc *ProjectConfig) applyDefaults() {
	defaults := defaultProjectConfig()
	if pc.Version == 0 {
		pc.Version = defaults.Version
	}
	if pc.Reference.Experiments == "" {
		pc.Reference.Experiments = defaults.Reference.Experiments
	}
	if pc.Reference.Mappings == "" {
		pc.Reference.Mappings = defaults.Reference.Mappings
	}
	if pc.Output.Variables == "" {
		pc.Output.Variables = defaults.Output.Variables
	}
	if pc.Output.MinimalMappings == "" {
		pc.Output.MinimalMappings = defaults.Output.MinimalMappings
	}
	if pc.Metadata.Dir == "" {
		pc.Metadata.Dir = defaults.Metadata.Dir
	}
	if pc.Logs.Dir == "" {
		pc.Logs.Dir = defaults.Logs.Dir
	}
	if pc.Generate.MaxParallel == 0 {
		pc.Generate.MaxParallel = defaults.Generate.MaxParallel
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Reference.Experiments = resolvePath(base, pc.Reference.Experiments)
	pc.Reference.Mappings = resolvePath(base, pc.Reference.Mappings)
	pc.Output.Variables = resolvePath(base, pc.Output.Variables)
	pc.Output.MinimalMappings = resolvePath(base, pc.Output.MinimalMappings)
	pc.Metadata.Dir = resolvePath(base, pc.Metadata.Dir)
	pc.Metadata.Rules = resolvePath(base, pc.Metadata.Rules)
	pc.Logs.Dir = resolvePath(base, pc.Logs.Dir)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("version must be >= 1")
	}
	if pc.Reference.Experiments == "" {
		return fmt.Errorf("reference.experiments is required")
	}
	if pc.Reference.Mappings == "" {
		return fmt.Errorf("reference.mappings is required")
	}
	if pc.Output.Variables == "" {
		return fmt.Errorf("output.variables is required")
	}
	if pc.Generate.MaxParallel < 1 {
		return fmt.Errorf("generate.max_parallel must be >= 1")
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
