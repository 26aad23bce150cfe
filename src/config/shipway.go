// Package config loads the .shipway.yml pipeline configuration.
package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultConfigFile = ".shipway.yml"

// Config is the top-level shipway configuration.
type Config struct {
	Checks   ChecksConfig    `yaml:"checks"`
	Test     TestConfig      `yaml:"test"`
	Examples []ExampleConfig `yaml:"examples"`
	Guard    GuardConfig     `yaml:"guard"`
	Release  ReleaseConfig   `yaml:"release"`
}

// ChecksConfig holds the quality-gate commands of the release pipeline.
type ChecksConfig struct {
	Format   []string `yaml:"format"`
	Lint     []string `yaml:"lint"`
	LintWasm []string `yaml:"lint_wasm"`
}

// TestConfig holds the per-suite test commands. The wasm command gets the
// headless browser flag appended at plan time.
type TestConfig struct {
	Native []string `yaml:"native"`
	Wasm   []string `yaml:"wasm"`
}

// ExampleConfig names one example crate built during the release pipeline.
// The example set is an explicit list; nothing is discovered by globbing.
type ExampleConfig struct {
	Name string `yaml:"name"`
	Dir  string `yaml:"dir"`
}

// GuardConfig controls the version-control gate.
type GuardConfig struct {
	// AutoCommit enables the single automatic commit of a dirty tree
	// (formatting fallout, typically). When false a dirty tree fails
	// the guard instead.
	AutoCommit    bool     `yaml:"autocommit"`
	CommitMessage string   `yaml:"commit_message"`
	Branches      []string `yaml:"branches"`
}

// ReleaseConfig holds the publish action and its required helper tool.
type ReleaseConfig struct {
	Command []string `yaml:"command"`
	Tool    string   `yaml:"tool"`
}

// Load reads configuration from a YAML file.
// If path is empty, it tries the default file.
// Returns sensible defaults if the file doesn't exist.
func Load(path string) (*Config, error) {
	if path == "" {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Defaults(), nil
		}
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults returns the configuration used when no .shipway.yml exists:
// a cargo crate with a wasm32 browser target tested through wasm-pack.
func Defaults() *Config {
	return &Config{
		Checks: ChecksConfig{
			Format:   []string{"cargo", "fmt"},
			Lint:     []string{"cargo", "clippy", "--all-targets", "--all-features", "--", "-D", "warnings"},
			LintWasm: []string{"cargo", "clippy", "--target", "wasm32-unknown-unknown", "--features", "web", "--", "-D", "warnings"},
		},
		Test: TestConfig{
			Native: []string{"cargo", "test", "--all-features"},
			Wasm:   []string{"wasm-pack", "test", "--headless"},
		},
		Examples: []ExampleConfig{
			{Name: "web", Dir: "examples/web"},
		},
		Guard: GuardConfig{
			AutoCommit:    true,
			CommitMessage: "chore: apply automated formatting",
			Branches:      []string{"main", "master"},
		},
		Release: ReleaseConfig{
			Command: []string{"cargo", "release", "--execute", "--no-confirm"},
			Tool:    "cargo-release",
		},
	}
}
