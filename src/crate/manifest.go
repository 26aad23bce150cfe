// Package crate reads the Cargo.toml manifest of the crate being released.
package crate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Manifest is the subset of Cargo.toml the pipeline cares about.
type Manifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
}

// Load parses Cargo.toml from the crate root directory.
func Load(rootDir string) (*Manifest, error) {
	path := filepath.Join(rootDir, "Cargo.toml")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if m.Package.Name == "" {
		return nil, fmt.Errorf("%s: missing package.name", path)
	}
	if m.Package.Version == "" {
		return nil, fmt.Errorf("%s: missing package.version", path)
	}
	return &m, nil
}
