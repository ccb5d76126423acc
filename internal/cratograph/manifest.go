package cratograph

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Classification names one buildable crate set in the workspace.
type Classification string

const (
	// Library is the core library crate set, built first for every target.
	Library Classification = "library"
	// Compiler is the compiler's own crate set, built against the library.
	Compiler Classification = "compiler"
)

// ToolSource distinguishes first-party in-tree tool sources from vendored
// ones. It only affects whether new warnings are treated as hard failures.
type ToolSource string

const (
	InTree   ToolSource = "in-tree"
	Vendored ToolSource = "vendored"
)

// ToolInfo is the fixed identity of one auxiliary tool.
type ToolInfo struct {
	Name   string     `yaml:"name"`
	Path   string     `yaml:"path"`
	Source ToolSource `yaml:"source"`
}

// DenyWarnings reports whether new warnings in this tool's build fail the
// build. Vendored sources are exempt.
func (t ToolInfo) DenyWarnings() bool {
	return t.Source != Vendored
}

// Manifest declares the workspace's crate sets and tool table. It is the
// on-disk form read by the Provider.
type Manifest struct {
	CrateSets map[Classification][]string `yaml:"crate_sets"`
	Tools     []ToolInfo                  `yaml:"tools"`
}

// LoadManifest parses and validates the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workspace manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("parse workspace manifest %s: %w", path, err)
	}
	if err := manifest.validate(); err != nil {
		return nil, fmt.Errorf("invalid workspace manifest %s: %w", path, err)
	}
	return &manifest, nil
}

func (m *Manifest) validate() error {
	for _, classification := range []Classification{Library, Compiler} {
		if len(m.CrateSets[classification]) == 0 {
			return fmt.Errorf("crate set %q must not be empty", classification)
		}
	}

	seen := make(map[string]bool, len(m.Tools))
	for _, tool := range m.Tools {
		if tool.Name == "" {
			return errors.New("tool name is required")
		}
		if tool.Path == "" {
			return fmt.Errorf("tool %q has no source path", tool.Name)
		}
		if seen[tool.Name] {
			return fmt.Errorf("duplicate tool %q", tool.Name)
		}
		seen[tool.Name] = true
		switch tool.Source {
		case InTree, Vendored:
		default:
			return fmt.Errorf("tool %q has unknown source %q", tool.Name, tool.Source)
		}
	}
	return nil
}
