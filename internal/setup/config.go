// Package setup loads the orchestrator's configuration: the build root, the
// host platform, the workspace checkout and the stage-0 seed toolchain. A
// config file provides the base values; a .env file and process environment
// variables override it.
package setup

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/stagehand-dev/stagehand/internal/toolchain"
)

// Config holds everything needed to assemble a check pipeline.
type Config struct {
	// BuildRoot is the directory all build output and sysroots live under.
	BuildRoot string `yaml:"build_root"`

	// Host is the platform triple the stage-0 seed toolchain runs on.
	Host string `yaml:"host"`

	// WorkspaceRoot is the toolchain source checkout.
	WorkspaceRoot string `yaml:"workspace_root"`

	// Manifest is the workspace manifest declaring crate sets and tools.
	// Defaults to <workspace_root>/workspace.yaml.
	Manifest string `yaml:"manifest"`

	// Cargo is the stage-0 seed's build tool binary. Defaults to "cargo" on
	// PATH.
	Cargo string `yaml:"cargo"`
}

const (
	envBuildRoot = "STAGEHAND_BUILD_ROOT"
	envHost      = "STAGEHAND_HOST"
	envWorkspace = "STAGEHAND_WORKSPACE"
	envManifest  = "STAGEHAND_MANIFEST"
	envCargo     = "STAGEHAND_CARGO"
)

// Load reads the config file at path, overlays .env and environment
// variables, applies defaults and validates the result. An empty path loads
// from the environment alone.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	overlay(&cfg.BuildRoot, envBuildRoot)
	overlay(&cfg.Host, envHost)
	overlay(&cfg.WorkspaceRoot, envWorkspace)
	overlay(&cfg.Manifest, envManifest)
	overlay(&cfg.Cargo, envCargo)

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func overlay(field *string, key string) {
	if value := os.Getenv(key); value != "" {
		*field = value
	}
}

func (c *Config) applyDefaults() {
	if c.Cargo == "" {
		c.Cargo = "cargo"
	}
	if c.Manifest == "" && c.WorkspaceRoot != "" {
		c.Manifest = c.WorkspaceRoot + "/workspace.yaml"
	}
}

func (c *Config) validate() error {
	if c.BuildRoot == "" {
		return errors.New("build root is required (build_root or " + envBuildRoot + ")")
	}
	if c.WorkspaceRoot == "" {
		return errors.New("workspace root is required (workspace_root or " + envWorkspace + ")")
	}
	if c.Host == "" {
		return errors.New("host is required (host or " + envHost + ")")
	}
	if _, err := toolchain.Parse(c.Host); err != nil {
		return err
	}
	return nil
}

// HostTarget returns the canonical host triple.
func (c *Config) HostTarget() toolchain.TargetSelection {
	return toolchain.MustParse(c.Host)
}
