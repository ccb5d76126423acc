package invoke

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/stagehand-dev/stagehand/internal/layout"
	"github.com/stagehand-dev/stagehand/internal/logging"
)

// artifactExtensions are the output kinds published into the sysroot.
var artifactExtensions = map[string]bool{
	".rlib":  true,
	".rmeta": true,
	".so":    true,
	".dylib": true,
	".dll":   true,
	".a":     true,
}

// CargoInvoker runs cargo as a subprocess and enumerates the artifacts the
// run produced.
type CargoInvoker struct {
	Logger *slog.Logger
	Layout *layout.Layout

	// Cargo is the build tool binary, typically the stage-0 seed's cargo.
	Cargo string

	// WorkspaceRoot is the checkout the crate manifests live under.
	WorkspaceRoot string
}

// Invoke builds the crate graph described by inv and returns the produced
// artifact files in deterministic order.
func (c *CargoInvoker) Invoke(ctx context.Context, inv Invocation) ([]string, error) {
	if c.Cargo == "" {
		return nil, fmt.Errorf("cargo binary is not configured")
	}
	if c.Layout == nil {
		return nil, fmt.Errorf("build layout is not configured")
	}

	outDir := c.Layout.CargoOut(inv.Compiler, inv.Mode, inv.Target)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	args := c.arguments(inv)
	logger := logging.Ensure(c.Logger)
	logger.Debug("running build tool", "cargo", c.Cargo, "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, c.Cargo, args...)
	cmd.Dir = c.WorkspaceRoot
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), "CARGO_TARGET_DIR="+outDir)
	if inv.DenyWarnings {
		cmd.Env = append(cmd.Env, "RUSTFLAGS=-Dwarnings")
	}

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s %s for %s: %w", filepath.Base(c.Cargo), inv.Subcommand, inv.Target, err)
	}

	return scanArtifacts(outDir, inv.Target.String())
}

func (c *CargoInvoker) arguments(inv Invocation) []string {
	args := []string{inv.Subcommand, "--target", inv.Target.String()}

	manifest := c.manifestPath(inv)
	if manifest != "" {
		args = append(args, "--manifest-path", manifest)
	}
	if inv.AllTargets {
		args = append(args, "--all-targets")
	}
	for _, crate := range inv.PackageSelectors {
		args = append(args, "-p", crate)
	}
	args = append(args, inv.ExtraArgs...)
	return args
}

func (c *CargoInvoker) manifestPath(inv Invocation) string {
	switch {
	case inv.SourcePath != "":
		return filepath.Join(c.WorkspaceRoot, inv.SourcePath, "Cargo.toml")
	case inv.Mode == layout.ModeLibrary:
		return filepath.Join(c.WorkspaceRoot, "library", "Cargo.toml")
	case inv.Mode == layout.ModeCompiler:
		return filepath.Join(c.WorkspaceRoot, "compiler", "Cargo.toml")
	default:
		return ""
	}
}

// scanArtifacts enumerates publishable output files under the build tool's
// deps directory, in deterministic order.
func scanArtifacts(outDir, triple string) ([]string, error) {
	depsDir := filepath.Join(outDir, triple, "debug", "deps")
	entries, err := os.ReadDir(depsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan build output %s: %w", depsDir, err)
	}

	var artifacts []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if artifactExtensions[filepath.Ext(entry.Name())] {
			artifacts = append(artifacts, filepath.Join(depsDir, entry.Name()))
		}
	}
	sort.Strings(artifacts)
	return artifacts, nil
}
