// Package check implements the staged verification pipeline: the library
// crate set is built first for a target, the compiler's crates against the
// published library sysroot, and each auxiliary tool against the compiler
// sysroot. Artifacts flow downward only; every unit publishes into the shared
// sysroot before its dependents start.
package check

import (
	"fmt"
	"log/slog"

	"github.com/stagehand-dev/stagehand/internal/cratograph"
	"github.com/stagehand-dev/stagehand/internal/invoke"
	"github.com/stagehand-dev/stagehand/internal/layout"
	"github.com/stagehand-dev/stagehand/internal/toolchain"
)

// Kind selects the verification verb. All verbs share the same dependency
// shape; they differ only in the external build tool's subcommand and flags.
type Kind string

const (
	// KindCheck verifies without code generation.
	KindCheck Kind = "check"
	// KindFix verifies and applies automatic fixes.
	KindFix Kind = "fix"
	// KindLint runs the lint tool, treating warnings stricter.
	KindLint Kind = "lint"
)

// ParseKind maps a CLI verb onto a Kind.
func ParseKind(value string) (Kind, error) {
	switch Kind(value) {
	case KindCheck, KindFix, KindLint:
		return Kind(value), nil
	default:
		return "", fmt.Errorf("unknown verb %q (expected check, fix or lint)", value)
	}
}

// Subcommand returns the external build tool's subcommand for this verb.
func (k Kind) Subcommand() string {
	switch k {
	case KindFix:
		return "fix"
	case KindLint:
		return "clippy"
	default:
		return "check"
	}
}

// ExtraArgs returns trailing arguments for this verb. The lint verb caps
// lint severity at warnings so vendored code does not hard-fail.
func (k Kind) ExtraArgs() []string {
	if k == KindLint {
		return []string{"--", "--cap-lints", "warn"}
	}
	return nil
}

// Publisher copies a unit's produced artifacts into sysroot directories.
type Publisher interface {
	Publish(artifacts []string, destDirs ...string) error
}

// Pipeline carries the shared collaborators and run options for all check
// units of one invocation. Units are cheap comparable values referring back
// to their pipeline.
type Pipeline struct {
	Logger    *slog.Logger
	Layout    *layout.Layout
	Crates    cratograph.Provider
	Invoker   invoke.Invoker
	Publisher Publisher

	// Host is the platform the stage-0 seed toolchain runs on.
	Host toolchain.TargetSelection

	// Kind is the verb applied to every unit in this invocation.
	Kind Kind

	// AllTargets additionally covers test, benchmark and example targets of
	// every in-tree crate (full-coverage mode).
	AllTargets bool
}

func (p *Pipeline) validate() error {
	if p == nil {
		return fmt.Errorf("pipeline is not configured")
	}
	if p.Layout == nil {
		return fmt.Errorf("build layout is not configured")
	}
	if p.Crates == nil {
		return fmt.Errorf("crate graph provider is not configured")
	}
	if p.Invoker == nil {
		return fmt.Errorf("build invoker is not configured")
	}
	if p.Publisher == nil {
		return fmt.Errorf("sysroot publisher is not configured")
	}
	if p.Host == "" {
		return fmt.Errorf("host target is not configured")
	}
	return nil
}

// bootstrap returns the stage-0 seed compiler all check units build with.
func (p *Pipeline) bootstrap() toolchain.Compiler {
	return toolchain.Bootstrap(p.Host)
}

// LibraryStamp returns the stamp path recording the library unit's build for
// the target. Usable to probe staleness without forcing a build.
func (p *Pipeline) LibraryStamp(target toolchain.TargetSelection) string {
	return p.Layout.StampPath(p.bootstrap(), layout.ModeLibrary, target, "library-check")
}

// LibraryTestStamp returns the stamp path for the library unit's secondary
// full-coverage pass.
func (p *Pipeline) LibraryTestStamp(target toolchain.TargetSelection) string {
	return p.Layout.StampPath(p.bootstrap(), layout.ModeLibrary, target, "library-check-test")
}

// CompilerStamp returns the stamp path recording the compiler unit's build.
func (p *Pipeline) CompilerStamp(target toolchain.TargetSelection) string {
	return p.Layout.StampPath(p.bootstrap(), layout.ModeCompiler, target, "compiler-check")
}

// ToolStamp returns the stamp path for the named tool. Names are part of the
// stamp file name, so distinct tools never collide.
func (p *Pipeline) ToolStamp(name string, target toolchain.TargetSelection) string {
	return p.Layout.StampPath(p.bootstrap(), layout.ModeTool, target, fmt.Sprintf("%s-check", name))
}
