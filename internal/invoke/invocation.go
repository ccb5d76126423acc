package invoke

import (
	"context"

	"github.com/stagehand-dev/stagehand/internal/layout"
	"github.com/stagehand-dev/stagehand/internal/toolchain"
)

// Invocation describes one run of the external crate-graph build tool. The
// check units construct invocations; how they turn into a process is the
// invoker's concern.
type Invocation struct {
	Compiler toolchain.Compiler
	Mode     layout.Mode
	Target   toolchain.TargetSelection

	// Subcommand is the build tool verb, e.g. "check", "fix" or "clippy".
	Subcommand string

	// SourcePath points at a tool's crate root relative to the workspace.
	// Empty for the library and compiler crate sets.
	SourcePath string

	// AllTargets additionally covers test, benchmark and example targets.
	AllTargets bool

	// PackageSelectors lists crates to select explicitly, forcing their
	// non-leaf targets into scope.
	PackageSelectors []string

	// ExtraArgs are appended after the argument separator.
	ExtraArgs []string

	// DenyWarnings makes new warnings fail the build.
	DenyWarnings bool
}

// Invoker runs the external build tool over a crate graph and, on success,
// returns the artifact files the build produced. The caller decides where the
// artifacts are published and when the unit's stamp is committed.
type Invoker interface {
	Invoke(ctx context.Context, inv Invocation) ([]string, error)
}
