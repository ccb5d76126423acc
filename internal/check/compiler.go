package check

import (
	"context"
	"fmt"

	"github.com/stagehand-dev/stagehand/internal/cratograph"
	"github.com/stagehand-dev/stagehand/internal/engine"
	"github.com/stagehand-dev/stagehand/internal/invoke"
	"github.com/stagehand-dev/stagehand/internal/layout"
	"github.com/stagehand-dev/stagehand/internal/logging"
	"github.com/stagehand-dev/stagehand/internal/stamp"
	"github.com/stagehand-dev/stagehand/internal/toolchain"
)

// Compiler verifies the compiler's own crate set for one target, building
// against the library sysroot published by the Library unit. Its artifacts
// are in turn what every auxiliary tool builds against.
type Compiler struct {
	Pipeline *Pipeline
	Target   toolchain.TargetSelection
}

func (s Compiler) Run(ctx context.Context, b *engine.Builder) error {
	p := s.Pipeline
	if err := p.validate(); err != nil {
		return err
	}

	if err := b.Ensure(ctx, Library{Pipeline: p, Target: s.Target}); err != nil {
		return &DependencyError{Unit: "compiler", Dependency: "library", Err: err}
	}

	compiler := p.bootstrap()
	logger := logging.Ensure(p.Logger).With("unit", "compiler", "target", s.Target)

	// Explicit selectors for every in-tree compiler crate force the build
	// tool to cover their non-leaf targets too whenever full-coverage mode
	// adds --all-targets, rather than just the leaf crate.
	crates, err := p.Crates.CrateSet(cratograph.Compiler)
	if err != nil {
		return fmt.Errorf("resolve compiler crate set: %w", err)
	}

	inv := invoke.Invocation{
		Compiler:         compiler,
		Mode:             layout.ModeCompiler,
		Target:           s.Target,
		Subcommand:       p.Kind.Subcommand(),
		AllTargets:       p.AllTargets,
		PackageSelectors: crates,
		ExtraArgs:        p.Kind.ExtraArgs(),
	}

	logger.Info("checking compiler artifacts", "host", compiler.Host, "verb", p.Kind)
	artifacts, err := p.Invoker.Invoke(ctx, inv)
	if err != nil {
		return &BuildFailedError{Unit: "compiler", Target: s.Target, Err: err}
	}

	libdir := p.Layout.SysrootLibdir(compiler, s.Target)
	hostdir := p.Layout.SysrootLibdir(compiler, compiler.Host)
	if err := p.Publisher.Publish(artifacts, libdir, hostdir); err != nil {
		return &PublishFailedError{Unit: "compiler", Target: s.Target, Err: err}
	}
	if err := stamp.Write(p.CompilerStamp(s.Target), stamp.Payload{Artifacts: artifacts, RunID: b.RunID}); err != nil {
		return &PublishFailedError{Unit: "compiler", Target: s.Target, Err: err}
	}
	return nil
}
