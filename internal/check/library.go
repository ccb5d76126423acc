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

// Library verifies the core library crate set for one target and publishes
// the results into the sysroot. It is the root of the dependency chain: every
// other unit for the same target builds against what this unit publishes.
type Library struct {
	Pipeline *Pipeline
	Target   toolchain.TargetSelection
}

func (s Library) Run(ctx context.Context, b *engine.Builder) error {
	p := s.Pipeline
	if err := p.validate(); err != nil {
		return err
	}

	compiler := p.bootstrap()
	logger := logging.Ensure(p.Logger).With("unit", "library", "target", s.Target)

	inv := invoke.Invocation{
		Compiler:   compiler,
		Mode:       layout.ModeLibrary,
		Target:     s.Target,
		Subcommand: p.Kind.Subcommand(),
		ExtraArgs:  p.Kind.ExtraArgs(),
	}

	logger.Info("checking library artifacts", "host", compiler.Host, "verb", p.Kind)
	artifacts, err := p.Invoker.Invoke(ctx, inv)
	if err != nil {
		return &BuildFailedError{Unit: "library", Target: s.Target, Err: err}
	}

	libdir := p.Layout.SysrootLibdir(compiler, s.Target)
	hostdir := p.Layout.SysrootLibdir(compiler, compiler.Host)
	if err := p.Publisher.Publish(artifacts, libdir, hostdir); err != nil {
		return &PublishFailedError{Unit: "library", Target: s.Target, Err: err}
	}
	if err := stamp.Write(p.LibraryStamp(s.Target), stamp.Payload{Artifacts: artifacts, RunID: b.RunID}); err != nil {
		return &PublishFailedError{Unit: "library", Target: s.Target, Err: err}
	}

	if !p.AllTargets {
		return nil
	}

	// Second invocation, only after the first pass has populated the sysroot.
	// Test targets of the library crates depend on the test harness crate,
	// which the build tool presumes pre-built; it only exists in the sysroot
	// once the publish above has run.
	crates, err := p.Crates.CrateSet(cratograph.Library)
	if err != nil {
		return fmt.Errorf("resolve library crate set: %w", err)
	}

	second := inv
	second.AllTargets = true
	second.PackageSelectors = crates

	logger.Info("checking library test/bench/example targets", "host", compiler.Host, "crates", len(crates))
	testArtifacts, err := p.Invoker.Invoke(ctx, second)
	if err != nil {
		return &BuildFailedError{Unit: "library tests", Target: s.Target, Err: err}
	}
	if err := stamp.Write(p.LibraryTestStamp(s.Target), stamp.Payload{Artifacts: testArtifacts, RunID: b.RunID}); err != nil {
		return &PublishFailedError{Unit: "library tests", Target: s.Target, Err: err}
	}
	return nil
}
