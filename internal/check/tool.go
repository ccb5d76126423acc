package check

import (
	"context"

	"github.com/stagehand-dev/stagehand/internal/cratograph"
	"github.com/stagehand-dev/stagehand/internal/engine"
	"github.com/stagehand-dev/stagehand/internal/invoke"
	"github.com/stagehand-dev/stagehand/internal/layout"
	"github.com/stagehand-dev/stagehand/internal/logging"
	"github.com/stagehand-dev/stagehand/internal/stamp"
	"github.com/stagehand-dev/stagehand/internal/toolchain"
)

// Tool verifies one auxiliary tool's crates for a target, building against
// the compiler sysroot. One value per tool identity; all tools share this
// shape and differ only in name, source path and source classification.
type Tool struct {
	Pipeline *Pipeline
	Target   toolchain.TargetSelection
	Info     cratograph.ToolInfo
}

func (s Tool) Run(ctx context.Context, b *engine.Builder) error {
	p := s.Pipeline
	if err := p.validate(); err != nil {
		return err
	}

	if err := b.Ensure(ctx, Compiler{Pipeline: p, Target: s.Target}); err != nil {
		return &DependencyError{Unit: s.Info.Name, Dependency: "compiler", Err: err}
	}

	compiler := p.bootstrap()
	logger := logging.Ensure(p.Logger).With("unit", s.Info.Name, "target", s.Target)

	inv := invoke.Invocation{
		Compiler:     compiler,
		Mode:         layout.ModeTool,
		Target:       s.Target,
		Subcommand:   p.Kind.Subcommand(),
		SourcePath:   s.Info.Path,
		AllTargets:   p.AllTargets,
		ExtraArgs:    p.Kind.ExtraArgs(),
		DenyWarnings: s.Info.DenyWarnings(),
	}

	logger.Info("checking tool artifacts", "host", compiler.Host, "verb", p.Kind, "source", s.Info.Source)
	artifacts, err := p.Invoker.Invoke(ctx, inv)
	if err != nil {
		return &BuildFailedError{Unit: s.Info.Name, Target: s.Target, Err: err}
	}

	libdir := p.Layout.SysrootLibdir(compiler, s.Target)
	hostdir := p.Layout.SysrootLibdir(compiler, compiler.Host)
	if err := p.Publisher.Publish(artifacts, libdir, hostdir); err != nil {
		return &PublishFailedError{Unit: s.Info.Name, Target: s.Target, Err: err}
	}
	if err := stamp.Write(p.ToolStamp(s.Info.Name, s.Target), stamp.Payload{Artifacts: artifacts, RunID: b.RunID}); err != nil {
		return &PublishFailedError{Unit: s.Info.Name, Target: s.Target, Err: err}
	}
	return nil
}
