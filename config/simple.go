// Package config wires the orchestrator's components together for the common
// end-to-end flows the CLI exposes.
package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stagehand-dev/stagehand/internal/check"
	"github.com/stagehand-dev/stagehand/internal/cratograph"
	"github.com/stagehand-dev/stagehand/internal/engine"
	"github.com/stagehand-dev/stagehand/internal/invoke"
	"github.com/stagehand-dev/stagehand/internal/layout"
	"github.com/stagehand-dev/stagehand/internal/logging"
	"github.com/stagehand-dev/stagehand/internal/setup"
	"github.com/stagehand-dev/stagehand/internal/stamp"
	"github.com/stagehand-dev/stagehand/internal/sysroot"
	"github.com/stagehand-dev/stagehand/internal/toolchain"
)

// Options selects what one invocation verifies.
type Options struct {
	// ConfigPath locates the setup config file; empty means environment only.
	ConfigPath string

	// Target is the platform to verify for; empty means the host.
	Target string

	// Verb is check, fix or lint.
	Verb string

	// AllTargets enables full-coverage mode.
	AllTargets bool

	// Units restricts the run to named units: "library", "compiler" or a
	// tool name. Empty verifies the compiler and every declared tool.
	Units []string
}

// Check executes the staged verification pipeline for the requested units.
func Check(ctx context.Context, opts Options, logger *slog.Logger) error {
	logger = logging.Ensure(logger).With("component", "config")

	pipeline, provider, err := assemble(opts, logger)
	if err != nil {
		return err
	}

	target := pipeline.Host
	if opts.Target != "" {
		target, err = toolchain.Parse(opts.Target)
		if err != nil {
			return err
		}
	}

	steps, err := selectSteps(pipeline, provider, target, opts.Units)
	if err != nil {
		return err
	}

	builder := engine.NewBuilder(logger)
	logger.Info("starting verification",
		"run", builder.RunID,
		"verb", pipeline.Kind,
		"target", target,
		"all_targets", pipeline.AllTargets,
	)

	for _, step := range steps {
		if err := builder.Ensure(ctx, step); err != nil {
			return err
		}
	}
	logger.Info("verification completed", "run", builder.RunID)
	return nil
}

// UnitStatus describes one unit's stamp freshness for the status listing.
type UnitStatus struct {
	Unit      string
	Stamp     string
	Fresh     bool
	WrittenBy string
}

// Status reports stamp freshness per unit for the requested target without
// forcing any build.
func Status(opts Options, logger *slog.Logger) ([]UnitStatus, error) {
	logger = logging.Ensure(logger).With("component", "config")

	pipeline, provider, err := assemble(opts, logger)
	if err != nil {
		return nil, err
	}

	target := pipeline.Host
	if opts.Target != "" {
		target, err = toolchain.Parse(opts.Target)
		if err != nil {
			return nil, err
		}
	}

	stamps := []UnitStatus{
		{Unit: "library", Stamp: pipeline.LibraryStamp(target)},
		{Unit: "library tests", Stamp: pipeline.LibraryTestStamp(target)},
		{Unit: "compiler", Stamp: pipeline.CompilerStamp(target)},
	}
	tools, err := provider.Tools()
	if err != nil {
		return nil, err
	}
	for _, tool := range tools {
		stamps = append(stamps, UnitStatus{Unit: tool.Name, Stamp: pipeline.ToolStamp(tool.Name, target)})
	}

	for i := range stamps {
		_, fresh, err := stamp.ModTime(stamps[i].Stamp)
		if err != nil {
			return nil, err
		}
		stamps[i].Fresh = fresh
		if !fresh {
			continue
		}
		payload, err := stamp.Read(stamps[i].Stamp)
		if err != nil {
			return nil, err
		}
		stamps[i].WrittenBy = payload.RunID
	}
	return stamps, nil
}

func assemble(opts Options, logger *slog.Logger) (*check.Pipeline, cratograph.Provider, error) {
	cfg, err := setup.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	verb := opts.Verb
	if verb == "" {
		verb = string(check.KindCheck)
	}
	kind, err := check.ParseKind(verb)
	if err != nil {
		return nil, nil, err
	}

	buildLayout, err := layout.New(cfg.BuildRoot)
	if err != nil {
		return nil, nil, err
	}

	provider, err := cratograph.NewFileProvider(cfg.Manifest)
	if err != nil {
		return nil, nil, err
	}

	pipeline := &check.Pipeline{
		Logger: logger,
		Layout: buildLayout,
		Crates: provider,
		Invoker: &invoke.CargoInvoker{
			Logger:        logger.With("component", "invoke"),
			Layout:        buildLayout,
			Cargo:         cfg.Cargo,
			WorkspaceRoot: cfg.WorkspaceRoot,
		},
		Publisher:  &sysroot.Publisher{Logger: logger.With("component", "sysroot")},
		Host:       cfg.HostTarget(),
		Kind:       kind,
		AllTargets: opts.AllTargets,
	}
	return pipeline, provider, nil
}

func selectSteps(pipeline *check.Pipeline, provider cratograph.Provider, target toolchain.TargetSelection, units []string) ([]engine.Step, error) {
	if len(units) == 0 {
		steps := []engine.Step{check.Compiler{Pipeline: pipeline, Target: target}}
		tools, err := provider.Tools()
		if err != nil {
			return nil, err
		}
		for _, tool := range tools {
			steps = append(steps, check.Tool{Pipeline: pipeline, Target: target, Info: tool})
		}
		return steps, nil
	}

	var steps []engine.Step
	for _, unit := range units {
		switch unit {
		case "library":
			steps = append(steps, check.Library{Pipeline: pipeline, Target: target})
		case "compiler":
			steps = append(steps, check.Compiler{Pipeline: pipeline, Target: target})
		default:
			tool, err := provider.Tool(unit)
			if err != nil {
				return nil, fmt.Errorf("unknown unit %q: %w", unit, err)
			}
			steps = append(steps, check.Tool{Pipeline: pipeline, Target: target, Info: tool})
		}
	}
	return steps, nil
}
