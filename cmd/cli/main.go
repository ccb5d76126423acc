package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	config "github.com/stagehand-dev/stagehand/config"
	"github.com/stagehand-dev/stagehand/internal/check"
	"github.com/stagehand-dev/stagehand/internal/logging"
)

const defaultLogLevel = "info"

func main() {
	var levelVar slog.LevelVar
	levelVar.Set(slog.LevelInfo)

	logger := logging.NewCLI(os.Stderr, &levelVar)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCommand(logger, &levelVar)
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("command interrupted", "error", err)
			os.Exit(130)
		}
		logger.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

func newRootCommand(logger *slog.Logger, levelVar *slog.LevelVar) *cobra.Command {
	logLevel := defaultLogLevel

	root := &cobra.Command{
		Use:           "stagehand",
		Short:         "Staged toolchain verification: library, compiler and tools in dependency order",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "Set log verbosity (debug, info, warning, error)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level, err := parseLogLevel(logLevel)
		if err != nil {
			return err
		}
		if levelVar != nil {
			levelVar.Set(level)
		}
		return nil
	}

	root.AddCommand(
		newVerbCommand(logger, check.KindCheck, "Verify the toolchain crates without generating code"),
		newVerbCommand(logger, check.KindFix, "Verify and apply automatic fixes"),
		newVerbCommand(logger, check.KindLint, "Run the lint tool over the toolchain crates"),
		newStatusCommand(logger),
	)
	return root
}

func newVerbCommand(logger *slog.Logger, kind check.Kind, short string) *cobra.Command {
	var (
		configPath string
		target     string
		allTargets bool
	)

	cmd := &cobra.Command{
		Use:   string(kind) + " [unit...]",
		Short: short,
		Long:  short + ". Units may name \"library\", \"compiler\" or a declared tool; without units the compiler and every tool are verified.",
		RunE: func(cmd *cobra.Command, args []string) error {
			units := make([]string, 0, len(args))
			for _, arg := range args {
				unit := strings.TrimSpace(arg)
				if unit == "" {
					return fmt.Errorf("unit name must not be empty")
				}
				units = append(units, unit)
			}

			cmdLogger := logger.With("command", string(kind))
			opts := config.Options{
				ConfigPath: configPath,
				Target:     target,
				Verb:       string(kind),
				AllTargets: allTargets,
				Units:      units,
			}

			if err := config.Check(cmd.Context(), opts, cmdLogger); err != nil {
				cmdLogger.Error("verification failed", "error", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to the setup config file")
	cmd.Flags().StringVar(&target, "target", "", "Target triple to verify for (defaults to the host)")
	cmd.Flags().BoolVar(&allTargets, "all-targets", false, "Also cover test, benchmark and example targets")

	return cmd
}

func newStatusCommand(logger *slog.Logger) *cobra.Command {
	var (
		configPath string
		target     string
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "List units and whether their stamps are current, without building",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdLogger := logger.With("command", "status")

			statuses, err := config.Status(config.Options{ConfigPath: configPath, Target: target}, cmdLogger)
			if err != nil {
				cmdLogger.Error("status listing failed", "error", err)
				return err
			}

			for _, status := range statuses {
				if status.Fresh {
					fmt.Printf("%s\t(stamped, run %s)\n", status.Unit, status.WrittenBy)
				} else {
					fmt.Printf("%s\t(stale)\n", status.Unit)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to the setup config file")
	cmd.Flags().StringVar(&target, "target", "", "Target triple to report on (defaults to the host)")

	return cmd
}

func parseLogLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error", "err":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", value)
	}
}
