package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/stagehand-dev/stagehand/internal/logging"
)

// Step is one memoizable unit of work. Implementations must be comparable
// values: the builder deduplicates on step equality, so two equal steps within
// one process execute the underlying work at most once. Steps express
// dependencies by calling Ensure on the builder they are run with.
type Step interface {
	Run(ctx context.Context, b *Builder) error
}

// Builder resolves step requests, memoizing each step's outcome for the
// lifetime of the process. The dependency graph is acyclic by construction
// (steps only ensure strictly earlier pipeline stages); a cycle is reported as
// an error rather than deadlocking.
type Builder struct {
	Logger *slog.Logger

	// RunID correlates every build, stamp and log line produced by this
	// builder instance.
	RunID string

	mu      sync.Mutex
	done    map[Step]error
	running map[Step]bool
}

// NewBuilder constructs a builder with a fresh run identifier.
func NewBuilder(logger *slog.Logger) *Builder {
	return &Builder{
		Logger:  logging.Ensure(logger),
		RunID:   uuid.NewString(),
		done:    make(map[Step]error),
		running: make(map[Step]bool),
	}
}

// Ensure runs the step unless an equal step already ran, and returns the
// step's (possibly memoized) outcome. A failed step stays failed for the rest
// of the process; dependents observe the same error.
func (b *Builder) Ensure(ctx context.Context, step Step) error {
	b.mu.Lock()
	if err, ok := b.done[step]; ok {
		b.mu.Unlock()
		return err
	}
	if b.running[step] {
		b.mu.Unlock()
		return fmt.Errorf("dependency cycle detected at step %v", step)
	}
	b.running[step] = true
	b.mu.Unlock()

	err := step.Run(ctx, b)

	b.mu.Lock()
	delete(b.running, step)
	b.done[step] = err
	b.mu.Unlock()
	return err
}
