package engine

import (
	"context"
	"errors"
	"testing"
)

// countingStep is comparable by its Name; runs is shared so equal step values
// observe the same counter.
type countingStep struct {
	Name string

	runs *int
	fail error
	next *countingStep
}

func (s countingStep) Run(ctx context.Context, b *Builder) error {
	if s.next != nil {
		if err := b.Ensure(ctx, *s.next); err != nil {
			return err
		}
	}
	*s.runs++
	return s.fail
}

func TestEnsureRunsEqualStepsOnce(t *testing.T) {
	t.Parallel()

	builder := NewBuilder(nil)
	runs := 0
	step := countingStep{Name: "library", runs: &runs}

	for i := 0; i < 3; i++ {
		if err := builder.Ensure(context.Background(), step); err != nil {
			t.Fatalf("Ensure() error = %v", err)
		}
	}
	if runs != 1 {
		t.Fatalf("step ran %d times, want 1", runs)
	}
}

func TestEnsureMemoizesFailures(t *testing.T) {
	t.Parallel()

	builder := NewBuilder(nil)
	runs := 0
	failure := errors.New("build failed")
	step := countingStep{Name: "compiler", runs: &runs, fail: failure}

	if err := builder.Ensure(context.Background(), step); !errors.Is(err, failure) {
		t.Fatalf("Ensure() error = %v, want the step failure", err)
	}
	if err := builder.Ensure(context.Background(), step); !errors.Is(err, failure) {
		t.Fatalf("second Ensure() error = %v, want the memoized failure", err)
	}
	if runs != 1 {
		t.Fatalf("failing step ran %d times, want 1", runs)
	}
}

func TestEnsureRunsDependenciesFirst(t *testing.T) {
	t.Parallel()

	builder := NewBuilder(nil)
	depRuns, runs := 0, 0
	dep := countingStep{Name: "library", runs: &depRuns}
	step := countingStep{Name: "compiler", runs: &runs, next: &dep}

	if err := builder.Ensure(context.Background(), step); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if depRuns != 1 || runs != 1 {
		t.Fatalf("dep ran %d, step ran %d; want 1 and 1", depRuns, runs)
	}

	// A later direct request for the dependency must not rebuild it.
	if err := builder.Ensure(context.Background(), dep); err != nil {
		t.Fatalf("Ensure(dep) error = %v", err)
	}
	if depRuns != 1 {
		t.Fatalf("dep ran %d times after direct request, want 1", depRuns)
	}
}

type cyclicStep struct {
	Name string
}

func (s cyclicStep) Run(ctx context.Context, b *Builder) error {
	return b.Ensure(ctx, s)
}

func TestEnsureDetectsCycles(t *testing.T) {
	t.Parallel()

	builder := NewBuilder(nil)
	if err := builder.Ensure(context.Background(), cyclicStep{Name: "self"}); err == nil {
		t.Fatal("Ensure should report a dependency cycle instead of deadlocking")
	}
}

func TestNewBuilderAssignsRunID(t *testing.T) {
	t.Parallel()

	a, b := NewBuilder(nil), NewBuilder(nil)
	if a.RunID == "" {
		t.Fatal("builder run id must not be empty")
	}
	if a.RunID == b.RunID {
		t.Fatal("distinct builders must have distinct run ids")
	}
}
