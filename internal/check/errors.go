package check

import (
	"fmt"

	"github.com/stagehand-dev/stagehand/internal/toolchain"
)

// BuildFailedError reports that the external build invocation for a unit
// exited non-zero. It aborts the whole dependency chain; nothing was
// published and the unit's previous stamp, if any, is unchanged.
type BuildFailedError struct {
	Unit   string
	Target toolchain.TargetSelection
	Err    error
}

func (e *BuildFailedError) Error() string {
	return fmt.Sprintf("build of %s for %s failed: %v", e.Unit, e.Target, e.Err)
}

func (e *BuildFailedError) Unwrap() error { return e.Err }

// PublishFailedError reports that copying a unit's artifacts into the sysroot
// failed. The unit's stamp reflects the build, but dependents must not rely
// on the sysroot; the error is fatal and the unit is retried wholesale next
// invocation.
type PublishFailedError struct {
	Unit   string
	Target toolchain.TargetSelection
	Err    error
}

func (e *PublishFailedError) Error() string {
	return fmt.Sprintf("publishing %s artifacts for %s failed: %v", e.Unit, e.Target, e.Err)
}

func (e *PublishFailedError) Unwrap() error { return e.Err }

// DependencyError reports that a depended-on unit failed, so this unit never
// started its own build.
type DependencyError struct {
	Unit       string
	Dependency string
	Err        error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s depends on %s, which failed: %v", e.Unit, e.Dependency, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }
