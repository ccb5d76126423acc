package layout

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/stagehand-dev/stagehand/internal/toolchain"
)

// Mode selects which crate set a build invocation operates on. It also
// determines where the external build tool writes its output.
type Mode string

const (
	// ModeLibrary builds the core library crate set.
	ModeLibrary Mode = "library"
	// ModeCompiler builds the compiler's own crate set.
	ModeCompiler Mode = "compiler"
	// ModeTool builds a single auxiliary tool against the compiler sysroot.
	ModeTool Mode = "tool"
)

// IsValid reports whether m is a known mode.
func (m Mode) IsValid() bool {
	switch m {
	case ModeLibrary, ModeCompiler, ModeTool:
		return true
	default:
		return false
	}
}

// Layout answers every path question about one build root. It is passed
// explicitly to each component so tests can substitute an isolated temporary
// root.
type Layout struct {
	// Root is the directory all build output lives under.
	Root string
}

// New validates the root and returns a Layout for it.
func New(root string) (*Layout, error) {
	if root == "" {
		return nil, errors.New("build root is required")
	}
	return &Layout{Root: root}, nil
}

// CargoOut returns the output directory the external build tool uses for the
// given compiler, mode and target.
func (l *Layout) CargoOut(c toolchain.Compiler, m Mode, target toolchain.TargetSelection) string {
	stageDir := fmt.Sprintf("stage%d-%s", c.Stage, m)
	return filepath.Join(l.Root, "build", c.Host.String(), stageDir, target.String())
}

// SysrootLibdir returns the library directory of the sysroot belonging to the
// given compiler and target. Artifacts published here are visible to every
// later build that depends on this compiler/target pair.
func (l *Layout) SysrootLibdir(c toolchain.Compiler, target toolchain.TargetSelection) string {
	stageDir := fmt.Sprintf("stage%d", c.Stage)
	return filepath.Join(l.Root, "build", c.Host.String(), stageDir, "lib", target.String())
}

// StampPath returns the marker file recording that the named unit's build is
// current for the given compiler, mode and target. The name must be unique per
// unit (tool stamps derive their name from the tool identity).
func (l *Layout) StampPath(c toolchain.Compiler, m Mode, target toolchain.TargetSelection, name string) string {
	return filepath.Join(l.CargoOut(c, m, target), fmt.Sprintf(".%s.stamp", name))
}
