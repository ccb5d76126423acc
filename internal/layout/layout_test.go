package layout

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stagehand-dev/stagehand/internal/toolchain"
)

func TestNewRequiresRoot(t *testing.T) {
	t.Parallel()

	if _, err := New(""); err == nil {
		t.Fatal("New should reject an empty build root")
	}
}

func TestPathsArePerCompilerModeAndTarget(t *testing.T) {
	t.Parallel()

	l, err := New("/build-root")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	compiler := toolchain.Bootstrap(toolchain.X8664LinuxGNU)
	target := toolchain.AArch64LinuxGNU

	out := l.CargoOut(compiler, ModeLibrary, target)
	for _, fragment := range []string{"/build-root/", "x86_64-unknown-linux-gnu", "stage0-library", "aarch64-unknown-linux-gnu"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("CargoOut %q missing %q", out, fragment)
		}
	}

	if l.CargoOut(compiler, ModeLibrary, target) == l.CargoOut(compiler, ModeCompiler, target) {
		t.Fatal("modes must not share an output directory")
	}
	if l.SysrootLibdir(compiler, target) == l.SysrootLibdir(compiler, compiler.Host) {
		t.Fatal("target and host libdirs must differ")
	}
}

func TestStampPathDerivesFromName(t *testing.T) {
	t.Parallel()

	l, err := New("/build-root")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	compiler := toolchain.Bootstrap(toolchain.X8664LinuxGNU)
	target := toolchain.AArch64LinuxGNU

	path := l.StampPath(compiler, ModeTool, target, "docgen-check")
	if got, want := filepath.Base(path), ".docgen-check.stamp"; got != want {
		t.Fatalf("stamp base = %q, want %q", got, want)
	}
	other := l.StampPath(compiler, ModeTool, target, "lintcheck-check")
	if path == other {
		t.Fatal("distinct names must yield distinct stamp paths")
	}
}

func TestModeValidity(t *testing.T) {
	t.Parallel()

	for _, mode := range []Mode{ModeLibrary, ModeCompiler, ModeTool} {
		if !mode.IsValid() {
			t.Fatalf("mode %q reported invalid", mode)
		}
	}
	if Mode("deploy").IsValid() {
		t.Fatal("unknown mode reported valid")
	}
}
