package cratograph

import (
	"os"
	"path/filepath"
	"testing"
)

const manifestFixture = `
crate_sets:
  library:
    - core
    - alloc
    - collections
    - testkit
  compiler:
    - frontend
    - middle
    - codegen
    - driver
tools:
  - name: docgen
    path: tools/docgen
    source: in-tree
  - name: lintcheck
    path: tools/lintcheck
    source: vendored
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workspace.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func newTestProvider(t *testing.T, content string) *FileProvider {
	t.Helper()
	provider, err := NewFileProvider(writeManifest(t, content))
	if err != nil {
		t.Fatalf("NewFileProvider() error = %v", err)
	}
	return provider
}

func TestCrateSetPreservesManifestOrder(t *testing.T) {
	t.Parallel()

	provider := newTestProvider(t, manifestFixture)

	crates, err := provider.CrateSet(Library)
	if err != nil {
		t.Fatalf("CrateSet() error = %v", err)
	}
	want := []string{"core", "alloc", "collections", "testkit"}
	if len(crates) != len(want) {
		t.Fatalf("CrateSet() returned %d crates, want %d", len(crates), len(want))
	}
	for i := range want {
		if crates[i] != want[i] {
			t.Fatalf("CrateSet()[%d] = %q, want %q", i, crates[i], want[i])
		}
	}
}

func TestCrateSetCachedResultIsIsolated(t *testing.T) {
	t.Parallel()

	provider := newTestProvider(t, manifestFixture)

	first, err := provider.CrateSet(Compiler)
	if err != nil {
		t.Fatalf("CrateSet() error = %v", err)
	}
	first[0] = "mutated"

	second, err := provider.CrateSet(Compiler)
	if err != nil {
		t.Fatalf("CrateSet() error = %v", err)
	}
	if second[0] == "mutated" {
		t.Fatal("caller mutation leaked into the cached crate set")
	}
}

func TestToolLookup(t *testing.T) {
	t.Parallel()

	provider := newTestProvider(t, manifestFixture)

	tool, err := provider.Tool("docgen")
	if err != nil {
		t.Fatalf("Tool() error = %v", err)
	}
	if tool.Path != "tools/docgen" || tool.Source != InTree {
		t.Fatalf("Tool() = %+v, want in-tree tools/docgen", tool)
	}
	if !tool.DenyWarnings() {
		t.Fatal("in-tree tool should deny warnings")
	}

	vendored, err := provider.Tool("lintcheck")
	if err != nil {
		t.Fatalf("Tool() error = %v", err)
	}
	if vendored.DenyWarnings() {
		t.Fatal("vendored tool should not deny warnings")
	}

	if _, err := provider.Tool("nonexistent"); err == nil {
		t.Fatal("Tool() should fail for an undeclared tool")
	}
}

func TestToolsReturnsManifestOrder(t *testing.T) {
	t.Parallel()

	provider := newTestProvider(t, manifestFixture)

	tools, err := provider.Tools()
	if err != nil {
		t.Fatalf("Tools() error = %v", err)
	}
	if len(tools) != 2 || tools[0].Name != "docgen" || tools[1].Name != "lintcheck" {
		t.Fatalf("Tools() = %+v, want docgen then lintcheck", tools)
	}
}

func TestLoadManifestValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		content string
	}{
		{"empty library set", "crate_sets:\n  compiler: [driver]\n"},
		{"empty compiler set", "crate_sets:\n  library: [core]\n"},
		{
			"duplicate tool",
			manifestFixture + "  - name: docgen\n    path: tools/docgen2\n    source: in-tree\n",
		},
		{
			"unknown source",
			"crate_sets:\n  library: [core]\n  compiler: [driver]\ntools:\n  - name: x\n    path: tools/x\n    source: mystery\n",
		},
		{
			"missing tool path",
			"crate_sets:\n  library: [core]\n  compiler: [driver]\ntools:\n  - name: x\n    source: in-tree\n",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := LoadManifest(writeManifest(t, tc.content)); err == nil {
				t.Fatalf("LoadManifest should reject manifest with %s", tc.name)
			}
		})
	}
}
