package stamp

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteReadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", ".library-check.stamp")
	payload := Payload{
		Artifacts: []string{"/build/deps/libcore.rmeta", "/build/deps/liballoc.rmeta"},
		RunID:     "run-1234",
	}

	if err := Write(path, payload); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got.Artifacts) != 2 || got.Artifacts[0] != payload.Artifacts[0] || got.Artifacts[1] != payload.Artifacts[1] {
		t.Fatalf("Read() artifacts = %v, want %v", got.Artifacts, payload.Artifacts)
	}
	if got.RunID != payload.RunID {
		t.Fatalf("Read() run id = %q, want %q", got.RunID, payload.RunID)
	}
}

func TestWriteReplacesPreviousStamp(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".compiler-check.stamp")
	if err := Write(path, Payload{Artifacts: []string{"old"}, RunID: "first"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := Write(path, Payload{Artifacts: []string{"new"}, RunID: "second"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got.Artifacts) != 1 || got.Artifacts[0] != "new" || got.RunID != "second" {
		t.Fatalf("Read() = %+v, want the replacement payload", got)
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ".docgen-check.stamp")
	if err := Write(path, Payload{Artifacts: []string{"a"}}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("directory holds %d entries after Write, want only the stamp", len(entries))
	}
}

func TestModTimeReportsAbsence(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".missing.stamp")
	if _, exists, err := ModTime(path); err != nil || exists {
		t.Fatalf("ModTime() = exists %t, err %v; want absent, nil", exists, err)
	}

	if err := Write(path, Payload{}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, exists, err := ModTime(path); err != nil || !exists {
		t.Fatalf("ModTime() after Write = exists %t, err %v; want present, nil", exists, err)
	}
}
