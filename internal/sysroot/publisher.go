package sysroot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/stagehand-dev/stagehand/internal/logging"
)

// Publisher copies freshly built artifacts into sysroot library directories.
// Publishing is additive: it never removes artifacts belonging to other units,
// and copying an artifact that is already present and identical is a no-op, so
// redundant calls are safe.
type Publisher struct {
	Logger *slog.Logger
}

// Publish copies every artifact into each destination directory. Destinations
// typically are the target's library directory and the host's library
// directory for the same compiler.
func (p *Publisher) Publish(artifacts []string, destDirs ...string) error {
	logger := logging.Ensure(p.Logger)

	for _, destDir := range destDirs {
		if destDir == "" {
			return errors.New("destination directory is required")
		}
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return fmt.Errorf("create sysroot directory %s: %w", destDir, err)
		}

		copied := 0
		for _, artifact := range artifacts {
			dest := filepath.Join(destDir, filepath.Base(artifact))
			same, err := identical(artifact, dest)
			if err != nil {
				return err
			}
			if same {
				continue
			}
			if err := copyFile(artifact, dest); err != nil {
				return err
			}
			copied++
		}
		logger.Debug("published artifacts",
			"dest", destDir,
			"artifacts", len(artifacts),
			"copied", copied,
		)
	}
	return nil
}

// identical reports whether dest already holds the same bytes as src. A
// missing dest is simply not identical; a missing src is an error because the
// build claims it was produced.
func identical(src, dest string) (bool, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, fmt.Errorf("stat artifact %s: %w", src, err)
	}
	destInfo, err := os.Stat(dest)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat destination %s: %w", dest, err)
	}
	if srcInfo.Size() != destInfo.Size() {
		return false, nil
	}

	srcBytes, err := os.ReadFile(src)
	if err != nil {
		return false, fmt.Errorf("read artifact %s: %w", src, err)
	}
	destBytes, err := os.ReadFile(dest)
	if err != nil {
		return false, fmt.Errorf("read destination %s: %w", dest, err)
	}
	return bytes.Equal(srcBytes, destBytes), nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open artifact %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dest, err)
	}
	return nil
}
