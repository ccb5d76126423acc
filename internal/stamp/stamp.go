package stamp

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const runPrefix = "run="

// Payload is the content of a stamp file: the artifacts a successful build
// produced, plus the identifier of the run that wrote it.
type Payload struct {
	Artifacts []string
	RunID     string
}

// Write records the payload at path. The write is atomic: the stamp either
// fully reflects this payload or the previous file is left untouched.
func Write(path string, payload Payload) error {
	if path == "" {
		return errors.New("stamp path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create stamp directory: %w", err)
	}

	var builder strings.Builder
	for _, artifact := range payload.Artifacts {
		builder.WriteString(artifact)
		builder.WriteByte('\n')
	}
	if payload.RunID != "" {
		builder.WriteString(runPrefix)
		builder.WriteString(payload.RunID)
		builder.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create stamp temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(builder.String()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write stamp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close stamp: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("commit stamp: %w", err)
	}
	return nil
}

// Read parses the stamp at path.
func Read(path string) (Payload, error) {
	file, err := os.Open(path)
	if err != nil {
		return Payload{}, err
	}
	defer file.Close()

	var payload Payload
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, runPrefix) {
			payload.RunID = strings.TrimPrefix(line, runPrefix)
			continue
		}
		payload.Artifacts = append(payload.Artifacts, line)
	}
	if err := scanner.Err(); err != nil {
		return Payload{}, fmt.Errorf("read stamp %s: %w", path, err)
	}
	return payload, nil
}

// ModTime returns the stamp's modification time, or false when the stamp does
// not exist. Callers use this as the freshness marker.
func ModTime(path string) (time.Time, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return info.ModTime(), true, nil
}
