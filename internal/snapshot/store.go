package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

const (
	dirPerms  = 0o755
	filePerms = 0o644
)

// Store translates between a file-system location and a parsed JSON value.
// It holds no state; every call is self-contained.
type Store struct{}

// ReadDocument reads the file at path and decodes it as a JSON value tree.
//
// Input is standardized through hujson first, so documents may carry
// comments and trailing commas; plain JSON passes through unchanged.
// Failures satisfy errors.Is against ErrRead or ErrParse and name the
// offending path and the underlying cause.
func (Store) ReadDocument(path string) (any, error) {
	raw, readErr := os.ReadFile(path) //nolint:gosec // path is intentionally caller-controlled
	if readErr != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrRead, path, readErr)
	}

	standardized, stdErr := hujson.Standardize(raw)
	if stdErr != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrParse, path, stdErr)
	}

	var data any

	unmarshalErr := json.Unmarshal(standardized, &data)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrParse, path, unmarshalErr)
	}

	return data, nil
}

// WriteDocument serializes data as pretty-printed JSON with a single
// trailing newline and writes it to path, replacing any prior content.
//
// Missing ancestor directories are created first. The write itself goes
// through a temp file in the target directory followed by a rename, so a
// crash mid-write never leaves a torn file. Failures satisfy errors.Is
// against ErrDirCreate or ErrWrite.
func (Store) WriteDocument(path string, data any) error {
	dir := filepath.Dir(path)

	mkdirErr := os.MkdirAll(dir, dirPerms)
	if mkdirErr != nil {
		return fmt.Errorf("%w %s: %w", ErrDirCreate, dir, mkdirErr)
	}

	payload, marshalErr := json.MarshalIndent(data, "", "  ")
	if marshalErr != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, path, marshalErr)
	}

	payload = append(payload, '\n')

	writeErr := atomic.WriteFile(path, bytes.NewReader(payload))
	if writeErr != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, path, writeErr)
	}

	// atomic.WriteFile creates new files with temp-file permissions.
	chmodErr := os.Chmod(path, filePerms)
	if chmodErr != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, path, chmodErr)
	}

	return nil
}
