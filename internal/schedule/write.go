package schedule

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"schedgen/internal/model"
)

// Write serializes the snapshot as indented JSON at path, fully replacing
// any previous file.
//
// Implementation details:
//   - Ensures the parent directory exists.
//   - Writes to a temp file in the same directory, then renames, so a
//     crashed run never leaves a truncated document behind.
func Write(path string, snap *model.Snapshot) error {
	if path == "" {
		return errors.New("output path is empty")
	}
	if snap == nil {
		return errors.New("snapshot is nil")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, ".schedgen-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up the temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	// The snapshot is meant to be served by a static site, so make it
	// world-readable before the rename.
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
