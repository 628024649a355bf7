// Package fileio is the filesystem side of exports and sample loading.
//
// Writes are all-or-nothing: data goes to a temporary file in the target
// directory which is renamed over the destination only after it was fully
// written and synced.
package fileio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// File modes for exported artifacts.
const (
	ModeScript  os.FileMode = 0o755
	ModeDefault os.FileMode = 0o644
)

// MaxSampleSize bounds sample files; the preview is meant for small text.
const MaxSampleSize = 1 << 20

// Errors returned when loading sample text.
var (
	ErrNotText       = errors.New("not a text file")
	ErrSampleTooBig  = errors.New("sample file too large")
	ErrEmptyFilename = errors.New("empty file name")
)

// WriteAtomic writes data to path with the given permissions. On failure the
// destination is left untouched and no temporary file remains.
func WriteAtomic(path string, data []byte, perm os.FileMode) (err error) {
	if path == "" {
		return ErrEmptyFilename
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Chmod(perm); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// LoadSample reads a text file for use as preview input. Binary files are
// rejected with ErrNotText.
func LoadSample(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > MaxSampleSize {
		return "", fmt.Errorf("%w: %s is %d bytes, limit %d", ErrSampleTooBig, path, info.Size(), MaxSampleSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if len(data) > 0 && !isText(data) {
		return "", fmt.Errorf("%w: %s", ErrNotText, path)
	}
	return string(data), nil
}

func isText(data []byte) bool {
	for t := mimetype.Detect(data); t != nil; t = t.Parent() {
		if t.Is("text/plain") {
			return true
		}
	}
	return false
}
