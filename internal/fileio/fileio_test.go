package fileio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.sh")

	if err := WriteAtomic(path, []byte("#!/bin/sh\n"), ModeScript); err != nil {
		t.Fatalf("WriteAtomic() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "#!/bin/sh\n" {
		t.Errorf("content = %q", data)
	}
	info, _ := os.Stat(path)
	if info.Mode().Perm() != ModeScript {
		t.Errorf("mode = %v, want %v", info.Mode().Perm(), ModeScript)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestWriteAtomicReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.txt")
	if err := WriteAtomic(path, []byte("old"), ModeDefault); err != nil {
		t.Fatal(err)
	}
	if err := WriteAtomic(path, []byte("new"), ModeDefault); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "new" {
		t.Errorf("content = %q, want new", data)
	}
}

func TestWriteAtomicMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.txt")
	if err := WriteAtomic(path, []byte("x"), ModeDefault); err == nil {
		t.Fatal("WriteAtomic() into missing directory should fail")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("destination should not exist")
	}
}

func TestWriteAtomicEmptyName(t *testing.T) {
	if err := WriteAtomic("", nil, ModeDefault); !errors.Is(err, ErrEmptyFilename) {
		t.Errorf("error = %v, want ErrEmptyFilename", err)
	}
}

func TestLoadSample(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "sample.txt")
	os.WriteFile(text, []byte("Email: test@example.com\nValue: 12345\n"), 0o644)

	got, err := LoadSample(text)
	if err != nil {
		t.Fatalf("LoadSample() error = %v", err)
	}
	if got != "Email: test@example.com\nValue: 12345\n" {
		t.Errorf("LoadSample() = %q", got)
	}

	empty := filepath.Join(dir, "empty.txt")
	os.WriteFile(empty, nil, 0o644)
	if got, err := LoadSample(empty); err != nil || got != "" {
		t.Errorf("LoadSample(empty) = %q, %v", got, err)
	}
}

func TestLoadSampleBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.png")
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	os.WriteFile(path, png, 0o644)

	if _, err := LoadSample(path); !errors.Is(err, ErrNotText) {
		t.Errorf("LoadSample(png) error = %v, want ErrNotText", err)
	}
}

func TestLoadSampleMissing(t *testing.T) {
	_, err := LoadSample(filepath.Join(t.TempDir(), "nope.txt"))
	if !os.IsNotExist(err) {
		t.Errorf("error = %v, want not exist", err)
	}
}
