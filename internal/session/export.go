package session

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/sedstudio/internal/compiler"
	"github.com/dshills/sedstudio/internal/fileio"
	"github.com/dshills/sedstudio/internal/history"
	"github.com/dshills/sedstudio/internal/script"
)

// ExportScript writes the chain as an executable shell script. Nothing is
// written when the chain is empty.
func (s *Session) ExportScript(path string) error {
	if s.chain.IsEmpty() {
		s.logger.Warn("script export skipped", "error", ErrEmptyChain)
		return ErrEmptyChain
	}
	body, err := script.Body(s.chain.List(), s.flags, s.now())
	if err != nil {
		return err
	}

	if err := fileio.WriteAtomic(path, body, fileio.ModeScript); err != nil {
		s.logger.Error("script export failed", "path", path, "error", err)
		return NewOperationError("export script", path, err)
	}

	// The script always holds the chain, even in single-step mode.
	s.history.Append(compiler.RenderChain(s.chain.List(), s.flags, s.filename))
	s.logger.Info("script exported", "path", path, "steps", s.chain.Len())
	return nil
}

// ExportHistory writes the history newest first. A path ending in .json
// gets the JSON form, anything else the text form.
func (s *Session) ExportHistory(path string) error {
	var (
		body []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		body, err = s.history.JSON(s.now())
	} else {
		body, err = s.history.Text(s.now())
	}
	if err != nil {
		s.logger.Warn("history export skipped", "error", err)
		return err
	}

	if err := fileio.WriteAtomic(path, body, fileio.ModeDefault); err != nil {
		s.logger.Error("history export failed", "path", path, "error", err)
		return NewOperationError("export history", path, err)
	}

	s.logger.Info("history exported", "path", path, "entries", s.history.Len())
	return nil
}

// ImportHistory appends the entries of a JSON history export. Returns the
// number of entries added.
func (s *Session) ImportHistory(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, NewOperationError("import history", path, err)
	}
	entries, err := history.ParseJSON(data)
	if err != nil {
		return 0, NewOperationError("import history", path, err)
	}
	n := s.history.Import(entries)
	s.logger.Info("history imported", "path", path, "entries", n)
	return n, nil
}

// LoadSample replaces the preview input with the contents of a text file.
func (s *Session) LoadSample(path string) error {
	text, err := fileio.LoadSample(path)
	if err != nil {
		return NewOperationError("load sample", path, err)
	}
	s.sample = text
	s.logger.Info("sample loaded", "path", path, "bytes", len(text))
	return nil
}
