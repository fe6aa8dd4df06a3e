package filewalker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"w3xparser/internal/parser"

	"github.com/rs/zerolog/log"
)

// Walker traverses directories and dispatches files to the correct parser.
type Walker struct {
	parsers []parser.Parser
}

// NewWalker creates a Walker with one parser per supported format.
func NewWalker() *Walker {
	return &Walker{parsers: parser.All()}
}

// FileEntry represents a discovered file ready for processing.
type FileEntry struct {
	Path   string
	Ext    string
	Parser parser.Parser
}

// ParserFor returns the parser handling path's extension.
func (w *Walker) ParserFor(path string) (parser.Parser, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, p := range w.parsers {
		if p.CanParse(ext) {
			return p, true
		}
	}
	return nil, false
}

// Walk discovers all supported files under the given root directory, in
// lexical order.
func (w *Walker) Walk(root string) ([]FileEntry, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	var entries []FileEntry

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}
		if d.IsDir() {
			return nil
		}

		p, ok := w.ParserFor(path)
		if !ok {
			return nil
		}
		entries = append(entries, FileEntry{
			Path:   path,
			Ext:    strings.ToLower(filepath.Ext(path)),
			Parser: p,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	log.Info().Int("count", len(entries)).Str("root", root).Msg("Discovered files")
	return entries, nil
}
