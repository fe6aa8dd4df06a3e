package parser

import (
	"fmt"

	"w3xparser/internal/document"
	"w3xparser/internal/textutil"
)

// Format names one of the supported text formats.
type Format string

const (
	FormatSLK Format = "slk"
	FormatTxt Format = "txt"
	FormatINI Format = "ini"
)

// Result holds the output of parsing a single file. Exactly one of Grid,
// Document and Flat is set, matching Format.
type Result struct {
	// Name is the display name used in diagnostics, usually the file path.
	Name string
	// Format is the format the input was parsed as.
	Format Format
	// Hash identifies the input content.
	Hash string

	Grid     *document.Grid
	Document *document.Document
	Flat     *document.Flat
}

// Parser is the interface for all format parsers.
type Parser interface {
	// Format returns the format handled by this parser.
	Format() Format
	// CanParse returns true if this parser handles the given file extension.
	CanParse(ext string) bool
	// Parse converts raw text into a Result.
	Parse(name string, text []byte) (*Result, error)
}

// ForFormat returns the parser for f.
func ForFormat(f Format) (Parser, error) {
	for _, p := range All() {
		if p.Format() == f {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unknown format %q", f)
}

// All returns one parser per supported format.
func All() []Parser {
	return []Parser{NewSLKParser(), NewTxtParser(), NewINIParser()}
}

// SLKParser handles .slk cell-grid tables.
type SLKParser struct{}

func NewSLKParser() *SLKParser { return &SLKParser{} }

func (p *SLKParser) Format() Format { return FormatSLK }

func (p *SLKParser) CanParse(ext string) bool {
	return ext == ".slk"
}

func (p *SLKParser) Parse(name string, text []byte) (*Result, error) {
	g, err := ParseSLKGrid(text, name)
	if err != nil {
		return nil, err
	}
	return &Result{Name: name, Format: FormatSLK, Grid: g, Hash: textutil.Hash(string(text))}, nil
}

// TxtParser handles sectioned .txt profile files.
type TxtParser struct{}

func NewTxtParser() *TxtParser { return &TxtParser{} }

func (p *TxtParser) Format() Format { return FormatTxt }

func (p *TxtParser) CanParse(ext string) bool {
	return ext == ".txt"
}

func (p *TxtParser) Parse(name string, text []byte) (*Result, error) {
	doc, err := ParseTxtDocument(text, name)
	if err != nil {
		return nil, err
	}
	return &Result{Name: name, Format: FormatTxt, Document: doc, Hash: textutil.Hash(string(text))}, nil
}

// INIParser handles flat .ini key/value files.
type INIParser struct{}

func NewINIParser() *INIParser { return &INIParser{} }

func (p *INIParser) Format() Format { return FormatINI }

func (p *INIParser) CanParse(ext string) bool {
	return ext == ".ini"
}

func (p *INIParser) Parse(name string, text []byte) (*Result, error) {
	f, err := ParseINIFlat(text, name)
	if err != nil {
		return nil, err
	}
	return &Result{Name: name, Format: FormatINI, Flat: f, Hash: textutil.Hash(string(text))}, nil
}
