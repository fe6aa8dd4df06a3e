package source

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/htmlindex"
)

// Decode converts text from the named encoding to UTF-8. Names follow the
// WHATWG encoding labels ("gbk", "big5", "windows-1252", ...). An empty name
// or any UTF-8 label returns text unchanged.
func Decode(text []byte, encoding string) ([]byte, error) {
	if isUTF8(encoding) {
		return text, nil
	}
	enc, err := htmlindex.Get(encoding)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", encoding, err)
	}
	out, err := enc.NewDecoder().Bytes(text)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", encoding, err)
	}
	return out, nil
}

// ReadFile reads path and decodes it to UTF-8.
func ReadFile(path, encoding string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	text, err := Decode(raw, encoding)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("bytes", len(raw)).Str("encoding", encoding).Msg("Loaded source file")
	return text, nil
}

func isUTF8(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8", "unicode-1-1-utf-8":
		return true
	}
	return false
}
