// Package export renders parse results as JSON that preserves source order:
// sections, keys and grid rows appear in the order they were first seen.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"w3xparser/internal/document"
	"w3xparser/internal/parser"
	"w3xparser/internal/value"
)

// Document renders {"section": {"key": ["v1", "v2"]}}.
func Document(doc *document.Document) ([]byte, error) {
	var root object
	for _, name := range doc.Sections() {
		sec, _ := doc.Section(name)
		var keys object
		for _, k := range sec.Keys() {
			vals, _ := sec.Values(k)
			arr, err := stringArray(vals)
			if err != nil {
				return nil, fmt.Errorf("render %s.%s: %w", name, k, err)
			}
			keys.add(k, arr)
		}
		b, err := keys.bytes()
		if err != nil {
			return nil, fmt.Errorf("render section %s: %w", name, err)
		}
		root.add(name, b)
	}
	return root.bytes()
}

// Flat renders {"key": "value"} with raw string values.
func Flat(f *document.Flat) ([]byte, error) {
	var root object
	for _, k := range f.Keys() {
		v, _ := f.Get(k)
		q, err := quote(v)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", k, err)
		}
		root.add(k, q)
	}
	return root.bytes()
}

// Grid renders {"rowLabel": {"colLabel": value}} with classified values.
// Empty cells are omitted.
func Grid(g *document.Grid) ([]byte, error) {
	var root object
	for _, obj := range g.Objects() {
		var row object
		for _, f := range obj.Fields {
			v := value.Classify(f.Raw)
			if v.Kind == value.Nil {
				continue
			}
			raw, err := scalar(v)
			if err != nil {
				return nil, fmt.Errorf("render %s.%s: %w", obj.Label, f.Name, err)
			}
			row.add(f.Name, raw)
		}
		b, err := row.bytes()
		if err != nil {
			return nil, fmt.Errorf("render row %s: %w", obj.Label, err)
		}
		root.add(obj.Label, b)
	}
	return root.bytes()
}

// Result renders whichever output r carries.
func Result(r *parser.Result) ([]byte, error) {
	switch {
	case r.Grid != nil:
		return Grid(r.Grid)
	case r.Document != nil:
		return Document(r.Document)
	case r.Flat != nil:
		return Flat(r.Flat)
	}
	return nil, fmt.Errorf("empty result for %s", r.Name)
}

// Indent pretty-prints rendered JSON.
func Indent(b []byte) []byte {
	return pretty.Pretty(b)
}

// Query evaluates a gjson path against rendered JSON. Keys containing path
// syntax such as '.' or '*' must be escaped with a backslash.
func Query(b []byte, path string) gjson.Result {
	return gjson.GetBytes(b, path)
}

func stringArray(vals []string) ([]byte, error) {
	arr := []byte("[]")
	for _, v := range vals {
		var err error
		arr, err = sjson.SetBytes(arr, "-1", v)
		if err != nil {
			return nil, err
		}
	}
	return arr, nil
}

func scalar(v value.Value) ([]byte, error) {
	switch v.Kind {
	case value.String:
		return quote(v.Str)
	case value.Number:
		if !v.Num.IsInt && (math.IsInf(v.Num.Float, 0) || math.IsNaN(v.Num.Float)) {
			return []byte("null"), nil
		}
		return []byte(v.Num.String()), nil
	}
	return []byte("null"), nil
}

// quote encodes s as a JSON string without HTML escaping.
func quote(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// object accumulates members of a JSON object in insertion order. The first
// encoding error is kept and returned by bytes.
type object struct {
	buf bytes.Buffer
	n   int
	err error
}

func (o *object) add(key string, raw []byte) {
	if o.err != nil {
		return
	}
	k, err := quote(key)
	if err != nil {
		o.err = fmt.Errorf("key %q: %w", key, err)
		return
	}
	if o.n == 0 {
		o.buf.WriteByte('{')
	} else {
		o.buf.WriteByte(',')
	}
	o.buf.Write(k)
	o.buf.WriteByte(':')
	o.buf.Write(raw)
	o.n++
}

func (o *object) bytes() ([]byte, error) {
	if o.err != nil {
		return nil, o.err
	}
	if o.n == 0 {
		return []byte("{}"), nil
	}
	return append(o.buf.Bytes(), '}'), nil
}
