package parser

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"w3xparser/internal/document"
)

// dump flattens a document for comparison.
func dump(doc *document.Document) map[string]map[string][]string {
	out := make(map[string]map[string][]string)
	for _, name := range doc.Sections() {
		sec, _ := doc.Section(name)
		keys := make(map[string][]string)
		for _, k := range sec.Keys() {
			v, _ := sec.Values(k)
			keys[k] = []string(v)
		}
		out[name] = keys
	}
	return out
}

func TestParseTxt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]map[string][]string
	}{
		{
			name:  "case-insensitive section merge",
			input: "[Foo]\na=1\n[foo]\nb=2\n",
			want:  map[string]map[string][]string{"foo": {"a": {"1"}, "b": {"2"}}},
		},
		{
			name:  "repeated key appends",
			input: "x=1\nx=2\n",
			want:  map[string]map[string][]string{"": {"x": {"1", "2"}}},
		},
		{
			name:  "quoted token keeps commas",
			input: "[s]\nx=\"a,b\",c\n",
			want:  map[string]map[string][]string{"s": {"x": {"a,b", "c"}}},
		},
		{
			name:  "unterminated quote ends the list",
			input: "[s]\nx=\"a,b\ny=1\n",
			want:  map[string]map[string][]string{"s": {"x": {"a,b"}, "y": {"1"}}},
		},
		{
			name:  "line without equals is ignored",
			input: "notanassignment\ny=1\n",
			want:  map[string]map[string][]string{"": {"y": {"1"}}},
		},
		{
			name:  "empty section names collapse",
			input: "[]\na=1\n[]\nb=2\n",
			want:  map[string]map[string][]string{"": {"a": {"1"}, "b": {"2"}}},
		},
		{
			name:  "empty right-hand side yields empty list",
			input: "[s]\nk=\n",
			want:  map[string]map[string][]string{"s": {"k": {}}},
		},
		{
			name:  "bare commas",
			input: "[s]\nk=,,\n",
			want:  map[string]map[string][]string{"s": {"k": {"", ""}}},
		},
		{
			name:  "adjacent commas between tokens",
			input: "[s]\nk=a,,b\n",
			want:  map[string]map[string][]string{"s": {"k": {"a", "", "b"}}},
		},
		{
			name:  "trailing comma after unquoted token",
			input: "[s]\nk=a,\n",
			want:  map[string]map[string][]string{"s": {"k": {"a"}}},
		},
		{
			name:  "comma after quote adds nothing",
			input: "[s]\nk=\"a\",\n",
			want:  map[string]map[string][]string{"s": {"k": {"a"}}},
		},
		{
			name:  "quote then comma then comma",
			input: "[s]\nk=\"a\",,b\n",
			want:  map[string]map[string][]string{"s": {"k": {"a", "", "b"}}},
		},
		{
			name:  "text glued to closing quote",
			input: "[s]\nk=\"a\"b,,c\n",
			want:  map[string]map[string][]string{"s": {"k": {"a", "b", "c"}}},
		},
		{
			name:  "empty quoted token",
			input: "[s]\nk=\"\"\n",
			want:  map[string]map[string][]string{"s": {"k": {""}}},
		},
		{
			name:  "single slash is not a comment",
			input: "//[x\n[s]\n/a=1\n",
			want:  map[string]map[string][]string{"s": {"/a": {"1"}}},
		},
		{
			name:  "text after closing bracket is discarded",
			input: "[S] trailing junk\nk=v\n",
			want:  map[string]map[string][]string{"s": {"k": {"v"}}},
		},
		{
			name:  "keys folded, values kept",
			input: "[Unit]\nName=Footman\n",
			want:  map[string]map[string][]string{"unit": {"name": {"Footman"}}},
		},
		{
			name:  "crlf line endings",
			input: "[s]\r\nk=v\r\n",
			want:  map[string]map[string][]string{"s": {"k": {"v"}}},
		},
		{
			name:  "bom and no final newline",
			input: "\xEF\xBB\xBF[s]\nk=v",
			want:  map[string]map[string][]string{"s": {"k": {"v"}}},
		},
		{
			name:  "nul ends input",
			input: "[s]\nk=v\x00[t]\n",
			want:  map[string]map[string][]string{"s": {"k": {"v"}}},
		},
		{
			name:  "spaces are literal",
			input: "[s]\n k = a b \n",
			want:  map[string]map[string][]string{"s": {" k ": {" a b "}}},
		},
		{
			name:  "empty input",
			input: "",
			want:  map[string]map[string][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseTxtDocument([]byte(tt.input), "test.txt")
			if err != nil {
				t.Fatalf("ParseTxtDocument() error = %v", err)
			}
			if got := dump(doc); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseTxtDocument() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseTxtErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
		wantMsg  string
	}{
		{"missing bracket", "[Foo\nx=1\n", 1, `']' expected near '\n'`},
		{"missing bracket at eof", "[s]\n\n\n[bad", 4, `']' expected near '<eof>'`},
		{"missing bracket before cr", "[bad\r\n", 1, `']' expected near '\r'`},
		{"crlf counts once", "[s]\r\n[x", 2, `']' expected near '<eof>'`},
		{"lflf counts twice", "[s]\n\n[x", 3, `']' expected near '<eof>'`},
		{"lfcr then lf", "\n\r\n[x", 3, `']' expected near '<eof>'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTxtDocument([]byte(tt.input), "")
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error = %v, want *ParseError", err)
			}
			if perr.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", perr.Line, tt.wantLine)
			}
			if perr.Msg != tt.wantMsg {
				t.Errorf("Msg = %q, want %q", perr.Msg, tt.wantMsg)
			}
			if perr.Name != DefaultName {
				t.Errorf("Name = %q, want %q", perr.Name, DefaultName)
			}
		})
	}
}

func TestParseTxtErrorDisplayName(t *testing.T) {
	_, err := ParseTxtDocument([]byte("[Foo\n"), "units/unitui.txt")
	if err == nil {
		t.Fatal("expected error")
	}
	want := `units/unitui.txt:1: ']' expected near '\n'`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestParseTxtDeterministic(t *testing.T) {
	input := []byte("[B]\nz=1\na=2,3\n[A]\nk=\"v\"\n[b]\nz=4\n")
	first, err := ParseTxtDocument(input, "")
	if err != nil {
		t.Fatal(err)
	}
	second, err := ParseTxtDocument(input, "")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("re-parsing identical input produced different documents")
	}
	if got := first.Sections(); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Errorf("Sections() = %v, want [b a]", got)
	}
	b, _ := first.Section("b")
	if got := b.Keys(); !reflect.DeepEqual(got, []string{"z", "a"}) {
		t.Errorf("Keys() = %v, want [z a]", got)
	}
}

func TestParseTxtInto(t *testing.T) {
	doc, err := ParseTxtDocument([]byte("[hfoo]\nName=Footman\n"), "a.txt")
	if err != nil {
		t.Fatal(err)
	}
	doc, err = ParseTxtInto(doc, []byte("[HFOO]\nname=Captain\nhp=420\n"), "b.txt")
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]map[string][]string{
		"hfoo": {"name": {"Footman", "Captain"}, "hp": {"420"}},
	}
	if got := dump(doc); !reflect.DeepEqual(got, want) {
		t.Errorf("merged = %#v, want %#v", got, want)
	}
}

// recorder logs every builder call.
type recorder struct {
	calls []string
}

func (r *recorder) BeginDocument()          { r.calls = append(r.calls, "begin") }
func (r *recorder) OpenSection(name string) { r.calls = append(r.calls, "section "+name) }
func (r *recorder) SetKey(key string)       { r.calls = append(r.calls, "key "+key) }
func (r *recorder) AppendValue(raw string)  { r.calls = append(r.calls, "value "+raw) }
func (r *recorder) EndValue()               { r.calls = append(r.calls, "endvalue") }
func (r *recorder) EndDocument()            { r.calls = append(r.calls, "end") }

func TestParseTxtBuilderSequence(t *testing.T) {
	r := &recorder{}
	if err := ParseTxt(r, []byte("[S]\n// c\nK=a,\"b\"\nnoequals\n"), ""); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"begin",
		"section s",
		"key k", "value a", "value b", "endvalue",
		"end",
	}
	if !reflect.DeepEqual(r.calls, want) {
		t.Errorf("calls = %s, want %s", strings.Join(r.calls, "|"), strings.Join(want, "|"))
	}
}

func TestParseTxtFailureSkipsEndDocument(t *testing.T) {
	r := &recorder{}
	if err := ParseTxt(r, []byte("[s]\n[broken\n"), ""); err == nil {
		t.Fatal("expected error")
	}
	if last := r.calls[len(r.calls)-1]; last == "end" {
		t.Error("EndDocument called after a failed parse")
	}
}
