package document

// ValueList is the ordered list of raw tokens assigned to one key.
type ValueList []string

// Section groups keys under one lowercased section name.
type Section struct {
	Name   string
	keys   []string
	values map[string]ValueList
}

func newSection(name string) *Section {
	return &Section{Name: name, values: make(map[string]ValueList)}
}

// Keys returns the section's keys in first-assignment order.
func (s *Section) Keys() []string {
	return s.keys
}

// Values returns the value list for key and whether the key was assigned.
func (s *Section) Values(key string) (ValueList, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *Section) ensureKey(key string) {
	if _, ok := s.values[key]; ok {
		return
	}
	s.keys = append(s.keys, key)
	s.values[key] = ValueList{}
}

func (s *Section) appendValue(key, raw string) {
	s.values[key] = append(s.values[key], raw)
}

// Document is the result of parsing the sectioned format. Sections keep the
// order in which they first appeared.
type Document struct {
	names    []string
	sections map[string]*Section
}

// New returns an empty Document.
func New() *Document {
	return &Document{sections: make(map[string]*Section)}
}

// Sections returns section names in first-occurrence order.
func (d *Document) Sections() []string {
	return d.names
}

// Section looks up a section by its lowercased name.
func (d *Document) Section(name string) (*Section, bool) {
	s, ok := d.sections[name]
	return s, ok
}

// Len returns the number of sections.
func (d *Document) Len() int {
	return len(d.names)
}

// open returns the section called name, creating it on first use.
func (d *Document) open(name string) *Section {
	if s, ok := d.sections[name]; ok {
		return s
	}
	s := newSection(name)
	d.names = append(d.names, name)
	d.sections[name] = s
	return s
}

// Builder is the sink driven by the sectioned-format scanner. Names and keys
// arrive already lowercased.
//
// A key is opened by SetKey, filled by zero or more AppendValue calls and
// closed by EndValue. Reopening a section or a key continues where the
// previous occurrence stopped. Keys set before any OpenSection belong to the
// section named "".
type Builder interface {
	BeginDocument()
	OpenSection(name string)
	SetKey(key string)
	AppendValue(raw string)
	EndValue()
	EndDocument()
}

// DocumentBuilder materializes a Document in memory.
type DocumentBuilder struct {
	doc     *Document
	section *Section
	key     string
}

// NewBuilder returns a builder producing a fresh Document.
func NewBuilder() *DocumentBuilder {
	return NewBuilderInto(New())
}

// NewBuilderInto returns a builder that merges into doc.
func NewBuilderInto(doc *Document) *DocumentBuilder {
	return &DocumentBuilder{doc: doc}
}

func (b *DocumentBuilder) BeginDocument() {
	b.section = nil
}

func (b *DocumentBuilder) OpenSection(name string) {
	b.section = b.doc.open(name)
}

// SetKey opens key in the current section. Keys that precede the first
// header land in the section with the empty name.
func (b *DocumentBuilder) SetKey(key string) {
	if b.section == nil {
		b.section = b.doc.open("")
	}
	b.key = key
	b.section.ensureKey(key)
}

func (b *DocumentBuilder) AppendValue(raw string) {
	b.section.appendValue(b.key, raw)
}

func (b *DocumentBuilder) EndValue() {}

func (b *DocumentBuilder) EndDocument() {
	b.section = nil
}

// Document returns the document being built.
func (b *DocumentBuilder) Document() *Document {
	return b.doc
}
