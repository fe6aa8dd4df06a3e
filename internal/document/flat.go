package document

// Flat is the result of parsing the generic key/value format: one raw value
// per lowercased key, ordered by first assignment.
type Flat struct {
	keys   []string
	values map[string]string
}

// NewFlat returns an empty Flat table.
func NewFlat() *Flat {
	return &Flat{values: make(map[string]string)}
}

// Keys returns keys in first-assignment order.
func (f *Flat) Keys() []string { return f.keys }

// Get returns the value of key and whether it was assigned.
func (f *Flat) Get(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Len returns the number of distinct keys.
func (f *Flat) Len() int { return len(f.keys) }

// SetValue assigns value to key. A repeated key overwrites its value but
// keeps its original position.
func (f *Flat) SetValue(key, value string) {
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// FlatBuilder is the sink driven by the key/value scanner.
type FlatBuilder interface {
	BeginDocument()
	SetValue(key, value string)
	EndDocument()
}

func (f *Flat) BeginDocument() {}

func (f *Flat) EndDocument() {}
