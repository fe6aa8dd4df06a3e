package document

import (
	"reflect"
	"testing"
)

func TestBuilderMergesSectionsAndAppendsValues(t *testing.T) {
	b := NewBuilder()
	b.BeginDocument()
	b.OpenSection("foo")
	b.SetKey("a")
	b.AppendValue("1")
	b.EndValue()
	b.OpenSection("bar")
	b.OpenSection("foo")
	b.SetKey("a")
	b.AppendValue("2")
	b.EndValue()
	b.SetKey("empty")
	b.EndValue()
	b.EndDocument()

	doc := b.Document()
	if got := doc.Sections(); !reflect.DeepEqual(got, []string{"foo", "bar"}) {
		t.Fatalf("Sections() = %v, want [foo bar]", got)
	}
	foo, _ := doc.Section("foo")
	if got := foo.Keys(); !reflect.DeepEqual(got, []string{"a", "empty"}) {
		t.Errorf("Keys() = %v, want [a empty]", got)
	}
	if got, _ := foo.Values("a"); !reflect.DeepEqual(got, ValueList{"1", "2"}) {
		t.Errorf("Values(a) = %v, want [1 2]", got)
	}
	got, ok := foo.Values("empty")
	if !ok || len(got) != 0 {
		t.Errorf("Values(empty) = %v, %v; want empty present list", got, ok)
	}
}

func TestBuilderKeysBeforeFirstSection(t *testing.T) {
	b := NewBuilder()
	b.BeginDocument()
	b.SetKey("top")
	b.AppendValue("x")
	b.EndValue()
	b.OpenSection("")
	b.SetKey("more")
	b.EndValue()
	b.EndDocument()

	doc := b.Document()
	if got := doc.Sections(); !reflect.DeepEqual(got, []string{""}) {
		t.Fatalf("Sections() = %q, want [\"\"]", got)
	}
	s, _ := doc.Section("")
	if got := s.Keys(); !reflect.DeepEqual(got, []string{"top", "more"}) {
		t.Errorf("Keys() = %v, want [top more]", got)
	}
}

func TestEmptyDocumentHasNoSections(t *testing.T) {
	b := NewBuilder()
	b.BeginDocument()
	b.EndDocument()
	if n := b.Document().Len(); n != 0 {
		t.Errorf("Len() = %d, want 0", n)
	}
}

func TestBuilderIntoExistingDocument(t *testing.T) {
	doc := New()
	first := NewBuilderInto(doc)
	first.BeginDocument()
	first.OpenSection("s")
	first.SetKey("k")
	first.AppendValue("1")
	first.EndValue()
	first.EndDocument()

	second := NewBuilderInto(doc)
	second.BeginDocument()
	second.OpenSection("s")
	second.SetKey("k")
	second.AppendValue("2")
	second.EndValue()
	second.EndDocument()

	s, _ := doc.Section("s")
	if got, _ := s.Values("k"); !reflect.DeepEqual(got, ValueList{"1", "2"}) {
		t.Errorf("Values(k) = %v, want [1 2]", got)
	}
}

func TestFlatOverwriteKeepsPosition(t *testing.T) {
	f := NewFlat()
	f.SetValue("a", "1")
	f.SetValue("b", "2")
	f.SetValue("a", "3")

	if got := f.Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Keys() = %v, want [a b]", got)
	}
	if v, _ := f.Get("a"); v != "3" {
		t.Errorf("Get(a) = %q, want 3", v)
	}
}
