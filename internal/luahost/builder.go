package luahost

import (
	lua "github.com/yuin/gopher-lua"

	"w3xparser/internal/document"
	"w3xparser/internal/value"
)

// tableBuilder writes a sectioned document straight into Lua tables:
// root[section][key] = {v1, v2, ...}.
type tableBuilder struct {
	L       *lua.LState
	root    *lua.LTable
	section *lua.LTable
	key     string
	list    *lua.LTable
	n       int
}

var _ document.Builder = (*tableBuilder)(nil)

func newTableBuilder(L *lua.LState, root *lua.LTable) *tableBuilder {
	if root == nil {
		root = L.NewTable()
	}
	return &tableBuilder{L: L, root: root}
}

func (b *tableBuilder) BeginDocument() {
	b.section = nil
}

// OpenSection reuses an existing table under name; any other value there is
// replaced.
func (b *tableBuilder) OpenSection(name string) {
	if t, ok := b.root.RawGetString(name).(*lua.LTable); ok {
		b.section = t
		return
	}
	b.section = b.L.NewTable()
	b.root.RawSetString(name, b.section)
}

func (b *tableBuilder) SetKey(key string) {
	if b.section == nil {
		b.OpenSection("")
	}
	b.key = key
	if t, ok := b.section.RawGetString(key).(*lua.LTable); ok {
		b.list = t
		b.n = t.Len()
		return
	}
	b.list = b.L.NewTable()
	b.n = 0
}

func (b *tableBuilder) AppendValue(raw string) {
	b.n++
	b.list.RawSetInt(b.n, lua.LString(raw))
}

func (b *tableBuilder) EndValue() {
	b.section.RawSetString(b.key, b.list)
	b.list = nil
}

func (b *tableBuilder) EndDocument() {}

// flatBuilder writes key/value pairs into a single Lua table.
type flatBuilder struct {
	root *lua.LTable
}

var _ document.FlatBuilder = (*flatBuilder)(nil)

func (b *flatBuilder) BeginDocument() {}

func (b *flatBuilder) SetValue(key, value string) {
	b.root.RawSetString(key, lua.LString(value))
}

func (b *flatBuilder) EndDocument() {}

// gridTable converts a grid into {rowLabel = {colLabel = value}} with
// classified values.
func gridTable(L *lua.LState, g *document.Grid) *lua.LTable {
	objects := g.Objects()
	root := L.CreateTable(0, len(objects))
	for _, obj := range objects {
		row := L.CreateTable(0, len(obj.Fields))
		for _, f := range obj.Fields {
			row.RawSetString(f.Name, toLua(value.Classify(f.Raw)))
		}
		root.RawSetString(obj.Label, row)
	}
	return root
}

func toLua(v value.Value) lua.LValue {
	switch v.Kind {
	case value.String:
		return lua.LString(v.Str)
	case value.Number:
		return lua.LNumber(v.Num.Float64())
	default:
		return lua.LNil
	}
}
