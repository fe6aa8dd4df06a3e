// Package luahost exposes the scanners to Lua scripts through gopher-lua.
//
// The module is registered as "w3xparser":
//
//	local w3x = require "w3xparser"
//	local units = w3x.slk(io.open("UnitData.slk"):read("*a"), "UnitData.slk")
//	local ui = w3x.txt(text, "UnitFunc.txt")
//	w3x.txt(more, "UnitStrings.txt", ui) -- merge into an existing table
//	local cfg = w3x.ini(text, "config.ini")
//	local n = w3x.tonumber("0x10")
//
// Parse failures raise a Lua error of the form "\n<name>:<line>: <message>".
package luahost

import (
	lua "github.com/yuin/gopher-lua"

	"w3xparser/internal/number"
	"w3xparser/internal/parser"
)

// ModuleName is the name scripts pass to require.
const ModuleName = "w3xparser"

var exports = map[string]lua.LGFunction{
	"slk":      luaSLK,
	"txt":      luaTxt,
	"ini":      luaINI,
	"tonumber": luaToNumber,
}

// Loader is the gopher-lua module loader for the w3xparser module.
func Loader(L *lua.LState) int {
	mod := L.SetFuncs(L.NewTable(), exports)
	L.Push(mod)
	return 1
}

// Preload registers the module so scripts can require it.
func Preload(L *lua.LState) {
	L.PreloadModule(ModuleName, Loader)
}

func raise(L *lua.LState, err error) {
	L.RaiseError("\n%s", err.Error())
}

// luaSLK implements slk(text [, name]).
func luaSLK(L *lua.LState) int {
	text := L.CheckString(1)
	name := L.OptString(2, parser.DefaultName)

	g, err := parser.ParseSLKGrid([]byte(text), name)
	if err != nil {
		raise(L, err)
		return 0
	}
	L.Push(gridTable(L, g))
	return 1
}

// luaTxt implements txt(text [, name [, into]]).
func luaTxt(L *lua.LState) int {
	text := L.CheckString(1)
	name := L.OptString(2, parser.DefaultName)
	into := L.OptTable(3, nil)

	b := newTableBuilder(L, into)
	if err := parser.ParseTxt(b, []byte(text), name); err != nil {
		raise(L, err)
		return 0
	}
	L.Push(b.root)
	return 1
}

// luaINI implements ini(text [, name]).
func luaINI(L *lua.LState) int {
	text := L.CheckString(1)
	name := L.OptString(2, parser.DefaultName)

	b := &flatBuilder{root: L.NewTable()}
	if err := parser.ParseINI(b, []byte(text), name); err != nil {
		raise(L, err)
		return 0
	}
	L.Push(b.root)
	return 1
}

// luaToNumber implements tonumber(s), returning nil when s is not a numeral.
func luaToNumber(L *lua.LState) int {
	n, ok := number.Parse(L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(n.Float64()))
	return 1
}
