package api

import (
	lua "github.com/yuin/gopher-lua"

	smlua "github.com/dshills/scriptmarks/internal/plugin/lua"
)

type cueInfo struct {
	Type   string `lua:"type"`
	Number string `lua:"number"`
	Name   string `lua:"name"`
	Scene  string `lua:"scene"`
	Color  string `lua:"color"`
	Pos    int    `lua:"pos"`
	Hidden bool   `lua:"hidden"`
}

// CuesModule implements sm.cues.
type CuesModule struct {
	s Session
}

// NewCuesModule creates the cues module.
func NewCuesModule(s Session) *CuesModule {
	return &CuesModule{s: s}
}

// Name returns the module name.
func (m *CuesModule) Name() string {
	return "cues"
}

// Table builds the module table.
func (m *CuesModule) Table(L *lua.LState) *lua.LTable {
	return funcs(L, map[string]lua.LGFunction{
		"list":     m.list,
		"types":    m.types,
		"filter":   m.filter,
		"renumber": m.renumber,
		"hide":     m.hide,
	})
}

// list() -> cues passing the current filter
func (m *CuesModule) list(L *lua.LState) int {
	vm := m.s.Render()
	out := make([]cueInfo, len(vm.Cues))
	for i, c := range vm.Cues {
		out[i] = cueInfo(c)
	}
	L.Push(smlua.NewBridge(L).ToLuaValue(out))
	return 1
}

// types() -> {TYPE = count, ...}
func (m *CuesModule) types(L *lua.LState) int {
	t := L.NewTable()
	for _, tc := range m.s.Render().CueCounts {
		t.RawSetString(tc.Type, lua.LNumber(tc.Count))
	}
	L.Push(t)
	return 1
}

// filter(type?) -> current filter; sets it when an argument is given.
func (m *CuesModule) filter(L *lua.LState) int {
	if L.GetTop() >= 1 {
		m.s.SetCueFilter(L.CheckString(1))
	}
	L.Push(lua.LString(m.s.CueFilter()))
	return 1
}

// renumber() -> number of cues rewritten
func (m *CuesModule) renumber(L *lua.LState) int {
	n, err := m.s.RenumberCues()
	raise(L, err)
	L.Push(lua.LNumber(n))
	return 1
}

// hide(type, on?) wraps or unwraps every cue of type.
func (m *CuesModule) hide(L *lua.LState) int {
	raise(L, m.s.SetCueHidden(L.CheckString(1), L.OptBool(2, true)))
	return 0
}
