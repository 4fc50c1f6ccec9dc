package api

import (
	lua "github.com/yuin/gopher-lua"

	smlua "github.com/dshills/scriptmarks/internal/plugin/lua"
)

type noteInfo struct {
	Key       string `lua:"key"`
	Kind      string `lua:"kind"`
	Content   string `lua:"content"`
	Pos       int    `lua:"pos"`
	Dismissed bool   `lua:"dismissed"`
}

// NotesModule implements sm.notes.
type NotesModule struct {
	s Session
}

// NewNotesModule creates the notes module.
func NewNotesModule(s Session) *NotesModule {
	return &NotesModule{s: s}
}

// Name returns the module name.
func (m *NotesModule) Name() string {
	return "notes"
}

// Table builds the module table.
func (m *NotesModule) Table(L *lua.LState) *lua.LTable {
	return funcs(L, map[string]lua.LGFunction{
		"list":    m.list,
		"dismiss": m.dismiss,
		"capture": m.capture,
		"go":      m.goTo,
	})
}

// list() -> visible entries; pos is -1 for notepad entries.
func (m *NotesModule) list(L *lua.LState) int {
	vm := m.s.Render()
	out := make([]noteInfo, len(vm.Notes))
	for i, n := range vm.Notes {
		out[i] = noteInfo{
			Key:       n.Key,
			Kind:      string(n.Kind),
			Content:   n.Content,
			Pos:       n.Pos,
			Dismissed: n.Dismissed,
		}
	}
	L.Push(smlua.NewBridge(L).ToLuaValue(out))
	return 1
}

// dismiss(key) -> dismissed state after the toggle
func (m *NotesModule) dismiss(L *lua.LState) int {
	L.Push(lua.LBool(m.s.ToggleDismissed(L.CheckString(1))))
	return 1
}

// capture(text) appends an idea to the notepad.
func (m *NotesModule) capture(L *lua.LState) int {
	raise(L, m.s.Capture(L.CheckString(1)))
	return 0
}

// go(key) -> scrolled
func (m *NotesModule) goTo(L *lua.LState) int {
	L.Push(lua.LBool(m.s.GoToEntry(L.CheckString(1))))
	return 1
}
