package api

import (
	lua "github.com/yuin/gopher-lua"
)

// UIModule implements sm.ui.
type UIModule struct {
	s Session
}

// NewUIModule creates the UI module.
func NewUIModule(s Session) *UIModule {
	return &UIModule{s: s}
}

// Name returns the module name.
func (m *UIModule) Name() string {
	return "ui"
}

// Table builds the module table.
func (m *UIModule) Table(L *lua.LState) *lua.LTable {
	return funcs(L, map[string]lua.LGFunction{
		"notify": m.notify,
	})
}

// notify(message) or notify(title, message) shows a notice.
func (m *UIModule) notify(L *lua.LState) int {
	title, message := "scriptmarks", L.CheckString(1)
	if L.GetTop() >= 2 {
		title, message = message, L.CheckString(2)
	}
	if message == "" {
		L.ArgError(L.GetTop(), "message cannot be empty")
		return 0
	}
	m.s.Host().Notify(title, message)
	return 0
}
