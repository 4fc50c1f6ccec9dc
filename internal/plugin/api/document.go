package api

import (
	lua "github.com/yuin/gopher-lua"

	smlua "github.com/dshills/scriptmarks/internal/plugin/lua"
)

type progressInfo struct {
	Daily       int  `lua:"daily"`
	DailyGoal   int  `lua:"daily_goal"`
	Project     int  `lua:"project"`
	ProjectGoal int  `lua:"project_goal"`
	Remaining   int  `lua:"remaining"`
	DaysLeft    int  `lua:"days_left"`
	HasDeadline bool `lua:"has_deadline"`
	PerDay      int  `lua:"per_day"`
}

// DocModule implements sm.doc.
type DocModule struct {
	s Session
}

// NewDocModule creates the document module.
func NewDocModule(s Session) *DocModule {
	return &DocModule{s: s}
}

// Name returns the module name.
func (m *DocModule) Name() string {
	return "doc"
}

// Table builds the module table.
func (m *DocModule) Table(L *lua.LState) *lua.LTable {
	return funcs(L, map[string]lua.LGFunction{
		"text":    m.text,
		"notepad": m.notepad,
		"words":   m.words,
		"goals":   m.goals,
	})
}

func (m *DocModule) text(L *lua.LState) int {
	L.Push(lua.LString(m.s.Host().Text()))
	return 1
}

func (m *DocModule) notepad(L *lua.LState) int {
	L.Push(lua.LString(m.s.Host().Notepad()))
	return 1
}

// words() -> progress table
func (m *DocModule) words(L *lua.LState) int {
	L.Push(smlua.NewBridge(L).ToLuaValue(progressInfo(m.s.Progress())))
	return 1
}

// goals(daily, project, deadline?) saves new goals and returns progress.
func (m *DocModule) goals(L *lua.LState) int {
	raise(L, m.s.SetGoals(L.CheckInt(1), L.CheckInt(2), L.OptString(3, "")))
	return m.words(L)
}
