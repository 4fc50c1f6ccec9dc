package api

import (
	lua "github.com/yuin/gopher-lua"

	smlua "github.com/dshills/scriptmarks/internal/plugin/lua"
	"github.com/dshills/scriptmarks/internal/session"
)

// tagInfo is the table returned for each tag by sm.tags.list.
type tagInfo struct {
	Tag      string `lua:"tag"`
	Count    int    `lua:"count"`
	Color    string `lua:"color"`
	Special  bool   `lua:"special"`
	Favorite bool   `lua:"favorite"`
}

// TagsModule implements sm.tags.
type TagsModule struct {
	s Session
}

// NewTagsModule creates the tags module.
func NewTagsModule(s Session) *TagsModule {
	return &TagsModule{s: s}
}

// Name returns the module name.
func (m *TagsModule) Name() string {
	return "tags"
}

// Table builds the module table.
func (m *TagsModule) Table(L *lua.LState) *lua.LTable {
	return funcs(L, map[string]lua.LGFunction{
		"list":     m.list,
		"next":     m.next,
		"position": m.position,
		"color":    m.color,
		"favorite": m.favorite,
	})
}

// list() -> {{tag, count, color, special, favorite}, ...}
// Favorites come first, in their saved order.
func (m *TagsModule) list(L *lua.LState) int {
	vm := m.s.Render()
	out := make([]tagInfo, 0, len(vm.Favorites)+len(vm.Others))
	add := func(pills []session.Pill, fav bool) {
		for _, p := range pills {
			color := p.Background
			if p.Style == session.PillOutline {
				color = p.Border
			}
			out = append(out, tagInfo{
				Tag:      p.Tag,
				Count:    p.Count,
				Color:    color,
				Special:  p.Style == session.PillOutline,
				Favorite: fav,
			})
		}
	}
	add(vm.Favorites, true)
	add(vm.Others, false)

	L.Push(smlua.NewBridge(L).ToLuaValue(out))
	return 1
}

// next(tag) -> "jumped" | "notepad-only" | "none"
func (m *TagsModule) next(L *lua.LState) int {
	L.Push(lua.LString(m.s.Navigate(L.CheckString(1)).String()))
	return 1
}

// position(tag) -> k, n
func (m *TagsModule) position(L *lua.LState) int {
	k, n := m.s.Position(L.CheckString(1))
	L.Push(lua.LNumber(k))
	L.Push(lua.LNumber(n))
	return 2
}

// color(tag, "#rrggbb") saves the tag colour.
func (m *TagsModule) color(L *lua.LState) int {
	raise(L, m.s.SetColor(L.CheckString(1), L.CheckString(2)))
	return 0
}

// favorite(tag, on?) -> changed
func (m *TagsModule) favorite(L *lua.LState) int {
	tag := L.CheckString(1)
	var changed bool
	if L.OptBool(2, true) {
		changed = m.s.AddFavorite(tag)
	} else {
		changed = m.s.RemoveFavorite(tag)
	}
	L.Push(lua.LBool(changed))
	return 1
}
