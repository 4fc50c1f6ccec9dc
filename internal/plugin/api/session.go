package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/scriptmarks/internal/host"
	"github.com/dshills/scriptmarks/internal/session"
	"github.com/dshills/scriptmarks/internal/tags"
	"github.com/dshills/scriptmarks/internal/wordcount"
)

// Session is the part of *session.Session the modules drive.
type Session interface {
	Host() host.Host
	Render() session.ViewModel

	Navigate(tag string) tags.Outcome
	Position(tag string) (k, n int)
	SetColor(tag, hex string) error
	AddFavorite(tag string) bool
	RemoveFavorite(tag string) bool

	CueFilter() string
	SetCueFilter(typ string)
	RenumberCues() (int, error)
	SetCueHidden(typ string, hide bool) error

	ToggleDismissed(key string) bool
	GoToEntry(key string) bool
	Capture(idea string) error

	Progress() wordcount.Progress
	SetGoals(daily, project int, deadline string) error
}

var _ Session = (*session.Session)(nil)

// funcs builds a table of Go functions.
func funcs(L *lua.LState, fns map[string]lua.LGFunction) *lua.LTable {
	return L.SetFuncs(L.NewTable(), fns)
}

// raise turns a non-nil error into a Lua error.
func raise(L *lua.LState, err error) {
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
}
