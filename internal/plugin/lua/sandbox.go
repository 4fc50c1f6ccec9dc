package lua

import (
	"io"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// dangerousGlobals load code from files or strings and would bypass the
// module whitelist.
var dangerousGlobals = []string{"dofile", "loadfile", "load", "loadstring", "module"}

// builtinModules can be required by name and resolve to their global table.
var builtinModules = map[string]bool{
	"string": true,
	"table":  true,
	"math":   true,
}

// Sandbox restricts what scripts can reach.
type Sandbox struct {
	L *lua.LState

	out     io.Writer
	loaders map[string]lua.LGFunction
	loaded  map[string]lua.LValue
}

// NewSandbox creates a sandbox for L that writes print output to out.
func NewSandbox(L *lua.LState, out io.Writer) *Sandbox {
	if out == nil {
		out = io.Discard
	}
	return &Sandbox{
		L:       L,
		out:     out,
		loaders: make(map[string]lua.LGFunction),
		loaded:  make(map[string]lua.LValue),
	}
}

// Install removes the dangerous globals and replaces print and require.
func (s *Sandbox) Install() {
	for _, name := range dangerousGlobals {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.L.SetGlobal("print", s.L.NewFunction(s.print))
	s.L.SetGlobal("require", s.L.NewFunction(s.require))
}

// Preload registers loader for require(name). A later Preload of the same
// name replaces the loader and forgets the cached value.
func (s *Sandbox) Preload(name string, loader lua.LGFunction) {
	s.loaders[name] = loader
	delete(s.loaded, name)
}

// Modules returns the names that require accepts besides the builtins.
func (s *Sandbox) Modules() []string {
	names := make([]string, 0, len(s.loaders))
	for name := range s.loaders {
		names = append(names, name)
	}
	return names
}

// print writes its arguments tab separated, like the stock print.
func (s *Sandbox) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	_, _ = io.WriteString(s.out, strings.Join(parts, "\t")+"\n")
	return 0
}

// require resolves builtin and preloaded modules only. Nothing is ever
// loaded from disk.
func (s *Sandbox) require(L *lua.LState) int {
	name := L.CheckString(1)

	if v, ok := s.loaded[name]; ok {
		L.Push(v)
		return 1
	}
	if builtinModules[name] {
		L.Push(L.GetGlobal(name))
		return 1
	}

	loader, ok := s.loaders[name]
	if !ok {
		L.RaiseError("module %q is not available", name)
		return 0
	}

	L.Push(L.NewFunction(loader))
	L.Push(lua.LString(name))
	L.Call(1, 1)
	v := L.Get(-1)
	if v == lua.LNil {
		v = lua.LTrue
		L.Pop(1)
		L.Push(v)
	}
	s.loaded[name] = v
	return 1
}
