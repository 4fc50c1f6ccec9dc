package api

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	smlua "github.com/dshills/scriptmarks/internal/plugin/lua"
)

// Namespace is the name scripts require to get every module.
const Namespace = "sm"

// Version is reported to scripts as sm.version.
const Version = "1.0.0"

// Module is one table of functions under the sm namespace.
type Module interface {
	// Name returns the module name, e.g. "tags".
	Name() string

	// Table builds the module table in L.
	Table(L *lua.LState) *lua.LTable
}

// Registry holds the modules installed into script states.
type Registry struct {
	modules map[string]Module
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]Module)}
}

// Register adds mod. Names must be unique.
func (r *Registry) Register(mod Module) error {
	if _, exists := r.modules[mod.Name()]; exists {
		return fmt.Errorf("module %q already registered", mod.Name())
	}
	r.modules[mod.Name()] = mod
	return nil
}

// Get returns a module by name.
func (r *Registry) Get(name string) (Module, bool) {
	mod, ok := r.modules[name]
	return mod, ok
}

// List returns the registered module names in order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Install preloads "sm" and every "sm.<name>" into state. The tables are
// built once per state so sm.tags and require("sm.tags") are the same.
func (r *Registry) Install(state *smlua.State) {
	tables := make(map[string]*lua.LTable, len(r.modules))
	table := func(L *lua.LState, name string) *lua.LTable {
		if t, ok := tables[name]; ok {
			return t
		}
		t := r.modules[name].Table(L)
		tables[name] = t
		return t
	}

	for _, name := range r.List() {
		name := name
		state.Preload(Namespace+"."+name, func(L *lua.LState) int {
			L.Push(table(L, name))
			return 1
		})
	}

	state.Preload(Namespace, func(L *lua.LState) int {
		sm := L.NewTable()
		for _, name := range r.List() {
			L.SetField(sm, name, table(L, name))
		}
		L.SetField(sm, "version", lua.LString(Version))
		L.Push(sm)
		return 1
	})
}

// DefaultRegistry returns a registry with every module bound to s.
func DefaultRegistry(s Session) *Registry {
	r := NewRegistry()
	for _, mod := range []Module{
		NewTagsModule(s),
		NewCuesModule(s),
		NewNotesModule(s),
		NewDocModule(s),
		NewUIModule(s),
	} {
		// Names are distinct by construction.
		_ = r.Register(mod)
	}
	return r
}
