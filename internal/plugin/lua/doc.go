// Package lua runs user scripts in a sandboxed gopher-lua state.
//
// A State opens only the base, table, string and math libraries. The io,
// os, debug and package loaders are never available, dofile/loadfile/load
// are removed, and require only resolves modules preloaded by the host
// under the "sm" namespace:
//
//	state := lua.NewState(lua.WithTimeout(2 * time.Second))
//	defer state.Close()
//	state.Preload("sm", loader)
//	err := state.DoFile(ctx, "mark-acts.lua")
//
// The Bridge converts between Go values and Lua values for the modules that
// expose session data to scripts.
package lua
