// Package plugin runs user Lua scripts against a session.
//
// A script is a single .lua file. Scripts found in the configured scripts
// directory run in name order after the first scan; the -script flag runs
// one more. Every run gets a fresh sandboxed state with the sm modules
// preloaded (see package api), so scripts never share globals.
//
//	r := plugin.NewRunner(sess, plugin.Options{Timeout: cfg.Scripts.Timeout.Std()})
//	if err := r.RunFile(ctx, "number-acts.lua"); err != nil {
//	    log.Fatal(err)
//	}
package plugin
