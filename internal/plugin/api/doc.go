// Package api exposes a session to Lua scripts.
//
// Scripts reach the session through the "sm" namespace:
//
//   - sm.tags: list, next, position, color, favorite
//   - sm.cues: list, types, filter, renumber, hide
//   - sm.notes: list, dismiss, capture, go
//   - sm.doc: text, notepad, words, goals
//   - sm.ui: notify
//
// Each submodule can also be required on its own:
//
//	local sm = require("sm")
//	for _, t in ipairs(sm.tags.list()) do
//	  print(t.tag, t.count)
//	end
//	local cues = require("sm.cues")
//	cues.renumber()
//
// Errors from session actions are raised as Lua errors.
package api
