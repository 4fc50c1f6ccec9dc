package plugin

import "errors"

// Script errors.
var (
	// ErrScriptNotFound is returned when a script file does not exist.
	ErrScriptNotFound = errors.New("script not found")

	// ErrNotAScript is returned for paths that are not .lua files.
	ErrNotAScript = errors.New("not a lua script")
)
