package loader

import (
	"errors"
	"fmt"
	"io/fs"
)

// SyntaxError is a configuration file that exists but cannot be decoded.
type SyntaxError struct {
	File   string
	Format string // "toml" or "yaml"
	Line   int    // 0 when the decoder gives no position
	Column int
	Err    error
}

func (e *SyntaxError) Error() string {
	where := e.File
	if e.Line > 0 {
		where = fmt.Sprintf("%s:%d", where, e.Line)
		if e.Column > 0 {
			where = fmt.Sprintf("%s:%d", where, e.Column)
		}
	}
	return fmt.Sprintf("%s: invalid %s: %v", where, e.Format, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// readConfig reads path. found is false, with no error, when the file does
// not exist.
func readConfig(fsys FileSystem, path string) (data []byte, found bool, err error) {
	data, err = fsys.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("reading config %s: %w", path, err)
	}
	return data, true, nil
}
