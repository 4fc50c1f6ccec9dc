package loader

import (
	"errors"

	"github.com/pelletier/go-toml/v2"
)

// TOMLLoader loads configuration from TOML files.
type TOMLLoader struct {
	fs FileSystem
}

// NewTOMLLoader creates a TOML loader reading from the OS.
func NewTOMLLoader() *TOMLLoader {
	return &TOMLLoader{fs: DefaultFS()}
}

// NewTOMLLoaderWithFS creates a TOML loader with a custom file system.
func NewTOMLLoaderWithFS(fs FileSystem) *TOMLLoader {
	return &TOMLLoader{fs: fs}
}

// LoadFrom reads configuration from path.
func (l *TOMLLoader) LoadFrom(path string) (map[string]any, error) {
	data, found, err := readConfig(l.fs, path)
	if !found || err != nil {
		return nil, err
	}
	return ParseTOML(path, data)
}

// ParseTOML decodes TOML data. Decode failures carry the line and column
// go-toml reports.
func ParseTOML(file string, data []byte) (map[string]any, error) {
	var config map[string]any
	if err := toml.Unmarshal(data, &config); err != nil {
		se := &SyntaxError{File: file, Format: "toml", Err: err}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			se.Line, se.Column = de.Position()
		}
		return nil, se
	}
	if config == nil {
		config = make(map[string]any)
	}
	return config, nil
}
