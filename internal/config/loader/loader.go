// Package loader reads scriptmarks configuration sources into generic maps.
//
// TOML and YAML files and SCRIPTMARKS_ environment variables each produce a
// map[string]any; the config package merges them over its defaults with
// Overlay before decoding the typed sections.
package loader

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileLoader reads configuration maps from files.
type FileLoader interface {
	// LoadFrom reads the file at path. A missing file returns nil, nil.
	LoadFrom(path string) (map[string]any, error)
}

// FileSystem is the file access the loaders need. Tests substitute an
// in-memory implementation.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the OS file system.
func DefaultFS() FileSystem {
	return OSFS{}
}

// ForPath picks a loader by file extension: ".yaml" and ".yml" use YAML,
// everything else TOML.
func ForPath(fsys FileSystem, path string) FileLoader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return NewYAMLLoaderWithFS(fsys)
	default:
		return NewTOMLLoaderWithFS(fsys)
	}
}
