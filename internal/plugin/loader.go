package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Ext is the script file extension.
const Ext = ".lua"

// ScriptInfo describes a discovered script.
type ScriptInfo struct {
	// Name is the file name without the extension.
	Name string
	Path string
}

// Discover returns the scripts directly inside dir, sorted by name. A
// missing or empty dir yields no scripts and no error. Subdirectories and
// hidden files are skipped.
func Discover(dir string) ([]ScriptInfo, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading scripts dir %s: %w", dir, err)
	}

	var out []ScriptInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != Ext {
			continue
		}
		out = append(out, ScriptInfo{
			Name: strings.TrimSuffix(name, Ext),
			Path: filepath.Join(dir, name),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// checkScript verifies that path names an existing .lua file.
func checkScript(path string) error {
	if filepath.Ext(path) != Ext {
		return fmt.Errorf("%w: %s", ErrNotAScript, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrScriptNotFound, path)
		}
		return fmt.Errorf("script %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrNotAScript, path)
	}
	return nil
}
