package loader

import (
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// yaml.v3 only reports positions inside its messages.
var yamlLineRe = regexp.MustCompile(`line (\d+)`)

// YAMLLoader loads configuration from YAML files.
type YAMLLoader struct {
	fs FileSystem
}

// NewYAMLLoader creates a YAML loader reading from the OS.
func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{fs: DefaultFS()}
}

// NewYAMLLoaderWithFS creates a YAML loader with a custom file system.
func NewYAMLLoaderWithFS(fs FileSystem) *YAMLLoader {
	return &YAMLLoader{fs: fs}
}

// LoadFrom reads configuration from path.
func (l *YAMLLoader) LoadFrom(path string) (map[string]any, error) {
	data, found, err := readConfig(l.fs, path)
	if !found || err != nil {
		return nil, err
	}
	return ParseYAML(path, data)
}

// ParseYAML parses YAML data into a map. An empty document yields an empty
// map.
func ParseYAML(file string, data []byte) (map[string]any, error) {
	var config map[string]any
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, &SyntaxError{File: file, Format: "yaml", Line: yamlLine(err), Err: err}
	}
	if config == nil {
		config = make(map[string]any)
	}
	return config, nil
}

func yamlLine(err error) int {
	m := yamlLineRe.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}
