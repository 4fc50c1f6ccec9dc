package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/scriptmarks/internal/config/loader"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "SCRIPTMARKS_"

// Duration is a time.Duration written as a string such as "1.5s".
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Config holds every scriptmarks setting.
type Config struct {
	Debounce DebounceConfig `toml:"debounce" yaml:"debounce"`
	Contrast ContrastConfig `toml:"contrast" yaml:"contrast"`
	Theme    ThemeConfig    `toml:"theme" yaml:"theme"`
	Tags     TagsConfig     `toml:"tags" yaml:"tags"`
	Notes    NotesConfig    `toml:"notes" yaml:"notes"`
	Cues     CuesConfig     `toml:"cues" yaml:"cues"`
	Goals    GoalsConfig    `toml:"goals" yaml:"goals"`
	Style    StyleConfig    `toml:"style" yaml:"style"`
	Scripts  ScriptsConfig  `toml:"scripts" yaml:"scripts"`
	Paths    PathsConfig    `toml:"paths" yaml:"paths"`
	Logging  LoggingConfig  `toml:"logging" yaml:"logging"`
}

// DebounceConfig controls how change notifications are coalesced.
type DebounceConfig struct {
	// Rescan is the quiet period after the last edit before a rescan.
	Rescan Duration `toml:"rescan" yaml:"rescan"`
}

// ContrastConfig tunes the highlight legibility adjustment.
type ContrastConfig struct {
	MinRatio         float64 `toml:"minRatio" yaml:"minRatio"`
	MinBrightnessGap float64 `toml:"minBrightnessGap" yaml:"minBrightnessGap"`
	Step             float64 `toml:"step" yaml:"step"`
}

// ThemeConfig holds the theme colours.
type ThemeConfig struct {
	// Dark is the theme used until the user toggles it.
	Dark            bool   `toml:"dark" yaml:"dark"`
	DarkForeground  string `toml:"darkForeground" yaml:"darkForeground"`
	LightForeground string `toml:"lightForeground" yaml:"lightForeground"`
}

// TagsConfig controls tag highlighting and navigation.
type TagsConfig struct {
	FallbackColor string   `toml:"fallbackColor" yaml:"fallbackColor"`
	FlashCycles   int      `toml:"flashCycles" yaml:"flashCycles"`
	FlashInterval Duration `toml:"flashInterval" yaml:"flashInterval"`
}

// NotesConfig controls the notes list.
type NotesConfig struct {
	HideDismissed bool `toml:"hideDismissed" yaml:"hideDismissed"`
}

// CuesConfig controls the cue manager.
type CuesConfig struct {
	// Filter is the cue type shown and exported by default; "ALL" for all.
	Filter    string `toml:"filter" yaml:"filter"`
	Highlight bool   `toml:"highlight" yaml:"highlight"`
}

// GoalsConfig holds the goals used when a document has none stored.
type GoalsConfig struct {
	DailyGoal   int `toml:"dailyGoal" yaml:"dailyGoal"`
	ProjectGoal int `toml:"projectGoal" yaml:"projectGoal"`
}

// StyleConfig selects the lint categories.
type StyleConfig struct {
	Categories []string `toml:"categories" yaml:"categories"`
}

// ScriptsConfig controls Lua scripts.
type ScriptsConfig struct {
	// Dir holds *.lua files run after the first scan; empty for none.
	Dir string `toml:"dir" yaml:"dir"`
	// Timeout bounds each script run.
	Timeout Duration `toml:"timeout" yaml:"timeout"`
}

// PathsConfig holds filesystem locations.
type PathsConfig struct {
	// DataDir holds user defaults and per-document settings.
	DataDir string `toml:"dataDir" yaml:"dataDir"`
}

// LoggingConfig controls the logger.
type LoggingConfig struct {
	// Level is the logging verbosity level ("debug", "info", "warn", "error").
	Level string `toml:"level" yaml:"level"`
	// File is the log file path (empty for stderr).
	File string `toml:"file" yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Debounce: DebounceConfig{Rescan: Duration(1500 * time.Millisecond)},
		Contrast: ContrastConfig{MinRatio: 4.5, MinBrightnessGap: 100, Step: 0.02},
		Theme: ThemeConfig{
			Dark:            true,
			DarkForeground:  "#ffffff",
			LightForeground: "#000000",
		},
		Tags: TagsConfig{
			FallbackColor: "#fefbc0",
			FlashCycles:   3,
			FlashInterval: Duration(250 * time.Millisecond),
		},
		Cues:  CuesConfig{Filter: "ALL", Highlight: true},
		Goals: GoalsConfig{DailyGoal: 0, ProjectGoal: 100},
		Style: StyleConfig{Categories: []string{
			"adverbs", "adjectives", "nouns", "verbs", "passive",
			"conjunctions", "fillers", "redundancies", "cliches",
		}},
		Scripts: ScriptsConfig{Timeout: Duration(5 * time.Second)},
		Paths:   PathsConfig{DataDir: defaultDataDir()},
		Logging: LoggingConfig{Level: "info"},
	}
}

// defaultDataDir returns the default data directory.
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "scriptmarks")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "scriptmarks")
}

// Load reads path (which may be empty) and the environment over the
// defaults and validates the result.
func Load(path string) (*Config, error) {
	return LoadWithFS(loader.DefaultFS(), path, EnvPrefix)
}

// LoadWithFS is Load with an explicit file system and env prefix.
func LoadWithFS(fsys loader.FileSystem, path, envPrefix string) (*Config, error) {
	overlay := make(map[string]any)

	if path != "" {
		if _, err := fsys.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		m, err := loader.ForPath(fsys, path).LoadFrom(path)
		if err != nil {
			return nil, err
		}
		overlay = loader.Overlay(overlay, m)
	}

	env, err := loader.NewEnvLoader(envPrefix).Load()
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}
	overlay = loader.Overlay(overlay, env)

	cfg := Default()
	if err := cfg.apply(overlay); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apply decodes a settings map onto c, leaving unset fields alone.
func (c *Config) apply(m map[string]any) error {
	if len(m) == 0 {
		return nil
	}
	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("%w: %v", ErrUnknownSetting, err)
	}
	return nil
}

// Set applies a single dotted setting, as given on the command line.
func (c *Config) Set(path string, value any) error {
	m := make(map[string]any)
	cur := m
	parts := splitPath(path)
	if len(parts) < 2 {
		return fmt.Errorf("%w: %s", ErrUnknownSetting, path)
	}
	for _, p := range parts[:len(parts)-1] {
		next := make(map[string]any)
		cur[p] = next
		cur = next
	}
	cur[parts[len(parts)-1]] = value
	return c.apply(m)
}

func splitPath(path string) []string {
	var parts []string
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '.' {
			if i > start {
				parts = append(parts, path[start:i])
			}
			start = i + 1
		}
	}
	return parts
}
