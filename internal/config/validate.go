package config

import (
	"sort"

	"github.com/dshills/scriptmarks/internal/logging"
	"github.com/dshills/scriptmarks/internal/palette"
	"github.com/dshills/scriptmarks/internal/style"
)

// Validate checks every setting and returns a *ValidationError listing the
// invalid ones, or nil.
func (c *Config) Validate() error {
	var errs []*FieldError
	add := func(path, msg string, v any, code ValidationErrorCode) {
		errs = append(errs, &FieldError{Path: path, Message: msg, Value: v, Code: code})
	}

	if c.Debounce.Rescan <= 0 {
		add("debounce.rescan", "must be positive", c.Debounce.Rescan.Std(), ErrCodeOutOfRange)
	}

	if c.Contrast.MinRatio < 1 || c.Contrast.MinRatio > 21 {
		add("contrast.minRatio", "must be between 1 and 21", c.Contrast.MinRatio, ErrCodeOutOfRange)
	}
	if c.Contrast.MinBrightnessGap < 0 || c.Contrast.MinBrightnessGap > 255 {
		add("contrast.minBrightnessGap", "must be between 0 and 255", c.Contrast.MinBrightnessGap, ErrCodeOutOfRange)
	}
	if c.Contrast.Step <= 0 || c.Contrast.Step > 1 {
		add("contrast.step", "must be in (0, 1]", c.Contrast.Step, ErrCodeOutOfRange)
	}

	for path, v := range map[string]string{
		"theme.darkForeground":  c.Theme.DarkForeground,
		"theme.lightForeground": c.Theme.LightForeground,
		"tags.fallbackColor":    c.Tags.FallbackColor,
	} {
		if !palette.IsHex(v) {
			add(path, "must be a hex colour", v, ErrCodePatternMismatch)
		}
	}

	if c.Tags.FlashCycles < 0 {
		add("tags.flashCycles", "must not be negative", c.Tags.FlashCycles, ErrCodeOutOfRange)
	}
	if c.Tags.FlashInterval <= 0 {
		add("tags.flashInterval", "must be positive", c.Tags.FlashInterval.Std(), ErrCodeOutOfRange)
	}

	if c.Cues.Filter == "" {
		add("cues.filter", "must not be empty", c.Cues.Filter, ErrCodeOutOfRange)
	}

	if c.Goals.DailyGoal < 0 {
		add("goals.dailyGoal", "must not be negative", c.Goals.DailyGoal, ErrCodeOutOfRange)
	}
	if c.Goals.ProjectGoal < 0 {
		add("goals.projectGoal", "must not be negative", c.Goals.ProjectGoal, ErrCodeOutOfRange)
	}

	for _, name := range c.Style.Categories {
		if _, ok := style.ParseCategory(name); !ok {
			add("style.categories", "unknown category", name, ErrCodeInvalidEnum)
		}
	}

	if c.Scripts.Timeout <= 0 {
		add("scripts.timeout", "must be positive", c.Scripts.Timeout.Std(), ErrCodeOutOfRange)
	}

	if !logging.ValidLevel(c.Logging.Level) {
		add("logging.level", "must be debug, info, warn or error", c.Logging.Level, ErrCodeInvalidEnum)
	}

	if len(errs) == 0 {
		return nil
	}
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Path < errs[j].Path })
	return &ValidationError{Fields: errs}
}
