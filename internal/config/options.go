package config

import (
	"github.com/dshills/scriptmarks/internal/palette"
	"github.com/dshills/scriptmarks/internal/tags"
)

// ContrastOptions returns the contrast section as palette options.
func (c *Config) ContrastOptions() palette.ContrastOptions {
	return palette.ContrastOptions{
		MinRatio:         c.Contrast.MinRatio,
		MinBrightnessGap: c.Contrast.MinBrightnessGap,
		Step:             c.Contrast.Step,
	}
}

// NavigatorOptions returns the flash settings.
func (c *Config) NavigatorOptions() tags.NavigatorOptions {
	return tags.NavigatorOptions{
		FlashCycles:   c.Tags.FlashCycles,
		FlashInterval: c.Tags.FlashInterval.Std(),
	}
}

// Foreground returns the text colour of the dark or light theme.
func (c *Config) Foreground(dark bool) palette.Color {
	hex := c.Theme.LightForeground
	if dark {
		hex = c.Theme.DarkForeground
	}
	col, err := palette.ParseHex(hex)
	if err != nil {
		if dark {
			return palette.White
		}
		return palette.Black
	}
	return col
}

// Fallback returns the colour of tags without a preference.
func (c *Config) Fallback() palette.Color {
	col, err := palette.ParseHex(c.Tags.FallbackColor)
	if err != nil {
		return palette.DefaultFallback
	}
	return col
}
