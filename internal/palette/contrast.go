package palette

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ContrastOptions tunes EnsureContrast. The defaults were picked by eye; none
// of the numbers is load-bearing beyond "the text stays readable".
type ContrastOptions struct {
	// MinRatio is the minimum WCAG contrast ratio against the foreground.
	MinRatio float64
	// MinBrightnessGap is the minimum perceived-brightness difference.
	MinBrightnessGap float64
	// Step is the HSL lightness increment tried in each direction.
	Step float64
}

// DefaultContrastOptions returns the stock tuning.
func DefaultContrastOptions() ContrastOptions {
	return ContrastOptions{
		MinRatio:         4.5,
		MinBrightnessGap: 100,
		Step:             0.02,
	}
}

// EnsureContrast returns a background colour legible behind fg.
//
// A bg that already meets both the ratio and the brightness gap comes back
// unchanged. Otherwise lightness is walked up and down in lock-step, keeping
// hue and saturation, and the first candidate that meets both thresholds
// (without dropping below bg's own ratio) wins; if both directions succeed
// at the same distance the higher-contrast one is taken. When no lightness
// works, bg is returned as is.
//
// Candidates are judged after rounding to 8-bit channels, so the result is
// always a fixed point: EnsureContrast(EnsureContrast(c)) == EnsureContrast(c).
func EnsureContrast(bg, fg Color, opts ContrastOptions) Color {
	base := ContrastRatio(bg, fg)
	if meets(bg, fg, base, opts) {
		return bg
	}

	step := opts.Step
	if step <= 0 {
		step = DefaultContrastOptions().Step
	}

	h, s, l := bg.colorful().Hsl()
	upDone, downDone := l >= 1, l <= 0

	for k := 1; !(upDone && downDone); k++ {
		d := step * float64(k)

		var best Color
		bestRatio := math.Inf(-1)

		try := func(light float64) {
			c := fromColorful(colorful.Hsl(h, s, light))
			r := ContrastRatio(c, fg)
			if r >= base && meets(c, fg, r, opts) && r > bestRatio {
				best, bestRatio = c, r
			}
		}

		if !upDone {
			light := l + d
			if light >= 1 {
				light, upDone = 1, true
			}
			try(light)
		}
		if !downDone {
			light := l - d
			if light <= 0 {
				light, downDone = 0, true
			}
			try(light)
		}

		if !math.IsInf(bestRatio, -1) {
			return best
		}
	}

	return bg
}

func meets(c, fg Color, ratio float64, opts ContrastOptions) bool {
	return ratio >= opts.MinRatio && math.Abs(c.Brightness()-fg.Brightness()) >= opts.MinBrightnessGap
}
