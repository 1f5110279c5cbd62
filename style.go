package circularprogress

import (
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
)

// Style holds the visual configuration of a Bar. It is set through
// options at construction and read back with [Bar.Style].
type Style struct {
	// MaxProgress is the upper bound of the progress range. The lower
	// bound is always 0.
	MaxProgress int

	// StrokeWidth is the width of the track ring and the progress arc.
	StrokeWidth float64

	// Color paints the progress arc.
	Color gg.RGBA

	// BackgroundColor paints the track ring under the arc.
	BackgroundColor gg.RGBA

	// TextSize is the size of the percentage label.
	TextSize float64

	// TextColor paints the percentage label.
	TextColor gg.RGBA

	// LineCap shapes the ends of the progress arc.
	LineCap gg.LineCap

	// Font is the label face. When nil, an embedded fallback font is
	// used at TextSize.
	Font text.Face

	// ShowLabel controls whether the percentage label is drawn.
	ShowLabel bool
}

// defaultStyle returns the style applied by New before options run.
func defaultStyle() Style {
	return Style{
		MaxProgress:     100,
		StrokeWidth:     8,
		Color:           gg.Hex("#4285F4"),
		BackgroundColor: gg.Hex("#E8EAED"),
		TextSize:        32,
		TextColor:       gg.Hex("#3C4043"),
		LineCap:         gg.LineCapRound,
		ShowLabel:       true,
	}
}

// Animation defaults used when WithAnimation receives non-positive
// parameters.
const (
	defaultAnimationFPS       = 60
	defaultAnimationFrequency = 6.0
	defaultAnimationDamping   = 0.8
)

// Option configures a Bar during creation.
//
// Example:
//
//	bar := circularprogress.New(
//	    circularprogress.WithMaxProgress(200),
//	    circularprogress.WithHexColor("#34A853"),
//	    circularprogress.WithAnimation(60, 6.0, 0.8),
//	)
type Option func(*config)

// config holds all construction-time configuration for a Bar.
type config struct {
	style    Style
	initial  int
	animated bool
	animFPS  int
	animFreq float64
	animDamp float64
}

// defaultConfig returns the default bar configuration.
func defaultConfig() config {
	return config{style: defaultStyle()}
}

// WithMaxProgress sets the upper bound of the progress range.
// Values below 1 are ignored and the default of 100 is kept.
func WithMaxProgress(max int) Option {
	return func(c *config) {
		if max < 1 {
			return
		}
		c.style.MaxProgress = max
	}
}

// WithInitialProgress sets the progress value the bar starts with.
// The value is clamped to the progress range.
func WithInitialProgress(v int) Option {
	return func(c *config) {
		c.initial = v
	}
}

// WithStrokeWidth sets the width of the ring and arc strokes.
// Non-positive widths are ignored.
func WithStrokeWidth(w float64) Option {
	return func(c *config) {
		if w <= 0 {
			return
		}
		c.style.StrokeWidth = w
	}
}

// WithColor sets the progress arc color.
func WithColor(col gg.RGBA) Option {
	return func(c *config) {
		c.style.Color = col
	}
}

// WithHexColor sets the progress arc color from a hex string.
// Supports the formats gg.Hex accepts: "RGB", "RGBA", "RRGGBB", "RRGGBBAA".
func WithHexColor(hex string) Option {
	return func(c *config) {
		c.style.Color = gg.Hex(hex)
	}
}

// WithBackgroundColor sets the track ring color.
func WithBackgroundColor(col gg.RGBA) Option {
	return func(c *config) {
		c.style.BackgroundColor = col
	}
}

// WithHexBackgroundColor sets the track ring color from a hex string.
func WithHexBackgroundColor(hex string) Option {
	return func(c *config) {
		c.style.BackgroundColor = gg.Hex(hex)
	}
}

// WithTextSize sets the size of the percentage label.
// Non-positive sizes are ignored.
func WithTextSize(size float64) Option {
	return func(c *config) {
		if size <= 0 {
			return
		}
		c.style.TextSize = size
	}
}

// WithTextColor sets the percentage label color.
func WithTextColor(col gg.RGBA) Option {
	return func(c *config) {
		c.style.TextColor = col
	}
}

// WithLineCap shapes the ends of the progress arc. The default is
// gg.LineCapRound.
func WithLineCap(lineCap gg.LineCap) Option {
	return func(c *config) {
		c.style.LineCap = lineCap
	}
}

// WithFont sets the label face. The face's size wins over WithTextSize.
// A nil face keeps the embedded fallback font.
func WithFont(face text.Face) Option {
	return func(c *config) {
		c.style.Font = face
	}
}

// WithoutLabel disables the percentage label.
func WithoutLabel() Option {
	return func(c *config) {
		c.style.ShowLabel = false
	}
}

// WithAnimation makes the displayed sweep ease toward the target with a
// damped spring stepped once per rendered frame. fps is the frame rate
// the spring is tuned for, frequency the angular frequency, damping the
// damping ratio (1.0 settles without overshoot). Non-positive parameters
// fall back to 60 fps, frequency 6.0, damping 0.8.
func WithAnimation(fps int, frequency, damping float64) Option {
	return func(c *config) {
		if fps <= 0 {
			fps = defaultAnimationFPS
		}
		if frequency <= 0 {
			frequency = defaultAnimationFrequency
		}
		if damping <= 0 {
			damping = defaultAnimationDamping
		}
		c.animated = true
		c.animFPS = fps
		c.animFreq = frequency
		c.animDamp = damping
	}
}
