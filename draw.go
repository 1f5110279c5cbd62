package circularprogress

import (
	"fmt"
	"math"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// SetBounds tells the bar the pixel size of the region it draws into.
// The ring is centered in the region with the stroke kept fully inside
// it. Negative dimensions are treated as zero; with zero bounds, Draw
// falls back to the size of the context it draws into.
func (b *Bar) SetBounds(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b.mu.Lock()
	b.width, b.height = width, height
	b.mu.Unlock()
}

// Draw renders the bar into dc: the background track ring, the progress
// arc swept clockwise from 12 o'clock by progress/max of a full turn,
// and the percentage label in the center. Surfaces call Draw on their
// render goroutine when producing a frame; Draw never mutates progress
// state.
func (b *Bar) Draw(dc *gg.Context) {
	if dc == nil {
		return
	}

	b.mu.Lock()
	st := b.style
	w, h := b.width, b.height
	if w == 0 && h == 0 {
		w, h = dc.Width(), dc.Height()
	}
	cx := float64(w) / 2
	cy := float64(h) / 2
	r := math.Min(cx, cy) - st.StrokeWidth/2
	frac := b.fraction()
	shown := frac
	if b.anim != nil {
		shown = b.anim.step(frac)
	}
	label := fmt.Sprintf("%d%%", int(math.Round(100*frac)))
	face := b.labelFace()
	b.mu.Unlock()

	if r <= 0 {
		return
	}

	dc.SetLineWidth(st.StrokeWidth)
	dc.SetLineCap(st.LineCap)

	dc.SetColor(st.BackgroundColor.Color())
	dc.DrawCircle(cx, cy, r)
	if err := dc.Stroke(); err != nil {
		Logger().Warn("circularprogress: track stroke failed", "error", err)
	}

	if shown > 0 {
		// Spring overshoot can push the displayed fraction past 1.
		sweep := 2 * math.Pi * math.Min(shown, 1)
		start := -math.Pi / 2
		dc.SetColor(st.Color.Color())
		dc.DrawArc(cx, cy, r, start, start+sweep)
		if err := dc.Stroke(); err != nil {
			Logger().Warn("circularprogress: arc stroke failed", "error", err)
		}
	}

	if face != nil {
		dc.SetFont(face)
		dc.SetColor(st.TextColor.Color())
		dc.DrawStringAnchored(label, cx, cy, 0.5, 0.5)
	}
}

// labelFace resolves the face for the percentage label: an explicit
// WithFont face wins, otherwise a face is built from the embedded Go
// Regular font at the configured text size and cached until the size
// changes. Returns nil when the label is disabled or no font is
// available. Callers hold b.mu.
func (b *Bar) labelFace() text.Face {
	if !b.style.ShowLabel {
		return nil
	}
	if b.style.Font != nil {
		return b.style.Font
	}
	if b.face != nil && b.faceSize == b.style.TextSize {
		return b.face
	}
	source, err := fallbackFontSource()
	if err != nil {
		return nil
	}
	b.face = source.Face(b.style.TextSize)
	b.faceSize = b.style.TextSize
	return b.face
}

// fallbackFontSource lazily parses the embedded Go Regular font. The
// source is heavyweight and shared by every bar in the process.
var fallbackFontSource = sync.OnceValues(func() (*text.FontSource, error) {
	source, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		Logger().Warn("circularprogress: fallback label font unavailable", "error", err)
		return nil, err
	}
	return source, nil
})
