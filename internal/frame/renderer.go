// Package frame draws the watch face into a 1-bit frame buffer and pushes
// it to a panel.
package frame

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/hammamikhairi/wristtimer/internal/domain"
	"github.com/hammamikhairi/wristtimer/internal/logger"
)

// Compile-time interface check.
var _ domain.Display = (*Renderer)(nil)

// Sink receives finished frames. *ssd1306.Dev satisfies it.
type Sink interface {
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
}

// face is the only font; the panels are too small for anything fancier.
var face = basicfont.Face7x13

// glyphWidth is the advance of one basicfont glyph.
const glyphWidth = 7

// Renderer keeps the face state and redraws the whole frame on every
// change.
type Renderer struct {
	layout Layout
	sink   Sink
	log    *logger.Logger

	mu        sync.Mutex
	title     string
	countdown string
	clock     string
	unit      domain.Unit
	markerOn  bool
	img       *image1bit.VerticalLSB
}

// NewRenderer creates a renderer for layout that pushes frames to sink.
func NewRenderer(layout Layout, sink Sink, log *logger.Logger) *Renderer {
	return &Renderer{
		layout: layout,
		sink:   sink,
		log:    log,
		img:    image1bit.NewVerticalLSB(layout.Bounds()),
	}
}

// SetTitle implements domain.Display.
func (r *Renderer) SetTitle(text string) {
	r.update(func() { r.title = text })
}

// SetCountdown implements domain.Display.
func (r *Renderer) SetCountdown(text string) {
	r.update(func() { r.countdown = text })
}

// SetClock implements domain.Display.
func (r *Renderer) SetClock(text string) {
	r.update(func() { r.clock = text })
}

// SetMarker implements domain.Display.
func (r *Renderer) SetMarker(unit domain.Unit, visible bool) {
	r.update(func() { r.unit, r.markerOn = unit, visible })
}

// Frame returns a copy of the last drawn frame.
func (r *Renderer) Frame() *image1bit.VerticalLSB {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := image1bit.NewVerticalLSB(r.img.Bounds())
	copy(out.Pix, r.img.Pix)
	return out
}

func (r *Renderer) update(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fn()
	r.draw()
	if err := r.sink.Draw(r.img.Bounds(), r.img, image.Point{}); err != nil {
		r.log.Error("frame: pushing to %s panel: %v", r.layout.Name, err)
	}
}

func (r *Renderer) draw() {
	l := r.layout
	b := r.img.Bounds()
	draw.Draw(r.img, b, &image.Uniform{C: image1bit.Off}, image.Point{}, draw.Src)

	drawCentered(r.img, r.title, l.TitleBaseline)
	if r.countdown != "" {
		r.drawCountdown()
	}
	if r.markerOn {
		fill(r.img, MarkerRect(l, r.countdown, r.unit))
	}
	drawCentered(r.img, r.clock, l.ClockBaseline)
}

// drawCountdown renders the countdown at native size and scales it up.
func (r *Renderer) drawCountdown() {
	l := r.layout
	w := font.MeasureString(face, r.countdown).Ceil()
	h := face.Height

	small := image.NewGray(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(r.countdown)

	dst := countdownRect(l, w)
	xdraw.NearestNeighbor.Scale(r.img, dst, small, small.Bounds(), xdraw.Src, nil)
}

// countdownRect is where a countdown of native width w lands.
func countdownRect(l Layout, w int) image.Rectangle {
	sw := w * l.Scale
	x := (l.Size.X - sw) / 2
	return image.Rect(x, l.CountdownTop, x+sw, l.CountdownTop+face.Height*l.Scale)
}

// MarkerRect returns the bar under the selected field of an "HH:MM:SS"
// countdown.
func MarkerRect(l Layout, countdown string, unit domain.Unit) image.Rectangle {
	w := font.MeasureString(face, countdown).Ceil()
	origin := countdownRect(l, w).Min.X

	pair := 2 * glyphWidth * l.Scale
	x := origin + int(unit)*3*glyphWidth*l.Scale
	return image.Rect(x, l.MarkerTop, x+pair, l.MarkerTop+l.MarkerHeight)
}

func drawCentered(img draw.Image, s string, baseline int) {
	if s == "" {
		return
	}
	w := font.MeasureString(face, s).Ceil()
	x := (img.Bounds().Dx() - w) / 2
	if x < 0 {
		x = 0
	}
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(image1bit.On),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(s)
}

func fill(img *image1bit.VerticalLSB, rect image.Rectangle) {
	rect = rect.Intersect(img.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetBit(x, y, image1bit.On)
		}
	}
}
