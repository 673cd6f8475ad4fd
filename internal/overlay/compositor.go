// Package overlay burns commentary panels and a playback progress bar into frames.
package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/amankumarsingh77/hoopcast/internal/models"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Layout holds the drawing constants. Offsets are measured from the bottom
// edge of the frame; corners are inclusive.
type Layout struct {
	PanelMarginX      int
	PanelTopOffset    int
	PanelBottomOffset int
	// PanelOpacity is the weight of the black panel; the frame keeps 1-PanelOpacity.
	PanelOpacity  float64
	TextX         int
	TextTopOffset int
	LinePitch     int
	WrapWidth     int
	BarHeight     int
	TextColor     color.RGBA
	BarColor      color.RGBA
	ActionIcon    string
	FeedbackIcon  string
}

func DefaultLayout() Layout {
	return Layout{
		PanelMarginX:      20,
		PanelTopOffset:    150,
		PanelBottomOffset: 20,
		PanelOpacity:      0.7,
		TextX:             30,
		TextTopOffset:     120,
		LinePitch:         25,
		WrapWidth:         60,
		BarHeight:         5,
		TextColor:         color.RGBA{R: 255, G: 255, B: 255, A: 255},
		BarColor:          color.RGBA{R: 0, G: 255, B: 0, A: 255},
		ActionIcon:        "[PLAY]",
		FeedbackIcon:      "[TIP]",
	}
}

type Compositor struct {
	layout Layout
	face   font.Face
	keep   int // per-mille of the original pixel kept under the panel
}

func NewCompositor(layout Layout) *Compositor {
	keep := int(math.Round((1 - layout.PanelOpacity) * 1000))
	if keep < 0 {
		keep = 0
	}
	if keep > 1000 {
		keep = 1000
	}
	return &Compositor{
		layout: layout,
		face:   basicfont.Face7x13,
		keep:   keep,
	}
}

// Lines returns the text rows drawn for an event, wrapped.
func (c *Compositor) Lines(ev *models.CommentaryEvent) []string {
	var lines []string
	lines = append(lines, WrapText(c.layout.ActionIcon+" "+ev.Action, c.layout.WrapWidth)...)
	lines = append(lines, WrapText(c.layout.FeedbackIcon+" "+ev.Feedback, c.layout.WrapWidth)...)
	return lines
}

// Render returns a new frame with the overlay applied. frame is not modified.
func (c *Compositor) Render(frame *image.RGBA, active *models.CommentaryEvent, fraction float64) *image.RGBA {
	dst := image.NewRGBA(frame.Bounds())
	c.RenderTo(dst, frame, active, fraction)
	return dst
}

// RenderTo writes the composited frame into dst, which must have the bounds of src.
func (c *Compositor) RenderTo(dst, src *image.RGBA, active *models.CommentaryEvent, fraction float64) {
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	b := dst.Bounds()
	width, height := b.Dx(), b.Dy()

	if active != nil {
		panel := image.Rectangle{
			Min: image.Pt(b.Min.X+c.layout.PanelMarginX, b.Min.Y+height-c.layout.PanelTopOffset),
			Max: image.Pt(b.Min.X+width-c.layout.PanelMarginX+1, b.Min.Y+height-c.layout.PanelBottomOffset+1),
		}.Intersect(b)
		c.darken(dst, panel)

		d := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(c.layout.TextColor),
			Face: c.face,
		}
		y := b.Min.Y + height - c.layout.TextTopOffset
		for _, line := range c.Lines(active) {
			d.Dot = fixed.P(b.Min.X+c.layout.TextX, y)
			d.DrawString(line)
			y += c.layout.LinePitch
		}
	}

	if fraction < 0 || math.IsNaN(fraction) {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	barWidth := int(math.Floor(fraction * float64(width)))
	bar := image.Rect(b.Min.X, b.Min.Y, b.Min.X+barWidth+1, b.Min.Y+c.layout.BarHeight+1).Intersect(b)
	draw.Draw(dst, bar, image.NewUniform(c.layout.BarColor), image.Point{}, draw.Src)
}

// darken blends black over r at the panel opacity, rounding to nearest.
func (c *Compositor) darken(img *image.RGBA, r image.Rectangle) {
	if r.Empty() {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := img.Pix[img.PixOffset(r.Min.X, y):img.PixOffset(r.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			row[i] = uint8((int(row[i])*c.keep + 500) / 1000)
			row[i+1] = uint8((int(row[i+1])*c.keep + 500) / 1000)
			row[i+2] = uint8((int(row[i+2])*c.keep + 500) / 1000)
		}
	}
}
