package overlay

import (
	"image"
	"image/color"
	"testing"

	"github.com/amankumarsingh77/hoopcast/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = color.RGBA{R: 200, G: 100, B: 50, A: 255}

func solidFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, base)
		}
	}
	return img
}

func testEvent() *models.CommentaryEvent {
	return &models.CommentaryEvent{
		Action:    "Jump shot",
		Feedback:  "Keep your elbow in",
		Timestamp: 2,
		Category:  models.CategoryTechnical,
	}
}

func TestCompositor_Deterministic(t *testing.T) {
	c := NewCompositor(DefaultLayout())
	frame := solidFrame(400, 300)
	ev := testEvent()

	first := c.Render(frame, ev, 0.42)
	second := c.Render(frame, ev, 0.42)

	assert.Equal(t, first.Pix, second.Pix)
	assert.Equal(t, frame.Bounds(), first.Bounds())
	assert.Equal(t, frame.Stride, first.Stride)
}

func TestCompositor_DoesNotModifyInput(t *testing.T) {
	c := NewCompositor(DefaultLayout())
	frame := solidFrame(400, 300)
	orig := make([]uint8, len(frame.Pix))
	copy(orig, frame.Pix)

	c.Render(frame, testEvent(), 0.9)

	assert.Equal(t, orig, frame.Pix)
}

func TestCompositor_PanelBlend(t *testing.T) {
	c := NewCompositor(DefaultLayout())
	w, h := 400, 300
	out := c.Render(solidFrame(w, h), testEvent(), 0)

	dark := color.RGBA{R: 60, G: 30, B: 15, A: 255}
	// corners of the panel, far from any text
	assert.Equal(t, dark, out.RGBAAt(20, h-150))
	assert.Equal(t, dark, out.RGBAAt(w-20, h-20))
	assert.Equal(t, dark, out.RGBAAt(w-25, h-25))
	// just outside
	assert.Equal(t, base, out.RGBAAt(19, h-100))
	assert.Equal(t, base, out.RGBAAt(w-19, h-100))
	assert.Equal(t, base, out.RGBAAt(200, h-151))
	assert.Equal(t, base, out.RGBAAt(200, h-19))
}

func TestCompositor_DrawsWhiteText(t *testing.T) {
	c := NewCompositor(DefaultLayout())
	w, h := 400, 300
	out := c.Render(solidFrame(w, h), testEvent(), 0)

	white := 0
	for y := h - 135; y < h-80; y++ {
		for x := 30; x < 250; x++ {
			if out.RGBAAt(x, y) == (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
				white++
			}
		}
	}
	assert.Greater(t, white, 0)
}

func TestCompositor_NoEventOnlyDrawsBar(t *testing.T) {
	c := NewCompositor(DefaultLayout())
	w, h := 200, 200
	frame := solidFrame(w, h)
	out := c.Render(frame, nil, 0.5)

	green := color.RGBA{G: 255, A: 255}
	assert.Equal(t, green, out.RGBAAt(0, 0))
	assert.Equal(t, green, out.RGBAAt(100, 5))
	assert.Equal(t, base, out.RGBAAt(101, 0))
	assert.Equal(t, base, out.RGBAAt(50, 6))

	for y := 6; y < h; y++ {
		for x := 0; x < w; x++ {
			require.Equal(t, base, out.RGBAAt(x, y), "pixel %d,%d", x, y)
		}
	}
}

func TestCompositor_BarClampsFraction(t *testing.T) {
	c := NewCompositor(DefaultLayout())
	out := c.Render(solidFrame(100, 50), nil, 1.7)
	green := color.RGBA{G: 255, A: 255}
	assert.Equal(t, green, out.RGBAAt(99, 0))

	out = c.Render(solidFrame(100, 50), nil, -1)
	assert.Equal(t, base, out.RGBAAt(1, 0))
}

func TestCompositor_SmallFrame(t *testing.T) {
	c := NewCompositor(DefaultLayout())
	frame := solidFrame(32, 24)

	out := c.Render(frame, testEvent(), 0.5)

	assert.Equal(t, frame.Bounds(), out.Bounds())
}

func TestCompositor_LinesWrap(t *testing.T) {
	c := NewCompositor(DefaultLayout())
	ev := &models.CommentaryEvent{
		Action:   "Crossover",
		Feedback: "Stay low through the move and keep the ball tight to your body so the defender cannot reach in",
	}
	lines := c.Lines(ev)

	require.Len(t, lines, 3)
	assert.Equal(t, "[PLAY] Crossover", lines[0])
	for _, l := range lines {
		assert.LessOrEqual(t, len(l), 60)
	}
}
