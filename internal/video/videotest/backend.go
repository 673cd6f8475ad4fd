// Package videotest provides an in-memory video.Backend for tests.
package videotest

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/amankumarsingh77/hoopcast/internal/models"
	"github.com/amankumarsingh77/hoopcast/internal/video"
)

var ErrOpen = errors.New("videotest: cannot open")

// Backend serves a synthetic clip for every path and records encoded output.
type Backend struct {
	Meta     models.VideoMetadata
	ProbeErr error
	OpenErr  error
	// CreateErr fails the encoder, simulating an unavailable codec.
	CreateErr error
	// KeepFrames retains copies of encoded frames for inspection.
	KeepFrames bool

	mu      sync.Mutex
	opened  int
	counts  map[string]int
	written map[string][]*image.RGBA
}

func NewBackend(fps float64, width, height, totalFrames int) *Backend {
	return &Backend{
		Meta:    models.NewVideoMetadata(fps, width, height, totalFrames),
		counts:  make(map[string]int),
		written: make(map[string][]*image.RGBA),
	}
}

// Frame returns the synthetic image for index i. Each frame has a distinct gray level.
func Frame(width, height, i int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	c := color.RGBA{R: uint8(i % 256), G: uint8((i * 3) % 256), B: 128, A: 255}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func (b *Backend) Probe(_ context.Context, _ string) (models.VideoMetadata, error) {
	if b.ProbeErr != nil {
		return models.VideoMetadata{}, b.ProbeErr
	}
	return b.Meta, nil
}

func (b *Backend) Open(_ context.Context, _ string, meta models.VideoMetadata) (video.FrameSource, error) {
	if b.OpenErr != nil {
		return nil, b.OpenErr
	}
	b.mu.Lock()
	b.opened++
	b.mu.Unlock()
	return &source{width: meta.Width, height: meta.Height, total: b.Meta.TotalFrames}, nil
}

func (b *Backend) Create(_ context.Context, path string, meta models.VideoMetadata, _ string) (video.FrameSink, error) {
	if b.CreateErr != nil {
		return nil, b.CreateErr
	}
	return &sink{backend: b, path: path, width: meta.Width, height: meta.Height, keep: b.KeepFrames}, nil
}

// Opened reports how many decoders were started.
func (b *Backend) Opened() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.opened
}

// FrameCount returns how many frames were encoded to path once its sink was closed.
func (b *Backend) FrameCount(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts[path]
}

// Written returns the frames kept for path when KeepFrames is set.
func (b *Backend) Written(path string) []*image.RGBA {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.written[path]
}

type source struct {
	width, height int
	total         int
	next          int
}

func (s *source) Next() (*image.RGBA, error) {
	if s.next >= s.total {
		return nil, io.EOF
	}
	img := Frame(s.width, s.height, s.next)
	s.next++
	return img, nil
}

func (s *source) Close() error { return nil }

type sink struct {
	backend       *Backend
	path          string
	width, height int
	keep          bool
	count         int
	frames        []*image.RGBA
}

func (s *sink) WriteFrame(img *image.RGBA) error {
	if img.Bounds().Dx() != s.width || img.Bounds().Dy() != s.height {
		return fmt.Errorf("videotest: frame size %v does not match %dx%d", img.Bounds(), s.width, s.height)
	}
	s.count++
	if s.keep {
		cp := image.NewRGBA(img.Bounds())
		copy(cp.Pix, img.Pix)
		s.frames = append(s.frames, cp)
	}
	return nil
}

func (s *sink) Close() error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	if s.backend.counts == nil {
		s.backend.counts = make(map[string]int)
		s.backend.written = make(map[string][]*image.RGBA)
	}
	s.backend.counts[s.path] = s.count
	s.backend.written[s.path] = s.frames
	return nil
}
