package video

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"io"

	"github.com/amankumarsingh77/hoopcast/internal/models"
	"github.com/amankumarsingh77/hoopcast/pkg/logger"
	"github.com/nfnt/resize"
)

// Sampler picks evenly spaced stills for commentary generation.
type Sampler struct {
	backend  Backend
	maxWidth int
	quality  int
	logger   logger.Logger
}

func NewSampler(backend Backend, maxWidth, quality int, logger logger.Logger) *Sampler {
	return &Sampler{
		backend:  backend,
		maxWidth: maxWidth,
		quality:  quality,
		logger:   logger,
	}
}

// SampleInterval is max(1, totalFrames/maxFrames) with integer division.
func SampleInterval(totalFrames, maxFrames int) int {
	if maxFrames <= 0 {
		return 1
	}
	interval := totalFrames / maxFrames
	if interval < 1 {
		return 1
	}
	return interval
}

// Sample scans the video from its first frame and keeps every frame whose index
// is a multiple of the sample interval, stopping after maxFrames. A video that
// cannot be opened or has no frames yields an empty result.
func (s *Sampler) Sample(ctx context.Context, path string, meta models.VideoMetadata, maxFrames int) []models.SampledFrame {
	if maxFrames <= 0 || meta.TotalFrames <= 0 {
		return nil
	}

	src, err := s.backend.Open(ctx, path, meta)
	if err != nil {
		s.logger.Warnf("Sample - Open error: %v", err)
		return nil
	}
	defer func() {
		if err := src.Close(); err != nil {
			s.logger.Warnf("Sample - Close error: %v", err)
		}
	}()

	interval := SampleInterval(meta.TotalFrames, maxFrames)
	frames := make([]models.SampledFrame, 0, maxFrames)
	for idx := 0; idx < meta.TotalFrames && len(frames) < maxFrames; idx++ {
		if ctx.Err() != nil {
			break
		}
		img, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.logger.Warnf("Sample - Next error at frame %d: %v", idx, err)
			break
		}
		if idx%interval != 0 {
			continue
		}
		data, err := s.encode(img)
		if err != nil {
			s.logger.Warnf("Sample - encode error at frame %d: %v", idx, err)
			continue
		}
		frames = append(frames, models.SampledFrame{
			Image:      data,
			MimeType:   "image/jpeg",
			Timestamp:  meta.TimestampOf(idx),
			FrameIndex: idx,
		})
	}
	return frames
}

func (s *Sampler) encode(img image.Image) ([]byte, error) {
	if s.maxWidth > 0 && img.Bounds().Dx() > s.maxWidth {
		img = resize.Resize(uint(s.maxWidth), 0, img, resize.Bilinear)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: s.quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
