package video

import (
	"context"
	"image"

	"github.com/amankumarsingh77/hoopcast/internal/models"
)

// FrameSource yields decoded frames in presentation order. Next returns io.EOF
// once the stream is exhausted. The returned image is only valid until the
// following call to Next.
type FrameSource interface {
	Next() (*image.RGBA, error)
	Close() error
}

// FrameSink accepts frames of the dimensions it was created with and
// finalises the container on Close.
type FrameSink interface {
	WriteFrame(img *image.RGBA) error
	Close() error
}

// Backend is the media toolkit the pipeline runs on.
type Backend interface {
	Probe(ctx context.Context, path string) (models.VideoMetadata, error)
	Open(ctx context.Context, path string, meta models.VideoMetadata) (FrameSource, error)
	// Create starts an encoder writing to path. When audioSource is not
	// empty its audio track, if any, is carried into the output.
	Create(ctx context.Context, path string, meta models.VideoMetadata, audioSource string) (FrameSink, error)
}
