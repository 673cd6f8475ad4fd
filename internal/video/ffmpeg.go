package video

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/amankumarsingh77/hoopcast/internal/config"
	"github.com/amankumarsingh77/hoopcast/internal/models"
)

type ffmpegBackend struct {
	ffmpegPath  string
	ffprobePath string
	codec       string
}

// NewFFmpegBackend shells out to ffprobe for metadata and to ffmpeg for raw RGBA
// decoding and encoding.
func NewFFmpegBackend(cfg *config.Config) Backend {
	return &ffmpegBackend{
		ffmpegPath:  cfg.Pipeline.FFmpegPath,
		ffprobePath: cfg.Pipeline.FFprobePath,
		codec:       cfg.Pipeline.VideoCodec,
	}
}

func (b *ffmpegBackend) Probe(ctx context.Context, path string) (models.VideoMetadata, error) {
	cmd := exec.CommandContext(ctx, b.ffprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=codec_type,width,height,r_frame_rate,avg_frame_rate,nb_frames,duration:stream_tags=rotate:stream_side_data=rotation:format=duration",
		"-of", "json",
		path,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return models.VideoMetadata{}, fmt.Errorf("ffprobe failed: %v: %s", err, strings.TrimSpace(stderr.String()))
	}
	return ParseProbeOutput(output)
}

type ffmpegSource struct {
	cmd    *exec.Cmd
	cancel context.CancelFunc
	reader *bufio.Reader
	frame  *image.RGBA
	stderr *bytes.Buffer
	eof    bool
}

func (b *ffmpegBackend) Open(ctx context.Context, path string, meta models.VideoMetadata) (FrameSource, error) {
	if meta.Width <= 0 || meta.Height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", meta.Width, meta.Height)
	}
	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, b.ffmpegPath,
		"-v", "error",
		"-i", path,
		"-map", "0:v:0",
		"-vsync", "passthrough",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-",
	)
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open decoder pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start decoder: %w", err)
	}
	return &ffmpegSource{
		cmd:    cmd,
		cancel: cancel,
		reader: bufio.NewReaderSize(stdout, 1<<20),
		frame:  image.NewRGBA(image.Rect(0, 0, meta.Width, meta.Height)),
		stderr: stderr,
	}, nil
}

func (s *ffmpegSource) Next() (*image.RGBA, error) {
	if s.eof {
		return nil, io.EOF
	}
	if _, err := io.ReadFull(s.reader, s.frame.Pix); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			s.eof = true
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read frame: %w", err)
	}
	return s.frame, nil
}

// Close stops the decoder. A decoder that is closed before the end of the
// stream is killed, and the resulting exit status is not an error.
func (s *ffmpegSource) Close() error {
	drained := s.eof
	s.cancel()
	err := s.cmd.Wait()
	if drained && err != nil {
		return fmt.Errorf("decoder failed: %v: %s", err, strings.TrimSpace(s.stderr.String()))
	}
	return nil
}

type ffmpegSink struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	width  int
	height int
	stderr *bytes.Buffer
}

func (b *ffmpegBackend) Create(ctx context.Context, path string, meta models.VideoMetadata, audioSource string) (FrameSink, error) {
	if meta.Width <= 0 || meta.Height <= 0 || meta.FPS <= 0 {
		return nil, fmt.Errorf("invalid output geometry %dx%d@%v", meta.Width, meta.Height, meta.FPS)
	}
	args := []string{
		"-y",
		"-v", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", meta.Width, meta.Height),
		"-r", strconv.FormatFloat(meta.FPS, 'f', -1, 64),
		"-i", "-",
	}
	if audioSource != "" {
		args = append(args,
			"-i", audioSource,
			"-map", "0:v:0",
			"-map", "1:a:0?",
			"-c:a", "aac",
			"-shortest",
		)
	}
	args = append(args, "-c:v", b.codec, "-pix_fmt", "yuv420p")
	if b.codec == "mpeg4" {
		args = append(args, "-q:v", "3")
	}
	args = append(args, "-movflags", "+faststart", path)

	cmd := exec.CommandContext(ctx, b.ffmpegPath, args...)
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open encoder pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start encoder %q: %w", b.codec, err)
	}
	return &ffmpegSink{
		cmd:    cmd,
		stdin:  stdin,
		width:  meta.Width,
		height: meta.Height,
		stderr: stderr,
	}, nil
}

func (s *ffmpegSink) WriteFrame(img *image.RGBA) error {
	b := img.Bounds()
	if b.Dx() != s.width || b.Dy() != s.height {
		return fmt.Errorf("frame size %dx%d does not match output %dx%d", b.Dx(), b.Dy(), s.width, s.height)
	}
	rowLen := 4 * s.width
	if img.Stride == rowLen {
		start := img.PixOffset(b.Min.X, b.Min.Y)
		if _, err := s.stdin.Write(img.Pix[start : start+rowLen*s.height]); err != nil {
			return s.writeErr(err)
		}
		return nil
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		start := img.PixOffset(b.Min.X, y)
		if _, err := s.stdin.Write(img.Pix[start : start+rowLen]); err != nil {
			return s.writeErr(err)
		}
	}
	return nil
}

func (s *ffmpegSink) writeErr(err error) error {
	return fmt.Errorf("failed to write frame: %v: %s", err, strings.TrimSpace(s.stderr.String()))
}

func (s *ffmpegSink) Close() error {
	if err := s.stdin.Close(); err != nil {
		return fmt.Errorf("failed to close encoder input: %w", err)
	}
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("encoder failed: %v: %s", err, strings.TrimSpace(s.stderr.String()))
	}
	return nil
}
