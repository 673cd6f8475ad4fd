// Package commentary produces timestamped coaching commentary for sampled frames.
package commentary

import (
	"context"
	"errors"
	"time"

	"github.com/amankumarsingh77/hoopcast/internal/models"
	"github.com/amankumarsingh77/hoopcast/pkg/logger"
)

// Provider turns sampled frames into commentary events. It never fails: every
// error is replaced by a deterministic fallback event.
type Provider interface {
	Generate(ctx context.Context, frames []models.SampledFrame, meta models.VideoMetadata, credential string) []models.CommentaryEvent
}

// Analyzer sends one frame and prompt to a generative model and returns its raw answer.
type Analyzer interface {
	Analyze(ctx context.Context, frame models.SampledFrame, prompt string) (string, error)
	Close() error
}

// AnalyzerFactory builds an Analyzer authenticated with credential.
type AnalyzerFactory func(ctx context.Context, credential string) (Analyzer, error)

type service struct {
	newAnalyzer  AnalyzerFactory
	frameTimeout time.Duration
	logger       logger.Logger
}

func NewProvider(newAnalyzer AnalyzerFactory, frameTimeout time.Duration, logger logger.Logger) Provider {
	return &service{
		newAnalyzer:  newAnalyzer,
		frameTimeout: frameTimeout,
		logger:       logger,
	}
}

// Generate calls the model once per frame, in order. Without a credential the
// canned three-event set is returned. When the analyzer cannot be built, or
// every frame fails as unavailable, the unavailable set is returned instead.
func (s *service) Generate(ctx context.Context, frames []models.SampledFrame, meta models.VideoMetadata, credential string) []models.CommentaryEvent {
	if credential == "" {
		return NoCredentialEvents()
	}

	analyzer, err := s.newAnalyzer(ctx, credential)
	if err != nil {
		s.logger.Warnf("Generate - newAnalyzer error: %v", err)
		return UnavailableEvents()
	}
	defer func() {
		if err := analyzer.Close(); err != nil {
			s.logger.Warnf("Generate - Close error: %v", err)
		}
	}()

	events := make([]models.CommentaryEvent, 0, len(frames))
	unavailable := 0
	for i, frame := range frames {
		ev, err := s.analyzeFrame(ctx, analyzer, i, len(frames), frame, meta)
		if err != nil {
			s.logger.Warnf("Generate - frame %d at %.1fs: %v", i, frame.Timestamp, err)
			if errors.Is(err, ErrUnavailable) {
				unavailable++
			}
			ev = FrameFallback(i, frame.Timestamp)
		}
		events = append(events, ev)
	}

	if len(frames) > 0 && unavailable == len(frames) {
		s.logger.Warnf("Generate - service unreachable for all %d frames", len(frames))
		return UnavailableEvents()
	}
	return events
}

func (s *service) analyzeFrame(ctx context.Context, analyzer Analyzer, i, count int, frame models.SampledFrame, meta models.VideoMetadata) (models.CommentaryEvent, error) {
	frameCtx := ctx
	if s.frameTimeout > 0 {
		var cancel context.CancelFunc
		frameCtx, cancel = context.WithTimeout(ctx, s.frameTimeout)
		defer cancel()
	}

	text, err := analyzer.Analyze(frameCtx, frame, BuildPrompt(i, count, frame.Timestamp, meta.Duration))
	if err != nil {
		return models.CommentaryEvent{}, classify(frameCtx, err)
	}

	ev, err := ParseResponse(frameCtx, text, frame.Timestamp)
	if err == nil {
		return ev, nil
	}
	if recovered, ok := RecoverFromText(text, frame.Timestamp); ok {
		s.logger.Debugf("analyzeFrame - recovered frame %d from raw text: %v", i, err)
		return recovered, nil
	}
	return models.CommentaryEvent{}, err
}
