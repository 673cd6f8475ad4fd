package worker

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/amankumarsingh77/hoopcast/internal/analysis"
	"github.com/amankumarsingh77/hoopcast/internal/commentary"
	"github.com/amankumarsingh77/hoopcast/internal/config"
	"github.com/amankumarsingh77/hoopcast/internal/models"
	"github.com/amankumarsingh77/hoopcast/internal/overlay"
	"github.com/amankumarsingh77/hoopcast/internal/timeline"
	"github.com/amankumarsingh77/hoopcast/internal/video"
	"github.com/amankumarsingh77/hoopcast/pkg/logger"
)

// NewPipeline assembles the stages. awsRepo may be nil, which disables archival.
func NewPipeline(
	cfg *config.Config,
	backend video.Backend,
	provider commentary.Provider,
	jobRepo analysis.JobRepository,
	awsRepo analysis.AWSRepository,
	logger logger.Logger,
) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		backend:    backend,
		sampler:    video.NewSampler(backend, cfg.Pipeline.SampleMaxWidth, cfg.Pipeline.JPEGQuality, logger),
		provider:   provider,
		compositor: overlay.NewCompositor(overlay.DefaultLayout()),
		jobRepo:    jobRepo,
		awsRepo:    awsRepo,
		logger:     logger,
	}
}

// Run processes spec and leaves the job Completed or Error in the store.
// The returned error is the one recorded on the job.
func (p *Pipeline) Run(ctx context.Context, spec models.JobSpec) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected failure: %v", r)
		}
		status := string(models.JobStatusCompleted)
		if err != nil {
			status = string(models.JobStatusError)
			_ = os.Remove(spec.OutputPath)
			if ferr := p.jobRepo.FailJob(context.Background(), spec.SessionID, err.Error()); ferr != nil {
				p.logger.Errorf("Run - FailJob error: %v", ferr)
			}
		}
		jobsTotal.WithLabelValues(status).Inc()
		jobDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	}()

	if err := p.jobRepo.UpdateStatus(ctx, spec.SessionID, models.JobStatusProcessing); err != nil {
		return errors.Wrap(err, "start job")
	}

	meta, err := p.metadata(ctx, spec)
	if err != nil {
		return err
	}
	p.progress(ctx, spec.SessionID, ProgressMetadata)

	stageStart := time.Now()
	frames := p.sampler.Sample(ctx, spec.InputPath, meta, p.cfg.Pipeline.MaxSampledFrames)
	stageDuration.WithLabelValues("sampling").Observe(time.Since(stageStart).Seconds())
	p.progress(ctx, spec.SessionID, ProgressSampling)

	stageStart = time.Now()
	events := p.provider.Generate(ctx, frames, meta, spec.Credential)
	stageDuration.WithLabelValues("commentary").Observe(time.Since(stageStart).Seconds())
	for _, ev := range events {
		if ev.Fallback {
			commentaryEvents.WithLabelValues("fallback").Inc()
		} else {
			commentaryEvents.WithLabelValues("model").Inc()
		}
	}
	p.progress(ctx, spec.SessionID, ProgressCommentary)

	stageStart = time.Now()
	if err := p.render(ctx, spec, meta, events); err != nil {
		return err
	}
	stageDuration.WithLabelValues("render").Observe(time.Since(stageStart).Seconds())

	result := models.JobResult{
		OutputPath: spec.OutputPath,
		OutputKey:  p.archive(ctx, spec),
		Commentary: events,
		VideoInfo:  meta,
	}
	if err := p.jobRepo.CompleteJob(ctx, spec.SessionID, result); err != nil {
		return errors.Wrap(err, "complete job")
	}
	p.logger.Infof("Run - session %s completed with %d commentary events", spec.SessionID, len(events))
	return nil
}

func (p *Pipeline) metadata(ctx context.Context, spec models.JobSpec) (models.VideoMetadata, error) {
	stageStart := time.Now()
	defer func() {
		stageDuration.WithLabelValues("metadata").Observe(time.Since(stageStart).Seconds())
	}()

	meta, err := p.backend.Probe(ctx, spec.InputPath)
	if err != nil {
		return models.VideoMetadata{}, errors.Wrap(err, "could not open video")
	}
	switch {
	case meta.FPS <= 0:
		return models.VideoMetadata{}, errors.Errorf("could not open video: invalid frame rate %v", meta.FPS)
	case meta.Width <= 0 || meta.Height <= 0:
		return models.VideoMetadata{}, errors.Errorf("could not open video: invalid frame size %dx%d", meta.Width, meta.Height)
	case meta.TotalFrames <= 0:
		return models.VideoMetadata{}, errors.New("video contains no frames")
	}
	return meta, nil
}

// render re-reads the source, overlays the active event and progress bar on
// every frame, and encodes the result. Progress moves from 70 to 100 in
// proportion to frames written.
func (p *Pipeline) render(ctx context.Context, spec models.JobSpec, meta models.VideoMetadata, events []models.CommentaryEvent) error {
	src, err := p.backend.Open(ctx, spec.InputPath, meta)
	if err != nil {
		return errors.Wrap(err, "open video for rendering")
	}
	defer func() {
		if err := src.Close(); err != nil {
			p.logger.Warnf("render - Close source error: %v", err)
		}
	}()

	if err := os.MkdirAll(filepath.Dir(spec.OutputPath), 0755); err != nil {
		return errors.Wrap(err, "create output dir")
	}
	var audioSource string
	if p.cfg.Pipeline.PreserveAudio {
		audioSource = spec.InputPath
	}
	sink, err := p.backend.Create(ctx, spec.OutputPath, meta, audioSource)
	if err != nil {
		return errors.Wrap(err, "create output video")
	}

	windows := timeline.BuildWindows(events, meta.FPS, timeline.DisplayFrames(meta.FPS, p.cfg.Pipeline.DisplaySeconds))
	scheduler := timeline.NewScheduler(windows)

	var out *image.RGBA
	written := 0
	reported := ProgressCommentary
	for idx := 0; ; idx++ {
		if err := ctx.Err(); err != nil {
			_ = sink.Close()
			return errors.Wrap(err, "render interrupted")
		}
		frame, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			_ = sink.Close()
			return errors.Wrapf(err, "read frame %d", idx)
		}
		if out == nil || out.Bounds() != frame.Bounds() {
			out = image.NewRGBA(frame.Bounds())
		}

		active, _ := scheduler.Active(idx)
		p.compositor.RenderTo(out, frame, active, meta.Fraction(idx))
		if err := sink.WriteFrame(out); err != nil {
			_ = sink.Close()
			return errors.Wrapf(err, "write frame %d", idx)
		}
		written++
		framesRendered.Inc()

		if progress := RenderProgress(written, meta.TotalFrames); progress > reported {
			p.progress(ctx, spec.SessionID, progress)
			reported = progress
		}
	}

	if err := sink.Close(); err != nil {
		return errors.Wrap(err, "finalize output video")
	}
	if written == 0 {
		return errors.New("no frames could be decoded")
	}
	return nil
}

// RenderProgress maps frames written onto the 70..100 range.
func RenderProgress(written, total int) int {
	if total <= 0 {
		return ProgressCommentary
	}
	progress := ProgressCommentary + written*(ProgressDone-ProgressCommentary)/total
	if progress > ProgressDone {
		return ProgressDone
	}
	return progress
}

// archive uploads the rendered file when S3 is configured and returns its key.
// Archival problems are logged; the local output stays authoritative.
func (p *Pipeline) archive(ctx context.Context, spec models.JobSpec) string {
	if p.awsRepo == nil || !p.cfg.S3.Enabled {
		return ""
	}
	f, err := os.Open(spec.OutputPath)
	if err != nil {
		p.logger.Warnf("archive - Open error: %v", err)
		return ""
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		p.logger.Warnf("archive - Stat error: %v", err)
		return ""
	}

	key := filepath.Join(spec.SessionID, filepath.Base(spec.OutputPath))
	err = p.awsRepo.PutObject(ctx, analysis.PutObjectInput{
		Bucket:      p.cfg.S3.OutputBucket,
		Key:         key,
		ContentType: "video/mp4",
		Size:        info.Size(),
		Body:        f,
	})
	if err != nil {
		p.logger.Warnf("archive - PutObject error: %v", err)
		return ""
	}
	return key
}

func (p *Pipeline) progress(ctx context.Context, sessionID string, progress int) {
	if err := p.jobRepo.UpdateProgress(ctx, sessionID, progress); err != nil {
		p.logger.Warnf("progress - UpdateProgress error: %v", err)
	}
}

// abandon fails a job that never started because the worker is stopping.
func (p *Pipeline) abandon(spec models.JobSpec, cause error) error {
	err := errors.Wrap(cause, "job cancelled before start")
	if ferr := p.jobRepo.FailJob(context.Background(), spec.SessionID, err.Error()); ferr != nil {
		p.logger.Errorf("abandon - FailJob error: %v", ferr)
	}
	jobsTotal.WithLabelValues(string(models.JobStatusError)).Inc()
	return err
}
