package worker

import (
	"github.com/amankumarsingh77/hoopcast/internal/analysis"
	"github.com/amankumarsingh77/hoopcast/internal/commentary"
	"github.com/amankumarsingh77/hoopcast/internal/config"
	"github.com/amankumarsingh77/hoopcast/internal/overlay"
	"github.com/amankumarsingh77/hoopcast/internal/video"
	"github.com/amankumarsingh77/hoopcast/pkg/logger"
)

// Progress checkpoints reported once each stage completes.
const (
	ProgressMetadata   = 20
	ProgressSampling   = 40
	ProgressCommentary = 70
	ProgressDone       = 100
)

// Pipeline runs one job end to end: metadata, sampling, commentary, render.
type Pipeline struct {
	cfg        *config.Config
	backend    video.Backend
	sampler    *video.Sampler
	provider   commentary.Provider
	compositor *overlay.Compositor
	jobRepo    analysis.JobRepository
	awsRepo    analysis.AWSRepository
	logger     logger.Logger
}
