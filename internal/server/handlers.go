package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amankumarsingh77/hoopcast/internal/analysis"
	analysisHttp "github.com/amankumarsingh77/hoopcast/internal/analysis/delivery/http"
	analysisRepository "github.com/amankumarsingh77/hoopcast/internal/analysis/repository"
	analysisUsecase "github.com/amankumarsingh77/hoopcast/internal/analysis/usecase"
	"github.com/amankumarsingh77/hoopcast/internal/commentary"
	"github.com/amankumarsingh77/hoopcast/internal/config"
	"github.com/amankumarsingh77/hoopcast/internal/events"
	"github.com/amankumarsingh77/hoopcast/internal/video"
	"github.com/amankumarsingh77/hoopcast/internal/worker"
	"github.com/amankumarsingh77/hoopcast/pkg/utils"
)

func (s *Server) MapHandlers(e *echo.Echo) error {
	jobRepo, err := s.jobRepository()
	if err != nil {
		return err
	}
	bus := events.NewBus()
	jobRepo = analysisRepository.NewPublishingJobRepo(jobRepo, bus)

	var awsRepo analysis.AWSRepository
	if s.cfg.S3.Enabled && s.s3Client != nil {
		awsRepo = analysisRepository.NewAwsRepository(s.s3Client, s.preSignClient)
	}

	provider := commentary.NewProvider(
		commentary.NewGeminiFactory(s.cfg.Commentary.Model),
		s.cfg.Commentary.FrameTimeout,
		s.logger,
	)
	pipeline := worker.NewPipeline(s.cfg, video.NewFFmpegBackend(s.cfg), provider, jobRepo, awsRepo, s.logger)
	s.worker = worker.NewWorker(s.cfg, pipeline, s.logger)

	analysisUC := analysisUsecase.NewAnalysisUseCase(s.cfg, jobRepo, awsRepo, s.worker, s.logger)
	analysisHandlers := analysisHttp.NewAnalysisHandler(analysisUC, bus, s.logger)

	s.useMiddleware(e)

	analysisHttp.MapAnalysisRoutes(e.Group(""), analysisHandlers)
	analysisHttp.MapAnalysisRoutes(e.Group("/api/v1"), analysisHandlers)

	e.GET("/health", s.health())
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	return nil
}

func (s *Server) jobRepository() (analysis.JobRepository, error) {
	switch s.cfg.JobStore.Driver {
	case config.JobStoreMemory:
		return analysisRepository.NewJobMemoryRepo(), nil
	case config.JobStoreRedis:
		if s.redisClient == nil {
			return nil, errors.New("redis job store selected but no redis client is connected")
		}
		return analysisRepository.NewJobRedisRepo(s.redisClient, s.cfg.JobStore.KeyPrefix), nil
	default:
		return nil, errors.Errorf("unknown job store driver %q", s.cfg.JobStore.Driver)
	}
}

func (s *Server) health() echo.HandlerFunc {
	return func(c echo.Context) error {
		s.logger.Debugf("Health check RequestID: %s", utils.GetRequestID(c))
		resp := map[string]interface{}{
			"status":    "healthy",
			"version":   s.cfg.Server.AppVersion,
			"job_store": s.cfg.JobStore.Driver,
		}
		if usage, err := utils.CPUPercent(); err == nil {
			resp["cpu_percent"] = usage
		}
		return c.JSON(http.StatusOK, resp)
	}
}
