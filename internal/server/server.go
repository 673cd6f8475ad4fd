package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/amankumarsingh77/hoopcast/internal/config"
	apiMiddleware "github.com/amankumarsingh77/hoopcast/internal/middleware"
	"github.com/amankumarsingh77/hoopcast/internal/worker"
	"github.com/amankumarsingh77/hoopcast/pkg/logger"
)

const (
	maxHeaderBytes = 1 << 20
	ctxTimeout     = 30 * time.Second
)

type Server struct {
	echo          *echo.Echo
	cfg           *config.Config
	redisClient   *redis.Client
	s3Client      *s3.Client
	preSignClient *s3.PresignClient
	worker        *worker.Worker
	logger        logger.Logger
}

// NewServer takes optional backends: redisClient is only used with the redis
// job store and the S3 clients only when archival is enabled.
func NewServer(cfg *config.Config, redisClient *redis.Client, s3Client *s3.Client, preSignClient *s3.PresignClient, logger logger.Logger) *Server {
	return &Server{
		echo:          echo.New(),
		cfg:           cfg,
		redisClient:   redisClient,
		s3Client:      s3Client,
		preSignClient: preSignClient,
		logger:        logger,
	}
}

func (s *Server) Run() error {
	if err := s.MapHandlers(s.echo); err != nil {
		return err
	}
	s.echo.HideBanner = true

	server := &http.Server{
		Addr:           s.cfg.Server.Port,
		ReadTimeout:    s.cfg.Server.ReadTimeout,
		WriteTimeout:   s.cfg.Server.WriteTimeout,
		MaxHeaderBytes: maxHeaderBytes,
	}
	go func() {
		s.logger.Infof("Server is listening on PORT: %s", s.cfg.Server.Port)
		if err := s.echo.StartServer(server); err != nil && err != http.ErrServerClosed {
			s.logger.Fatalf("Error starting Server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, os.Interrupt)
	<-quit

	ctx, shutdown := context.WithTimeout(context.Background(), ctxTimeout)
	defer shutdown()
	s.logger.Infof("shutting down server")
	if err := s.echo.Shutdown(ctx); err != nil {
		s.logger.Errorf("echo shutdown: %v", err)
	}
	return s.worker.Shutdown(ctx)
}

func (s *Server) useMiddleware(e *echo.Echo) {
	mw := apiMiddleware.NewMiddlewareManager(s.cfg, s.logger)

	e.Use(middleware.RequestID())
	e.Use(mw.RequestLoggerMiddleware)
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.cfg.Server.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderXRequestID},
		MaxAge:       300,
	}))
	e.Use(middleware.BodyLimit(s.cfg.Server.MaxUploadSize))
}
