package middleware

import (
	"github.com/amankumarsingh77/hoopcast/internal/config"
	"github.com/amankumarsingh77/hoopcast/pkg/logger"
)

type MiddlewareManager struct {
	cfg    *config.Config
	logger logger.Logger
}

func NewMiddlewareManager(cfg *config.Config, logger logger.Logger) *MiddlewareManager {
	return &MiddlewareManager{cfg: cfg, logger: logger}
}
