package http

import (
	"github.com/labstack/echo/v4"

	"github.com/amankumarsingh77/hoopcast/internal/analysis"
)

func MapAnalysisRoutes(group *echo.Group, h analysis.Handler) {
	group.POST("/upload", h.Upload())
	group.GET("/status/:session_id", h.GetStatus())
	group.GET("/sessions", h.ListSessions())
	group.GET("/download/:session_id", h.Download())
	group.GET("/preview/:session_id", h.Preview())
	group.GET("/events/:session_id", h.StreamEvents())
}
