package analysis

import "github.com/labstack/echo/v4"

type Handler interface {
	Upload() echo.HandlerFunc
	GetStatus() echo.HandlerFunc
	ListSessions() echo.HandlerFunc
	Download() echo.HandlerFunc
	Preview() echo.HandlerFunc
	StreamEvents() echo.HandlerFunc
}
