package config

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes exposes the lending policy values. Database and server
// settings are never returned.
func RegisterRoutes(e *echo.Echo, cfg *Config) {
	h := &handler{cfg: cfg}

	e.GET("/config", h.retrieve)
}
