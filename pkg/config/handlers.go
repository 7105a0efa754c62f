package config

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	cfg *Config
}

type policyResponse struct {
	OverdueThresholdDays int     `json:"overdue_threshold_days"`
	MostBorrowedLimit    int     `json:"most_borrowed_limit"`
	GSTPercent           float64 `json:"gst_percent"`
}

func (h *handler) retrieve(c echo.Context) error {
	resp := policyResponse{
		OverdueThresholdDays: h.cfg.OverdueThresholdDays,
		MostBorrowedLimit:    h.cfg.MostBorrowedLimit,
		GSTPercent:           h.cfg.GSTPercent,
	}
	return errors.WithStack(c.JSON(http.StatusOK, resp))
}
