package reports

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/lending/pkg/config"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers report routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, cfg *config.Config) {
	h := &handler{
		cfg:           cfg,
		reportService: NewService(db),
	}

	g.GET("/overdue", h.overdue)
	g.GET("/most-borrowed", h.mostBorrowed)
}
