package invoices

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/lending/pkg/config"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers invoice routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, cfg *config.Config) {
	h := &handler{
		invoiceService: NewService(db, cfg.GSTPercent),
	}

	g.POST("", h.generate)
}
