package reports

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/lending/pkg/config"
	"github.com/shishobooks/lending/pkg/errcodes"
)

type handler struct {
	cfg           *config.Config
	reportService *Service
}

func (h *handler) overdue(c echo.Context) error {
	ctx := c.Request().Context()

	params := OverdueQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := OverdueOptions{ThresholdDays: params.Days}
	if opts.ThresholdDays == nil {
		opts.ThresholdDays = &h.cfg.OverdueThresholdDays
	}
	if params.AsOf != nil {
		asOf, err := time.Parse(time.DateOnly, *params.AsOf)
		if err != nil {
			return errcodes.ValidationError(`"as_of" should be in the format of YYYY-MM-DD`)
		}
		opts.AsOf = &asOf
	}

	records, err := h.reportService.Overdue(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, records))
}

func (h *handler) mostBorrowed(c echo.Context) error {
	ctx := c.Request().Context()

	params := MostBorrowedQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	limit := h.cfg.MostBorrowedLimit
	if params.Limit != nil {
		limit = *params.Limit
	}

	counts, err := h.reportService.MostBorrowed(ctx, MostBorrowedOptions{Limit: &limit})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, counts))
}
