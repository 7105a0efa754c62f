package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/shishobooks/lending/pkg/binder"
	"github.com/shishobooks/lending/pkg/books"
	"github.com/shishobooks/lending/pkg/config"
	"github.com/shishobooks/lending/pkg/errcodes"
	"github.com/shishobooks/lending/pkg/invoices"
	"github.com/shishobooks/lending/pkg/loans"
	"github.com/shishobooks/lending/pkg/members"
	"github.com/shishobooks/lending/pkg/products"
	"github.com/shishobooks/lending/pkg/reports"
	"github.com/shishobooks/lending/pkg/testutils"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b
	e.JSONSerializer = &jsonSerializer{}

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	members.RegisterRoutesWithGroup(e.Group("/members"), db)
	books.RegisterRoutesWithGroup(e.Group("/books"), db)
	loans.RegisterRoutesWithGroup(e.Group("/loans"), db)
	reports.RegisterRoutesWithGroup(e.Group("/reports"), db, cfg)
	products.RegisterRoutesWithGroup(e.Group("/products"), db)
	invoices.RegisterRoutesWithGroup(e.Group("/invoices"), db, cfg)

	config.RegisterRoutes(e, cfg)

	if cfg.IsTest() {
		testutils.RegisterRoutes(e, db)
	}

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
