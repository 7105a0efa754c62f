package main

import (
	"os"
	"time"

	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/lending/pkg/catalog"
	"github.com/shishobooks/lending/pkg/config"
	"github.com/shishobooks/lending/pkg/database"
	"github.com/shishobooks/lending/pkg/menu"
	"github.com/shishobooks/lending/pkg/migrations"
	"github.com/shishobooks/lending/pkg/reports"
	"github.com/shishobooks/lending/pkg/version"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.NewWithLevel("warn")

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}
	defer db.Close()

	c := catalog.New(db)

	app := &cli.App{
		Name:    "lending",
		Usage:   "library lending catalog",
		Version: version.Version,
		Before: func(ctx *cli.Context) error {
			_, err := migrations.BringUpToDate(ctx.Context, db)
			return err
		},
		Action: func(ctx *cli.Context) error {
			m := menu.New(c, os.Stdin, os.Stdout,
				menu.WithDefaults(cfg.OverdueThresholdDays, cfg.MostBorrowedLimit),
				menu.WithLogger(log),
			)
			return m.Run(log.WithContext(ctx.Context))
		},
		Commands: []*cli.Command{
			{
				Name:  "report",
				Usage: "print a lending report",
				Subcommands: []*cli.Command{
					{
						Name:  "overdue",
						Usage: "open borrows older than the threshold",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "days", Value: cfg.OverdueThresholdDays, Usage: "threshold in days"},
							&cli.TimestampFlag{Name: "as-of", Layout: time.DateOnly, Usage: "report date (YYYY-MM-DD), defaults to now"},
						},
						Action: func(ctx *cli.Context) error {
							days := ctx.Int("days")
							opts := reports.OverdueOptions{ThresholdDays: &days}
							if ctx.IsSet("as-of") {
								opts.AsOf = ctx.Timestamp("as-of")
							}
							records, err := c.ReportOverdue(log.WithContext(ctx.Context), opts)
							if err != nil {
								return err
							}
							menu.WriteOverdue(os.Stdout, records)
							return nil
						},
					},
					{
						Name:  "most-borrowed",
						Usage: "books ranked by times borrowed",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "limit", Value: cfg.MostBorrowedLimit, Usage: "number of books to show"},
						},
						Action: func(ctx *cli.Context) error {
							limit := ctx.Int("limit")
							counts, err := c.ReportMostBorrowed(log.WithContext(ctx.Context), reports.MostBorrowedOptions{
								Limit: &limit,
							})
							if err != nil {
								return err
							}
							menu.WriteMostBorrowed(os.Stdout, counts)
							return nil
						},
					},
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("app run error")
	}
}
