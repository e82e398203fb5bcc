package main

import (
	"encoding/json"

	"github.com/urfave/cli/v2"
)

func rankCommand() *cli.Command {
	return &cli.Command{
		Name:  "rank",
		Usage: "print a month's leaderboard as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "month",
				Aliases: []string{"m"},
				Usage:   "month id; defaults to the configured current month",
			},
			&cli.BoolFlag{
				Name:  "matchdays",
				Usage: "print scored matchdays instead of the leaderboard",
			},
		},
		Action: func(c *cli.Context) error {
			rt, err := bootstrap(c.Context, c.App.ErrWriter)
			if err != nil {
				return err
			}
			defer func() { _ = rt.close() }()

			enc := json.NewEncoder(c.App.Writer)
			enc.SetIndent("", "  ")

			if c.Bool("matchdays") {
				sm, err := rt.svc.Matchdays(c.Context, c.String("month"))
				if err != nil {
					return err
				}
				return enc.Encode(sm)
			}

			lb, err := rt.svc.Standings(c.Context, c.String("month"))
			if err != nil {
				return err
			}
			return enc.Encode(lb)
		},
	}
}

func monthsCommand() *cli.Command {
	return &cli.Command{
		Name:  "months",
		Usage: "list configured months",
		Action: func(c *cli.Context) error {
			rt, err := bootstrap(c.Context, c.App.ErrWriter)
			if err != nil {
				return err
			}
			defer func() { _ = rt.close() }()

			enc := json.NewEncoder(c.App.Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(rt.svc.Months(c.Context))
		},
	}
}
