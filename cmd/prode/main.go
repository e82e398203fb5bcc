package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/okian/prode/internal/adapters/cache"
	"github.com/okian/prode/internal/adapters/matchdays"
	service "github.com/okian/prode/internal/app"
	"github.com/okian/prode/internal/config"
	"github.com/okian/prode/pkg/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		// Use stderr since the logger may not be initialized yet
		_, _ = os.Stderr.WriteString("prode: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "prode",
		Usage:     "score predictions and rank the players of a monthly prode",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML configuration file",
				EnvVars: []string{"PRODE_CONFIG"},
			},
		},
		Before: func(c *cli.Context) error {
			// config.Load reads the file path from the environment
			if path := c.String("config"); path != "" {
				return os.Setenv("PRODE_CONFIG", path)
			}
			return nil
		},
		Commands: []*cli.Command{
			serveCommand(),
			rankCommand(),
			monthsCommand(),
		},
	}
}

// stack bundles what every command needs.
type stack struct {
	cfg   *config.Config
	log   logger.Logger
	svc   *service.Service
	close func() error
}

// bootstrap loads configuration and builds the service. Logs go to logOut.
func bootstrap(ctx context.Context, logOut io.Writer) (*stack, error) {
	if err := logger.Init(logger.WithOutput(logOut)); err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}
	log := logger.Get()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	c, closeCache, err := cache.Open(ctx, cfg.CacheBackend, cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", cfg.CacheBackend, err)
	}

	svc := service.New(
		service.WithLogger(log.Named("service")),
		service.WithSource(matchdays.NewFileSource(cfg.DataDir)),
		service.WithCache(c, cfg.CacheTTL),
		service.WithMonths(cfg.Months),
		service.WithCurrentMonth(cfg.CurrentMonth),
		service.WithLocale(cfg.LocaleTag()),
	)
	if err := svc.Start(ctx); err != nil {
		_ = closeCache()
		return nil, fmt.Errorf("start service: %w", err)
	}

	return &stack{cfg: cfg, log: log, svc: svc, close: closeCache}, nil
}
