package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/cohesivestack/valgo"
	"github.com/joshjon/kit/config"
	"github.com/joshjon/kit/log"
	"github.com/urfave/cli/v2"

	"github.com/ospoc/ospoc/app"
	"github.com/ospoc/ospoc/constants"
	"github.com/ospoc/ospoc/internal/valgoutil"
	"github.com/ospoc/ospoc/logkey"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer cancel()

	cliApp := cli.NewApp()
	cliApp.Name = constants.AppName
	cliApp.Usage = "Provisions platform project namespaces for orders"

	cliApp.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   "",
			Usage:   "path to yaml config file (required if not using env vars)",
		},
	}

	logger := log.NewLogger()

	cliApp.Commands = []*cli.Command{
		{
			Name:  "run",
			Usage: "[default] runs the service",
			Action: func(c *cli.Context) error {
				f := parseFlags(c)
				var cfg app.Config
				config.Load(f.configFile, &cfg)
				logger = loggerFromConfig(cfg.Logger).With(logkey.Service, constants.AppName)
				return app.Run(ctx, logger, cfg)
			},
		},
	}

	cliApp.DefaultCommand = "run"

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		logger.Error("failed to start service", logkey.Error, err)
		os.Exit(1)
	}
}

type flags struct {
	configFile string
}

func (c flags) validate() *valgo.Validation {
	v := valgo.New()
	if c.configFile != "" {
		v.Is(valgoutil.FileExistsValidator(c.configFile, "config"))
	}
	return v
}

func parseFlags(c *cli.Context) flags {
	f := flags{
		configFile: c.String("config"),
	}
	exitOnInvalidFlags(c, f.validate())
	return f
}

func exitOnInvalidFlags(c *cli.Context, v *valgo.Validation) {
	if v.ToError() == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "Flag errors:")

	for _, verr := range v.ToError().(*valgo.Error).Errors() {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", verr.Name(), strings.Join(verr.Messages(), ","))
	}

	fmt.Fprintln(os.Stdout) //nolint:errcheck
	cli.ShowAppHelpAndExit(c, 1)
}

func loggerFromConfig(cfg app.LoggerConfig) log.Logger {
	level, ok := log.ParseLevel(cfg.Level)
	if !ok {
		level = slog.LevelInfo
	}
	opts := []log.LoggerOption{log.WithLevel(level)}
	if !cfg.Structured {
		opts = append(opts, log.WithDevelopment())
	}
	return log.NewLogger(opts...)
}
