package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/amazonia-pds/amazonia-stac/pkg/amazonia"
)

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path to a YAML bucket configuration file",
	}
	verboseFlag = &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "enable debug logging",
	}
	timeoutFlag = &cli.DurationFlag{
		Name:    "timeout",
		Aliases: []string{"t"},
		Usage:   "network timeout for asset checks and publishing (e.g. 30s, 1m)",
		Value:   30 * time.Second,
	}
)

func main() {
	cmd := &cli.Command{
		Name:  "amazonia-stac",
		Usage: "Convert Amazonia-1 scene metadata into STAC documents",
		Flags: []cli.Flag{configFlag, verboseFlag, timeoutFlag},
		Commands: []*cli.Command{
			newCreateItemCommand(),
			newCreateCollectionCommand(),
			newValidateCommand(),
			newPublishCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(cmd *cli.Command) (*zap.SugaredLogger, error) {
	level := zap.InfoLevel
	if cmd.Bool(verboseFlag.Name) {
		level = zap.DebugLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

func configFromCommand(cmd *cli.Command) (amazonia.Config, error) {
	return amazonia.LoadConfig(cmd.String(configFlag.Name))
}
