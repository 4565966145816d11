// Package command wires the packetsplit CLI. Each subcommand lives in
// its own file and delegates the actual work to the internal packages;
// actions only parse flags, shape output, and map failures to exit
// codes.
package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/docketops/packetsplit/internal/logger"
)

// NewApp assembles the packetsplit command tree.
func NewApp() *cli.App {
	return &cli.App{
		Name:  "packetsplit",
		Usage: "split a bookmarked PDF packet into per-section documents",
		Commands: []*cli.Command{
			newBookmarksCommand(),
			newPlanCommand(),
			newSplitCommand(),
			newInspectCommand(),
			newRunsCommand(),
		},
	}
}

// verbosityFlags are shared by every subcommand that logs.
func verbosityFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "enable debug logging",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "only log errors",
		},
	}
}

// newActionLogger builds the logger for one command invocation from
// the verbosity flags. Quiet wins over verbose.
func newActionLogger(c *cli.Context) (logger.Logger, error) {
	level := "info"
	if c.Bool("verbose") {
		level = "debug"
	}
	if c.Bool("quiet") {
		level = "error"
	}
	return logger.NewLogger(logger.LogConfig{Level: level})
}

// checkFormat rejects unknown --format values before any work happens.
func checkFormat(format string) error {
	switch format {
	case "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unknown format %q (expected text, json or yaml)", format)
	}
}
