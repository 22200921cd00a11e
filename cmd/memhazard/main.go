// Package main implements the memhazard CLI.
//
// memhazard reproduces two shared-memory hazards — stale/torn reads and
// lost updates — and verifies their fixes, running each demonstration
// over many independent trials:
//
//	memhazard visibility --variant plain --trials 100
//	memhazard counter --variant guarded --actors 2 --increments 1000 --trials 1
//
// Hazards are scheduler-dependent and probabilistic; the guarded
// variants must be clean on every trial.
package main

import (
	"fmt"
	"os"

	"github.com/lthibault/log"
	"github.com/urfave/cli/v2"

	"github.com/kolkov/memhazard/hazard"
	"github.com/kolkov/memhazard/internal/cmd/counter"
	"github.com/kolkov/memhazard/internal/cmd/visibility"
)

var flags = []cli.Flag{
	// Logging
	&cli.StringFlag{
		Name:    "logfmt",
		Aliases: []string{"f"},
		Usage:   "`format` logs as text, json or none",
		Value:   "text",
		EnvVars: []string{"MEMHAZARD_LOGFMT"},
	},
	&cli.StringFlag{
		Name:    "loglvl",
		Usage:   "set logging `level` to trace, debug, info, warn, error or fatal",
		Value:   "info",
		EnvVars: []string{"MEMHAZARD_LOGLVL"},
	},
	// Version gate
	&cli.StringFlag{
		Name:        "require",
		Usage:       "fail unless the runtime version satisfies `semver`",
		DefaultText: "disabled",
	},
	// Misc.
	&cli.BoolFlag{
		Name:    "prettyprint",
		Aliases: []string{"pp"},
		Usage:   "pretty-print JSON output",
		Hidden:  true,
	},
}

var commands = []*cli.Command{
	visibility.Command(),
	counter.Command(),
}

func main() {
	run(&cli.App{
		Name:                 "memhazard",
		Usage:                "reproduce memory-visibility and atomicity hazards, and verify their fixes",
		UsageText:            "memhazard [global options] command [command options]",
		Version:              hazard.Version,
		EnableBashCompletion: true,
		Flags:                flags,
		Before:               requireVersion,
		Commands:             commands,
	})
}

func requireVersion(c *cli.Context) error {
	min := c.String("require")
	if min == "" {
		return nil
	}

	ok, err := hazard.AtLeast(min)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("memhazard %s does not satisfy required version %s", hazard.Version, min)
	}
	return nil
}

func run(app *cli.App) {
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
