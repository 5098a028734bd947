// Command gompirun is the launcher: it forks the requested number of
// worker processes, wires the pipe mesh between them, and waits for the
// group to finish.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/jabolina/gompi/internal/launch"
	"github.com/jabolina/gompi/pkg/gompi/definition"
)

func main() {
	app := &cli.App{
		Name:      "gompirun",
		Usage:     "launch a group of cooperating gompi processes",
		UsageText: "gompirun -n <world size> [--debug] -- <program> [args...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "n",
				Aliases:  []string{"np"},
				Usage:    "number of processes in the group",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug-level launcher logs",
			},
		},
		Action: runGroup,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "gompirun:", err)
		os.Exit(1)
	}
}

func runGroup(c *cli.Context) error {
	log, err := definition.NewZapLogger(c.Bool("debug"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("building logger: %v", err), 1)
	}

	n := c.Int("n")
	args := c.Args().Slice()
	if len(args) == 0 {
		return cli.Exit("no program given; usage: gompirun -n <world size> -- <program> [args...]", 1)
	}

	log.Infof("launching %d processes running %s", n, args[0])
	if err := launch.Launch(n, args[0], args[1:]); err != nil {
		log.Errorf("group exited with errors: %v", err)
		return cli.Exit(fmt.Sprintf("group exited with errors: %v", err), 1)
	}
	log.Info("group finished")
	return nil
}
