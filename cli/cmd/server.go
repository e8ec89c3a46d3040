package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/harbourline/steward/iox"
)

// ServerCommand returns the server lifecycle command with subcommands.
func ServerCommand() *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Control the backup server",
		Subcommands: []*cli.Command{
			serverStartCommand(),
			serverStopCommand(),
			serverMaintenanceCommand(),
		},
	}
}

func serverStartCommand() *cli.Command {
	return &cli.Command{
		Name:   "start",
		Usage:  "Start the backup server",
		Flags:  CommonFlags(),
		Action: serverStartAction,
	}
}

func serverStartAction(c *cli.Context) error {
	r, env, err := prepare(c)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(env)

	return r.RenderResult(env.bridge.StartServer(c.Context))
}

func serverStopCommand() *cli.Command {
	return &cli.Command{
		Name:   "stop",
		Usage:  "Stop the backup server",
		Flags:  CommonFlags(),
		Action: serverStopAction,
	}
}

func serverStopAction(c *cli.Context) error {
	r, env, err := prepare(c)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(env)

	return r.RenderResult(env.bridge.StopServer(c.Context))
}

func serverMaintenanceCommand() *cli.Command {
	return &cli.Command{
		Name:   "maintenance",
		Usage:  "Run database maintenance (vacuum, integrity check)",
		Flags:  CommonFlags(),
		Action: serverMaintenanceAction,
	}
}

func serverMaintenanceAction(c *cli.Context) error {
	r, env, err := prepare(c)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(env)

	return r.RenderResult(env.bridge.RunMaintenance(c.Context))
}
