package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/harbourline/steward/iox"
	"github.com/harbourline/steward/types"
)

// LogsCommand returns the logs command with subcommands.
func LogsCommand() *cli.Command {
	return &cli.Command{
		Name:  "logs",
		Usage: "View and clear server logs",
		Subcommands: []*cli.Command{
			logsShowCommand(),
			logsClearCommand(),
		},
	}
}

func logsShowCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Show recent server log entries",
		Flags: append(CommonFlags(),
			&cli.StringFlag{
				Name:  "level",
				Usage: "Minimum level: debug, info, warn, error",
				Value: "info",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of entries",
				Value: 100,
			},
		),
		Action: logsShowAction,
	}
}

func logsShowAction(c *cli.Context) error {
	r, env, err := prepare(c)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(env)

	level := types.LogLevel(c.String("level"))
	return r.RenderResult(env.bridge.GetLogs(c.Context, level, c.Int("limit")))
}

func logsClearCommand() *cli.Command {
	return &cli.Command{
		Name:   "clear",
		Usage:  "Clear the server log buffer",
		Flags:  CommonFlags(),
		Action: logsClearAction,
	}
}

func logsClearAction(c *cli.Context) error {
	r, env, err := prepare(c)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(env)

	return r.RenderResult(env.bridge.ClearLogs(c.Context))
}
