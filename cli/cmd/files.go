package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/harbourline/steward/iox"
)

// FilesCommand returns the files command with subcommands.
func FilesCommand() *cli.Command {
	return &cli.Command{
		Name:  "files",
		Usage: "Browse and manage backup files",
		Subcommands: []*cli.Command{
			filesListCommand(),
			filesDeleteCommand(),
			filesRestoreCommand(),
			filesVerifyCommand(),
		},
	}
}

func filesListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List backup files",
		Flags: append(CommonFlags(),
			&cli.StringFlag{
				Name:  "client",
				Usage: "Filter by client id",
			},
			&cli.StringFlag{
				Name:  "filter",
				Usage: "Substring filter on file path",
			},
		),
		Action: filesListAction,
	}
}

func filesListAction(c *cli.Context) error {
	r, env, err := prepare(c)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(env)

	return r.RenderResult(env.bridge.ListFiles(c.Context, c.String("client"), c.String("filter")))
}

func filesDeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a backup file",
		ArgsUsage: "<file-id>",
		Flags:     CommonFlags(),
		Action:    filesDeleteAction,
	}
}

func filesDeleteAction(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return cli.Exit("file id is required", 1)
	}

	r, env, err := prepare(c)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(env)

	return r.RenderResult(env.bridge.DeleteFile(c.Context, id))
}

func filesRestoreCommand() *cli.Command {
	return &cli.Command{
		Name:      "restore",
		Usage:     "Restore a backup file to a destination path",
		ArgsUsage: "<file-id>",
		Flags: append(CommonFlags(),
			&cli.StringFlag{
				Name:  "dest",
				Usage: "Destination path (default: original path)",
			},
		),
		Action: filesRestoreAction,
	}
}

func filesRestoreAction(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return cli.Exit("file id is required", 1)
	}

	r, env, err := prepare(c)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(env)

	return r.RenderResult(env.bridge.RestoreFile(c.Context, id, c.String("dest")))
}

func filesVerifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "Verify backup integrity for a client",
		ArgsUsage: "<client-id>",
		Flags:     CommonFlags(),
		Action:    filesVerifyAction,
	}
}

func filesVerifyAction(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return cli.Exit("client id is required", 1)
	}

	r, env, err := prepare(c)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(env)

	return r.RenderResult(env.bridge.VerifyBackup(c.Context, id))
}
