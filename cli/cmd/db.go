package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/harbourline/steward/iox"
)

// DBCommand returns the db command with subcommands for the server
// database browser.
func DBCommand() *cli.Command {
	return &cli.Command{
		Name:  "db",
		Usage: "Browse the server database (tables, rows, schema)",
		Subcommands: []*cli.Command{
			dbTablesCommand(),
			dbRowsCommand(),
			dbSchemaCommand(),
		},
	}
}

func dbTablesCommand() *cli.Command {
	return &cli.Command{
		Name:   "tables",
		Usage:  "List database tables",
		Flags:  CommonFlags(),
		Action: dbTablesAction,
	}
}

func dbTablesAction(c *cli.Context) error {
	r, env, err := prepare(c)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(env)

	return r.RenderResult(env.bridge.ListTables(c.Context))
}

func dbRowsCommand() *cli.Command {
	return &cli.Command{
		Name:      "rows",
		Usage:     "Show a page of rows from a table",
		ArgsUsage: "<table>",
		Flags: append(CommonFlags(),
			&cli.IntFlag{
				Name:  "offset",
				Usage: "Row offset",
				Value: 0,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Page size",
				Value: 50,
			},
		),
		Action: dbRowsAction,
	}
}

func dbRowsAction(c *cli.Context) error {
	table := c.Args().First()
	if table == "" {
		return cli.Exit("table name is required", 1)
	}

	r, env, err := prepare(c)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(env)

	return r.RenderResult(env.bridge.TableRows(c.Context, table, c.Int("offset"), c.Int("limit")))
}

func dbSchemaCommand() *cli.Command {
	return &cli.Command{
		Name:      "schema",
		Usage:     "Show the column schema of a table",
		ArgsUsage: "<table>",
		Flags:     CommonFlags(),
		Action:    dbSchemaAction,
	}
}

func dbSchemaAction(c *cli.Context) error {
	table := c.Args().First()
	if table == "" {
		return cli.Exit("table name is required", 1)
	}

	r, env, err := prepare(c)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(env)

	return r.RenderResult(env.bridge.TableSchema(c.Context, table))
}
