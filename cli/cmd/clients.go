package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/harbourline/steward/cli/render"
	"github.com/harbourline/steward/iox"
	"github.com/harbourline/steward/types"
)

// ClientsCommand returns the clients command with subcommands.
func ClientsCommand() *cli.Command {
	return &cli.Command{
		Name:  "clients",
		Usage: "Manage backup clients",
		Subcommands: []*cli.Command{
			clientsListCommand(),
			clientsShowCommand(),
			clientsAddCommand(),
			clientsRemoveCommand(),
			clientsDisconnectCommand(),
		},
	}
}

func clientsListCommand() *cli.Command {
	return &cli.Command{
		Name:   "list",
		Usage:  "List known backup clients",
		Flags:  CommonFlags(),
		Action: clientsListAction,
	}
}

func clientsListAction(c *cli.Context) error {
	r, env, err := prepare(c)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(env)

	return r.RenderResult(env.bridge.ListClients(c.Context))
}

func clientsShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one client by id",
		ArgsUsage: "<client-id>",
		Flags:     CommonFlags(),
		Action:    clientsShowAction,
	}
}

func clientsShowAction(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return cli.Exit("client id is required", 1)
	}

	r, env, err := prepare(c)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(env)

	return r.RenderResult(env.bridge.GetClient(c.Context, id))
}

func clientsAddCommand() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Register a new backup client",
		Flags: append(CommonFlags(),
			&cli.StringFlag{
				Name:     "hostname",
				Usage:    "Client hostname",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "address",
				Usage: "Client network address",
			},
			&cli.StringFlag{
				Name:  "os",
				Usage: "Client operating system",
			},
		),
		Action: clientsAddAction,
	}
}

func clientsAddAction(c *cli.Context) error {
	r, env, err := prepare(c)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(env)

	rec := types.ClientRecord{
		Hostname: c.String("hostname"),
		Address:  c.String("address"),
		OS:       c.String("os"),
	}
	return r.RenderResult(env.bridge.AddClient(c.Context, rec))
}

func clientsRemoveCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     "Remove a client and forget its backups",
		ArgsUsage: "<client-id>",
		Flags:     CommonFlags(),
		Action:    clientsRemoveAction,
	}
}

func clientsRemoveAction(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return cli.Exit("client id is required", 1)
	}

	r, env, err := prepare(c)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(env)

	return r.RenderResult(env.bridge.RemoveClient(c.Context, id))
}

func clientsDisconnectCommand() *cli.Command {
	return &cli.Command{
		Name:      "disconnect",
		Usage:     "Disconnect a connected client session",
		ArgsUsage: "<client-id>",
		Flags:     CommonFlags(),
		Action:    clientsDisconnectAction,
	}
}

func clientsDisconnectAction(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return cli.Exit("client id is required", 1)
	}

	r, env, err := prepare(c)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(env)

	return r.RenderResult(env.bridge.DisconnectClient(c.Context, id))
}

// prepare builds the renderer and environment for one command invocation.
func prepare(c *cli.Context) (*render.Renderer, *appEnv, error) {
	r, err := render.NewRenderer(c)
	if err != nil {
		return nil, nil, err
	}
	env, err := setup(c)
	if err != nil {
		return nil, nil, err
	}
	return r, env, nil
}
