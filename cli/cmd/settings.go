package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/harbourline/steward/iox"
	"github.com/harbourline/steward/settings"
)

// SettingsCommand returns the settings command with subcommands.
func SettingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "View and edit the server settings document",
		Subcommands: []*cli.Command{
			settingsShowCommand(),
			settingsSetCommand(),
		},
	}
}

func settingsShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show settings (all sections, or one)",
		ArgsUsage: "[section]",
		Flags:     CommonFlags(),
		Action:    settingsShowAction,
	}
}

func settingsShowAction(c *cli.Context) error {
	r, env, err := prepare(c)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(env)

	res := env.bridge.LoadSettings(c.Context)
	if !res.Success {
		return r.RenderResult(res)
	}

	section := c.Args().First()
	if section == "" {
		return r.RenderResult(res)
	}

	doc, ok := res.Data.(*settings.Document)
	if !ok {
		return fmt.Errorf("unexpected settings payload type %T", res.Data)
	}
	sec := doc.Section(section)
	if sec == nil {
		return cli.Exit(fmt.Sprintf("unknown section: %q", section), 1)
	}
	return r.Render(sec)
}

func settingsSetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Set one settings value (dotted path, e.g. server.port)",
		ArgsUsage: "<section.key> <value>",
		Flags:     CommonFlags(),
		Action:    settingsSetAction,
	}
}

func settingsSetAction(c *cli.Context) error {
	path := c.Args().Get(0)
	raw := c.Args().Get(1)
	if path == "" || raw == "" {
		return cli.Exit("usage: steward settings set <section.key> <value>", 1)
	}

	r, env, err := prepare(c)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(env)

	loaded := env.bridge.LoadSettings(c.Context)
	if !loaded.Success {
		return r.RenderResult(loaded)
	}
	doc, ok := loaded.Data.(*settings.Document)
	if !ok {
		return fmt.Errorf("unexpected settings payload type %T", loaded.Data)
	}

	if err := doc.Set(path, parseScalar(raw)); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	return r.RenderResult(env.bridge.SaveSettings(c.Context, doc))
}

// parseScalar interprets the value as JSON (bool, number, null) when it
// parses, falling back to the raw string.
func parseScalar(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}
