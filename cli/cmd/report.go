package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/harbourline/steward/iox"
)

// ReportCommand returns the report export command.
func ReportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Export a status report to the export directory",
		Flags: append(CommonFlags(),
			&cli.StringFlag{
				Name:  "report-format",
				Usage: "Report format: json",
				Value: "json",
			},
		),
		Action: reportAction,
	}
}

func reportAction(c *cli.Context) error {
	r, env, err := prepare(c)
	if err != nil {
		return err
	}
	defer iox.DiscardClose(env)

	return r.RenderResult(env.bridge.ExportReport(c.Context, c.String("report-format")))
}
