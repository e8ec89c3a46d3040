// Package cmd provides CLI commands for the steward binary.
package cmd

import "github.com/urfave/cli/v2"

// Shared flags.
var (
	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// NoColorFlag disables colored output.
	NoColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}

	// ConfigFlag points at a steward.yaml config file.
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to steward.yaml (default: $HOME/.steward/steward.yaml)",
	}

	// VerboseFlag enables structured diagnostics on stderr.
	VerboseFlag = &cli.BoolFlag{
		Name:  "verbose",
		Usage: "Enable structured log output",
	}
)

// CommonFlags returns the shared flags for all commands.
func CommonFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
		NoColorFlag,
		ConfigFlag,
		VerboseFlag,
	}
}
