package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/shrey150/openclaw-browserbase/internal/export"
	"github.com/shrey150/openclaw-browserbase/internal/plugin"
)

func envCommand() *cli.Command {
	return &cli.Command{
		Name:  "env",
		Usage: "Print resolved credentials as environment variables",
		Description: `Print the resolved Browserbase credentials in a form another
   process can consume:

   openclaw-browserbase env                  # eval-able shell exports
   openclaw-browserbase env --format dotenv  # .env file lines
   openclaw-browserbase env --format json    # JSON object

   The command fails when no credentials resolve, so scripts never
   source an empty environment.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   string(export.FormatShell),
				Usage:   "Output format: shell, dotenv, json",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			format, err := export.ParseFormat(cmd.String("format"))
			if err != nil {
				return err
			}

			cfg, _, err := plugin.ResolveConfig(nil)
			if err != nil {
				return fmt.Errorf("failed to resolve configuration: %w", err)
			}

			return export.New(cfg).Export(format, os.Stdout)
		},
	}
}
