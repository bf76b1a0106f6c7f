package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/shrey150/openclaw-browserbase/internal/config"
)

func configPathCommand() *cli.Command {
	return &cli.Command{
		Name:  "config-path",
		Usage: "Print the path of the OpenClaw config file",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "legacy",
				Usage: "Print the legacy TOML config path instead",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Bool("legacy") {
				fmt.Println(config.LegacyFilePath())
				return nil
			}
			fmt.Println(config.FilePath())
			return nil
		},
	}
}
