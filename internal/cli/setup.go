package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/shrey150/openclaw-browserbase/internal/config"
	"github.com/shrey150/openclaw-browserbase/internal/plugin"
	"github.com/shrey150/openclaw-browserbase/internal/skills"
	"github.com/shrey150/openclaw-browserbase/internal/ui"
	"github.com/shrey150/openclaw-browserbase/internal/ui/tui"
)

func setupCommand() *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Configure Browserbase credentials",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "api-key",
				Usage: "Browserbase API key",
			},
			&cli.StringFlag{
				Name:  "project-id",
				Usage: "Browserbase project ID",
			},
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "Browserbase API base URL",
			},
			&cli.BoolFlag{
				Name:  "no-input",
				Usage: "Use plain prompts instead of the interactive form",
			},
			&cli.BoolFlag{
				Name:  "sync-skills",
				Usage: "Sync skill files after saving credentials",
			},
		},
		Action: runSetup,
	}
}

func runSetup(ctx context.Context, cmd *cli.Command) error {
	apiKey := strings.TrimSpace(cmd.String("api-key"))
	projectID := strings.TrimSpace(cmd.String("project-id"))
	baseURL := strings.TrimSpace(cmd.String("base-url"))

	var prompter *CredentialPrompter

	if apiKey == "" && projectID == "" && baseURL == "" {
		current, _, err := plugin.ResolveConfig(nil)
		if err != nil {
			return fmt.Errorf("failed to load current configuration: %w", err)
		}

		if interactiveTerminal() && !cmd.Bool("no-input") {
			result, err := tui.RunSetupForm(current)
			if err != nil {
				return fmt.Errorf("setup form failed: %w", err)
			}
			if result.Action != tui.SetupActionSave {
				fmt.Println("Setup canceled; existing configuration kept.")
				return nil
			}
			apiKey, projectID, baseURL = result.APIKey, result.ProjectID, result.BaseURL
		} else {
			prompter = NewCredentialPrompter()
			apiKey, projectID, baseURL, err = prompter.ReadCredentials(current)
			if err != nil {
				return err
			}
		}

		if apiKey == "" && projectID == "" && baseURL == "" {
			fmt.Println("Nothing entered; existing configuration kept.")
			return nil
		}
	}

	if err := plugin.SaveCredentials(apiKey, projectID, baseURL); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	fmt.Println(ui.StatusSuccess("Credentials saved to " + config.FilePath()))

	if cmd.Bool("sync-skills") {
		return syncSkillFiles(ctx, skills.Options{}, false)
	}

	// Offer a sync when sitting at a real terminal without skills installed.
	if interactiveTerminal() && !skills.HasSkills("") {
		if prompter == nil {
			prompter = NewCredentialPrompter()
		}
		yes, err := prompter.Confirm("Sync Browserbase skill files now? [y/N]: ")
		if err != nil {
			return err
		}
		if yes {
			return syncSkillFiles(ctx, skills.Options{}, false)
		}
	}

	return nil
}

func interactiveTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
